package glitch

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// ParseHex reads a colour given as "#RRGGBB", "RRGGBB" or "#RRGGBBAA".
// Six digit colours are opaque.
func ParseHex(s string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	b, err := hex.DecodeString(raw)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// Brightness is the luma of c (ITU-R 601 weights) in [0, 255].
func Brightness(c color.Color) float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return luma(n.R, n.G, n.B)
}

func luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Quantize rounds v to the nearest multiple of step.
func Quantize(v, step float64) float64 {
	return step * math.Floor(v/step+0.5)
}

// Clamp255 clamps v into a byte.
func Clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
