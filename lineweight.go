package glitch

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
)

// quantStep is the brightness step line weights snap to
const quantStep = 17

// LineWeight draws a grid of rotated rectangles over a background, each as
// thick as the source image is bright underneath it.
type LineWeight struct {
	cfg LineWeightConfig

	lineColor *color.NRGBA
	bg        color.NRGBA
}

// NewLineWeight checks cfg & returns a rasterizer.
func NewLineWeight(cfg LineWeightConfig) (*LineWeight, error) {
	if cfg.LineFreq < 1 {
		return nil, fmt.Errorf("line frequency must be positive, got %d", cfg.LineFreq)
	}

	lw := &LineWeight{cfg: cfg, bg: color.NRGBA{A: 255}}

	if cfg.LineColor != "" {
		c, err := ParseHex(cfg.LineColor)
		if err != nil {
			return nil, err
		}
		lw.lineColor = &c
	}

	if cfg.Background != "" {
		c, err := ParseHex(cfg.Background)
		if err != nil {
			return nil, err
		}
		// a plain #RRGGBB background is laid down fully transparent,
		// give the alpha explicitly (#RRGGBBAA) for anything else
		if len(strings.TrimPrefix(strings.TrimSpace(cfg.Background), "#")) == 6 {
			c.A = 0
		}
		lw.bg = c
	}

	return lw, nil
}

// Params implements Renderer
func (lw *LineWeight) Params() *Params {
	p := NewParams()
	p.SetInt("line_freq", lw.cfg.LineFreq)
	p.SetFloat("angle", lw.cfg.Angle)
	p.SetFloat("length", lw.cfg.Length)
	if lw.cfg.LineColor != "" {
		p.SetString("line_color", lw.cfg.LineColor)
	}
	if lw.cfg.Background != "" {
		p.SetString("background", lw.cfg.Background)
	}
	return p
}

// Render implements Renderer
func (lw *LineWeight) Render(src image.Image) (image.Image, error) {
	in := ToNRGBA(src)
	width, height := in.Rect.Dx(), in.Rect.Dy()

	stepX := width / lw.cfg.LineFreq
	stepY := height / lw.cfg.LineFreq
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	Logger().Info("line weight",
		"width", width, "height", height,
		"spacing", float64(width)/float64(lw.cfg.LineFreq), "length", lw.cfg.Length,
	)

	ctx := gg.NewContext(width, height)
	ctx.SetColor(lw.bg)
	ctx.Clear()

	drawn := 0
	for x := 0; x < width; x += stepX {
		for y := 0; y < height; y += stepY {
			px := in.NRGBAAt(x, y)
			px.A = 255

			c := px
			if lw.lineColor != nil {
				c = *lw.lineColor
			}

			if lw.drawRect(ctx, float64(x), float64(y), lw.weight(px, width), c) {
				drawn++
			}
		}
	}

	Logger().Debug("line weight done", "shapes", drawn)
	return ctx.Image(), nil
}

// weight maps the quantized brightness of px onto [0, width/(2*freq)]
func (lw *LineWeight) weight(px color.NRGBA, width int) float64 {
	q := Quantize(luma(px.R, px.G, px.B), quantStep)
	if q > 255 {
		q = 255
	}
	maxW := float64(width) / float64(lw.cfg.LineFreq*2)
	return math.Trunc(q / 255 * maxW)
}

// corners of a length x weight rectangle centred on (x,y) rotated by angle
func (lw *LineWeight) corners(x, y, weight float64) [4]gg.Point {
	rad := gg.Radians(lw.cfg.Angle)
	hl := lw.cfg.Length / 2
	hw := weight / 2
	cos, sin := math.Cos(rad), math.Sin(rad)

	return [4]gg.Point{
		{X: x + hl*cos - hw*sin, Y: y + hl*sin + hw*cos},
		{X: x - hl*cos - hw*sin, Y: y - hl*sin + hw*cos},
		{X: x - hl*cos + hw*sin, Y: y - hl*sin - hw*cos},
		{X: x + hl*cos + hw*sin, Y: y + hl*sin - hw*cos},
	}
}

// drawRect draws the rectangle for one cell if it lies wholly on the canvas
func (lw *LineWeight) drawRect(ctx *gg.Context, x, y, weight float64, c color.Color) bool {
	pts := lw.corners(x, y, weight)

	w, h := float64(ctx.Width()), float64(ctx.Height())
	for _, p := range pts {
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			return false
		}
	}

	ctx.SetColor(c)
	if weight < 1 {
		// degenerate rectangle, still leaves a hairline
		ctx.SetLineWidth(1)
		ctx.DrawLine(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		ctx.Stroke()
		return true
	}

	ctx.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
	ctx.Fill()
	return true
}
