package glitch

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
)

// Format is a packed pixel layout a captured BGRA buffer can be squeezed into
type Format int

const (
	FormatBGRA Format = iota
	FormatARGB
	Format5551
	Format1555Rev
	Format8888
	Format8888Rev
	Format1010102
	Format2101010Rev
	FormatUShort
	FormatShort
)

// safeFormats is how many formats (from the start of the list) safe mode
// picks between
const safeFormats = 8

var formatNames = []string{
	"bgra",
	"argb",
	"5551",
	"1555-rev",
	"8888",
	"8888-rev",
	"1010102",
	"2101010-rev",
	"ushort",
	"short",
}

// Formats returns every format, in order
func Formats() []Format {
	out := make([]Format, len(formatNames))
	for i := range formatNames {
		out[i] = Format(i)
	}
	return out
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat reads a format name (dashes or underscores)
func ParseFormat(s string) (Format, error) {
	s = strings.ReplaceAll(strings.ToLower(s), "_", "-")
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// RandomFormat picks a format, avoiding the 16 bit greyscale ones in safe mode.
func RandomFormat(rng *rand.Rand, safe bool) Format {
	n := len(formatNames)
	if safe {
		n = safeFormats
	}
	return Format(rng.Intn(n))
}

// Convert packs every 4 byte BGRA pixel of raw into dst using format f.
//
// 16 bit formats write pixel i/4 at dst[i/2:], so only the first half of dst
// changes. FormatBGRA copies raw as is. Values are little endian.
func Convert(f Format, dst, raw []byte) error {
	if len(dst) < len(raw) {
		return fmt.Errorf("destination buffer too small: %d < %d", len(dst), len(raw))
	}

	le := binary.LittleEndian
	n := len(raw) &^ 3

	switch f {
	case FormatBGRA:
		copy(dst, raw)
	case FormatARGB:
		for i := 0; i < n; i += 4 {
			b, g, r, a := raw[i], raw[i+1], raw[i+2], raw[i+3]
			dst[i], dst[i+1], dst[i+2], dst[i+3] = a, r, g, b
		}
	case Format5551:
		for i := 0; i < n; i += 4 {
			r := uint16(raw[i+2] >> 3)
			g := uint16(raw[i+1] >> 3)
			b := uint16(raw[i] >> 3)
			a := uint16(0)
			if raw[i+3] > 127 {
				a = 1
			}
			le.PutUint16(dst[i/2:], r<<11|g<<6|b<<1|a)
		}
	case Format1555Rev:
		for i := 0; i < n; i += 4 {
			a := uint16(raw[i+3] >> 7)
			b := uint16(raw[i] >> 3)
			g := uint16(raw[i+1] >> 3)
			r := uint16(raw[i+2] >> 3)
			le.PutUint16(dst[i/2:], a<<15|b<<10|g<<5|r)
		}
	case Format8888:
		for i := 0; i < n; i += 4 {
			v := uint32(raw[i+3])<<24 | uint32(raw[i+2])<<16 | uint32(raw[i+1])<<8 | uint32(raw[i])
			le.PutUint32(dst[i:], v)
		}
	case Format8888Rev:
		for i := 0; i < n; i += 4 {
			v := uint32(raw[i])<<24 | uint32(raw[i+1])<<16 | uint32(raw[i+2])<<8 | uint32(raw[i+3])
			le.PutUint32(dst[i:], v)
		}
	case Format1010102:
		for i := 0; i < n; i += 4 {
			r := uint32(raw[i+2] >> 2)
			g := uint32(raw[i+1] >> 2)
			b := uint32(raw[i] >> 2)
			a := uint32(raw[i+3] >> 6)
			le.PutUint32(dst[i:], r<<22|g<<12|b<<2|a)
		}
	case Format2101010Rev:
		for i := 0; i < n; i += 4 {
			a := uint32(raw[i+3] >> 6)
			r := uint32(raw[i+2] >> 2)
			g := uint32(raw[i+1] >> 2)
			b := uint32(raw[i] >> 2)
			le.PutUint32(dst[i:], a<<30|r<<20|g<<10|b)
		}
	case FormatUShort:
		for i := 0; i < n; i += 4 {
			v := uint16((int(raw[i+2]) + int(raw[i+1]) + int(raw[i])) / 3)
			le.PutUint16(dst[i/2:], v<<8|v)
		}
	case FormatShort:
		for i := 0; i < n; i += 4 {
			v := int16((int(raw[i+2])+int(raw[i+1])+int(raw[i]))/3 - 128)
			le.PutUint16(dst[i/2:], uint16(v))
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}

	return nil
}
