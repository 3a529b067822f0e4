package glitch

import (
	"fmt"
	"image"
	"strings"
)

// bytes per pixel of a captured frame
const bpp = 4

// Layout says how a (glitched) frame buffer is read back into an image
type Layout string

const (
	// LayoutRGB reads the buffer as tightly packed 3 byte RGB pixels,
	// ignoring that it holds 4 byte pixels. Rows drift & colours rotate,
	// which is most of the look of a screenfvck.
	LayoutRGB Layout = "rgb"

	// LayoutBGRA reads the buffer as the BGRA rows it actually holds.
	LayoutBGRA Layout = "bgra"
)

// ParseLayout reads a layout name
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(s)) {
	case LayoutRGB, "":
		return LayoutRGB, nil
	case LayoutBGRA:
		return LayoutBGRA, nil
	}
	return "", fmt.Errorf("unknown layout %q (want rgb or bgra)", s)
}

// Frame is a raw 32 bit per pixel framebuffer, rows of B,G,R,A bytes.
type Frame struct {
	Width  int
	Height int

	// bytes per row, at least Width*4
	Stride int

	// bits of colour per pixel as reported by the source
	Depth int

	Pix []byte
}

// NewFrame returns a zeroed frame of w x h pixels
func NewFrame(w, h int) *Frame {
	stride := (w*bpp + 3) &^ 3
	return &Frame{
		Width:  w,
		Height: h,
		Stride: stride,
		Depth:  24,
		Pix:    make([]byte, stride*h),
	}
}

// FrameFromImage lays any image out as a BGRA frame
func FrameFromImage(img image.Image) *Frame {
	in := ToNRGBA(img)
	f := NewFrame(in.Rect.Dx(), in.Rect.Dy())

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			s := y*in.Stride + x*4
			d := y*f.Stride + x*bpp
			f.Pix[d] = in.Pix[s+2]
			f.Pix[d+1] = in.Pix[s+1]
			f.Pix[d+2] = in.Pix[s]
			f.Pix[d+3] = in.Pix[s+3]
		}
	}
	return f
}

// Clone returns a deep copy of f
func (f *Frame) Clone() *Frame {
	c := *f
	c.Pix = make([]byte, len(f.Pix))
	copy(c.Pix, f.Pix)
	return &c
}

// Image reads the frame back into an opaque image according to layout.
func (f *Frame) Image(layout Layout) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))

	switch layout {
	case LayoutBGRA:
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				s := y*f.Stride + x*bpp
				d := y*out.Stride + x*4
				if s+2 >= len(f.Pix) {
					continue
				}
				out.Pix[d] = f.Pix[s+2]
				out.Pix[d+1] = f.Pix[s+1]
				out.Pix[d+2] = f.Pix[s]
				out.Pix[d+3] = 255
			}
		}
	default:
		for k := 0; k < f.Width*f.Height; k++ {
			s := k * 3
			d := k * 4
			if s+2 < len(f.Pix) {
				out.Pix[d] = f.Pix[s]
				out.Pix[d+1] = f.Pix[s+1]
				out.Pix[d+2] = f.Pix[s+2]
			}
			out.Pix[d+3] = 255
		}
	}

	return out
}
