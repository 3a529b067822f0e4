package glitch

import (
	"context"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// all planes
const planeMask = 0xffffffff

// X11Capturer grabs the root window of an X server's default screen
type X11Capturer struct {
	// Display to connect to, "" means $DISPLAY
	Display string
}

// Capture implements Capturer
func (c *X11Capturer) Capture(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	X, err := xgb.NewConnDisplay(c.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}
	defer X.Close()

	screen := xproto.Setup(X).DefaultScreen(X)
	width, height := int(screen.WidthInPixels), int(screen.HeightInPixels)

	Logger().Info("capturing screen", "width", width, "height", height, "depth", screen.RootDepth)

	reply, err := xproto.GetImage(
		X,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(screen.Root),
		0, 0,
		screen.WidthInPixels, screen.HeightInPixels,
		planeMask,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return frameFromZPixmap(reply.Data, width, height, int(reply.Depth))
}

// frameFromZPixmap wraps raw ZPixmap data, which we only understand at 32
// bits per pixel.
func frameFromZPixmap(data []byte, width, height, depth int) (*Frame, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("screen has no pixels (%dx%d)", width, height)
	}
	stride := len(data) / height
	if stride < width*bpp {
		return nil, fmt.Errorf("%w: %d bytes per row for %d pixels (depth %d)", ErrUnsupportedDepth, stride, width, depth)
	}

	return &Frame{
		Width:  width,
		Height: height,
		Stride: stride,
		Depth:  depth,
		Pix:    data[:stride*height],
	}, nil
}

// FileCapturer reads an image file as though it were the screen
type FileCapturer struct {
	Path string
}

// Capture implements Capturer
func (c *FileCapturer) Capture(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := LoadImage(c.Path)
	if err != nil {
		return nil, err
	}

	f := FrameFromImage(img)
	Logger().Info("loaded frame", "path", c.Path, "width", f.Width, "height", f.Height)
	return f, nil
}

// ConvertFrame repacks a captured frame into format. The result is a new
// frame whose buffer starts zeroed, so layouts narrower than 32 bits leave
// the tail of the buffer black. FormatBGRA returns raw itself.
func ConvertFrame(raw *Frame, format Format) (*Frame, error) {
	if format == FormatBGRA {
		return raw, nil
	}

	out := &Frame{
		Width:  raw.Width,
		Height: raw.Height,
		Stride: raw.Stride,
		Depth:  raw.Depth,
		Pix:    make([]byte, len(raw.Pix)),
	}
	if err := Convert(format, out.Pix, raw.Pix); err != nil {
		return nil, err
	}
	return out, nil
}
