package glitch

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameCapturer hands back a copy of a fixed frame
type frameCapturer struct {
	frame *Frame
}

func (c *frameCapturer) Capture(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.frame.Clone(), nil
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), 100, 255})
		}
	}
	return img
}

func TestScreenFvckRun(t *testing.T) {
	cfg := ScreenConfig{Glitches: 12, Format: "argb", Layout: "bgra"}
	capturer := &frameCapturer{FrameFromImage(gradientImage(24, 16))}

	sf, err := NewScreenFvck(cfg, capturer, testRand())
	require.Nil(t, err)

	img, stats, err := sf.Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, image.Rect(0, 0, 24, 16), img.Bounds())
	assert.Equal(t, 12, stats.Total())

	p := sf.Params()
	format, _ := p.Str("format")
	layout, _ := p.Str("layout")
	assert.Equal(t, "argb", format)
	assert.Equal(t, "bgra", layout)

	classic, _ := p.Bool("classic")
	assert.False(t, classic)

	on, ok := p.Bool("method.block-transfer")
	assert.True(t, ok)
	assert.True(t, on)
}

func TestScreenFvckRandomFormatSafe(t *testing.T) {
	capturer := &frameCapturer{FrameFromImage(gradientImage(8, 8))}

	sf, err := NewScreenFvck(ScreenConfig{Safe: true, Glitches: 1}, capturer, testRand())
	require.Nil(t, err)

	for i := 0; i < 30; i++ {
		_, _, err := sf.Run(context.Background())
		require.Nil(t, err)

		format, _ := sf.Params().Str("format")
		assert.NotEqual(t, "ushort", format)
		assert.NotEqual(t, "short", format)
	}
}

func TestScreenFvckBadConfig(t *testing.T) {
	capturer := &frameCapturer{NewFrame(2, 2)}

	_, err := NewScreenFvck(ScreenConfig{Format: "yuv"}, capturer, testRand())
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = NewScreenFvck(ScreenConfig{Layout: "cmyk"}, capturer, testRand())
	assert.NotNil(t, err)

	_, err = NewScreenFvck(ScreenConfig{Enable: []string{"melt"}}, capturer, testRand())
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestScreenFvckCancelled(t *testing.T) {
	capturer := &frameCapturer{NewFrame(2, 2)}
	sf := NewClassicScreenFvck(false, capturer, testRand())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := sf.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// interruptingCapturer returns its frame, then cancels the run
type interruptingCapturer struct {
	frame  *Frame
	cancel context.CancelFunc
}

func (c *interruptingCapturer) Capture(ctx context.Context) (*Frame, error) {
	defer c.cancel()
	return c.frame.Clone(), nil
}

func TestScreenFvckCancelledAfterCapture(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	capturer := &interruptingCapturer{frame: FrameFromImage(gradientImage(64, 64)), cancel: cancel}
	sf, err := NewScreenFvck(ScreenConfig{Glitches: 50, Format: "bgra"}, capturer, testRand())
	require.Nil(t, err)

	img, stats, err := sf.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, img)
	assert.Equal(t, 0, stats.Total())
}

func TestClassicScreenFvck(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "screen.png")
	require.Nil(t, SavePNG(fpath, gradientImage(16, 16)))

	sf := NewClassicScreenFvck(true, &FileCapturer{Path: fpath}, testRand())

	img, stats, err := sf.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	for name := range stats.Applied {
		assert.Contains(t, []string{"swap-channels", "invert-colors"}, name)
	}

	p := sf.Params()
	format, _ := p.Str("format")
	classic, _ := p.Bool("classic")
	assert.Equal(t, "bgra", format)
	assert.True(t, classic)
}

func TestOutputName(t *testing.T) {
	at := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "ScreenFvcked_2021-03-04_05-06-07.png", OutputName(at))
}
