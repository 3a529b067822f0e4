package glitch

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func lineWeightConfig() LineWeightConfig {
	return LineWeightConfig{LineFreq: 6, Angle: 90, Length: 60}
}

func TestLineWeightRender(t *testing.T) {
	lw, err := NewLineWeight(lineWeightConfig())
	require.Nil(t, err)

	out, err := lw.Render(solid(120, 120, color.White))
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 120), out.Bounds())

	// inside the (vertical) rectangle drawn at (40,40)
	r, g, b, a := out.At(40, 40).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})

	// no rectangle fits this close to the corner
	r, g, b, a = out.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0, 0, 0, 0xffff}, []uint32{r, g, b, a})
}

func TestLineWeightTransparentBackground(t *testing.T) {
	cfg := lineWeightConfig()
	cfg.Background = "#112233"
	cfg.LineColor = "ff0000"

	lw, err := NewLineWeight(cfg)
	require.Nil(t, err)

	out, err := lw.Render(solid(120, 120, color.White))
	require.Nil(t, err)

	_, _, _, a := out.At(1, 1).RGBA()
	assert.Equal(t, uint32(0), a)

	r, g, b, a := out.At(40, 40).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
}

func TestLineWeightBackgroundAlpha(t *testing.T) {
	cases := []struct {
		bg     string
		expect color.NRGBA
	}{
		{"#112233", color.NRGBA{0x11, 0x22, 0x33, 0}},
		{" #112233 ", color.NRGBA{0x11, 0x22, 0x33, 0}},
		{"112233", color.NRGBA{0x11, 0x22, 0x33, 0}},
		{"#112233ff", color.NRGBA{0x11, 0x22, 0x33, 0xff}},
		{" 11223380", color.NRGBA{0x11, 0x22, 0x33, 0x80}},
	}

	for _, tc := range cases {
		cfg := lineWeightConfig()
		cfg.Background = tc.bg

		lw, err := NewLineWeight(cfg)
		require.Nil(t, err, tc.bg)
		assert.Equal(t, tc.expect, lw.bg, tc.bg)
	}
}

func TestLineWeightOpaqueBackground(t *testing.T) {
	cfg := lineWeightConfig()
	cfg.Background = "#112233ff"

	lw, err := NewLineWeight(cfg)
	require.Nil(t, err)
	assert.Equal(t, color.NRGBA{0x11, 0x22, 0x33, 0xff}, lw.bg)
}

func TestLineWeightWeight(t *testing.T) {
	lw, err := NewLineWeight(lineWeightConfig())
	require.Nil(t, err)

	assert.Equal(t, 10.0, lw.weight(color.NRGBA{255, 255, 255, 255}, 120))
	assert.Equal(t, 0.0, lw.weight(color.NRGBA{0, 0, 0, 255}, 120))
	// 128 snaps to 136
	assert.Equal(t, 5.0, lw.weight(color.NRGBA{128, 128, 128, 255}, 120))
}

func TestLineWeightBadConfig(t *testing.T) {
	cfg := lineWeightConfig()
	cfg.LineFreq = 0
	_, err := NewLineWeight(cfg)
	assert.NotNil(t, err)

	cfg = lineWeightConfig()
	cfg.LineColor = "#12345"
	_, err = NewLineWeight(cfg)
	assert.ErrorIs(t, err, ErrBadColor)
}

func TestLineWeightParams(t *testing.T) {
	lw, err := NewLineWeight(lineWeightConfig())
	require.Nil(t, err)

	p := lw.Params()
	freq, _ := p.Int("line_freq")
	angle, _ := p.Float("angle")
	_, hasColor := p.Str("line_color")

	assert.Equal(t, 6, freq)
	assert.Equal(t, 90.0, angle)
	assert.False(t, hasColor)
}
