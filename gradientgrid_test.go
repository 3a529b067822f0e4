package glitch

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientConfig() GradientConfig {
	return GradientConfig{Type: GradientLinear, EdgeSmoothing: true, ShapeFreq: 10, Scale: 1}
}

func TestGradientGridFixedCells(t *testing.T) {
	g, err := NewGradientGrid(gradientConfig(), rand.New(rand.NewSource(1)))
	require.Nil(t, err)

	cells := g.cells(100, 50)

	// both edges are included: 11 columns of 11 rows
	assert.Equal(t, 121, len(cells))
	for _, c := range cells {
		assert.Equal(t, 20, c.w)
		assert.Equal(t, 10, c.h)
	}
	assert.Equal(t, cell{x: 100, y: 50, w: 20, h: 10}, cells[120])
}

func TestGradientGridRandomCells(t *testing.T) {
	cfg := gradientConfig()
	cfg.RandomFreq = true
	cfg.ShapeFreq = 75

	g, err := NewGradientGrid(cfg, rand.New(rand.NewSource(1)))
	require.Nil(t, err)

	cells := g.cells(300, 200)
	require.True(t, len(cells) > 1)

	// first cell uses the configured frequency, the rest a re-rolled one
	assert.Equal(t, cell{x: 0, y: 0, w: 8, h: 4}, cells[0])
	for _, c := range cells[1:] {
		assert.True(t, c.w >= 300/74*2 && c.w <= 300/25*2, "%+v", c)
	}
}

func TestGradientGridDeterministic(t *testing.T) {
	for _, kind := range []string{GradientLinear, GradientRadial} {
		cfg := gradientConfig()
		cfg.Type = kind
		cfg.RandomFreq = true
		cfg.ShapeFreq = 30

		src := gradientImage(40, 30)

		a, err := NewGradientGrid(cfg, rand.New(rand.NewSource(5)))
		require.Nil(t, err)
		b, err := NewGradientGrid(cfg, rand.New(rand.NewSource(5)))
		require.Nil(t, err)

		outA, err := a.Render(src)
		require.Nil(t, err)
		outB, err := b.Render(src)
		require.Nil(t, err)

		assert.Equal(t, image.Rect(0, 0, 40, 30), outA.Bounds(), kind)
		assert.Equal(t, outA, outB, kind)
	}
}

func TestGradientGridScale(t *testing.T) {
	cfg := gradientConfig()
	cfg.Scale = 0.5

	g, err := NewGradientGrid(cfg, rand.New(rand.NewSource(2)))
	require.Nil(t, err)

	out, err := g.Render(gradientImage(40, 30))
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 15), out.Bounds())
}

func TestGradientGridBadConfig(t *testing.T) {
	cfg := gradientConfig()
	cfg.ShapeFreq = 0
	_, err := NewGradientGrid(cfg, rand.New(rand.NewSource(1)))
	assert.NotNil(t, err)

	cfg = gradientConfig()
	cfg.Type = "spiral"
	_, err = NewGradientGrid(cfg, rand.New(rand.NewSource(1)))
	assert.NotNil(t, err)
}

func TestLerp(t *testing.T) {
	a := color.NRGBA{0, 100, 200, 255}
	b := color.NRGBA{100, 100, 0, 255}

	assert.Equal(t, color.NRGBA{50, 100, 100, 255}, lerp(a, b, 0.5))
	// past the end clamps
	assert.Equal(t, color.NRGBA{255, 100, 0, 255}, lerp(a, b, 4))
}

func TestGradientGridPair(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}

	c := cell{x: 20, y: 20, w: 20, h: 10}

	// corners of c, plus the points smoothing samples from
	sampler := func(top, bottom color.NRGBA) func(x, y int) color.NRGBA {
		return func(x, y int) color.NRGBA {
			switch {
			case x == 20 && y == 20:
				return top
			case x == 40 && y == 30:
				return bottom
			case x == 18 && y == 10:
				return red
			case x == 19 && y == 10:
				return blue
			}
			return color.NRGBA{128, 128, 128, 255}
		}
	}

	cases := []struct {
		name      string
		kind      string
		smoothing bool
		top       color.NRGBA
		bottom    color.NRGBA
		c1, c2    color.NRGBA
	}{
		{"linear smoothed", GradientLinear, true, white, black, red, white},
		{"radial smoothed", GradientRadial, true, white, black, blue, white},
		{"smoothing off", GradientLinear, false, white, black, white, black},
		{"small drop", GradientLinear, true, color.NRGBA{105, 105, 105, 255}, color.NRGBA{100, 100, 100, 255}, color.NRGBA{105, 105, 105, 255}, color.NRGBA{100, 100, 100, 255}},
		{"brightening", GradientRadial, true, black, white, black, white},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := gradientConfig()
			cfg.Type = tc.kind
			cfg.EdgeSmoothing = tc.smoothing

			g, err := NewGradientGrid(cfg, rand.New(rand.NewSource(1)))
			require.Nil(t, err)

			c1, c2 := g.pair(sampler(tc.top, tc.bottom), c)
			assert.Equal(t, tc.c1, c1)
			assert.Equal(t, tc.c2, c2)
		})
	}
}

func TestGradientGridShadowsLargestFirst(t *testing.T) {
	for _, kind := range []string{GradientLinear, GradientRadial} {
		cfg := gradientConfig()
		cfg.Type = kind
		cfg.RandomFreq = true
		cfg.ShapeFreq = 30

		g, err := NewGradientGrid(cfg, rand.New(rand.NewSource(3)))
		require.Nil(t, err)

		shadows, gradients := []cell{}, []cell{}
		g.trace = func(shadow bool, c cell) {
			if shadow {
				require.Empty(t, gradients, "shadow drawn after a gradient")
				shadows = append(shadows, c)
			} else {
				gradients = append(gradients, c)
			}
		}

		_, err = g.Render(gradientImage(60, 40))
		require.Nil(t, err)

		require.True(t, len(gradients) >= 10, kind)
		assert.Equal(t, len(gradients)/10, len(shadows), kind)
		assert.Equal(t, gradients[:len(shadows)], shadows, kind)

		for i := 1; i < len(gradients); i++ {
			assert.True(t, gradients[i-1].size() >= gradients[i].size(), kind)
		}
	}
}
