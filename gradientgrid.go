package glitch

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"sort"

	"github.com/fogleman/gg"
)

const (
	// Gradient types
	GradientLinear = "linear"
	GradientRadial = "radial"

	// the lowest shape frequency a re-roll can land on
	minRandomFreq = 25

	// shadows are 20% opaque
	shadowAlpha = 51

	// brightness drop between corners that triggers edge smoothing
	smoothingThreshold = 10
)

// cell is a single gradient in the grid
type cell struct {
	x, y, w, h int
}

func (c cell) size() int {
	return c.w * c.h
}

// GradientGrid paints a grid of noisy gradients sampled from a source
// image, with drop shadows under the largest ones.
type GradientGrid struct {
	cfg GradientConfig
	rng *rand.Rand

	// called before each shadow & gradient is drawn
	trace func(shadow bool, c cell)
}

// NewGradientGrid returns a painter drawing its noise from rng.
func NewGradientGrid(cfg GradientConfig, rng *rand.Rand) (*GradientGrid, error) {
	if cfg.ShapeFreq < 1 {
		return nil, fmt.Errorf("shape frequency must be positive, got %d", cfg.ShapeFreq)
	}
	if cfg.Type != GradientLinear && cfg.Type != GradientRadial {
		return nil, fmt.Errorf("unknown gradient type %q", cfg.Type)
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return &GradientGrid{cfg: cfg, rng: rng}, nil
}

// Params implements Renderer
func (g *GradientGrid) Params() *Params {
	p := NewParams()
	p.SetString("type", g.cfg.Type)
	p.SetBool("edge_smoothing", g.cfg.EdgeSmoothing)
	p.SetBool("random_freq", g.cfg.RandomFreq)
	p.SetInt("shape_freq", g.cfg.ShapeFreq)
	p.SetFloat("scale", g.cfg.Scale)
	return p
}

// Render implements Renderer
func (g *GradientGrid) Render(src image.Image) (image.Image, error) {
	img := ToNRGBA(ScaleTo(src, g.cfg.Scale))
	width, height := img.Rect.Dx(), img.Rect.Dy()

	Logger().Info("gradient grid", "width", width, "height", height, "type", g.cfg.Type)

	at := func(x, y int) color.NRGBA {
		if x >= 0 && x < width && y >= 0 && y < height {
			c := img.NRGBAAt(x, y)
			c.A = 255
			return c
		}
		return color.NRGBA{A: 255}
	}

	ctx := gg.NewContext(width, height)
	ctx.SetColor(at(1, 1))
	ctx.Clear()

	cells := g.cells(width, height)

	// largest 10% get shadows
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].size() > cells[j].size()
	})
	large := cells[:len(cells)/10]

	Logger().Info("drawing gradients", "gradients", len(cells), "shadows", len(large))

	for _, c := range large {
		g.traceDraw(true, c)
		g.drawShadow(ctx, c, at(c.x, c.y))
	}

	for _, c := range cells {
		g.traceDraw(false, c)
		c1, c2 := g.pair(at, c)
		if g.cfg.Type == GradientLinear {
			g.drawLinear(ctx, c, c1, c2)
		} else {
			g.drawRadial(ctx, c, c1, c2)
		}
	}

	return ctx.Image(), nil
}

func (g *GradientGrid) traceDraw(shadow bool, c cell) {
	if g.trace != nil {
		g.trace(shadow, c)
	}
}

// pair picks the two colours a cell blends between: its top left & bottom
// right corners, unless edge smoothing is on & the cell darkens by more
// than smoothingThreshold, in which case it blends from a point above &
// left of the cell into its corner colour.
func (g *GradientGrid) pair(at func(x, y int) color.NRGBA, c cell) (color.NRGBA, color.NRGBA) {
	c1 := at(c.x, c.y)
	c2 := at(c.x+c.w, c.y+c.h)
	if !g.cfg.EdgeSmoothing || Brightness(c1)-Brightness(c2) <= smoothingThreshold {
		return c1, c2
	}

	if g.cfg.Type == GradientLinear {
		return at(c.x-c.w/10, c.y-c.h), c1
	}
	return at(c.x-c.w/20, c.y-c.h), c1
}

// cells lays out the grid. Columns step by the initial frequency, each
// column's rows step by whatever the frequency was when the column began &
// (optionally) the frequency is re-rolled after every cell.
func (g *GradientGrid) cells(width, height int) []cell {
	freq := g.cfg.ShapeFreq

	stepX := width / freq
	if stepX < 1 {
		stepX = 1
	}

	cells := []cell{}
	for x := 0; x <= width; x += stepX {
		stepY := height / freq
		if stepY < 1 {
			stepY = 1
		}

		for y := 0; y <= height; y += stepY {
			w := width / freq * 2
			h := height / freq * 2
			if w < 1 {
				w = 1
			}
			if h < 1 {
				h = 1
			}
			cells = append(cells, cell{x: x, y: y, w: w, h: h})

			if g.cfg.RandomFreq {
				freq = int(uniform(g.rng, minRandomFreq, float64(g.cfg.ShapeFreq)))
				if freq < 1 {
					freq = 1
				}
			}
		}
	}
	return cells
}

func (g *GradientGrid) drawShadow(ctx *gg.Context, c cell, col color.NRGBA) {
	ctx.SetRGBA255(int(col.R), int(col.G), int(col.B), shadowAlpha)

	if g.cfg.Type == GradientLinear {
		y := float64(c.y+c.h+1) + 0.5
		ctx.SetLineWidth(1)
		ctx.DrawLine(float64(c.x+1), y, float64(c.x+c.w+1), y)
		ctx.Stroke()
		return
	}

	ctx.DrawCircle(float64(c.x+1), float64(c.y+1), float64(c.w))
	ctx.Fill()
}

// lerp between c1 & c2 at t, clamped per channel
func lerp(c1, c2 color.NRGBA, t float64) color.NRGBA {
	ch := func(a, b uint8) uint8 {
		return Clamp255(int(float64(a) + (float64(b)-float64(a))*t))
	}
	return color.NRGBA{R: ch(c1.R, c2.R), G: ch(c1.G, c2.G), B: ch(c1.B, c2.B), A: 255}
}

// drawLinear fills the cell column by column, each column a noisy step
// from c1 toward (and usually past) c2.
func (g *GradientGrid) drawLinear(ctx *gg.Context, c cell, c1, c2 color.NRGBA) {
	xEnd := c.x + c.w
	if xEnd > ctx.Width() {
		xEnd = ctx.Width()
	}
	yEnd := c.y + c.h
	if yEnd > ctx.Height() {
		yEnd = ctx.Height()
	}

	for i := c.x; i < xEnd; i++ {
		inter := float64(i-c.x) / float64(c.w)
		r := uniform(g.rng, 0, 8)

		ctx.SetColor(lerp(c1, c2, inter*r))
		ctx.DrawRectangle(float64(i), float64(c.y), 1, float64(yEnd-c.y+1))
		ctx.Fill()
	}
}

// drawRadial stacks shrinking circles on the cell's corner.
func (g *GradientGrid) drawRadial(ctx *gg.Context, c cell, c1, c2 color.NRGBA) {
	for i := c.w; i > 0; i-- {
		inter := float64(i) / float64(c.w)
		r := uniform(g.rng, 0.1, 2)

		ctx.SetColor(lerp(c1, c2, inter*r))
		ctx.DrawCircle(float64(c.x), float64(c.y), float64(i))
		ctx.Fill()
	}
}
