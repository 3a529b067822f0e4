package glitch

import (
	"context"
	"math/rand"
)

const (
	// glitch count in safe mode
	safeGlitches = 158
	// upper bound of the random glitch count otherwise
	maxGlitches = 200

	// chance a glitch is a simple (banded) one rather than a complex one
	simpleChance = 0.75
	// chance a simple glitch is narrower / shorter than the whole screen
	partialChance = 0.1

	// classic mode draws its simple effect from this many slots
	// (fewer in safe mode), only the first two do anything
	classicSlots     = 10
	classicSafeSlots = 8
)

// Region is a rectangle of a frame, in pixels. Width may run past the end
// of a row, in which case the glitch spills onto the next one.
type Region struct {
	X, Y, W, H int
}

// Stats counts what a Manipulate call did
type Stats struct {
	// by method name
	Applied map[string]int

	// glitches that picked nothing to do
	Skipped int
}

// Total number of glitches applied
func (s *Stats) Total() int {
	n := 0
	for _, v := range s.Applied {
		n += v
	}
	return n
}

// Glitcher corrupts frame buffers with randomly placed glitch effects
type Glitcher struct {
	methods *MethodSet
	rng     *rand.Rand
	safe    bool
	classic bool
}

// NewGlitcher returns a glitcher using the methods enabled by cfg.
func NewGlitcher(cfg ScreenConfig, rng *rand.Rand) (*Glitcher, error) {
	methods := AllMethods()
	if err := methods.Configure(cfg.Enable, cfg.Disable); err != nil {
		return nil, err
	}
	return &Glitcher{methods: methods, rng: rng, safe: cfg.Safe}, nil
}

// NewClassicGlitcher returns a glitcher behaving like the first screenfvck:
// only swap-channels & invert-colors exist and complex glitches do nothing.
func NewClassicGlitcher(safe bool, rng *rand.Rand) *Glitcher {
	return &Glitcher{
		methods: NewMethodSet(SwapChannels, InvertColors),
		rng:     rng,
		safe:    safe,
		classic: true,
	}
}

// Methods enabled on this glitcher
func (g *Glitcher) Methods() *MethodSet {
	return g.methods
}

// Count returns n if positive, otherwise the default number of glitches:
// fixed in safe mode and random otherwise.
func (g *Glitcher) Count(n int) int {
	if n > 0 {
		return n
	}
	if g.safe && !g.classic {
		return safeGlitches
	}
	return randint(g.rng, 1, maxGlitches)
}

// Manipulate applies n glitches to f. It stops early with ctx's error if
// ctx is cancelled, leaving f partly glitched.
func (g *Glitcher) Manipulate(ctx context.Context, f *Frame, n int) (*Stats, error) {
	stats := &Stats{Applied: map[string]int{}}
	if f.Width < 1 || f.Height < 1 {
		return stats, ctx.Err()
	}

	Logger().Info("applying glitch effects", "glitches", n)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			Logger().Info("glitching interrupted", "applied", stats.Total(), "of", n)
			return stats, err
		}

		var (
			m  Method
			ok bool
		)

		if g.rng.Float64() < simpleChance {
			m, ok = g.applySimple(f, g.simpleRegion(f))
		} else {
			m, ok = g.applyComplex(f, g.complexRegion(f))
		}

		if ok {
			stats.Applied[m.String()]++
		} else {
			stats.Skipped++
		}

		if i%10 == 0 {
			Logger().Info("progress", "applied", i+1, "of", n)
		}
	}

	Logger().Info("glitch effects complete", "applied", stats.Total(), "skipped", stats.Skipped)
	return stats, nil
}

// simpleRegion is usually a band from a random point to the end of the
// screen, sometimes narrower or shorter.
func (g *Glitcher) simpleRegion(f *Frame) Region {
	r := Region{
		X: randint(g.rng, 0, f.Width-1),
		Y: randint(g.rng, 0, f.Height-1),
		W: f.Width,
		H: f.Height,
	}
	if g.rng.Float64() < partialChance {
		r.W = randint(g.rng, 1, f.Width-r.X)
	}
	if g.rng.Float64() < partialChance {
		r.H = randint(g.rng, 1, f.Height-r.Y)
	}
	return r
}

// complexRegion is a random rectangle that fits on the screen
func (g *Glitcher) complexRegion(f *Frame) Region {
	r := Region{
		X: randint(g.rng, 0, f.Width-1),
		Y: randint(g.rng, 0, f.Height-1),
	}
	r.W = randint(g.rng, 1, f.Width-r.X)
	r.H = randint(g.rng, 1, f.Height-r.Y)
	return r
}

func (g *Glitcher) applySimple(f *Frame, r Region) (Method, bool) {
	if g.classic {
		slots := classicSlots
		if g.safe {
			slots = classicSafeSlots
		}
		m := Method(g.rng.Intn(slots))
		if m != SwapChannels && m != InvertColors {
			return m, false
		}
		g.Apply(f, r, m)
		return m, true
	}

	available := g.methods.Simple()
	if len(available) == 0 {
		return 0, false
	}
	m := available[g.rng.Intn(len(available))]
	g.Apply(f, r, m)
	return m, true
}

func (g *Glitcher) applyComplex(f *Frame, r Region) (Method, bool) {
	if g.classic {
		Logger().Debug("complex glitches unavailable in classic mode")
		return 0, false
	}

	available := g.methods.Complex()
	if len(available) == 0 {
		return 0, false
	}
	m := available[g.rng.Intn(len(available))]
	g.Apply(f, r, m)
	return m, true
}

// Apply method m to region r of f, row by row.
func (g *Glitcher) Apply(f *Frame, r Region, m Method) {
	Logger().Debug("glitch", "method", m.String(), "x", r.X, "y", r.Y, "w", r.W, "h", r.H)

	last := r.Y + r.H
	if last > f.Height {
		last = f.Height
	}

	for row := r.Y; row < last; row++ {
		offset := row*f.Stride + r.X*bpp
		if offset >= len(f.Pix) {
			break
		}
		end := offset + r.W*bpp
		if end > len(f.Pix) {
			end = len(f.Pix)
		}
		m.Apply(f.Pix, offset, end, row, g.rng)
	}
}
