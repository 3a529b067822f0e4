package glitch

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"
)

// ScreenFvck captures a frame, repacks it into some pixel format, glitches
// the raw bytes & reads the wreckage back as an image.
type ScreenFvck struct {
	cfg      ScreenConfig
	capturer Capturer
	glitcher *Glitcher
	rng      *rand.Rand
	layout   Layout

	// forced format, nil picks one per run
	format *Format

	// the format the last run used
	used Format
}

// NewScreenFvck returns the full glitch tool reading frames from capturer
func NewScreenFvck(cfg ScreenConfig, capturer Capturer, rng *rand.Rand) (*ScreenFvck, error) {
	g, err := NewGlitcher(cfg, rng)
	if err != nil {
		return nil, err
	}

	layout, err := ParseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}

	s := &ScreenFvck{cfg: cfg, capturer: capturer, glitcher: g, rng: rng, layout: layout}
	if cfg.Format != "" {
		f, err := ParseFormat(cfg.Format)
		if err != nil {
			return nil, err
		}
		s.format = &f
	}
	return s, nil
}

// NewClassicScreenFvck returns the first generation tool: no pixel format
// games, two effects & the packed RGB read back.
func NewClassicScreenFvck(safe bool, capturer Capturer, rng *rand.Rand) *ScreenFvck {
	bgra := FormatBGRA
	return &ScreenFvck{
		cfg:      ScreenConfig{Safe: safe, Layout: string(LayoutRGB)},
		capturer: capturer,
		glitcher: NewClassicGlitcher(safe, rng),
		rng:      rng,
		layout:   LayoutRGB,
		format:   &bgra,
	}
}

// Glitcher used by this tool
func (s *ScreenFvck) Glitcher() *Glitcher {
	return s.glitcher
}

// Params reports the settings of the last run
func (s *ScreenFvck) Params() *Params {
	p := NewParams()
	p.SetBool("safe", s.cfg.Safe)
	p.SetBool("classic", s.glitcher.classic)
	p.SetString("format", s.used.String())
	p.SetString("layout", string(s.layout))
	for _, name := range s.glitcher.Methods().Names() {
		p.SetBool("method."+name, true)
	}
	return p
}

// Run captures, glitches & returns the resulting image. A cancelled ctx
// stops the run at the next glitch & no image is returned.
func (s *ScreenFvck) Run(ctx context.Context) (image.Image, *Stats, error) {
	raw, err := s.capturer.Capture(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.used = FormatBGRA
	if s.format != nil {
		s.used = *s.format
	} else {
		s.used = RandomFormat(s.rng, s.cfg.Safe)
	}
	Logger().Info("pixel format", "format", s.used.String())

	frame, err := ConvertFrame(raw, s.used)
	if err != nil {
		return nil, nil, fmt.Errorf("converting capture to %s: %w", s.used, err)
	}

	stats, err := s.glitcher.Manipulate(ctx, frame, s.glitcher.Count(s.cfg.Glitches))
	if err != nil {
		return nil, stats, err
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	return frame.Image(s.layout), stats, nil
}

// OutputName is the file name a screenfvck taken at t is saved under
func OutputName(t time.Time) string {
	return fmt.Sprintf("ScreenFvcked_%s.png", t.Format("2006-01-02_15-04-05"))
}
