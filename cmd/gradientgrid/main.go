package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/voidshard/glitch"
)

const desc = `Paints a grid of noisy linear or radial gradients sampled from an image, with drop shadows under the largest cells.`

// options are the command line flags
type options struct {
	Input string `arg:"" help:"input image"`

	OutDir string `short:"o" help:"output directory (default: done)"`
	Config string `short:"c" help:"yaml preset file"`

	Type        string  `short:"t" default:"linear" help:"gradient type: linear or radial"`
	ShapeFreq   int     `default:"75" help:"cells across the image width (and height)"`
	FixedFreq   bool    `help:"keep the shape frequency fixed rather than re-rolling it per cell"`
	NoSmoothing bool    `help:"disable edge smoothing"`
	Scale       float64 `default:"1" help:"scale the image by this before painting"`

	Seed int64 `short:"s" help:"random seed (0 picks one)"`

	Journal string            `help:"record this run in the given journal database"`
	Props   map[string]string `short:"p" help:"tag the journalled run with key=value pairs"`
	Verbose bool              `short:"v" help:"debug logging"`
}

var cli options

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("gradientgrid"),
		kong.Description(desc),
	)

	glitch.SetLogger(glitch.NewTextLogger(os.Stderr, cli.Verbose))

	cfg, err := loadConfig(givenFlags(ctx))
	ctx.FatalIfErrorf(err)

	rng, seed := glitch.NewRand(cli.Seed)
	glitch.Logger().Info("seeded", "seed", seed)

	g, err := glitch.NewGradientGrid(cfg.Gradient, rng)
	ctx.FatalIfErrorf(err)

	name := strings.TrimSuffix(filepath.Base(cli.Input), filepath.Ext(cli.Input))
	out := filepath.Join(cfg.OutDir, fmt.Sprintf("%s_with_shadow.png", name))

	err = glitch.RenderFile(g, cli.Input, out)
	ctx.FatalIfErrorf(err)

	err = glitch.Remember(cfg.Journal, &glitch.Run{
		Tool:   "gradientgrid",
		Input:  cli.Input,
		Output: out,
		Seed:   seed,
		Params: g.Params().Merge(glitch.ParseParams(cli.Props)),
	})
	ctx.FatalIfErrorf(err)

	fmt.Printf("wrote %s (seed %d)\n", out, seed)
}

// givenFlags names the flags set on the command line
func givenFlags(kctx *kong.Context) map[string]bool {
	given := map[string]bool{}
	for _, p := range kctx.Path {
		if p.Flag != nil {
			given[p.Flag.Name] = true
		}
	}
	return given
}

// loadConfig reads the preset (if any) & lays the given flags over it.
func loadConfig(given map[string]bool) (*glitch.Config, error) {
	cfg := glitch.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = glitch.LoadConfig(cli.Config)
		if err != nil {
			return nil, err
		}
	}

	if given["out-dir"] {
		cfg.OutDir = cli.OutDir
	}
	if given["journal"] {
		cfg.Journal = cli.Journal
	}
	if given["type"] {
		cfg.Gradient.Type = strings.ToLower(cli.Type)
	}
	if given["shape-freq"] {
		cfg.Gradient.ShapeFreq = cli.ShapeFreq
	}
	if cli.FixedFreq {
		cfg.Gradient.RandomFreq = false
	}
	if cli.NoSmoothing {
		cfg.Gradient.EdgeSmoothing = false
	}
	if given["scale"] {
		cfg.Gradient.Scale = cli.Scale
	}

	return cfg, cfg.Validate()
}
