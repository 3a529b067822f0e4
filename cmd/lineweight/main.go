package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/voidshard/glitch"
)

const desc = `Redraws an image as a grid of rotated rectangles whose weight follows the brightness of the source.`

// options are the command line flags
type options struct {
	Input string `arg:"" help:"input image"`

	// where to write, the output keeps the input's name
	OutDir string `short:"o" help:"output directory (default: done)"`

	// yaml preset, flags given here win over it
	Config string `short:"c" help:"yaml preset file"`

	LineFreq  int     `default:"60" help:"lines across the image width (and height)"`
	Angle     float64 `default:"90" help:"line angle in degrees"`
	Length    float64 `default:"60" help:"line length in px"`
	LineColor string  `help:"line color in hex (e.g. #FF0000), defaults to the source pixel"`
	BgColor   string  `help:"background color in hex (e.g. #FFFFFF gives a transparent white, #FFFFFFFF an opaque one)"`

	Journal string            `help:"record this run in the given journal database"`
	Props   map[string]string `short:"p" help:"tag the journalled run with key=value pairs"`
	Verbose bool              `short:"v" help:"debug logging"`
}

var cli options

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("lineweight"),
		kong.Description(desc),
	)

	glitch.SetLogger(glitch.NewTextLogger(os.Stderr, cli.Verbose))

	cfg, err := loadConfig(givenFlags(ctx))
	ctx.FatalIfErrorf(err)

	lw, err := glitch.NewLineWeight(cfg.LineWeight)
	ctx.FatalIfErrorf(err)

	base := strings.TrimSuffix(filepath.Base(cli.Input), filepath.Ext(cli.Input))
	out := filepath.Join(cfg.OutDir, base+".png")

	err = glitch.RenderFile(lw, cli.Input, out)
	ctx.FatalIfErrorf(err)

	err = glitch.Remember(cfg.Journal, &glitch.Run{
		Tool:   "lineweight",
		Input:  cli.Input,
		Output: out,
		Params: lw.Params().Merge(glitch.ParseParams(cli.Props)),
	})
	ctx.FatalIfErrorf(err)

	fmt.Printf("wrote %s\n", out)
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
	if given["line-freq"] {
		cfg.LineWeight.LineFreq = cli.LineFreq
	}
	if given["angle"] {
		cfg.LineWeight.Angle = cli.Angle
	}
	if given["length"] {
		cfg.LineWeight.Length = cli.Length
	}
	if cli.LineColor != "" {
		cfg.LineWeight.LineColor = cli.LineColor
	}
	if cli.BgColor != "" {
		cfg.LineWeight.Background = cli.BgColor
	}

	return cfg, cfg.Validate()
}
