package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/voidshard/glitch"
)

const desc = `Sorts spans of pixels along every column, then every row, of an image.

A span begins at the first pixel past a threshold & runs for as long as pixels stay past it.
Modes:
  white  (0) spans of pixels whose r*g*b is above --white-value
  black  (1) spans of pixels whose r*g*b is below --black-value
  bright (2) spans of pixels brighter than --bright-value
  dark   (3) spans of pixels darker than --dark-value`

// options are the command line flags
type options struct {
	Input string `arg:"" help:"input image"`

	OutDir string `short:"o" help:"output directory (default: done)"`
	Config string `short:"c" help:"yaml preset file"`

	Mode        string  `short:"m" default:"white" help:"sort mode: white, black, bright, dark (or 0-3)"`
	WhiteValue  float64 `default:"100" help:"white threshold (r*g*b)"`
	BlackValue  float64 `default:"-1000000" help:"black threshold (r*g*b)"`
	BrightValue float64 `default:"127" help:"bright threshold (brightness)"`
	DarkValue   float64 `default:"223" help:"dark threshold (brightness)"`
	Loops       int     `default:"1" help:"number of sorting passes"`
	SortPixels  bool    `help:"move whole pixels (by mode metric) instead of sorting each channel"`

	// overwrite existing output (default: no)
	Overwrite bool `help:"overwrite the output file if it exists"`

	Journal string            `help:"record this run in the given journal database"`
	Props   map[string]string `short:"p" help:"tag the journalled run with key=value pairs"`
	Verbose bool              `short:"v" help:"debug logging"`
}

var cli options

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("pixelsort"),
		kong.Description(desc),
	)

	glitch.SetLogger(glitch.NewTextLogger(os.Stderr, cli.Verbose))

	cfg, err := loadConfig(givenFlags(ctx))
	ctx.FatalIfErrorf(err)

	ps, err := glitch.NewPixelSorter(cfg.PixelSort)
	ctx.FatalIfErrorf(err)

	name := strings.TrimSuffix(filepath.Base(cli.Input), filepath.Ext(cli.Input))
	out := filepath.Join(cfg.OutDir, fmt.Sprintf("%s_%d.png", name, int(ps.Mode())))

	if glitch.FileExists(out) && !cli.Overwrite {
		fmt.Printf("skipping %s exists\n", out)
		return
	}

	err = glitch.RenderFile(ps, cli.Input, out)
	ctx.FatalIfErrorf(err)

	err = glitch.Remember(cfg.Journal, &glitch.Run{
		Tool:   "pixelsort",
		Input:  cli.Input,
		Output: out,
		Params: ps.Params().Merge(glitch.ParseParams(cli.Props)),
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
	if given["mode"] {
		cfg.PixelSort.Mode = cli.Mode
	}
	if given["white-value"] {
		cfg.PixelSort.WhiteValue = cli.WhiteValue
	}
	if given["black-value"] {
		cfg.PixelSort.BlackValue = cli.BlackValue
	}
	if given["bright-value"] {
		cfg.PixelSort.BrightValue = cli.BrightValue
	}
	if given["dark-value"] {
		cfg.PixelSort.DarkValue = cli.DarkValue
	}
	if given["loops"] {
		cfg.PixelSort.Loops = cli.Loops
	}
	if cli.SortPixels {
		cfg.PixelSort.SortPixels = true
	}

	return cfg, cfg.Validate()
}
