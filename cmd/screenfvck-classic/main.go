package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/glitch"
)

const desc = `The first generation screenfvck: captures the screen, swaps & inverts colour channels in random bands & saves the result as ScreenFvcked_<timestamp>.png in your home directory.`

var cli struct {
	Safe bool `help:"use safe mode (fewer glitch types)"`

	Input   string `short:"i" help:"glitch this image instead of capturing the screen"`
	Display string `help:"X display to capture (default: $DISPLAY)"`
	OutDir  string `short:"o" help:"output directory (default: your home directory)"`

	Seed int64 `short:"s" help:"random seed (0 picks one)"`

	Journal string `help:"record this run in the given journal database"`
	Verbose bool   `short:"v" help:"debug logging"`
}

func main() {
	kctx := kong.Parse(
		&cli,
		kong.Name("screenfvck-classic"),
		kong.Description(desc),
	)

	glitch.SetLogger(glitch.NewTextLogger(os.Stderr, cli.Verbose))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outDir := cli.OutDir
	if outDir == "" {
		home, err := homedir.Dir()
		kctx.FatalIfErrorf(err)
		outDir = home
	}

	rng, seed := glitch.NewRand(cli.Seed)
	glitch.Logger().Info("seeded", "seed", seed)

	var capturer glitch.Capturer = &glitch.X11Capturer{Display: cli.Display}
	if cli.Input != "" {
		capturer = &glitch.FileCapturer{Path: cli.Input}
	}

	sf := glitch.NewClassicScreenFvck(cli.Safe, capturer, rng)

	img, _, err := sf.Run(ctx)
	// an interrupt after the run still means nothing is saved
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Println("operation cancelled by user")
		return
	}
	kctx.FatalIfErrorf(err)

	out := filepath.Join(outDir, glitch.OutputName(time.Now()))
	err = glitch.SavePNG(out, img)
	kctx.FatalIfErrorf(err)

	input := cli.Input
	if input == "" {
		input = "x11:" + cli.Display
	}
	err = glitch.Remember(cli.Journal, &glitch.Run{
		Tool:   "screenfvck-classic",
		Input:  input,
		Output: out,
		Seed:   seed,
		Params: sf.Params(),
	})
	kctx.FatalIfErrorf(err)

	fmt.Printf("glitched screenshot saved to %s (seed %d)\n", out, seed)
}
