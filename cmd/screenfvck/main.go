package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/glitch"
)

const desc = `Glitch screen capture tool.

Grabs the X11 root window (or --input image), repacks the raw pixels into a random
packed pixel format, smashes the bytes with randomly placed glitch effects & saves
the result as ScreenFvcked_<timestamp>.png in your home directory.

Every method may also be toggled with --enable-<method> / --disable-<method>
(dashes or underscores), eg. --enable-random-noise --enable-scanline_effect.
Naming any method to enable restricts the run to the enabled methods only.

Simple methods:  swap-channels invert-colors channel-shift channel-separation pixel-sorting
                 random-noise channel-wrap extreme-contrast color-reduction channel-zeroing
Complex methods: pixel-sort-effect data-bending noise-injection channel-manipulation
                 block-transfer scanline-effect`

// options are the command line flags
type options struct {
	Safe     bool     `help:"use safe mode (158 glitches, no 16 bit greyscale formats)"`
	Glitches int      `short:"g" help:"number of glitches to apply (default: 158 in safe mode, random 1-200 otherwise)"`
	Enable   []string `help:"only use these glitch methods"`
	Disable  []string `help:"never use these glitch methods"`

	Format string `short:"f" help:"pixel format to repack the capture to (default: random)"`
	Layout string `default:"rgb" help:"read the glitched buffer back as packed rgb (classic look) or bgra"`

	Input   string `short:"i" help:"glitch this image instead of capturing the screen"`
	Display string `help:"X display to capture (default: $DISPLAY)"`
	OutDir  string `short:"o" help:"output directory (default: your home directory)"`
	Config  string `short:"c" help:"yaml preset file"`

	Seed int64 `short:"s" help:"random seed (0 picks one)"`

	List bool `help:"list glitch methods & pixel formats then exit"`

	Journal string            `help:"record this run in the given journal database"`
	Props   map[string]string `short:"p" help:"tag the journalled run with key=value pairs"`
	Verbose bool              `short:"v" help:"debug logging"`
}

var cli options

func main() {
	parser, err := kong.New(
		&cli,
		kong.Name("screenfvck"),
		kong.Description(desc),
	)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(normalizeArgs(os.Args[1:]))
	parser.FatalIfErrorf(err)

	if cli.List {
		list()
		return
	}

	glitch.SetLogger(glitch.NewTextLogger(os.Stderr, cli.Verbose))

	cfg, err := loadConfig(givenFlags(kctx))
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rng, seed := glitch.NewRand(cli.Seed)
	glitch.Logger().Info("seeded", "seed", seed)

	var capturer glitch.Capturer = &glitch.X11Capturer{Display: cli.Display}
	if cli.Input != "" {
		capturer = &glitch.FileCapturer{Path: cli.Input}
	}

	sf, err := glitch.NewScreenFvck(cfg.Screen, capturer, rng)
	parser.FatalIfErrorf(err)

	if len(cfg.Screen.Enable) > 0 || len(cfg.Screen.Disable) > 0 {
		printEnabled(sf.Glitcher().Methods())
	}

	img, stats, err := sf.Run(ctx)
	// an interrupt after the run still means nothing is saved
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Println("operation cancelled by user")
		return
	}
	parser.FatalIfErrorf(err)

	out := filepath.Join(cfg.OutDir, glitch.OutputName(time.Now()))
	err = glitch.SavePNG(out, img)
	parser.FatalIfErrorf(err)

	input := cli.Input
	if input == "" {
		input = "x11:" + cli.Display
	}
	params := sf.Params()
	params.SetInt("glitches", stats.Total()+stats.Skipped)
	err = glitch.Remember(cfg.Journal, &glitch.Run{
		Tool:   "screenfvck",
		Input:  input,
		Output: out,
		Seed:   seed,
		Params: params.Merge(glitch.ParseParams(cli.Props)),
	})
	parser.FatalIfErrorf(err)

	fmt.Printf("glitched screenshot saved to %s (seed %d)\n", out, seed)
}

// normalizeArgs rewrites --enable-<method> & --disable-<method> into
// --enable=<method> & --disable=<method>, accepting underscores too.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		for _, flag := range []string{"--enable-", "--disable-"} {
			if strings.HasPrefix(a, flag) {
				method := strings.ReplaceAll(strings.TrimPrefix(a, flag), "_", "-")
				a = strings.TrimSuffix(flag, "-") + "=" + method
				break
			}
		}
		out = append(out, a)
	}
	return out
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
// Output goes to the home directory unless the preset or --out-dir says
// otherwise.
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
	} else if cfg.OutDir == glitch.DefaultConfig().OutDir {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		cfg.OutDir = home
	}
	if given["journal"] {
		cfg.Journal = cli.Journal
	}
	if cli.Safe {
		cfg.Screen.Safe = true
	}
	if given["glitches"] {
		cfg.Screen.Glitches = cli.Glitches
	}
	if len(cli.Enable) > 0 {
		cfg.Screen.Enable = cli.Enable
	}
	if len(cli.Disable) > 0 {
		cfg.Screen.Disable = append(cfg.Screen.Disable, cli.Disable...)
	}
	if given["format"] {
		cfg.Screen.Format = cli.Format
	}
	if given["layout"] {
		cfg.Screen.Layout = cli.Layout
	}

	return cfg, cfg.Validate()
}

func printEnabled(methods *glitch.MethodSet) {
	fmt.Println("enabled simple glitch methods:")
	for _, m := range methods.Simple() {
		fmt.Printf("  - %s\n", m)
	}
	fmt.Println("enabled complex glitch methods:")
	for _, m := range methods.Complex() {
		fmt.Printf("  - %s\n", m)
	}
}

func list() {
	printEnabled(glitch.AllMethods())
	fmt.Println("pixel formats:")
	for _, f := range glitch.Formats() {
		fmt.Printf("  - %s\n", f)
	}
}
