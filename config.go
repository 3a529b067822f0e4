package glitch

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
)

// maxConfigSize bounds preset files, they're a handful of lines
const maxConfigSize = 1 << 20

// Config includes settings for every tool. A single preset file may carry
// sections for any of them; each tool only reads its own.
type Config struct {
	// where tools write their output
	OutDir string `yaml:"out_dir"`

	// run journal database file, "" disables journalling
	Journal string `yaml:"journal"`

	LineWeight LineWeightConfig `yaml:"lineweight"`
	Gradient   GradientConfig   `yaml:"gradient"`
	PixelSort  PixelSortConfig  `yaml:"pixelsort"`
	Screen     ScreenConfig     `yaml:"screen"`
}

// LineWeightConfig holds settings for the line-weight rasterizer
type LineWeightConfig struct {
	// lines per image width (& height)
	LineFreq int `yaml:"line_freq"`

	// in degrees
	Angle float64 `yaml:"angle"`

	// in pixels
	Length float64 `yaml:"length"`

	// hex colour, "" means use the source pixel
	LineColor string `yaml:"line_color"`

	// hex colour, "" means opaque black
	Background string `yaml:"background"`
}

// GradientConfig holds settings for the gradient grid painter
type GradientConfig struct {
	// "linear" or "radial"
	Type string `yaml:"type"`

	EdgeSmoothing bool `yaml:"edge_smoothing"`

	// re-roll the shape frequency after every cell
	RandomFreq bool `yaml:"random_freq"`

	// cells per image width (& height)
	ShapeFreq int `yaml:"shape_freq"`

	// scale the source by this before painting
	Scale float64 `yaml:"scale"`
}

// PixelSortConfig holds settings for the pixel sorter
type PixelSortConfig struct {
	// one of white, black, bright, dark
	Mode string `yaml:"mode"`

	WhiteValue  float64 `yaml:"white_value"`
	BlackValue  float64 `yaml:"black_value"`
	BrightValue float64 `yaml:"bright_value"`
	DarkValue   float64 `yaml:"dark_value"`

	Loops int `yaml:"loops"`

	// sort whole pixels by the mode metric rather than each channel alone
	SortPixels bool `yaml:"sort_pixels"`
}

// ScreenConfig holds settings for the screen glitch tools
type ScreenConfig struct {
	Safe bool `yaml:"safe"`

	// 0 picks a default (158 in safe mode, 1-200 otherwise)
	Glitches int `yaml:"glitches"`

	Enable  []string `yaml:"enable"`
	Disable []string `yaml:"disable"`

	// pixel format to convert captures to, "" picks one at random
	Format string `yaml:"format"`

	// how the glitched buffer is read back into an image (rgb | bgra)
	Layout string `yaml:"layout"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	return &Config{
		OutDir: "done",
		LineWeight: LineWeightConfig{
			LineFreq: 60,
			Angle:    90,
			Length:   60,
		},
		Gradient: GradientConfig{
			Type:          GradientLinear,
			EdgeSmoothing: true,
			RandomFreq:    true,
			ShapeFreq:     75,
			Scale:         1,
		},
		PixelSort: PixelSortConfig{
			Mode:        SortWhite.String(),
			WhiteValue:  100,
			BlackValue:  -1000000,
			BrightValue: 127,
			DarkValue:   223,
			Loops:       1,
		},
		Screen: ScreenConfig{
			Layout: string(LayoutRGB),
		},
	}
}

// LoadConfig reads a YAML preset from fpath on top of DefaultConfig.
// Keys missing from the file keep their defaults.
func LoadConfig(fpath string) (*Config, error) {
	fpath, err := ExpandPath(fpath)
	if err != nil {
		return nil, err
	}

	if ext := filepath.Ext(fpath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml extension, got %q", ext)
	}

	info, err := os.Stat(fpath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := ioutil.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fpath, err)
	}

	cfg.OutDir, err = ExpandPath(cfg.OutDir)
	if err != nil {
		return nil, err
	}
	cfg.Journal, err = ExpandPath(cfg.Journal)
	if err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail deep inside a tool.
func (c *Config) Validate() error {
	if c.LineWeight.LineFreq < 1 {
		return fmt.Errorf("lineweight: line_freq must be positive, got %d", c.LineWeight.LineFreq)
	}
	if c.Gradient.ShapeFreq < 1 {
		return fmt.Errorf("gradient: shape_freq must be positive, got %d", c.Gradient.ShapeFreq)
	}
	if c.Gradient.Type != GradientLinear && c.Gradient.Type != GradientRadial {
		return fmt.Errorf("gradient: type must be %q or %q, got %q", GradientLinear, GradientRadial, c.Gradient.Type)
	}
	if c.Gradient.Scale <= 0 {
		return fmt.Errorf("gradient: scale must be positive, got %v", c.Gradient.Scale)
	}
	if _, err := ParseSortMode(c.PixelSort.Mode); err != nil {
		return fmt.Errorf("pixelsort: %w", err)
	}
	if c.Screen.Glitches < 0 {
		return fmt.Errorf("screen: glitches cannot be negative, got %d", c.Screen.Glitches)
	}
	if c.Screen.Format != "" {
		if _, err := ParseFormat(c.Screen.Format); err != nil {
			return fmt.Errorf("screen: %w", err)
		}
	}
	if _, err := ParseLayout(c.Screen.Layout); err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	return homedir.Expand(p)
}
