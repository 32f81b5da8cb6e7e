package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OuterConfig is the envelope every config file uses; Def is decoded per Kind.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// RENDER_KIND is the only kind of config definition currently understood.
const RENDER_KIND = "render"

// Output formats.
const (
	PNG = "png"
	SVG = "svg"
)

// RenderConfig holds the knobs for drawing and writing the path image.
// Sizes are in typographic points and converted to pixels per Dpi, so that
// the same config renders proportionally at any resolution.
type RenderConfig struct {
	// Figure is the edge length of the square output image in inches.
	Figure float64 `yaml:"figure"`
	Dpi    float64 `yaml:"dpi"`
	// Seed for arrow placement jitter. Zero seeds from the clock.
	Seed   int64       `yaml:"seed"`
	Arrow  ArrowConfig `yaml:"arrow"`
	Fonts  FontConfig  `yaml:"fonts"`
	Path   PathConfig  `yaml:"path"`
	OutDir string      `yaml:"outdir"`
	// Formats lists the views to write, e.g. png and svg.
	Formats []string `yaml:"formats"`
}

// ArrowConfig bounds where along a segment its direction arrow is placed.
type ArrowConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type FontConfig struct {
	Title float64 `yaml:"title"`
	Label float64 `yaml:"label"`
	Mark  float64 `yaml:"mark"`
}

type PathConfig struct {
	LineWidth  float64 `yaml:"linewidth"`
	MarkerSize float64 `yaml:"markersize"`
}

// Default returns the config used when no file is given.
func Default() *RenderConfig {
	return &RenderConfig{
		Figure: 8,
		Dpi:    300,
		Arrow:  ArrowConfig{Min: 0.3, Max: 0.7},
		Fonts:  FontConfig{Title: 12, Label: 10, Mark: 12},
		Path:   PathConfig{LineWidth: 2, MarkerSize: 6},
		OutDir: ".",
		Formats: []string{
			PNG,
		},
	}
}

// Pixels converts a size in points to pixels at the configured resolution.
func (cfg *RenderConfig) Pixels(points float64) float64 {
	return points * cfg.Dpi / 72
}

// Size returns the edge length of the output image in pixels.
func (cfg *RenderConfig) Size() int {
	return int(cfg.Figure * cfg.Dpi)
}

// SeedOrNow returns the configured seed, or a clock based one if none was set.
func (cfg *RenderConfig) SeedOrNow() int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// Validate reports settings that would render nothing sensible.
func (cfg *RenderConfig) Validate() error {
	if cfg.Figure <= 0 || cfg.Dpi <= 0 {
		return fmt.Errorf("figure size and dpi must be positive, got %v in at %v dpi", cfg.Figure, cfg.Dpi)
	}
	if cfg.Arrow.Min < 0 || cfg.Arrow.Max > 1 || cfg.Arrow.Min > cfg.Arrow.Max {
		return fmt.Errorf("arrow bounds must satisfy 0 <= min <= max <= 1, got [%v, %v]", cfg.Arrow.Min, cfg.Arrow.Max)
	}
	if len(cfg.Formats) == 0 {
		return fmt.Errorf("no output formats configured")
	}
	for _, format := range cfg.Formats {
		if format != PNG && format != SVG {
			return fmt.Errorf("unknown output format %q", format)
		}
	}
	return nil
}

// FromYaml reads a render config, filling unset fields from Default.
// Viper only resolves the outer envelope; the definition is round-tripped
// through yaml so that it decodes onto the defaults with yaml tags.
// NOTE: viper lowercases keys, hence the lowercase yaml tags.
func FromYaml(path string) (*RenderConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outerConfig := &OuterConfig{}
	if err = vp.Unmarshal(outerConfig); err != nil {
		return nil, err
	}
	if outerConfig.Kind != RENDER_KIND {
		return nil, fmt.Errorf("%s: unsupported config kind %q", path, outerConfig.Kind)
	}

	cfg := Default()
	if outerConfig.Def == nil {
		return cfg, nil
	}

	var spec []byte
	if spec, err = yaml.Marshal(outerConfig.Def); err != nil {
		return nil, err
	}

	if err = yaml.Unmarshal(spec, cfg); err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
