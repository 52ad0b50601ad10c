package main

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/view"
)

// Config holds the settings shared by the viewer and the image export.
type Config struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Fractal string `toml:"fractal"`

	// ScrollSensitivity is the scroll amount, in pixels, that doubles the view span.
	ScrollSensitivity float64 `toml:"scroll_sensitivity"`

	// ScrollLinePixels converts one wheel notch into a scroll amount.
	ScrollLinePixels float64 `toml:"scroll_line_pixels"`

	Samples int  `toml:"samples"`
	Workers int  `toml:"workers"`
	Readout bool `toml:"readout"`
}

func DefaultConfig() Config {
	return Config{
		Width:             1200,
		Height:            800,
		Fractal:           programs.Mandelbrot.String(),
		ScrollSensitivity: view.ScrollSensitivity,
		ScrollLinePixels:  10,
		Samples:           1,
	}
}

// LoadConfig reads a TOML file over DefaultConfig. An empty path returns the
// defaults. Keys in the file that Config does not know are returned so the
// caller can warn about them.
func LoadConfig(path string) (Config, []string, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, nil, fmt.Errorf("load config %s: %w", path, err)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, unknown, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.ScrollSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("scroll_sensitivity %v must be positive", c.ScrollSensitivity))
	}
	if c.Samples <= 0 {
		errs = append(errs, fmt.Errorf("samples %d must be positive", c.Samples))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", c.Workers))
	}
	if _, err := c.FractalType(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) FractalType() (programs.FractalType, error) {
	return programs.ParseFractalType(c.Fractal)
}
