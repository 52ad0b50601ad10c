package main

import (
	"context"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return withLogger(context.Background(), log.New(io.Discard))
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 24
	cfg.Workers = 2
	return cfg
}

func TestSave(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		gestures []string
	}{
		{name: "mandelbrot", modify: func(*Config) {}},
		{name: "newton", modify: func(c *Config) { c.Fractal = "newton" }},
		{name: "supersampled", modify: func(c *Config) { c.Samples = 2 }},
		{name: "readout", modify: func(c *Config) { c.Readout = true }},
		{name: "gestures", modify: func(*Config) {}, gestures: []string{"zoom:-40@0.25,0", "pan:0.1,0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.modify(&cfg)
			name := filepath.Join(t.TempDir(), "out.png")

			err := save(testContext(t), SaveOptions{Name: name, Config: cfg, Gestures: tt.gestures})
			if err != nil {
				t.Fatalf("save() error = %v", err)
			}

			f, err := os.Open(name)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("png.Decode() error = %v", err)
			}
			if b := img.Bounds(); b.Dx() != cfg.Width || b.Dy() != cfg.Height {
				t.Errorf("image size %v, want %dx%d", b.Size(), cfg.Width, cfg.Height)
			}
		})
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		gestures []string
	}{
		{name: "gesture", modify: func(*Config) {}, gestures: []string{"pan:oops"}},
		{name: "fractal", modify: func(c *Config) { c.Fractal = "julia" }},
		{name: "size", modify: func(c *Config) { c.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.modify(&cfg)
			name := filepath.Join(t.TempDir(), "out.png")

			if err := save(testContext(t), SaveOptions{Name: name, Config: cfg, Gestures: tt.gestures}); err == nil {
				t.Fatal("save() succeeded")
			}
			if _, err := os.Stat(name); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("output file exists after a failed save: %v", err)
			}
		})
	}
}

func TestSaveCancelledRemovesFile(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	name := filepath.Join(t.TempDir(), "out.png")
	err := save(ctx, SaveOptions{Name: name, Config: smallConfig()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("save() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(name); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output file exists after a cancelled save: %v", err)
	}
}

func TestRenderCommandFlagsOverrideConfig(t *testing.T) {
	cfg := smallConfig()
	name := filepath.Join(t.TempDir(), "cmd.png")

	cmd := newRenderCmd(&cfg)
	cmd.SetArgs([]string{"-o", name, "--width", "16", "--fractal", "newton", "-g", "scale:0.5"})
	if err := cmd.ExecuteContext(testContext(t)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	conf, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if conf.Width != 16 || conf.Height != cfg.Height {
		t.Errorf("image size %dx%d, want 16x%d", conf.Width, conf.Height, cfg.Height)
	}
	if cfg.Width != 32 {
		t.Errorf("flag changed the shared config width to %d", cfg.Width)
	}
}
