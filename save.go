package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stewi1014/fractalview/renderer"
)

type SaveOptions struct {
	Name     string
	Config   Config
	Gestures []string
}

func newRenderCmd(cfg *Config) *cobra.Command {
	var (
		opts     SaveOptions
		fractal  string
		width    int
		height   int
		samples  int
		workers  int
		readout  bool
		gestures []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a fractal to a PNG file on the CPU",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Config = *cfg
			flags := cmd.Flags()
			if flags.Changed("fractal") {
				opts.Config.Fractal = fractal
			}
			if flags.Changed("width") {
				opts.Config.Width = width
			}
			if flags.Changed("height") {
				opts.Config.Height = height
			}
			if flags.Changed("samples") {
				opts.Config.Samples = samples
			}
			if flags.Changed("workers") {
				opts.Config.Workers = workers
			}
			if flags.Changed("readout") {
				opts.Config.Readout = readout
			}
			opts.Gestures = gestures

			return save(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Name, "out", "o", "fractal.png", "output PNG file")
	f.StringVar(&fractal, "fractal", "", "fractal type (mandelbrot, newton)")
	f.IntVar(&width, "width", 0, "image width in pixels")
	f.IntVar(&height, "height", 0, "image height in pixels")
	f.IntVar(&samples, "samples", 0, "supersampling grid size per pixel")
	f.IntVar(&workers, "workers", 0, "rows rendered concurrently (0 uses every CPU)")
	f.BoolVar(&readout, "readout", false, "draw the coordinate readout onto the image")
	f.StringArrayVarP(&gestures, "gesture", "g", nil, "pan:dx,dy | zoom:scroll@ax,ay | scale:factor@ax,ay, applied in order")

	return cmd
}

// save renders a single frame on the CPU and encodes it as PNG.
// The output file is removed if anything fails.
func save(ctx context.Context, opts SaveOptions) (err error) {
	logger := loggerFromContext(ctx)

	if err := opts.Config.Validate(); err != nil {
		return err
	}
	fractal, err := opts.Config.FractalType()
	if err != nil {
		return err
	}
	gestures, err := parseGestures(opts.Gestures)
	if err != nil {
		return err
	}

	state := renderer.NewState(
		renderer.WithLogger(logger),
		renderer.WithFractalType(fractal),
		renderer.WithScrollSensitivity(opts.Config.ScrollSensitivity),
	)
	for _, g := range gestures {
		g(state)
	}

	file, err := os.Create(opts.Name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(file.Name())
		}
	}()

	cpu := renderer.NewCPU(
		opts.Config.Width, opts.Config.Height,
		renderer.WithSamples(opts.Config.Samples),
		renderer.WithWorkers(opts.Config.Workers),
	)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer CatchPanicToContext(cancel)
		reportProgress(ctx, logger, "rendering", time.Second, cpu.Progress)
	}()

	p := newProgress(logger)
	logger.Info("rendering",
		"fractal", fractal,
		"size", fmt.Sprintf("%dx%d", opts.Config.Width, opts.Config.Height),
		"samples", opts.Config.Samples,
	)
	renderErr := state.Frame(ctx, cpu)
	cancel(renderErr)
	<-done
	if renderErr != nil {
		return fmt.Errorf("render: %w", context.Cause(ctx))
	}
	p.done("rendered", "fractal", fractal)

	img := cpu.Image()
	if opts.Config.Readout {
		DrawReadout(img, readoutLines(fractal, state.Transform()))
	}

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode %s: %w", file.Name(), err)
	}

	logger.Info("saved", "file", file.Name())
	return nil
}
