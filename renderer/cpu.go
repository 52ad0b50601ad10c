package renderer

import (
	"context"
	"errors"
	"image"
	"runtime"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/view"
)

var (
	ErrNoKernel     = errors.New("no kernel selected")
	ErrNotPublished = errors.New("no frame parameters published")
)

// CPU runs kernels on the CPU, one goroutine per row, writing into an RGBA image.
type CPU struct {
	img     *image.RGBA
	samples int
	workers int

	program   programs.Program
	params    programs.FrameParameters
	selected  bool
	published bool

	rows atomic.Int64
}

// CPUOption configures a CPU backend.
type CPUOption func(*CPU)

// WithSamples sets the supersampling grid size; n gives n×n samples per pixel.
func WithSamples(n int) CPUOption {
	return func(c *CPU) {
		if n > 0 {
			c.samples = n
		}
	}
}

// WithWorkers limits the number of rows rendered concurrently.
func WithWorkers(n int) CPUOption {
	return func(c *CPU) {
		if n > 0 {
			c.workers = n
		}
	}
}

// NewCPU returns a CPU backend rendering width×height pixels.
func NewCPU(width, height int, opts ...CPUOption) *CPU {
	c := &CPU{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		samples: 1,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Backend = (*CPU)(nil)

func (c *CPU) SelectKernel(p programs.Program) error {
	if p.GetPixel == nil {
		return programs.ErrNoCPUImplementation
	}
	c.program = p
	c.selected = true
	return nil
}

func (c *CPU) Publish(params programs.FrameParameters) error {
	c.params = params
	c.published = true
	return nil
}

// Dispatch renders every pixel of the image. It stops early when ctx is done.
func (c *CPU) Dispatch(ctx context.Context) error {
	if !c.selected {
		return ErrNoKernel
	}
	if !c.published {
		return ErrNotPublished
	}

	c.rows.Store(0)
	transform := view.FromMat3(c.params.Transform())
	pixel := c.program.GetPixel
	bounds := c.img.Bounds()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if gctx.Err() != nil {
			break
		}
		y := y
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c.img.SetRGBA(x, y, programs.RGBA(c.sample(transform, pixel, x, y)))
			}
			c.rows.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// sample averages the kernel over an n×n grid inside the pixel at (x, y).
func (c *CPU) sample(t view.Transform, pixel programs.PixelFunc, x, y int) mgl32.Vec3 {
	bounds := c.img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	n := c.samples

	var sum mgl32.Vec3
	for sy := 0; sy < n; sy++ {
		for sx := 0; sx < n; sx++ {
			px := float64(x-bounds.Min.X) + (float64(sx)+0.5)/float64(n)
			py := float64(y-bounds.Min.Y) + (float64(sy)+0.5)/float64(n)
			ndc := mgl64.Vec2{2*px/w - 1, 2*py/h - 1}
			sum = sum.Add(pixel(t.Complex(ndc)))
		}
	}
	return sum.Mul(1 / float32(n*n))
}

// Image returns the render target. It is only consistent after Dispatch returns.
func (c *CPU) Image() *image.RGBA {
	return c.img
}

// Progress returns the fraction of rows finished by the current dispatch.
// It is safe to call from any goroutine.
func (c *CPU) Progress() float64 {
	h := c.img.Bounds().Dy()
	if h == 0 {
		return 1
	}
	return float64(c.rows.Load()) / float64(h)
}
