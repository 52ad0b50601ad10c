// Package renderer drives a fractal backend from a single-writer view state.
//
// Gestures update the State; Frame then reselects the kernel if the fractal
// type changed, publishes a fresh FrameParameters snapshot if the transform
// changed, and dispatches the kernel. The published snapshot is a copy, so a
// backend never observes a transform that is being mutated.
package renderer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/view"
)

// Backend executes fractal kernels over a pixel grid.
type Backend interface {
	// SelectKernel makes p the kernel used by subsequent dispatches.
	SelectKernel(p programs.Program) error

	// Publish replaces the parameters read by subsequent dispatches.
	Publish(params programs.FrameParameters) error

	// Dispatch runs the selected kernel once for every output pixel.
	Dispatch(ctx context.Context) error
}

// State is the view state of one session. It is not safe for concurrent use.
type State struct {
	transform   view.Transform
	fractal     programs.FractalType
	sensitivity float64

	paramsDirty bool
	kernelDirty bool

	logger *log.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used for kernel and parameter changes.
func WithLogger(l *log.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScrollSensitivity overrides view.ScrollSensitivity.
func WithScrollSensitivity(sensitivity float64) Option {
	return func(s *State) {
		s.sensitivity = sensitivity
	}
}

// WithFractalType sets the initial fractal type.
func WithFractalType(t programs.FractalType) Option {
	return func(s *State) {
		s.fractal = t
	}
}

// NewState returns a State at the initial transform. The first Frame selects
// the kernel and publishes the parameters.
func NewState(opts ...Option) *State {
	s := &State{
		transform:   view.Initial(),
		fractal:     programs.Mandelbrot,
		sensitivity: view.ScrollSensitivity,
		paramsDirty: true,
		kernelDirty: true,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transform returns a snapshot of the current transform.
func (s *State) Transform() view.Transform {
	return s.transform
}

// FractalType returns the active fractal type.
func (s *State) FractalType() programs.FractalType {
	return s.fractal
}

// Dirty reports whether the next Frame will publish new parameters or select a new kernel.
func (s *State) Dirty() bool {
	return s.paramsDirty || s.kernelDirty
}

// Pan translates the view by a normalised displacement.
func (s *State) Pan(d mgl64.Vec2) {
	s.transform = s.transform.Pan(d)
	s.paramsDirty = true
}

// Zoom converts a scroll amount into a zoom around anchor.
func (s *State) Zoom(scroll float64, anchor mgl64.Vec2) {
	s.ZoomBy(view.ScrollZoomFactor(scroll, s.sensitivity), anchor)
}

// ZoomBy scales the view by factor around anchor.
func (s *State) ZoomBy(factor float64, anchor mgl64.Vec2) {
	s.transform = s.transform.Zoom(factor, anchor)
	s.paramsDirty = true
}

// SetFractalType changes the active fractal. It reports whether the type changed.
func (s *State) SetFractalType(t programs.FractalType) bool {
	if t == s.fractal {
		return false
	}
	s.fractal = t
	s.kernelDirty = true
	return true
}

// Parameters packs the current transform for publishing.
func (s *State) Parameters() programs.FrameParameters {
	return programs.Pack(s.transform.Mat3())
}

// Sync selects the kernel and publishes the parameters on b when they changed.
// A failed step stays dirty and is retried by the next call.
func (s *State) Sync(b Backend) error {
	if s.kernelDirty {
		p, err := programs.Get(s.fractal)
		if err != nil {
			return err
		}
		if err := b.SelectKernel(p); err != nil {
			return fmt.Errorf("select %v kernel: %w", s.fractal, err)
		}
		s.kernelDirty = false
		s.logger.Debug("selected kernel", "fractal", s.fractal)
	}

	if s.paramsDirty {
		if err := b.Publish(s.Parameters()); err != nil {
			return fmt.Errorf("publish frame parameters: %w", err)
		}
		s.paramsDirty = false
		s.logger.Debug("published frame parameters", "span", s.transform.Span())
	}

	return nil
}

// Frame syncs b and dispatches the kernel once.
func (s *State) Frame(ctx context.Context, b Backend) error {
	if err := s.Sync(b); err != nil {
		return err
	}
	return b.Dispatch(ctx)
}
