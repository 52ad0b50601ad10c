// Package view maps screen-space pan and zoom gestures onto an affine
// transform from normalised device coordinates to the complex plane.
//
// Every operator composes on the right of the existing transform, so the
// newest gesture is applied first to screen coordinates. Callers must not
// reorder or reassociate compositions.
package view

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ReferenceWidth is the width of the initial view in world units.
	ReferenceWidth = 4.0

	// ScrollSensitivity is the scroll amount that changes the zoom factor by one.
	ScrollSensitivity = 40.0

	// MinZoomFactor bounds a single zoom step so the transform stays invertible.
	MinZoomFactor = 0.05
)

// Transform maps homogeneous normalised device coordinates to the plane.
type Transform struct {
	m mgl64.Mat3
}

// Initial returns the transform every session starts with: the view is
// scaled by 2 and centred on -0.25, so the whole Mandelbrot set is visible.
func Initial() Transform {
	return Transform{m: mgl64.Translate2D(-0.25, 0).Mul3(mgl64.Scale2D(2, 2))}
}

// FromMat3 wraps m. It is the caller's responsibility that m is invertible.
func FromMat3(m mgl64.Mat3) Transform {
	return Transform{m: m}
}

// Mat3 returns the matrix form of t.
func (t Transform) Mat3() mgl64.Mat3 {
	return t.m
}

// Pan translates the view by d, in normalised screen units where a drag
// across the full width of the viewport has length 1.
//
// Non-finite displacements leave t unchanged.
func (t Transform) Pan(d mgl64.Vec2) Transform {
	if !finiteVec(d) {
		return t
	}
	w := d.Mul(ReferenceWidth)
	return Transform{m: t.m.Mul3(mgl64.Translate2D(w.X(), w.Y()))}
}

// Zoom scales the view by factor around anchor, given in [-0.5, 0.5]².
// A factor above 1 widens the visible span (zooms out).
//
// The NDC point AnchorNDC(anchor) maps to the same plane point before and
// after the zoom. Factors below MinZoomFactor are clamped; non-finite
// factors or anchors leave t unchanged.
func (t Transform) Zoom(factor float64, anchor mgl64.Vec2) Transform {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || !finiteVec(anchor) {
		return t
	}
	if factor < MinZoomFactor {
		factor = MinZoomFactor
	}

	a := AnchorNDC(anchor)
	return Transform{m: t.m.
		Mul3(mgl64.Translate2D(a.X(), a.Y())).
		Mul3(mgl64.Scale2D(factor, factor)).
		Mul3(mgl64.Translate2D(-a.X(), -a.Y()))}
}

// MapPoint applies t to the normalised device coordinate p.
// The result keeps screen orientation; use ToComplex to read it as a complex number.
func (t Transform) MapPoint(p mgl64.Vec2) mgl64.Vec2 {
	return t.m.Mul3x1(mgl64.Vec3{p.X(), p.Y(), 1}).Vec2()
}

// Complex maps p and returns it as a point of the complex plane.
func (t Transform) Complex(p mgl64.Vec2) complex128 {
	return ToComplex(t.MapPoint(p))
}

// Readout formats the plane coordinate under the NDC point p.
func (t Transform) Readout(p mgl64.Vec2) string {
	z := t.Complex(p)
	return fmt.Sprintf("%.4f%+.4fi", noNegZero(real(z)), noNegZero(imag(z)))
}

// Span returns the width of the plane visible across the NDC range [-1, 1].
func (t Transform) Span() float64 {
	return 2 * math.Hypot(t.m.At(0, 0), t.m.At(1, 0))
}

// ToComplex converts a mapped point to a complex number. Screen y grows
// downwards and the imaginary axis grows upwards, so y is negated.
func ToComplex(p mgl64.Vec2) complex128 {
	return complex(p.X(), -p.Y())
}

// AnchorNDC returns the NDC point a zoom around anchor keeps fixed.
func AnchorNDC(anchor mgl64.Vec2) mgl64.Vec2 {
	return anchor.Mul(ReferenceWidth / 2)
}

// ZoomFactor converts a scroll amount into a zoom factor.
func ZoomFactor(scroll float64) float64 {
	return 1 + scroll/ScrollSensitivity
}

func noNegZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

func finiteVec(v mgl64.Vec2) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
