package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// NewtonIterations is the fixed number of Newton steps taken per point.
	NewtonIterations = 32

	// RootTolerance is the squared distance at which z counts as having reached a root.
	RootTolerance = 1e-6
)

//go:embed shaders/newton.frag
var newtonFragment string

// NewtonResult is the outcome of iterating a single starting point.
type NewtonResult struct {
	// Z is the final iterate.
	Z complex128

	// Root is the index into Roots that Z converged to, or -1.
	Root int

	// Steps is the first step after which z was within RootTolerance of Root.
	// It is NewtonIterations when Root is -1.
	Steps int
}

// NewtonStep performs a single Newton-Raphson step for z³ - 1.
//
// A zero derivative leaves z unchanged (see Inv).
func NewtonStep(z complex128) complex128 {
	return z - Mul(EvalPoly(z, Coeffs[:]), Inv(EvalPoly(z, DerivativeCoeffs[:])))
}

// NewtonIterate runs NewtonIterations steps from z.
// The iteration count is fixed; convergence is only recorded, never used to stop early.
func NewtonIterate(z complex128) NewtonResult {
	if !finite(z) {
		return NewtonResult{Z: z, Root: -1, Steps: NewtonIterations}
	}

	steps := NewtonIterations
	for i := 0; i < NewtonIterations; i++ {
		z = NewtonStep(z)
		if steps == NewtonIterations && NearestRoot(z) >= 0 {
			steps = i + 1
		}
	}

	root := NearestRoot(z)
	if root < 0 {
		steps = NewtonIterations
	}

	return NewtonResult{Z: z, Root: root, Steps: steps}
}

// NearestRoot returns the index of the root within RootTolerance of z, or -1.
func NearestRoot(z complex128) int {
	for i, r := range Roots {
		if Abs2(z-r) < RootTolerance {
			return i
		}
	}
	return -1
}

func newtonPixel(z complex128) mgl32.Vec3 {
	return RootColour(NewtonIterate(z))
}
