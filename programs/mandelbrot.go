package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MandelbrotIterations is the iteration budget of the escape-time test.
	MandelbrotIterations = 256

	// EscapeRadius2 is the squared magnitude past which a point has escaped.
	EscapeRadius2 = 4.0
)

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

// MandelbrotEscape runs the escape-time iteration z = z² + c starting from z = c.
//
// It returns 0 when z did not escape within MandelbrotIterations, and
// otherwise 1 - i/MandelbrotIterations where i is the number of iterations
// consumed before escaping. Non-finite c returns 0.
func MandelbrotEscape(c complex128) float64 {
	if !finite(c) {
		return 0
	}

	z := c
	for i := 0; i < MandelbrotIterations; i++ {
		if Abs2(z) > EscapeRadius2 {
			return 1 - float64(i)/MandelbrotIterations
		}
		z = Mul(z, z) + c
	}

	return 0
}

func mandelbrotPixel(c complex128) mgl32.Vec3 {
	return EscapeColour(MandelbrotEscape(c))
}
