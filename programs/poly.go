package programs

import "math"

var (
	// Coeffs are the coefficients of z³ - 1, lowest degree first.
	Coeffs = [...]complex128{-1, 0, 0, 1}

	// DerivativeCoeffs are the coefficients of 3z², lowest degree first.
	DerivativeCoeffs = [...]complex128{0, 0, 3}

	// Roots are the cube roots of unity, the zeros of Coeffs.
	Roots = [...]complex128{
		complex(1, 0),
		complex(-0.5, math.Sqrt(3)/2),
		complex(-0.5, -math.Sqrt(3)/2),
	}
)

// EvalPoly evaluates the polynomial with the given coefficients at z using Horner's method.
// Coefficients are ordered by ascending degree.
func EvalPoly(z complex128, coeffs []complex128) complex128 {
	var v complex128
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = Mul(v, z) + coeffs[i]
	}
	return v
}
