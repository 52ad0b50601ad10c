package programs

import (
	"math"
	"math/cmplx"
)

// InvEpsilon is the squared magnitude below which Inv treats its argument as zero.
const InvEpsilon = 1e-20

// Mul returns the complex product a*b.
func Mul(a, b complex128) complex128 {
	return complex(
		real(a)*real(b)-imag(a)*imag(b),
		real(a)*imag(b)+imag(a)*real(b),
	)
}

// Abs2 returns the squared magnitude of a.
func Abs2(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}

// Inv returns 1/a, computed as conj(a)/Abs2(a).
//
// Inv returns 0 when a is too close to zero to invert or is not finite,
// so callers never see NaN or Inf from it.
func Inv(a complex128) complex128 {
	m := Abs2(a)
	if m < InvEpsilon || math.IsInf(m, 0) || math.IsNaN(m) {
		return 0
	}
	return complex(real(a)/m, -imag(a)/m)
}

func finite(z complex128) bool {
	return !cmplx.IsNaN(z) && !cmplx.IsInf(z)
}
