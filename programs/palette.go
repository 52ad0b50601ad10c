package programs

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// NullColour is used for points with no defined kernel result.
	NullColour = mgl32.Vec3{0.1, 0.1, 0.1}

	// InteriorColour is used for points that never escaped.
	InteriorColour = mgl32.Vec3{0, 0, 0}

	// RootColours are indexed like Roots.
	RootColours = [...]mgl32.Vec3{
		{0.90, 0.30, 0.25},
		{0.30, 0.80, 0.35},
		{0.25, 0.45, 0.90},
	}

	escapePhase = mgl32.Vec3{0.0, 0.10, 0.20}
)

const escapeFrequency = 4

// EscapeColour maps a Mandelbrot escape value to a colour with a cosine palette.
func EscapeColour(v float64) mgl32.Vec3 {
	if v <= 0 || math.IsNaN(v) {
		return InteriorColour
	}

	t := 1 - v
	var c mgl32.Vec3
	for i := range c {
		c[i] = float32(0.5 + 0.5*math.Cos(2*math.Pi*(escapeFrequency*t+float64(escapePhase[i]))))
	}
	return c
}

// RootColour shades the colour of the converged root by how many steps it took.
func RootColour(r NewtonResult) mgl32.Vec3 {
	if r.Root < 0 || r.Root >= len(RootColours) {
		return NullColour
	}

	shade := 1 - 0.025*float32(r.Steps)
	if shade < 0.2 {
		shade = 0.2
	}
	return RootColours[r.Root].Mul(shade)
}

// RGBA converts a colour with components in [0, 1] to an opaque color.RGBA.
func RGBA(c mgl32.Vec3) color.RGBA {
	return color.RGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: 0xff,
	}
}

func channel(v float32) uint8 {
	switch {
	case math.IsNaN(float64(v)) || v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
