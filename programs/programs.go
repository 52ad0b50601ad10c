package programs

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNoCPUImplementation = errors.New("fractal does not have a CPU implementation")
	ErrUnknownFractal      = errors.New("unknown fractal type")
)

// FractalType selects the active kernel.
type FractalType int

const (
	Mandelbrot FractalType = iota
	Newton

	numFractalTypes
)

// FractalTypes returns every fractal type in display order.
func FractalTypes() []FractalType {
	types := make([]FractalType, numFractalTypes)
	for i := range types {
		types[i] = FractalType(i)
	}
	return types
}

func (t FractalType) String() string {
	switch t {
	case Mandelbrot:
		return "Mandelbrot"
	case Newton:
		return "Newton"
	}
	return fmt.Sprintf("FractalType(%d)", int(t))
}

// ParseFractalType is the case-insensitive inverse of FractalType.String.
func ParseFractalType(s string) (FractalType, error) {
	for _, t := range FractalTypes() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFractal, s)
}

// Next returns the fractal type after t, wrapping around.
func (t FractalType) Next() FractalType {
	return (t + 1) % numFractalTypes
}

//go:embed shaders/default.vert
var defaultVertexShader string

//go:embed shaders/prelude.glsl
var fragmentPrelude string

const glslVersion = "#version 460 core\n"

// PixelFunc computes the colour of a single point of the complex plane.
type PixelFunc func(z complex128) mgl32.Vec3

// Program is a fractal kernel in both its GPU and CPU form.
type Program struct {
	Type           FractalType
	VertexShader   string
	FragmentShader string
	GetPixel       PixelFunc
}

func (p Program) Name() string {
	return p.Type.String()
}

// Pixel evaluates the CPU kernel at z.
func (p Program) Pixel(z complex128) (mgl32.Vec3, error) {
	if p.GetPixel == nil {
		return mgl32.Vec3{}, ErrNoCPUImplementation
	}
	return p.GetPixel(z), nil
}

var programs = [numFractalTypes]Program{
	Mandelbrot: {
		Type:           Mandelbrot,
		VertexShader:   glslVersion + defaultVertexShader,
		FragmentShader: fragmentSource(mandelbrotFragment),
		GetPixel:       mandelbrotPixel,
	},
	Newton: {
		Type:           Newton,
		VertexShader:   glslVersion + defaultVertexShader,
		FragmentShader: fragmentSource(newtonFragment),
		GetPixel:       newtonPixel,
	},
}

// Get returns the program for t.
func Get(t FractalType) (Program, error) {
	if t < 0 || t >= numFractalTypes {
		return Program{}, fmt.Errorf("%w: %d", ErrUnknownFractal, int(t))
	}
	return programs[t], nil
}

// fragmentSource prepends the version line, the shared constants and the
// complex arithmetic prelude to a fragment shader body.
func fragmentSource(body string) string {
	var b strings.Builder
	b.WriteString(glslVersion)
	b.WriteString(shaderConstants())
	b.WriteString(fragmentPrelude)
	b.WriteString(body)
	return b.String()
}

// shaderConstants renders the kernel constants as GLSL, so that the GPU and
// CPU kernels cannot drift apart.
func shaderConstants() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#define MANDELBROT_ITERATIONS %d\n", MandelbrotIterations)
	fmt.Fprintf(&b, "#define ESCAPE_RADIUS2 %s\n", glslFloat(EscapeRadius2))
	fmt.Fprintf(&b, "#define NEWTON_ITERATIONS %d\n", NewtonIterations)
	fmt.Fprintf(&b, "#define ROOT_TOLERANCE %s\n", glslFloat(RootTolerance))
	fmt.Fprintf(&b, "#define ESCAPE_FREQUENCY %s\n", glslFloat(escapeFrequency))
	writeVec2Array(&b, "COEFFS", Coeffs[:])
	writeVec2Array(&b, "DERIVATIVE_COEFFS", DerivativeCoeffs[:])
	writeVec2Array(&b, "ROOTS", Roots[:])
	writeVec3Array(&b, "ROOT_COLOURS", RootColours[:])
	writeVec3(&b, "NULL_COLOUR", NullColour)
	writeVec3(&b, "INTERIOR_COLOUR", InteriorColour)
	writeVec3(&b, "ESCAPE_PHASE", escapePhase)
	return b.String()
}

func glslFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func writeVec2Array(b *strings.Builder, name string, values []complex128) {
	fmt.Fprintf(b, "const vec2 %s[%d] = vec2[%d](", name, len(values), len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "vec2(%s, %s)", glslFloat(real(v)), glslFloat(imag(v)))
	}
	b.WriteString(");\n")
}

func writeVec3Array(b *strings.Builder, name string, values []mgl32.Vec3) {
	fmt.Fprintf(b, "const vec3 %s[%d] = vec3[%d](", name, len(values), len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(glslVec3(v))
	}
	b.WriteString(");\n")
}

func writeVec3(b *strings.Builder, name string, v mgl32.Vec3) {
	fmt.Fprintf(b, "const vec3 %s = %s;\n", name, glslVec3(v))
}

func glslVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("vec3(%s, %s, %s)",
		glslFloat(float64(v[0])), glslFloat(float64(v[1])), glslFloat(float64(v[2])))
}
