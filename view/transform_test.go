package view

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-5

func vecEqual(a, b mgl64.Vec2) bool {
	return a.ApproxEqualThreshold(b, eps)
}

func TestInitialCentre(t *testing.T) {
	got := Initial().MapPoint(mgl64.Vec2{0, 0})
	if want := (mgl64.Vec2{-0.25, 0}); !vecEqual(got, want) {
		t.Errorf("Initial().MapPoint(0, 0) = %v, want %v", got, want)
	}
	if span := Initial().Span(); math.Abs(span-ReferenceWidth) > eps {
		t.Errorf("Initial().Span() = %v, want %v", span, ReferenceWidth)
	}
}

func TestInitialCorners(t *testing.T) {
	tr := Initial()
	if got := tr.MapPoint(mgl64.Vec2{-1, -1}); !vecEqual(got, mgl64.Vec2{-2.25, -2}) {
		t.Errorf("top left maps to %v", got)
	}
	if got := tr.MapPoint(mgl64.Vec2{1, 1}); !vecEqual(got, mgl64.Vec2{1.75, 2}) {
		t.Errorf("bottom right maps to %v", got)
	}
}

func TestPanComposesOnTheRight(t *testing.T) {
	transforms := []Transform{
		Initial(),
		Initial().Zoom(0.5, mgl64.Vec2{0.1, -0.2}),
		Initial().Pan(mgl64.Vec2{0.3, 0.1}).Zoom(3, mgl64.Vec2{-0.4, 0.4}),
	}
	displacements := []mgl64.Vec2{{0, 0}, {0.25, 0}, {-0.1, 0.7}, {1, -1}}

	for _, tr := range transforms {
		for _, d := range displacements {
			want := tr.Mat3().Mul3(mgl64.Translate2D(ReferenceWidth*d.X(), ReferenceWidth*d.Y()))
			if got := tr.Pan(d).Mat3(); !got.ApproxEqualThreshold(want, 1e-12) {
				t.Errorf("Pan(%v) = %v, want %v", d, got, want)
			}
		}
	}
}

func TestZoomAnchorInvariance(t *testing.T) {
	base := []Transform{
		Initial(),
		Initial().Pan(mgl64.Vec2{0.2, -0.3}),
		Initial().Zoom(0.1, mgl64.Vec2{0.25, 0.25}).Pan(mgl64.Vec2{-0.05, 0.02}),
	}
	factors := []float64{0.5, 0.975, 1, 1.025, 2, 10}
	anchors := []mgl64.Vec2{{0, 0}, {0.5, 0.5}, {-0.5, 0.5}, {0.13, -0.42}}

	for _, tr := range base {
		for _, f := range factors {
			for _, a := range anchors {
				p := AnchorNDC(a)
				before := tr.MapPoint(p)
				after := tr.Zoom(f, a).MapPoint(p)
				if !vecEqual(before, after) {
					t.Errorf("zoom %v at %v moved anchor from %v to %v", f, a, before, after)
				}
			}
		}
	}
}

func TestZoomMatchesComposition(t *testing.T) {
	tr := Initial().Pan(mgl64.Vec2{0.1, 0.1})
	a := mgl64.Vec2{0.2, -0.1}
	f := 0.8

	k := ReferenceWidth / 2
	want := tr.Mat3().
		Mul3(mgl64.Translate2D(k*a.X(), k*a.Y())).
		Mul3(mgl64.Scale2D(f, f)).
		Mul3(mgl64.Translate2D(-k*a.X(), -k*a.Y()))
	if got := tr.Zoom(f, a).Mat3(); !got.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("Zoom = %v, want %v", got, want)
	}
}

func TestZoomDirection(t *testing.T) {
	tr := Initial()
	if got := tr.Zoom(2, mgl64.Vec2{}).Span(); math.Abs(got-2*ReferenceWidth) > eps {
		t.Errorf("zoom 2 span = %v, want %v", got, 2*ReferenceWidth)
	}
	if got := tr.Zoom(ZoomFactor(-20), mgl64.Vec2{}).Span(); math.Abs(got-ReferenceWidth/2) > eps {
		t.Errorf("scroll -20 span = %v, want %v", got, ReferenceWidth/2)
	}
}

func TestRepeatedGesturesStayInvertible(t *testing.T) {
	tr := Initial()
	for i := 0; i < 20; i++ {
		tr = tr.Zoom(ZoomFactor(-1000), mgl64.Vec2{0.3, 0.3}).Pan(mgl64.Vec2{0.01, -0.01})
	}
	if det := tr.Mat3().Det(); det == 0 || math.IsNaN(det) {
		t.Errorf("determinant after repeated zooms = %v", det)
	}
}

func TestNonFiniteGesturesAreIgnored(t *testing.T) {
	tr := Initial()
	nan := math.NaN()

	cases := []Transform{
		tr.Pan(mgl64.Vec2{nan, 0}),
		tr.Pan(mgl64.Vec2{0, math.Inf(1)}),
		tr.Zoom(nan, mgl64.Vec2{}),
		tr.Zoom(2, mgl64.Vec2{nan, nan}),
	}
	for i, got := range cases {
		if got.Mat3() != tr.Mat3() {
			t.Errorf("case %d changed the transform to %v", i, got.Mat3())
		}
	}
}

func TestComplexFlipsY(t *testing.T) {
	tr := Initial()
	// The top of the screen (negative NDC y) is the positive imaginary half.
	z := tr.Complex(mgl64.Vec2{0, -0.5})
	if want := complex(-0.25, 1); cmplx.Abs(z-want) > eps {
		t.Errorf("Complex(0, -0.5) = %v, want %v", z, want)
	}
	if got := ToComplex(mgl64.Vec2{1, 2}); got != complex(1, -2) {
		t.Errorf("ToComplex(1, 2) = %v", got)
	}
}

func TestReadout(t *testing.T) {
	tests := []struct {
		p    mgl64.Vec2
		want string
	}{
		{mgl64.Vec2{0, 0}, "-0.2500+0.0000i"},
		{mgl64.Vec2{0, -0.5}, "-0.2500+1.0000i"},
		{mgl64.Vec2{1, 0.5}, "1.7500-1.0000i"},
	}

	for _, tt := range tests {
		if got := Initial().Readout(tt.p); got != tt.want {
			t.Errorf("Readout(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
