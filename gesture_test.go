package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/fractalview/renderer"
)

func TestParseGesture(t *testing.T) {
	tests := []struct {
		input string
		want  func(*renderer.State)
	}{
		{
			input: "pan:0.25,-0.5",
			want:  func(s *renderer.State) { s.Pan(mgl64.Vec2{0.25, -0.5}) },
		},
		{
			input: "zoom:40",
			want:  func(s *renderer.State) { s.Zoom(40, mgl64.Vec2{}) },
		},
		{
			input: "zoom:-120@0.1, 0.2",
			want:  func(s *renderer.State) { s.Zoom(-120, mgl64.Vec2{0.1, 0.2}) },
		},
		{
			input: "scale:0.5@-0.5,0.5",
			want:  func(s *renderer.State) { s.ZoomBy(0.5, mgl64.Vec2{-0.5, 0.5}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g, err := parseGesture(tt.input)
			if err != nil {
				t.Fatalf("parseGesture() error = %v", err)
			}

			got, want := renderer.NewState(), renderer.NewState()
			g(got)
			tt.want(want)

			if !got.Transform().Mat3().ApproxEqualThreshold(want.Transform().Mat3(), 1e-12) {
				t.Errorf("transform = %v, want %v", got.Transform().Mat3(), want.Transform().Mat3())
			}
		})
	}
}

func TestParseGestureErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"pan",
		"pan:1",
		"pan:a,b",
		"zoom:",
		"zoom:1@2",
		"rotate:1",
	} {
		if _, err := parseGesture(input); err == nil {
			t.Errorf("parseGesture(%q) succeeded", input)
		}
	}
}

func TestParseGesturesOrder(t *testing.T) {
	gestures, err := parseGestures([]string{"scale:0.5", "pan:0.5,0"})
	if err != nil {
		t.Fatal(err)
	}

	got := renderer.NewState()
	for _, g := range gestures {
		g(got)
	}

	want := renderer.NewState()
	want.ZoomBy(0.5, mgl64.Vec2{})
	want.Pan(mgl64.Vec2{0.5, 0})

	if !got.Transform().Mat3().ApproxEqualThreshold(want.Transform().Mat3(), 1e-12) {
		t.Errorf("gestures applied out of order: %v, want %v", got.Transform().Mat3(), want.Transform().Mat3())
	}

	if _, err := parseGestures([]string{"pan:0,0", "bad"}); err == nil {
		t.Error("parseGestures() accepted a bad gesture")
	}
}
