package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/fractalview/renderer"
)

// A gesture is a scripted pan or zoom applied before an export.
//
//	pan:dx,dy            normalised displacement, 1 is a full-width drag
//	zoom:scroll[@ax,ay]  scroll amount around an anchor in [-0.5, 0.5]²
//	scale:factor[@ax,ay] explicit zoom factor around an anchor
type gesture func(*renderer.State)

func parseGesture(s string) (gesture, error) {
	kind, arg, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("gesture %q: missing ':'", s)
	}

	switch kind {
	case "pan":
		d, err := parseVec2(arg)
		if err != nil {
			return nil, fmt.Errorf("gesture %q: %w", s, err)
		}
		return func(st *renderer.State) { st.Pan(d) }, nil

	case "zoom", "scale":
		amount, anchor, err := parseAnchored(arg)
		if err != nil {
			return nil, fmt.Errorf("gesture %q: %w", s, err)
		}
		if kind == "zoom" {
			return func(st *renderer.State) { st.Zoom(amount, anchor) }, nil
		}
		return func(st *renderer.State) { st.ZoomBy(amount, anchor) }, nil
	}

	return nil, fmt.Errorf("gesture %q: unknown kind %q", s, kind)
}

func parseGestures(inputs []string) ([]gesture, error) {
	gestures := make([]gesture, 0, len(inputs))
	for _, s := range inputs {
		g, err := parseGesture(s)
		if err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}
	return gestures, nil
}

func parseAnchored(s string) (float64, mgl64.Vec2, error) {
	amountStr, anchorStr, hasAnchor := strings.Cut(s, "@")

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, mgl64.Vec2{}, err
	}
	if !hasAnchor {
		return amount, mgl64.Vec2{}, nil
	}

	anchor, err := parseVec2(anchorStr)
	return amount, anchor, err
}

func parseVec2(s string) (mgl64.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return mgl64.Vec2{}, fmt.Errorf("%q is not of the form x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return mgl64.Vec2{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return mgl64.Vec2{}, err
	}
	return mgl64.Vec2{x, y}, nil
}
