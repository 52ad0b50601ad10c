package view

import "github.com/go-gl/mathgl/mgl64"

// PanDisplacement converts pointer motion of (dx, dy) pixels in a viewport of
// the given size into a pan displacement. The view moves against the motion.
func PanDisplacement(dx, dy float64, width, height int) mgl64.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{-dx / float64(width), -dy / float64(height)}
}

// NormalizeAnchor converts a pixel position into a zoom anchor in [-0.5, 0.5]².
func NormalizeAnchor(x, y float64, width, height int) mgl64.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{x/float64(width) - 0.5, y/float64(height) - 0.5}
}

// CursorNDC converts a pixel position into normalised device coordinates,
// with y growing downwards.
func CursorNDC(x, y float64, width, height int) mgl64.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{2*x/float64(width) - 1, 2*y/float64(height) - 1}
}

// ScrollZoomFactor is ZoomFactor with a custom sensitivity. Non-positive
// sensitivities fall back to ScrollSensitivity.
func ScrollZoomFactor(scroll, sensitivity float64) float64 {
	if sensitivity <= 0 {
		return ZoomFactor(scroll)
	}
	return 1 + scroll/sensitivity
}
