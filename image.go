package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/view"
)

const readoutMargin = 6

// readoutLines describes the view: the fractal, the plane point at the centre
// of the image and the visible span.
func readoutLines(t programs.FractalType, tr view.Transform) []string {
	return []string{
		t.String(),
		"centre " + tr.Readout(mgl64.Vec2{0, 0}),
		fmt.Sprintf("span %.6g", tr.Span()),
	}
}

// DrawReadout writes the readout into the top left corner of img.
func DrawReadout(img draw.Image, lines []string) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}

	b := img.Bounds()
	panel := image.Rect(
		b.Min.X, b.Min.Y,
		b.Min.X+width+2*readoutMargin, b.Min.Y+len(lines)*lineHeight+2*readoutMargin,
	).Intersect(b)
	draw.Draw(img, panel, image.NewUniform(color.RGBA{A: 0xa0}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(b.Min.X+readoutMargin, b.Min.Y+readoutMargin+(i+1)*lineHeight-face.Descent)
		d.DrawString(l)
	}
}

// reportProgress logs supplier's progress every interval until ctx is done.
func reportProgress(ctx context.Context, logger *log.Logger, msg string, interval time.Duration, supplier func() float64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info(msg, "progress", fmt.Sprintf("%.0f%%", 100*supplier()))
		}
	}
}
