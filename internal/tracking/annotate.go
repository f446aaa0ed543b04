package tracking

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	lineColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	textColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}
)

const (
	markerRadius  = 10
	lineThickness = 3
)

// DrawCentroids stamps a filled disc at every centroid in the range's
// overlay color. Every detection is drawn, paired or not.
func DrawCentroids(frame *image.RGBA, pts []Centroid, c color.RGBA) {
	for _, p := range pts {
		fillCircle(frame, p.X, p.Y, markerRadius, c)
	}
}

// DrawPairLine connects a marker pair's two centroids.
func DrawPairLine(frame *image.RGBA, pair MarkerPair) {
	drawThickLine(frame,
		image.Pt(pair.Upper.X, pair.Upper.Y),
		image.Pt(pair.Lower.X, pair.Lower.Y),
		lineColor, lineThickness)
}

// angleLabel formats the overlay readout. ASCII only: Face7x13 covers
// 0x20-0x7e, so a degree sign would render as the replacement glyph.
func angleLabel(angle float64, measured bool) string {
	if !measured {
		return "Angle: N/A"
	}
	return fmt.Sprintf("Angle: %.2f deg", angle)
}

// DrawAngleText overlays the frame's angle readout, formatted to two
// decimals, or "N/A" when the frame produced no measurement.
func DrawAngleText(frame *image.RGBA, angle float64, measured bool) {
	label := angleLabel(angle, measured)

	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(30, 60),
	}
	d.DrawString(label)
}

func fillCircle(frame *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := frame.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if image.Pt(x, y).In(bounds) {
				frame.SetRGBA(x, y, c)
			}
		}
	}
}

func drawThickLine(frame *image.RGBA, p0, p1 image.Point, c color.RGBA, thickness int) {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	r := thickness / 2
	if steps == 0 {
		fillCircle(frame, p0.X, p0.Y, r, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := p0.X + dx*i/steps
		y := p0.Y + dy*i/steps
		fillCircle(frame, x, y, r, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
