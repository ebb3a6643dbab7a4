// Package view maps between screen and buffer coordinates under zoom and pan.
package view

import (
	"image"
	"math"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 5.0
	ZoomStep = 1.25
)

// State is the presentational zoom and pan of the canvas. Pan is kept in
// screen pixels and is never clamped.
type State struct {
	Zoom float64
	Pan  image.Point
}

// New returns a view at 100% with no pan.
func New() State { return State{Zoom: 1} }

// SetZoom sets the zoom factor clamped to [MinZoom, MaxZoom].
func (s *State) SetZoom(z float64) { s.Zoom = ClampZoom(z) }

func (s *State) ZoomIn()  { s.SetZoom(s.Zoom * ZoomStep) }
func (s *State) ZoomOut() { s.SetZoom(s.Zoom / ZoomStep) }

// PanBy shifts the canvas by the given screen delta.
func (s *State) PanBy(dx, dy int) { s.Pan = s.Pan.Add(image.Pt(dx, dy)) }

func (s *State) Reset() { *s = New() }

// CanvasRect returns where a buffer of size dims is drawn when the viewport
// places it at origin.
func (s State) CanvasRect(origin, dims image.Point) image.Rectangle {
	z := s.Zoom
	if z <= 0 {
		z = 1
	}
	w := int(math.Round(float64(dims.X) * z))
	h := int(math.Round(float64(dims.Y) * z))
	min := origin.Add(s.Pan)
	return image.Rect(min.X, min.Y, min.X+w, min.Y+h)
}

// ClampZoom limits z to the supported zoom range.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Fit returns the zoom that fits dims inside viewport.
func Fit(dims, viewport image.Point) float64 {
	if dims.X <= 0 || dims.Y <= 0 || viewport.X <= 0 || viewport.Y <= 0 {
		return 1
	}
	zx := float64(viewport.X) / float64(dims.X)
	zy := float64(viewport.Y) / float64(dims.Y)
	return ClampZoom(math.Min(zx, zy))
}

// ScreenToBuffer converts a screen position into buffer coordinates given the
// on-screen box of the canvas and the buffer's pixel dimensions.
func ScreenToBuffer(sx, sy float64, canvas image.Rectangle, dims image.Point) (float64, float64) {
	rx, ry := ratio(canvas, dims)
	return (sx - float64(canvas.Min.X)) * rx, (sy - float64(canvas.Min.Y)) * ry
}

// BufferToScreen is the inverse of ScreenToBuffer.
func BufferToScreen(bx, by float64, canvas image.Rectangle, dims image.Point) (float64, float64) {
	rx, ry := ratio(canvas, dims)
	return bx/rx + float64(canvas.Min.X), by/ry + float64(canvas.Min.Y)
}

func ratio(canvas image.Rectangle, dims image.Point) (float64, float64) {
	rx, ry := 1.0, 1.0
	if canvas.Dx() > 0 && dims.X > 0 {
		rx = float64(dims.X) / float64(canvas.Dx())
	}
	if canvas.Dy() > 0 && dims.Y > 0 {
		ry = float64(dims.Y) / float64(canvas.Dy())
	}
	return rx, ry
}
