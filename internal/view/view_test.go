package view

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomClamped(t *testing.T) {
	s := New()
	s.SetZoom(12)
	assert.Equal(t, MaxZoom, s.Zoom)
	s.SetZoom(0)
	assert.Equal(t, MinZoom, s.Zoom)
	for i := 0; i < 50; i++ {
		s.ZoomIn()
	}
	assert.Equal(t, MaxZoom, s.Zoom)
	for i := 0; i < 50; i++ {
		s.ZoomOut()
	}
	assert.Equal(t, MinZoom, s.Zoom)
}

func TestPanIsUnbounded(t *testing.T) {
	s := New()
	s.PanBy(-5000, 7000)
	assert.Equal(t, image.Pt(-5000, 7000), s.Pan)
}

func TestScreenToBufferAtZoom(t *testing.T) {
	s := New()
	s.SetZoom(2)
	s.PanBy(10, 20)
	dims := image.Pt(100, 50)
	canvas := s.CanvasRect(image.Pt(48, 24), dims)
	assert.Equal(t, image.Rect(58, 44, 258, 144), canvas)

	bx, by := ScreenToBuffer(158, 94, canvas, dims)
	assert.InDelta(t, 50, bx, 1e-9)
	assert.InDelta(t, 25, by, 1e-9)

	sx, sy := BufferToScreen(bx, by, canvas, dims)
	assert.InDelta(t, 158, sx, 1e-9)
	assert.InDelta(t, 94, sy, 1e-9)
}

func TestScreenToBufferIdentity(t *testing.T) {
	dims := image.Pt(30, 30)
	canvas := New().CanvasRect(image.Point{}, dims)
	bx, by := ScreenToBuffer(12.5, 7, canvas, dims)
	assert.Equal(t, 12.5, bx)
	assert.Equal(t, 7.0, by)
}

func TestFit(t *testing.T) {
	assert.InDelta(t, 0.5, Fit(image.Pt(400, 200), image.Pt(200, 300)), 1e-9)
	assert.Equal(t, MaxZoom, Fit(image.Pt(1, 1), image.Pt(1000, 1000)))
	assert.Equal(t, 1.0, Fit(image.Point{}, image.Pt(10, 10)))
}
