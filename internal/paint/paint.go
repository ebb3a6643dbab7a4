// Package paint draws destructive edits into a buffer: brush strokes, shape
// outlines, burned-in text and color sampling.
package paint

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
)

// ShapeKind selects the outline drawn by the shape tool.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeEllipse
	ShapeLine
	ShapeArrow
)

var shapeNames = [...]string{"rect", "ellipse", "line", "arrow"}

func (k ShapeKind) String() string {
	if k < ShapeRect || k > ShapeArrow {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeNames[k]
}

// ParseShapeKind maps a name such as "rect" or "ellipse" to its kind.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rect", "rectangle", "box":
		return ShapeRect, nil
	case "ellipse", "circle", "oval":
		return ShapeEllipse, nil
	case "line":
		return ShapeLine, nil
	case "arrow":
		return ShapeArrow, nil
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// NormalizeRect returns the top-left corner and size of the box spanned by
// two points.
func NormalizeRect(x0, y0, x1, y1 float64) (x, y, w, h float64) {
	return math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1 - x0), math.Abs(y1 - y0)
}

// Stroke draws a round-capped segment of the given width. A zero-length
// segment paints a dot.
func Stroke(dst *image.RGBA, x0, y0, x1, y1, size float64, col color.Color) {
	if size <= 0 {
		size = 1
	}
	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(col)
	if x0 == x1 && y0 == y1 {
		dc.DrawCircle(x0, y0, size/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(size)
	dc.SetLineCapRound()
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()
}

// Shape outlines kind between the anchor (x0, y0) and the current point
// (x1, y1). Rectangles and ellipses use the normalized box; lines and arrows
// run from the anchor to the current point.
func Shape(dst *image.RGBA, kind ShapeKind, x0, y0, x1, y1, size float64, col color.Color) {
	if size <= 0 {
		size = 1
	}
	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(col)
	dc.SetLineWidth(size)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	x, y, w, h := NormalizeRect(x0, y0, x1, y1)
	switch kind {
	case ShapeRect:
		dc.DrawRectangle(x, y, w, h)
	case ShapeEllipse:
		dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
	case ShapeLine:
		dc.DrawLine(x0, y0, x1, y1)
	case ShapeArrow:
		dc.DrawLine(x0, y0, x1, y1)
		angle := math.Atan2(y1-y0, x1-x0)
		head := 6 + size*2
		for _, a := range []float64{angle + math.Pi/6, angle - math.Pi/6} {
			dc.MoveTo(x1, y1)
			dc.LineTo(x1-math.Cos(a)*head, y1-math.Sin(a)*head)
		}
	}
	dc.Stroke()
}

// Sample returns the color under (x, y) as an opaque color. It reports false
// outside the buffer.
func Sample(img *image.RGBA, x, y int) (color.RGBA, bool) {
	if img == nil || !image.Pt(x, y).In(img.Bounds()) {
		return color.RGBA{}, false
	}
	c := color.NRGBAModel.Convert(img.RGBAAt(x, y)).(color.NRGBA)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}, true
}
