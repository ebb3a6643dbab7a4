// Package crop implements the crop rectangle geometry: handle hit testing,
// drag resizing with bounds and minimum size clamping, and aspect ratio
// pinning.
package crop

import (
	"image"
	"math"
)

const (
	// HandleSize is the hit distance around each anchor, in buffer pixels.
	HandleSize = 10
	// MinSize is the smallest width or height a crop area may have.
	MinSize = 20
	// DefaultFraction sizes the area created when the crop tool is entered.
	DefaultFraction = 0.8
)

// Handle identifies the part of the crop area under the pointer.
type Handle int

const (
	None Handle = iota
	NW
	N
	NE
	E
	SE
	S
	SW
	W
	Move
)

var handleNames = [...]string{"none", "nw", "n", "ne", "e", "se", "s", "sw", "w", "move"}

func (h Handle) String() string {
	if h < None || h > Move {
		return "unknown"
	}
	return handleNames[h]
}

func (h Handle) west() bool  { return h == NW || h == W || h == SW }
func (h Handle) east() bool  { return h == NE || h == E || h == SE }
func (h Handle) north() bool { return h == NW || h == N || h == NE }
func (h Handle) south() bool { return h == SW || h == S || h == SE }

// Area is a crop rectangle in buffer coordinates.
type Area struct {
	X, Y          float64
	Width, Height float64
}

func (a Area) Right() float64  { return a.X + a.Width }
func (a Area) Bottom() float64 { return a.Y + a.Height }

// Contains reports whether the point lies inside the area.
func (a Area) Contains(x, y float64) bool {
	return x >= a.X && x <= a.Right() && y >= a.Y && y <= a.Bottom()
}

// Valid reports whether the area satisfies the size and bounds invariants for
// a buffer of the given dimensions.
func (a Area) Valid(bounds image.Point) bool {
	const eps = 1e-9
	return a.X >= -eps && a.Y >= -eps &&
		a.Right() <= float64(bounds.X)+eps && a.Bottom() <= float64(bounds.Y)+eps &&
		a.Width >= MinSize-eps && a.Height >= MinSize-eps
}

// Rect rounds the area to whole pixels, clipped to bounds.
func (a Area) Rect(bounds image.Point) image.Rectangle {
	r := image.Rect(
		int(math.Round(a.X)), int(math.Round(a.Y)),
		int(math.Round(a.Right())), int(math.Round(a.Bottom())),
	)
	return r.Intersect(image.Rect(0, 0, bounds.X, bounds.Y))
}

// Anchors returns the eight handle points in NW, N, NE, E, SE, S, SW, W order.
func (a Area) Anchors() [8][2]float64 {
	cx := a.X + a.Width/2
	cy := a.Y + a.Height/2
	r, b := a.Right(), a.Bottom()
	return [8][2]float64{
		{a.X, a.Y}, {cx, a.Y}, {r, a.Y}, {r, cy},
		{r, b}, {cx, b}, {a.X, b}, {a.X, cy},
	}
}

// Default returns a centered area covering DefaultFraction of the buffer. It
// returns false when the buffer is smaller than MinSize on either axis.
func Default(bounds image.Point) (Area, bool) {
	if bounds.X < MinSize || bounds.Y < MinSize {
		return Area{}, false
	}
	w := math.Max(float64(bounds.X)*DefaultFraction, MinSize)
	h := math.Max(float64(bounds.Y)*DefaultFraction, MinSize)
	return Area{
		X:      (float64(bounds.X) - w) / 2,
		Y:      (float64(bounds.Y) - h) / 2,
		Width:  w,
		Height: h,
	}, true
}

// HitTest returns the first anchor within HandleSize of the point, Move when
// the point is inside the area, or None.
func HitTest(a Area, x, y float64) Handle {
	for i, p := range a.Anchors() {
		if math.Abs(x-p[0]) <= HandleSize && math.Abs(y-p[1]) <= HandleSize {
			return NW + Handle(i)
		}
	}
	if a.Contains(x, y) {
		return Move
	}
	return None
}

// Drag captures the state at the start of a crop handle drag.
type Drag struct {
	Handle   Handle
	StartX   float64
	StartY   float64
	Original Area
}

// Begin hit tests the pointer against a and starts a drag. It returns false
// when the pointer is not over the area.
func Begin(a Area, x, y float64) (Drag, bool) {
	h := HitTest(a, x, y)
	if h == None {
		return Drag{}, false
	}
	return Drag{Handle: h, StartX: x, StartY: y, Original: a}, true
}

// Update computes the area for the pointer at (x, y). ratio is the pinned
// width/height ratio, or 0 for a free crop. It returns false when no valid
// rectangle exists for the move, in which case the caller keeps its last
// area.
func (d Drag) Update(x, y float64, bounds image.Point, ratio float64) (Area, bool) {
	dx := x - d.StartX
	dy := y - d.StartY
	var a Area
	var ok bool
	switch {
	case d.Handle == None:
		return d.Original, false
	case d.Handle == Move:
		a, ok = move(d.Original, dx, dy, bounds)
	case ratio > 0:
		a, ok = resizeAspect(d.Original, d.Handle, dx, dy, bounds, ratio)
	default:
		a, ok = resizeFree(d.Original, d.Handle, dx, dy, bounds)
	}
	if !ok || !a.Valid(bounds) {
		return d.Original, false
	}
	return a, true
}

func move(o Area, dx, dy float64, bounds image.Point) (Area, bool) {
	maxX := float64(bounds.X) - o.Width
	maxY := float64(bounds.Y) - o.Height
	if maxX < 0 || maxY < 0 {
		return o, false
	}
	o.X = clamp(o.X+dx, 0, maxX)
	o.Y = clamp(o.Y+dy, 0, maxY)
	return o, true
}

func resizeFree(o Area, h Handle, dx, dy float64, bounds image.Point) (Area, bool) {
	left, top, right, bottom := o.X, o.Y, o.Right(), o.Bottom()
	bw, bh := float64(bounds.X), float64(bounds.Y)
	if h.west() {
		left = clamp(left+dx, 0, right-MinSize)
	}
	if h.east() {
		right = clamp(right+dx, left+MinSize, bw)
	}
	if h.north() {
		top = clamp(top+dy, 0, bottom-MinSize)
	}
	if h.south() {
		bottom = clamp(bottom+dy, top+MinSize, bh)
	}
	return Area{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

// resizeAspect keeps width/height equal to ratio. Corner and E/W drags take
// the width from the horizontal delta, N/S drags take the height from the
// vertical delta. Edges opposite the handle stay pinned; for edge handles the
// derived axis stays centered on the original area.
func resizeAspect(o Area, h Handle, dx, dy float64, bounds image.Point, ratio float64) (Area, bool) {
	bw, bh := float64(bounds.X), float64(bounds.Y)
	cx := o.X + o.Width/2
	cy := o.Y + o.Height/2

	var w float64
	switch {
	case h.east():
		w = o.Width + dx
	case h.west():
		w = o.Width - dx
	case h == N:
		w = (o.Height - dy) * ratio
	case h == S:
		w = (o.Height + dy) * ratio
	}

	var availW, availH float64
	switch {
	case h.east():
		availW = bw - o.X
	case h.west():
		availW = o.Right()
	default:
		availW = 2 * math.Min(cx, bw-cx)
	}
	switch {
	case h.south():
		availH = bh - o.Y
	case h.north():
		availH = o.Bottom()
	default:
		availH = 2 * math.Min(cy, bh-cy)
	}

	minW := math.Max(MinSize, MinSize*ratio)
	maxW := math.Min(availW, availH*ratio)
	if maxW < minW {
		return o, false
	}
	w = clamp(w, minW, maxW)
	ht := w / ratio

	a := Area{Width: w, Height: ht}
	switch {
	case h.east():
		a.X = o.X
	case h.west():
		a.X = o.Right() - w
	default:
		a.X = cx - w/2
	}
	switch {
	case h.south():
		a.Y = o.Y
	case h.north():
		a.Y = o.Bottom() - ht
	default:
		a.Y = cy - ht/2
	}
	return a, true
}

// FitAspect reshapes a to the given ratio around its center, shrinking the
// longer side and keeping the result inside bounds. A ratio of 0 returns a
// unchanged.
func FitAspect(a Area, ratio float64, bounds image.Point) (Area, bool) {
	if ratio <= 0 {
		return a, a.Valid(bounds)
	}
	bw, bh := float64(bounds.X), float64(bounds.Y)
	minW := math.Max(MinSize, MinSize*ratio)
	maxW := math.Min(bw, bh*ratio)
	if maxW < minW {
		return a, false
	}
	w := a.Width
	if w/ratio > a.Height {
		w = a.Height * ratio
	}
	w = clamp(w, minW, maxW)
	h := w / ratio
	cx := a.X + a.Width/2
	cy := a.Y + a.Height/2
	out := Area{
		X:      clamp(cx-w/2, 0, bw-w),
		Y:      clamp(cy-h/2, 0, bh-h),
		Width:  w,
		Height: h,
	}
	return out, out.Valid(bounds)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
