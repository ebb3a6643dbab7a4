// Package pixbuf provides the raster buffer helpers used by the editor. All
// buffers are *image.RGBA values with zero-origin bounds.
package pixbuf

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
)

// Axis selects the mirror direction for Flip.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// New allocates a w×h buffer filled with bg.
func New(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// FromImage converts any decoded image into a zero-origin RGBA buffer.
func FromImage(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return Clone(rgba)
	}
	return Clone(clone.AsRGBA(src))
}

// Clone returns a deep copy of img rebased to a zero origin.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], img.Pix[src:src+rowLen])
	}
	return out
}

// Equal reports whether a and b have the same size and identical pixels.
func Equal(a, b *image.RGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	rowLen := ab.Dx() * 4
	for y := 0; y < ab.Dy(); y++ {
		ai := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		bi := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		if !bytes.Equal(a.Pix[ai:ai+rowLen], b.Pix[bi:bi+rowLen]) {
			return false
		}
	}
	return true
}

// Crop returns a copy of rect from img. Areas of rect outside img are left
// transparent.
func Crop(img *image.RGBA, rect image.Rectangle) *image.RGBA {
	if rect.Empty() {
		return Clone(img)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	src := rect.Intersect(img.Bounds())
	if !src.Empty() {
		draw.Draw(out, src.Sub(rect.Min), img, src.Min, draw.Src)
	}
	return out
}

// Rotate turns img by a multiple of 90 degrees. Positive values rotate
// clockwise. Quarter turns swap the width and height of the result. Any other
// angle returns false.
func Rotate(img *image.RGBA, degrees int) (*image.RGBA, bool) {
	if degrees%90 != 0 {
		return nil, false
	}
	turns := ((degrees/90)%4 + 4) % 4
	out := Clone(img)
	for i := 0; i < turns; i++ {
		out = quarterTurn(out)
	}
	return out, true
}

// quarterTurn rotates img 90 degrees clockwise by exact pixel remapping.
func quarterTurn(img *image.RGBA) *image.RGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := img.PixOffset(x, y)
			di := out.PixOffset(h-1-y, x)
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}

// Flip mirrors img along axis in place.
func Flip(img *image.RGBA, axis Axis) {
	var flipped *image.RGBA
	switch axis {
	case Vertical:
		flipped = transform.FlipV(img)
	default:
		flipped = transform.FlipH(img)
	}
	draw.Draw(img, img.Bounds(), flipped, image.Point{}, draw.Src)
}
