// Package render produces the displayed bitmap from a committed buffer, the
// current filter settings and any pending text overlays.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"

	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
)

// Render returns a new image with f applied to src and overlays drawn on top
// in order. src is never modified and the same inputs always give the same
// output. With identity filters and no overlays the result is an exact copy.
func Render(src *image.RGBA, f Filters, overlays []paint.TextOverlay) (*image.RGBA, error) {
	if src == nil {
		return nil, nil
	}
	f = f.Clamp()
	out := pixbuf.Clone(src)
	if m := f.colorMatrix(); m != identity {
		applyMatrix(out, &m)
	}
	if f.Blur > 0 {
		out = pixbuf.Clone(blur.Gaussian(out, f.Blur))
	}
	for _, o := range overlays {
		if err := paint.DrawText(out, o); err != nil {
			return nil, fmt.Errorf("overlay %d: %w", o.ID, err)
		}
	}
	return out, nil
}

// applyMatrix transforms img in place, working in straight alpha and storing
// the result premultiplied.
func applyMatrix(img *image.RGBA, m *ColorMatrix) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			p := img.Pix[i : i+4 : i+4]
			a := float64(p[3])
			var r, g, bl float64
			if a > 0 {
				r = float64(p[0]) * 255 / a
				g = float64(p[1]) * 255 / a
				bl = float64(p[2]) * 255 / a
			}
			nr, ng, nb, na := m.apply(r, g, bl, a)
			na = clampByte(na)
			k := na / 255
			p[0] = uint8(math.Round(clampByte(nr) * k))
			p[1] = uint8(math.Round(clampByte(ng) * k))
			p[2] = uint8(math.Round(clampByte(nb) * k))
			p[3] = uint8(math.Round(na))
		}
	}
}

func clampByte(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
