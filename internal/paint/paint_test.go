package paint

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/retouch/internal/pixbuf"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func reddish(c color.RGBA) bool { return c.R > 200 && c.G < 100 && c.B < 100 }

func TestNormalizeRect(t *testing.T) {
	x, y, w, h := NormalizeRect(40, 10, 5, 30)
	assert.Equal(t, []float64{5, 10, 35, 20}, []float64{x, y, w, h})
}

func TestStrokePaintsSegment(t *testing.T) {
	img := pixbuf.New(40, 40, white)
	Stroke(img, 5, 20, 35, 20, 4, red)
	assert.True(t, reddish(img.RGBAAt(20, 20)))
	assert.Equal(t, white, img.RGBAAt(20, 5))
}

func TestStrokeDot(t *testing.T) {
	img := pixbuf.New(20, 20, white)
	Stroke(img, 10, 10, 10, 10, 6, red)
	assert.True(t, reddish(img.RGBAAt(10, 10)))
}

func TestShapeOutlines(t *testing.T) {
	img := pixbuf.New(60, 60, white)
	Shape(img, ShapeRect, 50, 50, 10, 10, 2, red)
	assert.True(t, reddish(img.RGBAAt(10, 30)), "left edge")
	assert.Equal(t, white, img.RGBAAt(30, 30), "interior untouched")

	img = pixbuf.New(60, 60, white)
	Shape(img, ShapeEllipse, 10, 10, 50, 50, 2, red)
	assert.True(t, reddish(img.RGBAAt(30, 10)), "top of ellipse")
	assert.Equal(t, white, img.RGBAAt(30, 30))

	img = pixbuf.New(60, 60, white)
	Shape(img, ShapeArrow, 5, 30, 55, 30, 2, red)
	assert.True(t, reddish(img.RGBAAt(30, 30)))
}

func TestParseShapeKind(t *testing.T) {
	for _, k := range []ShapeKind{ShapeRect, ShapeEllipse, ShapeLine, ShapeArrow} {
		got, err := ParseShapeKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseShapeKind("star")
	assert.Error(t, err)
}

func TestSampleUnpremultiplies(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 0, color.RGBA{R: 100, A: 128})
	c, ok := Sample(img, 1, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(255), c.A)
	assert.InDelta(t, 199, int(c.R), 1)

	_, ok = Sample(img, 5, 5)
	assert.False(t, ok)
}

func TestDrawTextMarksPixels(t *testing.T) {
	img := pixbuf.New(120, 40, white)
	o := TextOverlay{Text: "Hello", X: 4, Y: 30, FontSize: 24, FontFamily: "sans-serif", Color: red}
	require.NoError(t, DrawText(img, o))
	assert.False(t, pixbuf.Equal(img, pixbuf.New(120, 40, white)))

	b, err := TextBounds(o)
	require.NoError(t, err)
	assert.True(t, b.Max.Y <= 40 && b.Min.Y >= 0, "bounds %v", b)
	assert.Less(t, b.Min.Y, 30)
}

func TestFaceCachedAndFallback(t *testing.T) {
	a, err := Face("mystery", 18)
	require.NoError(t, err)
	b, err := Face(DefaultFontFamily, 18)
	require.NoError(t, err)
	assert.Same(t, a, b)
	for _, fam := range Families {
		_, err := Face(fam, 12)
		assert.NoError(t, err, fam)
	}
}
