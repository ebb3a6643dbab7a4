package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 90, A: 255})
		}
	}
	img.SetRGBA(3, 3, color.RGBA{R: 40, G: 20, B: 10, A: 128})
	return img
}

func TestRenderIdentityIsExactCopy(t *testing.T) {
	src := sample()
	out, err := Render(src, DefaultFilters(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out == src {
		t.Fatal("render must not return its input")
	}
	if !pixbuf.Equal(src, out) {
		t.Fatal("identity filters changed pixels")
	}
}

func TestRenderBrightnessContrastReset(t *testing.T) {
	src := sample()
	f := DefaultFilters()
	f.Brightness = 150
	f.Contrast = 50
	out, err := Render(src, f, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if pixbuf.Equal(src, out) {
		t.Fatal("expected adjusted output to differ")
	}
	f.Brightness = 100
	f.Contrast = 100
	out, err = Render(src, f, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !pixbuf.Equal(src, out) {
		t.Fatal("resetting to neutral must reproduce the source exactly")
	}
}

func TestRenderIdempotent(t *testing.T) {
	src := sample()
	f := Filters{Brightness: 120, Contrast: 80, Saturation: 140, Blur: 2, Grayscale: 20, Sepia: 30, HueRotate: 45}
	overlays := []paint.TextOverlay{{ID: 1, Text: "x", X: 2, Y: 12, FontSize: 10, Color: color.RGBA{A: 255}}}
	a, err := Render(src, f, overlays)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := Render(src, f, overlays)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !pixbuf.Equal(a, b) {
		t.Fatal("render is not idempotent")
	}
	if !pixbuf.Equal(src, sample()) {
		t.Fatal("render modified its source")
	}
}

func TestGrayscaleEqualizesChannels(t *testing.T) {
	src := sample()
	f := DefaultFilters()
	f.Grayscale = 100
	out, err := Render(src, f, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	c := out.RGBAAt(10, 4)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("expected gray pixel, got %+v", c)
	}
}

func TestBrightnessZeroIsBlack(t *testing.T) {
	f := DefaultFilters()
	f.Brightness = 0
	out, err := Render(sample(), f, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := out.RGBAAt(12, 12); got != (color.RGBA{A: 255}) {
		t.Fatalf("got %+v, want opaque black", got)
	}
}

func TestHueRotateFullTurnIsIdentity(t *testing.T) {
	f := DefaultFilters()
	f.HueRotate = 360
	if !f.IsIdentity() {
		t.Fatal("a full hue turn should be neutral")
	}
}

func TestClamp(t *testing.T) {
	f := Filters{Brightness: 500, Contrast: -3, Saturation: 90, Blur: 99, Grayscale: 101, Sepia: -1, HueRotate: 720}.Clamp()
	want := Filters{Brightness: 200, Contrast: 0, Saturation: 90, Blur: 20, Grayscale: 100, Sepia: 0, HueRotate: 360}
	if f != want {
		t.Fatalf("clamp = %+v, want %+v", f, want)
	}
}

func TestOverlaysDrawnInOrder(t *testing.T) {
	src := pixbuf.New(60, 40, color.RGBA{255, 255, 255, 255})
	first := paint.TextOverlay{ID: 1, Text: "MM", X: 4, Y: 30, FontSize: 28, Color: color.RGBA{R: 255, A: 255}}
	second := first
	second.ID = 2
	second.Color = color.RGBA{B: 255, A: 255}
	out, err := Render(src, DefaultFilters(), []paint.TextOverlay{first, second})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	blue := false
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !blue; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := out.RGBAAt(x, y); c.B == 255 && c.R == 0 {
				blue = true
				break
			}
		}
	}
	if !blue {
		t.Fatal("later overlay should paint over the earlier one")
	}
}
