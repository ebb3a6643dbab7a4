package clipboard

import (
	"errors"
	"image"
	"testing"

	"github.com/example/retouch/internal/codec"
)

func TestPayloadRoundTrip(t *testing.T) {
	data, err := encodePNG(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	if err != nil {
		t.Fatal(err)
	}
	p, err := payload(data)
	if err != nil {
		t.Fatal(err)
	}
	if p.MIME != "image/png" || p.Name != PayloadName {
		t.Errorf("unexpected payload %q %q", p.Name, p.MIME)
	}
	img, err := codec.Decode(p)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
	if _, err := payload(nil); !errors.Is(err, errNoImage) {
		t.Errorf("expected errNoImage, got %v", err)
	}
	if _, err := encodePNG(nil); !errors.Is(err, codec.ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}
