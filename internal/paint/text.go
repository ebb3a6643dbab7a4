package paint

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultFontFamily = "sans-serif"
	DefaultFontSize   = 24
)

// Families lists the font families that can be burned into the buffer.
var Families = []string{"sans-serif", "monospace", "bold", "italic"}

// TextOverlay is pending text anchored at its baseline origin in buffer
// coordinates.
type TextOverlay struct {
	ID         int
	Text       string
	X, Y       float64
	FontSize   float64
	FontFamily string
	Color      color.RGBA
}

type faceKey struct {
	family string
	size   float64
}

var (
	fonts sync.Map // family -> *opentype.Font
	faces sync.Map // faceKey -> font.Face
)

func fontData(family string) (string, []byte) {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "monospace", "mono":
		return "monospace", gomono.TTF
	case "bold":
		return "bold", gobold.TTF
	case "italic":
		return "italic", goitalic.TTF
	default:
		return DefaultFontFamily, goregular.TTF
	}
}

// Face returns a cached face for family at size points. Unknown families
// fall back to sans-serif.
func Face(family string, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	name, data := fontData(family)
	key := faceKey{family: name, size: size}
	if f, ok := faces.Load(key); ok {
		return f.(font.Face), nil
	}
	var parsed *opentype.Font
	if f, ok := fonts.Load(name); ok {
		parsed = f.(*opentype.Font)
	} else {
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		fonts.Store(name, parsed)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %s %.1f: %w", name, size, err)
	}
	actual, _ := faces.LoadOrStore(key, face)
	return actual.(font.Face), nil
}

// DrawText burns o into dst with its baseline at (o.X, o.Y).
func DrawText(dst *image.RGBA, o TextOverlay) error {
	if o.Text == "" {
		return nil
	}
	face, err := Face(o.FontFamily, o.FontSize)
	if err != nil {
		return err
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(o.Color), Face: face}
	d.Dot = fixed.Point26_6{X: toFixed(o.X), Y: toFixed(o.Y)}
	d.DrawString(o.Text)
	return nil
}

// TextBounds returns the pixel box covered by o.
func TextBounds(o TextOverlay) (image.Rectangle, error) {
	face, err := Face(o.FontFamily, o.FontSize)
	if err != nil {
		return image.Rectangle{}, err
	}
	b, _ := font.BoundString(face, o.Text)
	dot := fixed.Point26_6{X: toFixed(o.X), Y: toFixed(o.Y)}
	return image.Rect(
		(b.Min.X + dot.X).Floor(), (b.Min.Y + dot.Y).Floor(),
		(b.Max.X + dot.X).Ceil(), (b.Max.Y + dot.Y).Ceil(),
	), nil
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
