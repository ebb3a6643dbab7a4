// Package codec loads image payloads into editor buffers and encodes buffers
// for export.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/retouch/internal/pixbuf"
)

// DefaultQuality is the lossy export quality used when none is given.
const DefaultQuality = 0.92

var (
	// ErrUnsupportedFormat reports a payload that is not a decodable image or
	// an export target that cannot be produced.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrNoImage reports an export with nothing loaded.
	ErrNoImage = errors.New("no image loaded")
)

// LoadError wraps a failure to turn a payload into a buffer.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("load: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EncodeError wraps a failure to produce an export.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode %s: %v", e.Format, e.Err) }

func (e *EncodeError) Unwrap() error { return e.Err }

// Payload is an in-memory image file with its declared MIME type.
type Payload struct {
	Name string
	MIME string
	Data []byte
}

// Blob is an encoded export.
type Blob struct {
	Data     []byte
	MIME     string
	Filename string
}

// ReadFile loads path into a payload. The MIME type is taken from the file
// extension, falling back to content sniffing.
func ReadFile(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return NewPayload(filepath.Base(path), data), nil
}

// NewPayload wraps data, guessing its MIME type from name and content.
func NewPayload(name string, data []byte) Payload {
	mime := ""
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		if t := filetype.GetType(strings.ToLower(ext)); t != filetype.Unknown {
			mime = t.MIME.Value
		}
	}
	if mime == "" {
		if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
			mime = t.MIME.Value
		}
	}
	return Payload{Name: name, MIME: mime, Data: data}
}

// Decode validates p and decodes it into a zero-origin RGBA buffer. Payloads
// whose declared type is not an image, or whose content is not recognised as
// one, fail with ErrUnsupportedFormat wrapped in a LoadError.
func Decode(p Payload) (*image.RGBA, error) {
	if !strings.HasPrefix(strings.ToLower(p.MIME), "image/") {
		return nil, &LoadError{Name: p.Name, Err: fmt.Errorf("%w: declared type %q", ErrUnsupportedFormat, p.MIME)}
	}
	if !filetype.IsImage(p.Data) {
		return nil, &LoadError{Name: p.Name, Err: fmt.Errorf("%w: content is not an image", ErrUnsupportedFormat)}
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			err = fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, &LoadError{Name: p.Name, Err: err}
	}
	out := pixbuf.FromImage(img)
	if out.Bounds().Empty() {
		return nil, &LoadError{Name: p.Name, Err: errors.New("image has no pixels")}
	}
	return out, nil
}

// Encode writes img in format f. quality applies to JPEG only and is a value
// in (0, 1]; anything else uses DefaultQuality. WebP output is lossless.
func Encode(img image.Image, f Format, quality float64) ([]byte, error) {
	if img == nil {
		return nil, &EncodeError{Format: f, Err: ErrNoImage}
	}
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, flatten(img, color.White), &jpeg.Options{Quality: jpegQuality(quality)})
	case FormatWebP:
		err = nativewebp.Encode(&buf, img, nil)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &EncodeError{Format: f, Err: err}
	}
	return buf.Bytes(), nil
}

// ExportName derives the suggested export filename from the original name.
func ExportName(original string, f Format) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return base + "-edited." + f.Ext()
}

func jpegQuality(q float64) int {
	if q <= 0 || q > 1 || math.IsNaN(q) {
		q = DefaultQuality
	}
	v := int(math.Round(q * 100))
	if v < 1 {
		v = 1
	}
	return v
}

// flatten composites img over bg for formats without alpha.
func flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	out := pixbuf.New(b.Dx(), b.Dy(), bg)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
