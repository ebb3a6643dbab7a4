package codec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an export encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatWebP
)

// Formats lists the supported export formats.
var Formats = []Format{FormatPNG, FormatJPEG, FormatWebP}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatWebP:
		return "webp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the filename extension without a dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return f.String()
}

func (f Format) MIME() string { return "image/" + f.String() }

// Lossy reports whether the quality setting applies.
func (f Format) Lossy() bool { return f == FormatJPEG }

// ParseFormat accepts a format name, extension or MIME type.
func ParseFormat(s string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "image/")
	v = strings.TrimPrefix(v, ".")
	switch v {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	}
	return FormatPNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromName picks the format implied by a filename's extension.
func FormatFromName(name string) (Format, bool) {
	ext := filepath.Ext(name)
	if ext == "" {
		return FormatPNG, false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}
