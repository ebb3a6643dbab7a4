// Package clipboard moves images between the editor and the desktop
// clipboard. Images are exchanged as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"

	"github.com/example/retouch/internal/codec"
)

// PayloadName is the name given to images read from the clipboard.
const PayloadName = "clipboard.png"

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errNoImage   = errors.New("clipboard does not contain image data")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, codec.ErrNoImage
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func payload(data []byte) (codec.Payload, error) {
	if len(data) == 0 {
		return codec.Payload{}, errNoImage
	}
	return codec.NewPayload(PayloadName, data), nil
}
