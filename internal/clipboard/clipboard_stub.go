//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"

	"github.com/example/retouch/internal/codec"
)

var errUnsupported = errors.New("clipboard image operations are not supported on this platform")

func ensureInit() error { return errUnsupported }

func WriteImage(image.Image) error { return errUnsupported }

func ReadPayload() (codec.Payload, error) { return codec.Payload{}, errUnsupported }
