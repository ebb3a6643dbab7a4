// Package capture grabs the desktop so it can be opened in the editor.
package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/example/retouch/internal/pixbuf"
)

var (
	errNoMonitors  = errors.New("no monitors available")
	errUnsupported = errors.New("screen capture is not supported on this platform")
)

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// Options controls a screen capture.
type Options struct {
	// Monitor selects a monitor by index, name or "primary". Empty keeps the
	// whole desktop.
	Monitor string
	// Interactive lets the desktop portal show its own selection dialog.
	Interactive   bool
	IncludeCursor bool
}

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
	Portal(interactive, cursor bool) (*image.RGBA, error)
	Root() (*image.RGBA, error)
	Wayland() bool
}

var backend = newBackend()

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	return backend.ListMonitors()
}

// Screen captures the desktop. The desktop portal is tried first; outside
// Wayland a failed portal call falls back to reading the X11 root window.
func Screen(opts Options) (*image.RGBA, error) {
	img, err := backend.Portal(opts.Interactive, opts.IncludeCursor)
	if err != nil {
		if backend.Wayland() {
			return nil, fmt.Errorf("capture screen: %w", err)
		}
		var rootErr error
		img, rootErr = backend.Root()
		if rootErr != nil {
			return nil, fmt.Errorf("capture screen: %w", errors.Join(err, rootErr))
		}
	}
	if opts.Monitor == "" {
		return img, nil
	}
	monitors, err := backend.ListMonitors()
	if err != nil {
		return nil, fmt.Errorf("capture monitor %q: %w", opts.Monitor, err)
	}
	mon, err := FindMonitor(monitors, opts.Monitor)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, mon.Rect)
}

// Name returns the name given to a capture taken at t.
func Name(t time.Time) string {
	return "screenshot-" + t.Format("20060102-150405") + ".png"
}

// FindMonitor resolves a monitor selector against the provided list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	lower := strings.ToLower(strings.TrimSpace(selector))
	switch lower {
	case "":
		return monitors[0], nil
	case "primary":
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	lower = strings.TrimPrefix(lower, "#")
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	r := rect.Intersect(src.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("monitor %v is outside the captured area", rect)
	}
	return pixbuf.Crop(src, r), nil
}
