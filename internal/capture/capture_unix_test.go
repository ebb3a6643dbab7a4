//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"image/color"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb/xproto"
)

func TestPortalOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	tests := []struct {
		name        string
		interactive bool
		cursor      bool
		wantCursor  string
	}{
		{name: "defaults", wantCursor: "hidden"},
		{name: "interactive with cursor", interactive: true, cursor: true, wantCursor: "embedded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := portalOptions(tc.interactive, tc.cursor)
			if got, _ := values["interactive"].Value().(bool); got != tc.interactive {
				t.Fatalf("interactive = %v, want %v", got, tc.interactive)
			}
			if got, _ := values["modal"].Value().(bool); got != tc.interactive {
				t.Fatalf("modal = %v, want %v", got, tc.interactive)
			}
			if got, _ := values["cursor_mode"].Value().(string); got != tc.wantCursor {
				t.Fatalf("cursor_mode = %q, want %q", got, tc.wantCursor)
			}
			if got, _ := values["handle_token"].Value().(string); got != "test-token" {
				t.Fatalf("handle_token = %q", got)
			}
		})
	}
}

func TestPortalResult(t *testing.T) {
	ok := map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20one.png")}
	path, err := portalResult([]interface{}{uint32(0), ok})
	if err != nil {
		t.Fatalf("portalResult: %v", err)
	}
	if path != "/tmp/Screenshot one.png" {
		t.Fatalf("path = %q", path)
	}
	if _, err := portalResult([]interface{}{uint32(1), ok}); err == nil {
		t.Fatal("expected cancellation error")
	}
	if _, err := portalResult([]interface{}{uint32(0), map[string]dbus.Variant{}}); err == nil {
		t.Fatal("expected missing uri error")
	}
	if _, err := portalResult(nil); err == nil {
		t.Fatal("expected malformed error")
	}
}

func TestXImageToRGBA(t *testing.T) {
	setup := &xproto.SetupInfo{PixmapFormats: []xproto.Format{{Depth: 24, BitsPerPixel: 32}}}
	// Two pixels per row plus four bytes of row padding.
	data := []byte{
		0x10, 0x20, 0x30, 0x00, 0x01, 0x02, 0x03, 0x00, 0, 0, 0, 0,
		0xAA, 0xBB, 0xCC, 0x00, 0x00, 0x00, 0xFF, 0x00, 0, 0, 0, 0,
	}
	img, err := xImageToRGBA(setup, &xproto.GetImageReply{Depth: 24, Data: data}, 2, 2)
	if err != nil {
		t.Fatalf("xImageToRGBA: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0x30, 0x20, 0x10, 0xFF}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{0xFF, 0x00, 0x00, 0xFF}) {
		t.Errorf("pixel (1,1) = %v", got)
	}
	if _, err := xImageToRGBA(setup, &xproto.GetImageReply{Depth: 16, Data: data}, 2, 2); err == nil {
		t.Error("expected unsupported depth error")
	}
}
