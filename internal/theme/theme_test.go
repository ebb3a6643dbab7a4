package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#112233", color.RGBA{0x11, 0x22, 0x33, 0xFF}},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}},
		{"#f0a", color.RGBA{0xFF, 0x00, 0xAA, 0xFF}},
		{"Yellow", color.RGBA{0xFF, 0xFF, 0x00, 0xFF}},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"#12", "#zzzzzz", "notacolor"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) expected error", bad)
		}
	}
}

func TestParse(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Mine\ncropborder: #010203\nUnknown: #FFFFFF\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("name = %q", th.Name)
	}
	if th.CropBorder != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("CropBorder = %v", th.CropBorder)
	}
	if th.Background != Default().Background {
		t.Errorf("missing keys should keep defaults")
	}
	if _, err := Parse(strings.NewReader("Background: #12")); err == nil {
		t.Errorf("expected error for bad color")
	}
}

func TestEmbeddedThemesParse(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("no embedded themes")
	}
	l := &Loader{}
	for _, n := range names {
		th, err := l.Load(n)
		if err != nil {
			t.Fatalf("load %s: %v", n, err)
		}
		if th.Name == "" || th.Name == "Default" {
			t.Errorf("theme %s has no name", n)
		}
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sunset.theme"), []byte("Name: Sunset\nBackground: orange\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	custom := Default()
	custom.Name = "inline"
	l := &Loader{ConfigDir: dir, Extra: map[string]*Theme{"inline": custom}}

	th, err := l.Load("sunset")
	if err != nil {
		t.Fatalf("load sunset: %v", err)
	}
	if th.Background != (color.RGBA{0xFF, 0xA5, 0x00, 0xFF}) {
		t.Errorf("Background = %v", th.Background)
	}
	th, err = l.Load("inline")
	if err != nil || th.Name != "inline" {
		t.Fatalf("load inline: %v %v", th, err)
	}
	th.Name = "changed"
	if custom.Name != "inline" {
		t.Errorf("Load must return a copy")
	}
	if _, err := l.Load("missing"); err == nil {
		t.Errorf("expected error for missing theme")
	}
	th, err = l.Load(filepath.Join(dir, "sunset.theme"))
	if err != nil || th.Name != "Sunset" {
		t.Fatalf("load by path: %v %v", th, err)
	}
}
