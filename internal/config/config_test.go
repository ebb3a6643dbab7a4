package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/theme"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/edits
export_format = jpg
export_quality = 0.75
brush_size = 12
brush_color = navy
background_color = "#FAFAFA"
font_family = monospace
font_size = 32

[notify]
load = true
export = false
copy = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/edits" {
		t.Errorf("Expected save_dir '/tmp/edits', got '%s'", cfg.SaveDir)
	}
	if cfg.ExportFormat != codec.FormatJPEG || cfg.ExportQuality != 0.75 {
		t.Errorf("export settings = %v %v", cfg.ExportFormat, cfg.ExportQuality)
	}
	if cfg.BrushSize != 12 || cfg.BrushColor != (color.RGBA{0, 0, 0x80, 0xFF}) {
		t.Errorf("brush = %v %v", cfg.BrushSize, cfg.BrushColor)
	}
	if cfg.Background != (color.RGBA{0xFA, 0xFA, 0xFA, 0xFF}) {
		t.Errorf("background = %v", cfg.Background)
	}
	if cfg.FontFamily != "monospace" || cfg.FontSize != 32 {
		t.Errorf("font = %q %v", cfg.FontFamily, cfg.FontSize)
	}

	if !cfg.Notify.Load {
		t.Error("Expected notify.load to be true")
	}
	if cfg.Notify.Export {
		t.Error("Expected notify.export to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"export_format = gif",
		"brush_size = 0",
		"font_size = big",
		"brush_color = #12",
		"[notify]\nload = maybe",
		"[theme.x]\nBackground = nope",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/edits
export_format = webp
brush_color = #00FF0080

[notify]
load = true
export = true
copy = false

[theme.custom]
Name = custom
Background = #000000
CropShade = #00000040
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.ExportFormat != cfg2.ExportFormat || cfg.BrushColor != cfg2.BrushColor || cfg.FontSize != cfg2.FontSize {
		t.Errorf("editing defaults mismatch:\n%+v\n%+v", cfg, cfg2)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestThemeName(t *testing.T) {
	cfg := New()
	cfg.Theme = "dark"
	t.Setenv(ThemeEnv, "")
	if got := cfg.ThemeName(""); got != "dark" {
		t.Errorf("got %q", got)
	}
	t.Setenv(ThemeEnv, "light")
	if got := cfg.ThemeName(""); got != "light" {
		t.Errorf("got %q", got)
	}
	if got := cfg.ThemeName("high-contrast"); got != "high-contrast" {
		t.Errorf("got %q", got)
	}

	th, err := cfg.LoadTheme(&theme.Loader{}, "")
	if err != nil || th.Name != "Light" {
		t.Errorf("LoadTheme = %v, %v", th, err)
	}
	th, err = cfg.LoadTheme(&theme.Loader{}, "nope")
	if err == nil || th == nil {
		t.Errorf("expected fallback theme with error")
	}
}

func TestLoaderSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.rc")
	l := NewLoader("1.0", path)
	cfg := New()
	cfg.SaveDir = "/srv/out"
	got, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got != path {
		t.Errorf("saved to %s", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SaveDir != "/srv/out" {
		t.Errorf("SaveDir = %q", loaded.SaveDir)
	}
}
