package config

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/theme"
)

// ThemeEnv overrides the configured theme when set.
const ThemeEnv = "RETOUCH_THEME"

// Notify holds notification settings.
type Notify struct {
	Load   bool
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme         string
	SaveDir       string
	ExportFormat  codec.Format
	ExportQuality float64
	BrushSize     float64
	BrushColor    color.RGBA
	Background    color.RGBA
	FontFamily    string
	FontSize      float64
	Notify        Notify
	Themes        map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:         "", // Default to empty to allow fallback to Env/Default
		ExportFormat:  codec.FormatPNG,
		ExportQuality: codec.DefaultQuality,
		BrushSize:     4,
		BrushColor:    editor.DefaultBrushColor,
		Background:    editor.DefaultBackground,
		FontFamily:    paint.DefaultFontFamily,
		FontSize:      paint.DefaultFontSize,
		Themes:        make(map[string]*theme.Theme),
	}
}

// ThemeName returns the theme to use: the explicit override, then the
// environment, then the config file.
func (c *Config) ThemeName(override string) string {
	if override != "" {
		return override
	}
	if v := os.Getenv(ThemeEnv); v != "" {
		return v
	}
	return c.Theme
}

// LoadTheme resolves ThemeName through l, falling back to the default theme
// when the name cannot be found.
func (c *Config) LoadTheme(l *theme.Loader, override string) (*theme.Theme, error) {
	if l.Extra == nil {
		l.Extra = c.Themes
	}
	name := c.ThemeName(override)
	t, err := l.Load(name)
	if err != nil {
		return theme.Default(), err
	}
	return t, nil
}

// SessionOptions converts the editing defaults into editor options.
func (c *Config) SessionOptions() []editor.Option {
	return []editor.Option{
		editor.WithBrush(c.BrushSize, c.BrushColor),
		editor.WithBackground(c.Background),
		editor.WithFont(c.FontFamily, c.FontSize),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "export_format = %s\n", c.ExportFormat)
	fmt.Fprintf(&sb, "export_quality = %s\n", strconv.FormatFloat(c.ExportQuality, 'g', -1, 64))
	fmt.Fprintf(&sb, "brush_size = %s\n", strconv.FormatFloat(c.BrushSize, 'g', -1, 64))
	fmt.Fprintf(&sb, "brush_color = %s\n", theme.Hex(c.BrushColor))
	fmt.Fprintf(&sb, "background_color = %s\n", theme.Hex(c.Background))
	fmt.Fprintf(&sb, "font_family = %s\n", c.FontFamily)
	fmt.Fprintf(&sb, "font_size = %s\n", strconv.FormatFloat(c.FontSize, 'g', -1, 64))
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		t.Colors(func(field string, col color.RGBA) {
			fmt.Fprintf(&sb, "%s: %s\n", field, theme.Hex(col))
		})
		sb.WriteString("\n")
	}

	return sb.String()
}
