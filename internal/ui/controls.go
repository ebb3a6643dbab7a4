package ui

import (
	"fmt"
	"image"
	"math"

	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
	"github.com/example/retouch/internal/render"
)

const (
	halfWidth   = 42
	stepWidth   = 20
	captionSize = 112
	panelHalf   = 77
)

// toolEntry is a toolbar button that selects a tool.
type toolEntry struct {
	name   string
	action editor.Action
	tool   editor.Tool
	shape  paint.ShapeKind
}

var toolEntries = []toolEntry{
	{"Select", editor.ActionToolSelect, editor.ToolSelect, 0},
	{"Crop", editor.ActionToolCrop, editor.ToolCrop, 0},
	{"Draw", editor.ActionToolDraw, editor.ToolDraw, 0},
	{"Erase", editor.ActionToolErase, editor.ToolErase, 0},
	{"Rect", editor.ActionToolRect, editor.ToolShape, paint.ShapeRect},
	{"Ellipse", editor.ActionToolEllipse, editor.ToolShape, paint.ShapeEllipse},
	{"Line", editor.ActionToolLine, editor.ToolShape, paint.ShapeLine},
	{"Arrow", editor.ActionToolArrow, editor.ToolShape, paint.ShapeArrow},
	{"Text", editor.ActionToolText, editor.ToolText, 0},
	{"Picker", editor.ActionToolEyedropper, editor.ToolEyedropper, 0},
}

func (t toolEntry) active(s *editor.Session) bool {
	if s.Tool() != t.tool {
		return false
	}
	return t.tool != editor.ToolShape || s.ShapeKind() == t.shape
}

// toolbarButtons builds the left hand toolbar and a function reporting which
// of its buttons reflect the current session state.
func (a *App) toolbarButtons(fit func()) ([]Button, func(Button) bool) {
	sess := a.session
	var buttons []Button
	selected := map[Button]func() bool{}

	for _, te := range toolEntries {
		label := te.name
		if ks := a.bindings.Shortcuts(te.action); len(ks) > 0 {
			label = ks[0].String() + " " + te.name
		}
		b := &CacheButton{Button: &LabelButton{Label: label, Theme: a.theme, Border: true, OnTap: func() { sess.Do(te.action) }}}
		buttons = append(buttons, b)
		selected[b] = func() bool { return te.active(sess) }
	}

	for _, c := range Palette {
		b := &CacheButton{Button: &Swatch{Color: c, OnTap: sess.SetBrushColor}}
		buttons = append(buttons, b)
		selected[b] = func() bool { return sess.Brush().Color == c }
	}

	half := func(label string, fn func()) Button {
		return &CacheButton{Button: &LabelButton{Label: label, Theme: a.theme, Border: true, Width: halfWidth, OnTap: fn}}
	}
	buttons = append(buttons,
		half("Undo", func() { sess.Undo() }),
		half("Redo", func() { sess.Redo() }),
		half("Rot L", func() { sess.Rotate(-90) }),
		half("Rot R", func() { sess.Rotate(90) }),
		half("Flip H", func() { sess.Flip(pixbuf.Horizontal) }),
		half("Flip V", func() { sess.Flip(pixbuf.Vertical) }),
		half("Fit", fit),
		half("Reset", func() { sess.ResetToOriginal() }),
	)

	return buttons, func(b Button) bool {
		if fn, ok := selected[b]; ok {
			return fn()
		}
		return false
	}
}

// caption is a panel row label. Its text is produced from the session when a
// frame is captured.
type caption struct {
	label string
	value func(*editor.Session) string
	rect  image.Rectangle
}

func (c *caption) Draw(*image.RGBA, ButtonState) {}
func (c *caption) Rect() image.Rectangle     { return c.rect }
func (c *caption) SetRect(r image.Rectangle) { c.rect = r }
func (c *caption) Activate()                 {}
func (c *caption) width() int                { return captionSize }

func (c *caption) text(s *editor.Session) string {
	if c.value == nil {
		return c.label
	}
	return c.label + " " + c.value(s)
}

// filterField is one adjustable filter axis.
type filterField struct {
	label string
	step  float64
	field func(*render.Filters) *float64
}

var filterFields = []filterField{
	{"Bright", 10, func(f *render.Filters) *float64 { return &f.Brightness }},
	{"Contrast", 10, func(f *render.Filters) *float64 { return &f.Contrast }},
	{"Saturate", 10, func(f *render.Filters) *float64 { return &f.Saturation }},
	{"Blur", 1, func(f *render.Filters) *float64 { return &f.Blur }},
	{"Gray", 10, func(f *render.Filters) *float64 { return &f.Grayscale }},
	{"Sepia", 10, func(f *render.Filters) *float64 { return &f.Sepia }},
	{"Hue", 15, func(f *render.Filters) *float64 { return &f.HueRotate }},
}

// adjustFilter moves one filter axis by delta.
func adjustFilter(s *editor.Session, ff filterField, delta float64) {
	f := s.Filters()
	p := ff.field(&f)
	*p += delta
	s.SetFilters(f)
}

// cycleRatio steps through the crop ratio presets.
func cycleRatio(s *editor.Session, dir int) {
	i := ratioIndex(s.AspectRatio())
	if i < 0 {
		i = 0
	}
	n := len(crop.Presets)
	s.SetAspectRatio(crop.Presets[((i+dir)%n+n)%n].Value)
}

func ratioIndex(r float64) int {
	for i, p := range crop.Presets {
		if math.Abs(p.Value-r) < 1e-6 {
			return i
		}
	}
	return -1
}

func ratioName(r float64) string {
	if i := ratioIndex(r); i >= 0 {
		return crop.Presets[i].Name
	}
	return fmt.Sprintf("%.2f", r)
}

// panelButtons builds the right hand panel of adjustment rows and commands.
func (a *App) panelButtons(copyImage, save, paste, capture func()) ([]Button, []*caption) {
	sess := a.session
	var buttons []Button
	var captions []*caption

	step := func(label string, fn func()) Button {
		return &CacheButton{Button: &LabelButton{Label: label, Theme: a.theme, Border: true, Width: stepWidth, OnTap: fn}}
	}
	row := func(c *caption, dec, inc func()) {
		captions = append(captions, c)
		buttons = append(buttons, c, step(" -", dec), step(" +", inc))
	}

	for _, ff := range filterFields {
		row(&caption{label: ff.label, value: func(s *editor.Session) string {
			f := s.Filters()
			return fmt.Sprintf("%g", *ff.field(&f))
		}},
			func() { adjustFilter(sess, ff, -ff.step) },
			func() { adjustFilter(sess, ff, ff.step) })
	}
	row(&caption{label: "Brush", value: func(s *editor.Session) string { return fmt.Sprintf("%gpx", s.Brush().Size) }},
		func() { sess.SetBrushSize(sess.Brush().Size - 2) },
		func() { sess.SetBrushSize(sess.Brush().Size + 2) })
	row(&caption{label: "Font", value: func(s *editor.Session) string { return fmt.Sprintf("%gpt", s.Font().Size) }},
		func() { sess.SetFont("", sess.Font().Size-2) },
		func() { sess.SetFont("", sess.Font().Size+2) })
	row(&caption{label: "Ratio", value: func(s *editor.Session) string { return ratioName(s.AspectRatio()) }},
		func() { cycleRatio(sess, -1) },
		func() { cycleRatio(sess, 1) })

	full := func(label string, fn func()) Button {
		return &CacheButton{Button: &LabelButton{Label: label, Theme: a.theme, Border: true, OnTap: fn}}
	}
	half := func(label string, fn func()) Button {
		return &CacheButton{Button: &LabelButton{Label: label, Theme: a.theme, Border: true, Width: panelHalf, OnTap: fn}}
	}
	buttons = append(buttons,
		full("Reset filters", sess.ResetFilters),
		half("Apply crop", func() { sess.ApplyCrop() }),
		half("Cancel", func() { sess.CancelCrop() }),
		half("Copy", copyImage),
		half("Save", save),
		half("Paste", paste),
		half("Capture", capture),
	)
	return buttons, captions
}
