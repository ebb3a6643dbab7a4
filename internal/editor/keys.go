package editor

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
)

// Action names a keyboard bindable session command.
type Action string

const (
	ActionUndo           Action = "undo"
	ActionRedo           Action = "redo"
	ActionApplyCrop      Action = "apply-crop"
	ActionCancelCrop     Action = "cancel-crop"
	ActionZoomIn         Action = "zoom-in"
	ActionZoomOut        Action = "zoom-out"
	ActionRotateLeft     Action = "rotate-left"
	ActionRotateRight    Action = "rotate-right"
	ActionFlipHorizontal Action = "flip-horizontal"
	ActionFlipVertical   Action = "flip-vertical"
	ActionResetFilters   Action = "reset-filters"
	ActionToolSelect     Action = "tool-select"
	ActionToolCrop       Action = "tool-crop"
	ActionToolDraw       Action = "tool-draw"
	ActionToolErase      Action = "tool-erase"
	ActionToolRect       Action = "tool-rect"
	ActionToolEllipse    Action = "tool-ellipse"
	ActionToolLine       Action = "tool-line"
	ActionToolArrow      Action = "tool-arrow"
	ActionToolText       Action = "tool-text"
	ActionToolEyedropper Action = "tool-eyedropper"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

func (k KeyShortcut) String() string {
	var parts []string
	if k.Modifiers&key.ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Modifiers&key.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	switch {
	case k.Code == key.CodeReturnEnter:
		parts = append(parts, "Enter")
	case k.Code == key.CodeEscape:
		parts = append(parts, "Esc")
	case k.Rune != 0:
		parts = append(parts, strings.ToUpper(string(k.Rune)))
	default:
		parts = append(parts, fmt.Sprintf("Code(%d)", int(k.Code)))
	}
	return strings.Join(parts, "+")
}

// Bindings maps shortcuts to actions.
type Bindings map[KeyShortcut]Action

// DefaultBindings returns the built in shortcuts.
func DefaultBindings() Bindings {
	b := Bindings{}
	bind := func(a Action, keys ...KeyShortcut) {
		for _, k := range keys {
			b[k] = a
		}
	}
	bind(ActionUndo, KeyShortcut{Rune: 'z', Modifiers: key.ModControl})
	bind(ActionRedo,
		KeyShortcut{Rune: 'y', Modifiers: key.ModControl},
		KeyShortcut{Rune: 'z', Modifiers: key.ModControl | key.ModShift})
	bind(ActionApplyCrop, KeyShortcut{Code: key.CodeReturnEnter})
	bind(ActionCancelCrop, KeyShortcut{Code: key.CodeEscape})
	bind(ActionZoomIn, KeyShortcut{Rune: '+'}, KeyShortcut{Rune: '='})
	bind(ActionZoomOut, KeyShortcut{Rune: '-'})
	bind(ActionRotateLeft, KeyShortcut{Rune: '['})
	bind(ActionRotateRight, KeyShortcut{Rune: ']'})
	bind(ActionFlipHorizontal, KeyShortcut{Rune: 'h'})
	bind(ActionFlipVertical, KeyShortcut{Rune: 'k'})
	bind(ActionResetFilters, KeyShortcut{Rune: '0'})
	bind(ActionToolSelect, KeyShortcut{Rune: 'v'})
	bind(ActionToolCrop, KeyShortcut{Rune: 'c'})
	bind(ActionToolDraw, KeyShortcut{Rune: 'b'})
	bind(ActionToolErase, KeyShortcut{Rune: 'e'})
	bind(ActionToolRect, KeyShortcut{Rune: 'r'})
	bind(ActionToolEllipse, KeyShortcut{Rune: 'o'})
	bind(ActionToolLine, KeyShortcut{Rune: 'l'})
	bind(ActionToolArrow, KeyShortcut{Rune: 'a'})
	bind(ActionToolText, KeyShortcut{Rune: 't'})
	bind(ActionToolEyedropper, KeyShortcut{Rune: 'i'})
	return b
}

// Shortcuts lists the keys bound to a, sorted by their label.
func (b Bindings) Shortcuts(a Action) []KeyShortcut {
	var out []KeyShortcut
	for k, v := range b {
		if v == a {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Lookup finds the action for a key event, matching the key code before
// the rune. Shift only counts together with Ctrl so that shifted symbols
// such as '+' match their plain binding.
func (b Bindings) Lookup(e key.Event) (Action, bool) {
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	if mods&key.ModControl == 0 {
		mods = 0
	}
	if e.Code != key.CodeUnknown {
		if a, ok := b[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
			return a, true
		}
	}
	if e.Rune > 0 {
		if a, ok := b[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
			return a, true
		}
	}
	return "", false
}

// Key handles a key event. While the text tool is active, printable runes
// and backspace edit the pending text and Escape clears it. It reports
// whether the session changed.
func (s *Session) Key(e key.Event, b Bindings) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if s.tool == ToolText && e.Modifiers&key.ModControl == 0 {
		switch e.Code {
		case key.CodeDeleteBackspace:
			if s.text == "" {
				return false
			}
			r := []rune(s.text)
			s.SetPendingText(string(r[:len(r)-1]))
			return true
		case key.CodeEscape:
			if s.text == "" {
				return s.SetTool(ToolSelect)
			}
			s.SetPendingText("")
			return true
		case key.CodeReturnEnter:
			return false
		}
		if e.Rune > 0 && unicode.IsPrint(e.Rune) {
			s.SetPendingText(s.text + string(e.Rune))
			return true
		}
	}
	a, ok := b.Lookup(e)
	if !ok {
		return false
	}
	return s.Do(a)
}

// Do runs a named action and reports whether it changed anything.
func (s *Session) Do(a Action) bool {
	switch a {
	case ActionUndo:
		return s.Undo()
	case ActionRedo:
		return s.Redo()
	case ActionApplyCrop:
		return s.ApplyCrop()
	case ActionCancelCrop:
		return s.CancelCrop()
	case ActionZoomIn:
		s.ZoomIn()
		return true
	case ActionZoomOut:
		s.ZoomOut()
		return true
	case ActionRotateLeft:
		return s.Rotate(-90)
	case ActionRotateRight:
		return s.Rotate(90)
	case ActionFlipHorizontal:
		return s.Flip(pixbuf.Horizontal)
	case ActionFlipVertical:
		return s.Flip(pixbuf.Vertical)
	case ActionResetFilters:
		s.ResetFilters()
		return true
	case ActionToolSelect:
		return s.SetTool(ToolSelect)
	case ActionToolCrop:
		return s.SetTool(ToolCrop)
	case ActionToolDraw:
		return s.SetTool(ToolDraw)
	case ActionToolErase:
		return s.SetTool(ToolErase)
	case ActionToolRect:
		return s.selectShape(paint.ShapeRect)
	case ActionToolEllipse:
		return s.selectShape(paint.ShapeEllipse)
	case ActionToolLine:
		return s.selectShape(paint.ShapeLine)
	case ActionToolArrow:
		return s.selectShape(paint.ShapeArrow)
	case ActionToolText:
		return s.SetTool(ToolText)
	case ActionToolEyedropper:
		return s.SetTool(ToolEyedropper)
	}
	return false
}

func (s *Session) selectShape(k paint.ShapeKind) bool {
	if !s.SetShapeKind(k) {
		return false
	}
	return s.SetTool(ToolShape)
}
