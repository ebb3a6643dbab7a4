package editor

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/paint"
)

// Dispatch routes a pointer event in screen coordinates to the handler of
// the active tool. Once a gesture starts, move and up events go to the tool
// that started it. Leave ends a gesture like up. It reports whether the
// session changed.
func (s *Session) Dispatch(ev PointerEvent) bool {
	if s.buf == nil {
		return false
	}
	switch ev.Kind {
	case PointerDown:
		if s.g.active {
			return false
		}
		t := s.tool
		switch ev.Button {
		case ButtonMiddle:
			t = ToolSelect
		case ButtonSecondary:
			return false
		}
		s.g = gesture{tool: t}
	case PointerMove, PointerUp, PointerLeave:
		if !s.g.active {
			return false
		}
	default:
		return false
	}
	var changed bool
	switch s.g.tool {
	case ToolSelect:
		changed = s.dispatchPan(ev)
	case ToolCrop:
		changed = s.dispatchCrop(ev)
	case ToolDraw, ToolErase:
		changed = s.dispatchStroke(ev)
	case ToolShape:
		changed = s.dispatchShape(ev)
	case ToolText:
		changed = s.dispatchText(ev)
	case ToolEyedropper:
		changed = s.dispatchEyedropper(ev)
	}
	if ev.Kind == PointerUp || ev.Kind == PointerLeave {
		s.g = gesture{}
	}
	if changed {
		s.emit(Event{Kind: EventDisplayChanged})
	}
	return changed
}

// Active reports whether a pointer gesture is in progress.
func (s *Session) Active() bool { return s.g.active }

// HoverHandle returns the crop handle under the screen point, for cursor
// feedback.
func (s *Session) HoverHandle(x, y float64) crop.Handle {
	if s.area == nil {
		return crop.None
	}
	bx, by := s.ToBuffer(x, y)
	return crop.HitTest(*s.area, bx, by)
}

func (s *Session) dispatchPan(ev PointerEvent) bool {
	switch ev.Kind {
	case PointerDown:
		s.g.active = true
		s.g.panStartX, s.g.panStartY = ev.X, ev.Y
		s.g.panOriginX, s.g.panOriginY = s.view.Pan.X, s.view.Pan.Y
		return false
	case PointerMove:
		p := image.Pt(
			s.g.panOriginX+int(math.Round(ev.X-s.g.panStartX)),
			s.g.panOriginY+int(math.Round(ev.Y-s.g.panStartY)),
		)
		if p == s.view.Pan {
			return false
		}
		s.view.Pan = p
		return true
	}
	return false
}

func (s *Session) dispatchCrop(ev PointerEvent) bool {
	bx, by := s.ToBuffer(ev.X, ev.Y)
	switch ev.Kind {
	case PointerDown:
		s.ensureCropArea()
		if s.area == nil {
			return false
		}
		d, ok := crop.Begin(*s.area, bx, by)
		if !ok {
			return false
		}
		s.g.active = true
		s.g.drag = d
		s.g.dragging = true
		return false
	case PointerMove:
		if !s.g.dragging {
			return false
		}
		a, ok := s.g.drag.Update(bx, by, s.Dims(), s.ratio)
		if !ok || (s.area != nil && a == *s.area) {
			return false
		}
		s.area = &a
		return true
	}
	return false
}

func (s *Session) strokeColor() color.RGBA {
	if s.g.tool == ToolErase {
		return s.bg
	}
	return s.brush.Color
}

func (s *Session) dispatchStroke(ev PointerEvent) bool {
	bx, by := s.ToBuffer(ev.X, ev.Y)
	col := s.strokeColor()
	switch ev.Kind {
	case PointerDown:
		s.g.active = true
		paint.Stroke(s.buf, bx, by, bx, by, s.brush.Size, col)
		s.g.lastX, s.g.lastY = bx, by
		s.g.dirty = true
		s.display = nil
		return true
	case PointerMove:
		if bx == s.g.lastX && by == s.g.lastY {
			return false
		}
		paint.Stroke(s.buf, s.g.lastX, s.g.lastY, bx, by, s.brush.Size, col)
		s.g.lastX, s.g.lastY = bx, by
		s.g.dirty = true
		s.display = nil
		return true
	case PointerUp, PointerLeave:
		if s.g.dirty {
			s.commit(s.g.tool.String())
		}
		return false
	}
	return false
}

func (s *Session) dispatchShape(ev PointerEvent) bool {
	bx, by := s.ToBuffer(ev.X, ev.Y)
	switch ev.Kind {
	case PointerDown:
		s.g.active = true
		s.g.anchorX, s.g.anchorY = bx, by
		s.g.curX, s.g.curY = bx, by
		return false
	case PointerMove:
		s.g.curX, s.g.curY = bx, by
		s.g.preview = true
		return true
	case PointerUp, PointerLeave:
		s.g.curX, s.g.curY = bx, by
		s.g.preview = false
		if s.g.curX == s.g.anchorX && s.g.curY == s.g.anchorY {
			return true
		}
		paint.Shape(s.buf, s.shape, s.g.anchorX, s.g.anchorY, s.g.curX, s.g.curY, s.brush.Size, s.brush.Color)
		s.commit(s.shape.String())
		return true
	}
	return false
}

// PreviewLayer returns a transparent layer the size of the buffer holding
// the shape being dragged, or nil when no preview is active.
func (s *Session) PreviewLayer() *image.RGBA {
	if !s.g.active || s.g.tool != ToolShape || !s.g.preview || s.buf == nil {
		return nil
	}
	layer := image.NewRGBA(image.Rect(0, 0, s.Dims().X, s.Dims().Y))
	paint.Shape(layer, s.shape, s.g.anchorX, s.g.anchorY, s.g.curX, s.g.curY, s.brush.Size, s.brush.Color)
	return layer
}

func (s *Session) dispatchText(ev PointerEvent) bool {
	if ev.Kind != PointerDown || s.text == "" {
		return false
	}
	bx, by := s.ToBuffer(ev.X, ev.Y)
	if !s.AddTextOverlay(s.text, bx, by) {
		return false
	}
	if err := s.Recompose(); err != nil {
		Logger().Warn("text burn-in failed", "err", err)
		s.overlays = s.overlays[:len(s.overlays)-1]
		s.invalidate()
		return false
	}
	s.text = ""
	return true
}

func (s *Session) dispatchEyedropper(ev PointerEvent) bool {
	if ev.Kind != PointerDown {
		return false
	}
	bx, by := s.ToBuffer(ev.X, ev.Y)
	c, ok := paint.Sample(s.buf, int(math.Floor(bx)), int(math.Floor(by)))
	if !ok {
		return false
	}
	s.brush.Color = c
	s.emit(Event{Kind: EventColorPicked, Name: fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)})
	return true
}
