package editor

import (
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
)

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool switches the active tool. Requests made while a gesture is in
// progress are ignored and return false. Leaving Crop discards the crop
// area; entering it creates the default area.
func (s *Session) SetTool(t Tool) bool {
	if s.g.active {
		return false
	}
	if t == s.tool {
		if t == ToolCrop {
			s.ensureCropArea()
		}
		return true
	}
	s.tool = t
	s.g = gesture{}
	s.area = nil
	if t == ToolCrop {
		s.ensureCropArea()
	}
	s.emit(Event{Kind: EventDisplayChanged})
	return true
}

// ShapeKind returns the shape drawn by the shape tool.
func (s *Session) ShapeKind() paint.ShapeKind { return s.shape }

// SetShapeKind selects the shape drawn by the shape tool.
func (s *Session) SetShapeKind(k paint.ShapeKind) bool {
	if s.g.active {
		return false
	}
	s.shape = k
	return true
}

// CropArea returns the current crop rectangle.
func (s *Session) CropArea() (crop.Area, bool) {
	if s.area == nil {
		return crop.Area{}, false
	}
	return *s.area, true
}

// SetCropArea replaces the crop rectangle when it is valid for the buffer.
func (s *Session) SetCropArea(a crop.Area) bool {
	if s.tool != ToolCrop || s.g.active || !a.Valid(s.Dims()) {
		return false
	}
	s.area = &a
	s.emit(Event{Kind: EventDisplayChanged})
	return true
}

// AspectRatio returns the pinned crop ratio, or 0 when free.
func (s *Session) AspectRatio() float64 { return s.ratio }

// SetAspectRatio pins the crop width/height ratio, or frees it for 0. The
// current area is reshaped when possible.
func (s *Session) SetAspectRatio(r float64) {
	if r < 0 {
		r = 0
	}
	s.ratio = r
	if s.area == nil || r == 0 || s.g.active {
		return
	}
	if a, ok := crop.FitAspect(*s.area, r, s.Dims()); ok {
		s.area = &a
		s.emit(Event{Kind: EventDisplayChanged})
	}
}

// ApplyCrop replaces the buffer with the crop area, records history and
// returns to the select tool.
func (s *Session) ApplyCrop() bool {
	if s.area == nil || s.buf == nil || s.g.active {
		return false
	}
	r := s.area.Rect(s.Dims())
	if r.Dx() < 1 || r.Dy() < 1 {
		return false
	}
	s.buf = pixbuf.Crop(s.buf, r)
	s.area = nil
	s.tool = ToolSelect
	s.commit("crop")
	return true
}

// CancelCrop discards the crop area and returns to the select tool.
func (s *Session) CancelCrop() bool {
	if s.area == nil || s.g.active {
		return false
	}
	s.area = nil
	s.tool = ToolSelect
	s.emit(Event{Kind: EventDisplayChanged})
	return true
}

func (s *Session) ensureCropArea() {
	if s.area != nil || s.buf == nil {
		return
	}
	a, ok := crop.Default(s.Dims())
	if !ok {
		return
	}
	if s.ratio > 0 {
		if fa, ok := crop.FitAspect(a, s.ratio, s.Dims()); ok {
			a = fa
		}
	}
	s.area = &a
}

// revalidateCrop replaces an area that no longer fits the buffer after its
// dimensions changed.
func (s *Session) revalidateCrop() {
	if s.area == nil || s.area.Valid(s.Dims()) {
		return
	}
	s.area = nil
	if s.tool == ToolCrop {
		s.ensureCropArea()
	}
}
