package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"

	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/theme"
	"github.com/example/retouch/internal/view"
)

const (
	toolbarWidth = 96
	panelWidth   = 168
	bottomHeight = 24
	buttonHeight = 22
	rowGap       = 2
	canvasMargin = 8
	checkerSize  = 8
	handleRadius = 4
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// layout splits the window into the toolbar on the left, the adjustment panel
// on the right, the status line at the bottom and the canvas viewport.
type layout struct {
	toolbar  image.Rectangle
	panel    image.Rectangle
	status   image.Rectangle
	viewport image.Rectangle
}

func newLayout(width, height int) layout {
	bottom := max(height-bottomHeight, 0)
	right := max(width-panelWidth, toolbarWidth)
	return layout{
		toolbar:  image.Rect(0, 0, toolbarWidth, bottom),
		panel:    image.Rect(right, 0, width, bottom),
		status:   image.Rect(0, bottom, width, height),
		viewport: image.Rect(toolbarWidth, 0, right, bottom),
	}
}

// origin is where the canvas starts before panning.
func (l layout) origin() image.Point {
	return l.viewport.Min.Add(image.Pt(canvasMargin, canvasMargin))
}

// fitSize is the area the canvas is fitted into.
func (l layout) fitSize() image.Point {
	return image.Pt(max(l.viewport.Dx()-2*canvasMargin, 1), max(l.viewport.Dy()-2*canvasMargin, 1))
}

// paintState is an immutable snapshot handed to the paint worker.
type paintState struct {
	width, height int
	theme         *theme.Theme

	img      *image.RGBA
	preview  *image.RGBA
	canvas   image.Rectangle
	dims     image.Point
	area     crop.Area
	showCrop bool

	toolbar *widgets
	panel   *widgets
	labels  []panelLabel

	status    string
	statusErr bool
	info      string
}

// panelLabel is static text drawn in the adjustment panel.
type panelLabel struct {
	text string
	at   image.Point
}

type message struct {
	text  string
	err   bool
	until time.Time
}

func (m message) active(now time.Time) bool { return m.text != "" && now.Before(m.until) }

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !compose(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// compose renders st into dst. It returns false when ctx was canceled before
// the frame was complete.
func compose(ctx context.Context, dst *image.RGBA, st paintState) bool {
	t := st.theme
	l := newLayout(st.width, st.height)

	draw.Draw(dst, dst.Bounds(), &image.Uniform{t.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return false
	}

	if st.img != nil {
		vis := st.canvas.Intersect(l.viewport)
		drawCheckerboard(dst, vis, checkerSize, t.CheckerLight, t.CheckerDark)
		if ctx.Err() != nil {
			return false
		}
		scaleInto(dst, st.canvas, l.viewport, st.img)
		if st.preview != nil {
			scaleInto(dst, st.canvas, l.viewport, st.preview)
		}
		if ctx.Err() != nil {
			return false
		}
		if st.showCrop {
			drawCropOverlay(dst, l.viewport, st.canvas, st.dims, st.area, t)
		}
	} else {
		hint := "Open an image: Ctrl+V pastes, Ctrl+N captures the screen"
		c := l.viewport.Min.Add(image.Pt((l.viewport.Dx()-labelWidth(hint))/2, l.viewport.Dy()/2))
		drawLabel(dst, hint, c.X, c.Y, t.Foreground)
	}
	if ctx.Err() != nil {
		return false
	}

	draw.Draw(dst, l.toolbar, &image.Uniform{t.ToolbarBackground}, image.Point{}, draw.Src)
	draw.Draw(dst, l.panel, &image.Uniform{t.ToolbarBackground}, image.Point{}, draw.Src)
	st.toolbar.draw(dst)
	st.panel.draw(dst)
	for _, lb := range st.labels {
		drawLabel(dst, lb.text, lb.at.X, lb.at.Y, t.Foreground)
	}
	if ctx.Err() != nil {
		return false
	}

	drawStatus(dst, l.status, st, t)
	return ctx.Err() == nil
}

// scaleInto draws src stretched over canvas, clipped to the viewport.
// Downscaled views are filtered; magnified ones keep hard pixel edges.
func scaleInto(dst *image.RGBA, canvas, viewport image.Rectangle, src *image.RGBA) {
	if canvas.Empty() || src == nil {
		return
	}
	scaler := xdraw.Interpolator(xdraw.NearestNeighbor)
	if canvas.Dx() < src.Bounds().Dx() {
		scaler = xdraw.ApproxBiLinear
	}
	clip := dst.SubImage(viewport).(*image.RGBA)
	scaler.Scale(clip, canvas, src, src.Bounds(), draw.Over, nil)
}

// cropScreenRect converts a crop area into window coordinates.
func cropScreenRect(canvas image.Rectangle, dims image.Point, a crop.Area) image.Rectangle {
	x0, y0 := view.BufferToScreen(a.X, a.Y, canvas, dims)
	x1, y1 := view.BufferToScreen(a.Right(), a.Bottom(), canvas, dims)
	return image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
}

// cropHandleRects returns the squares drawn on each crop anchor.
func cropHandleRects(canvas image.Rectangle, dims image.Point, a crop.Area) []image.Rectangle {
	out := make([]image.Rectangle, 0, 8)
	for _, p := range a.Anchors() {
		x, y := view.BufferToScreen(p[0], p[1], canvas, dims)
		c := image.Pt(int(math.Round(x)), int(math.Round(y)))
		out = append(out, image.Rect(c.X-handleRadius, c.Y-handleRadius, c.X+handleRadius+1, c.Y+handleRadius+1))
	}
	return out
}

func drawCropOverlay(dst *image.RGBA, viewport, canvas image.Rectangle, dims image.Point, a crop.Area, t *theme.Theme) {
	clip := dst.SubImage(viewport).(*image.RGBA)
	r := cropScreenRect(canvas, dims, a)
	shade := &image.Uniform{t.CropShade}
	for _, band := range []image.Rectangle{
		image.Rect(canvas.Min.X, canvas.Min.Y, canvas.Max.X, r.Min.Y),
		image.Rect(canvas.Min.X, r.Max.Y, canvas.Max.X, canvas.Max.Y),
		image.Rect(canvas.Min.X, r.Min.Y, r.Min.X, r.Max.Y),
		image.Rect(r.Max.X, r.Min.Y, canvas.Max.X, r.Max.Y),
	} {
		draw.Draw(clip, band.Intersect(canvas), shade, image.Point{}, draw.Over)
	}
	drawDashedRect(clip, r, 4, t.CropBorder, t.CropHandle)
	for _, hr := range cropHandleRects(canvas, dims, a) {
		draw.Draw(clip, hr, &image.Uniform{t.CropHandle}, image.Point{}, draw.Src)
		drawRect(clip, hr, t.CropBorder, 1)
	}
}

func drawStatus(dst *image.RGBA, r image.Rectangle, st paintState, t *theme.Theme) {
	draw.Draw(dst, r, &image.Uniform{t.StatusBackground}, image.Point{}, draw.Src)
	y := r.Min.Y + (r.Dy()+9)/2
	col := t.StatusText
	if st.statusErr {
		col = t.StatusError
	}
	drawLabel(dst, st.status, r.Min.X+6, y, col)
	if st.info != "" {
		drawLabel(dst, st.info, r.Max.X-labelWidth(st.info)-6, y, t.StatusText)
	}
}

// statusInfo summarises the session for the right side of the status line.
func statusInfo(s *editor.Session) string {
	if s.Buffer() == nil {
		return ""
	}
	d := s.Dims()
	info := fmt.Sprintf("%dx%d  %d%%  %s", d.X, d.Y, int(math.Round(s.View().Zoom*100)), s.Tool())
	if s.Tool() == editor.ToolShape {
		info += ":" + s.ShapeKind().String()
	}
	if entries, ptr := s.History(); len(entries) > 0 {
		info += fmt.Sprintf("  %d/%d", ptr+1, len(entries))
	}
	return info
}

// toolHint is shown in the status line when no message is pending.
func toolHint(s *editor.Session, b editor.Bindings) string {
	switch s.Tool() {
	case editor.ToolCrop:
		return fmt.Sprintf("Drag the handles, %s applies, %s cancels", keyLabel(b, editor.ActionApplyCrop), keyLabel(b, editor.ActionCancelCrop))
	case editor.ToolText:
		if s.PendingText() == "" {
			return "Type some text, then click to place it"
		}
		return fmt.Sprintf("Text: %s_  (click to place)", s.PendingText())
	case editor.ToolEyedropper:
		return "Click to pick a brush color"
	case editor.ToolDraw, editor.ToolErase, editor.ToolShape:
		return fmt.Sprintf("Brush %d px", int(s.Brush().Size))
	}
	return fmt.Sprintf("%s undo  %s redo  middle drag pans", keyLabel(b, editor.ActionUndo), keyLabel(b, editor.ActionRedo))
}

func keyLabel(b editor.Bindings, a editor.Action) string {
	if ks := b.Shortcuts(a); len(ks) > 0 {
		return ks[0].String()
	}
	return string(a)
}

// swatchOutline marks the palette entry matching the brush color.
func swatchOutline(c color.RGBA) color.RGBA {
	if int(c.R)+int(c.G)+int(c.B) > 3*128 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}
