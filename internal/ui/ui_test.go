package ui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/theme"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func newTestApp(t *testing.T) (*App, *editor.Session) {
	t.Helper()
	sess := editor.New(editor.WithImage(solid(100, 100, color.RGBA{0, 0, 255, 255}), "blue.png"))
	return New(sess, WithTheme(theme.Default())), sess
}

func TestNewLayout(t *testing.T) {
	l := newLayout(800, 600)
	if l.toolbar != image.Rect(0, 0, toolbarWidth, 600-bottomHeight) {
		t.Fatalf("toolbar %v", l.toolbar)
	}
	if l.viewport != image.Rect(toolbarWidth, 0, 800-panelWidth, 600-bottomHeight) {
		t.Fatalf("viewport %v", l.viewport)
	}
	if l.status.Dy() != bottomHeight || l.status.Dx() != 800 {
		t.Fatalf("status %v", l.status)
	}
	if got := l.origin(); got != image.Pt(toolbarWidth+canvasMargin, canvasMargin) {
		t.Fatalf("origin %v", got)
	}
	// A window narrower than the chrome still yields a sane layout.
	small := newLayout(50, 10)
	if small.viewport.Dx() != 0 || small.fitSize().X != 1 {
		t.Fatalf("small layout %v fit %v", small.viewport, small.fitSize())
	}
}

func TestPointerEvent(t *testing.T) {
	cases := []struct {
		in   mouse.Event
		want editor.PointerEvent
		ok   bool
	}{
		{mouse.Event{X: 3, Y: 4, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, editor.PointerEvent{Kind: editor.PointerDown, X: 3, Y: 4}, true},
		{mouse.Event{X: 5, Y: 6, Direction: mouse.DirNone}, editor.PointerEvent{Kind: editor.PointerMove, X: 5, Y: 6}, true},
		{mouse.Event{Button: mouse.ButtonMiddle, Direction: mouse.DirRelease}, editor.PointerEvent{Kind: editor.PointerUp, Button: editor.ButtonMiddle}, true},
		{mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress}, editor.PointerEvent{Kind: editor.PointerDown, Button: editor.ButtonSecondary}, true},
		{mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirRelease}, editor.PointerEvent{}, false},
		{mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, editor.PointerEvent{}, false},
	}
	for i, c := range cases {
		got, ok := pointerEvent(c.in)
		if ok != c.ok {
			t.Fatalf("case %d: ok %v want %v", i, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("case %d: got %+v want %+v", i, got, c.want)
		}
	}
}

func TestAppShortcut(t *testing.T) {
	want := editor.KeyShortcut{Rune: 's', Modifiers: key.ModControl}
	if got := appShortcut(key.Event{Rune: 'S', Modifiers: key.ModControl | key.ModShift}); got != want {
		t.Fatalf("upper case: %+v", got)
	}
	if got := appShortcut(key.Event{Rune: 19, Modifiers: key.ModControl}); got != want {
		t.Fatalf("control character: %+v", got)
	}
	if got := appShortcut(key.Event{Rune: 's'}); got != (editor.KeyShortcut{}) {
		t.Fatalf("without ctrl: %+v", got)
	}
}

func TestWidgetsLayoutAndActivate(t *testing.T) {
	th := theme.Default()
	tapped := ""
	mk := func(label string, width int) Button {
		return &CacheButton{Button: &LabelButton{Label: label, Theme: th, Width: width, OnTap: func() { tapped = label }}}
	}
	g := newWidgets()
	g.set([]Button{mk("wide", 0), mk("a", halfWidth), mk("b", halfWidth), mk("c", halfWidth)}, image.Rect(0, 0, toolbarWidth, 400))

	wantRects := []image.Rectangle{
		image.Rect(4, 4, toolbarWidth-4, 4+buttonHeight),
		image.Rect(4, 28, 4+halfWidth, 28+buttonHeight),
		image.Rect(4+halfWidth+rowGap, 28, 4+2*halfWidth+rowGap, 28+buttonHeight),
		image.Rect(4, 52, 4+halfWidth, 52+buttonHeight),
	}
	for i, b := range g.buttons {
		if b.Rect() != wantRects[i] {
			t.Fatalf("button %d rect %v want %v", i, b.Rect(), wantRects[i])
		}
	}

	i := g.at(image.Pt(60, 30))
	if i != 2 {
		t.Fatalf("hit test gave %d", i)
	}
	g.activate(i)
	if tapped != "b" {
		t.Fatalf("activated %q", tapped)
	}
	if g.at(image.Pt(80, 60)) != -1 {
		t.Fatal("empty space should not hit a button")
	}
	if !g.setHover(1) || g.setHover(1) {
		t.Fatal("hover change should be reported once")
	}

	dst := image.NewRGBA(image.Rect(0, 0, toolbarWidth, 400))
	g.sync(func(b Button) bool { return b == g.buttons[0] })
	g.draw(dst)
	if got := dst.RGBAAt(5, 5); got != th.ButtonBackgroundPress {
		t.Fatalf("selected button color %v", got)
	}
	if got := dst.RGBAAt(5, 29); got != th.ButtonBackgroundHover {
		t.Fatalf("hovered button color %v", got)
	}
}

func TestComposeDrawsCanvasAndCropOverlay(t *testing.T) {
	a, sess := newTestApp(t)
	const width, height = 400, 300
	l := newLayout(width, height)
	sess.SetViewportOrigin(l.origin())
	if !sess.SetTool(editor.ToolCrop) {
		t.Fatal("crop tool refused")
	}
	toolbar, panel := newWidgets(), newWidgets()
	tb, _ := a.toolbarButtons(func() {})
	pb, captions := a.panelButtons(func() {}, func() {}, func() {}, func() {})
	toolbar.set(tb, l.toolbar)
	panel.set(pb, l.panel)

	st := a.snapshot(width, height, toolbar, panel, captions, message{}, crop.None)
	if !st.showCrop {
		t.Fatal("crop overlay missing from snapshot")
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if !compose(context.Background(), dst, st) {
		t.Fatal("compose reported cancellation")
	}

	canvas := sess.Canvas()
	if got := dst.RGBAAt(canvas.Min.X+50, canvas.Min.Y+50); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("inside crop area %v", got)
	}
	shaded := dst.RGBAAt(canvas.Min.X+2, canvas.Min.Y+2)
	if shaded.B >= 200 || shaded.B == 0 {
		t.Fatalf("outside crop area should be shaded, got %v", shaded)
	}
	if got := dst.RGBAAt(1, 1); got != a.theme.ToolbarBackground {
		t.Fatalf("toolbar background %v", got)
	}
	if got := dst.RGBAAt(width-1, height-1); got != a.theme.StatusBackground {
		t.Fatalf("status background %v", got)
	}
}

func TestComposeCanceled(t *testing.T) {
	a, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := a.snapshot(200, 200, newWidgets(), newWidgets(), nil, message{}, crop.None)
	if compose(ctx, image.NewRGBA(image.Rect(0, 0, 200, 200)), st) {
		t.Fatal("canceled frame should not complete")
	}
}

func TestCropHandleRects(t *testing.T) {
	canvas := image.Rect(10, 10, 210, 210)
	dims := image.Pt(100, 100)
	rects := cropHandleRects(canvas, dims, crop.Area{X: 10, Y: 20, Width: 50, Height: 40})
	if len(rects) != 8 {
		t.Fatalf("got %d handles", len(rects))
	}
	// NW anchor (10,20) at zoom 2 lands on (30,50).
	want := image.Rect(30-handleRadius, 50-handleRadius, 30+handleRadius+1, 50+handleRadius+1)
	if rects[0] != want {
		t.Fatalf("nw handle %v want %v", rects[0], want)
	}
	if r := cropScreenRect(canvas, dims, crop.Area{X: 10, Y: 20, Width: 50, Height: 40}); r != image.Rect(30, 50, 130, 130) {
		t.Fatalf("screen rect %v", r)
	}
}

func TestToolbarSelection(t *testing.T) {
	a, sess := newTestApp(t)
	buttons, selected := a.toolbarButtons(func() {})
	if lb := buttons[0].(*CacheButton).Button.(*LabelButton); lb.Label != "V Select" {
		t.Fatalf("select label %q", lb.Label)
	}
	if !selected(buttons[0]) {
		t.Fatal("select tool should start selected")
	}
	buttons[5].Activate() // Ellipse
	if sess.Tool() != editor.ToolShape || !selected(buttons[5]) || selected(buttons[4]) {
		t.Fatalf("ellipse selection: tool %v", sess.Tool())
	}
	blue := len(toolEntries) + 6
	buttons[blue].Activate()
	if sess.Brush().Color != Palette[6] || !selected(buttons[blue]) {
		t.Fatalf("brush color %v", sess.Brush().Color)
	}
}

func TestPanelAdjustments(t *testing.T) {
	a, sess := newTestApp(t)
	buttons, captions := a.panelButtons(func() {}, func() {}, func() {}, func() {})
	if got := captions[0].text(sess); got != "Bright 100" {
		t.Fatalf("caption %q", got)
	}
	// Rows are caption, minus, plus.
	buttons[2].Activate()
	if sess.Filters().Brightness != 110 {
		t.Fatalf("brightness %v", sess.Filters().Brightness)
	}
	buttons[3*3+1].Activate() // Blur minus clamps at zero.
	if sess.Filters().Blur != 0 {
		t.Fatalf("blur %v", sess.Filters().Blur)
	}
	if entries, _ := sess.History(); len(entries) != 1 {
		t.Fatalf("filter changes must not enter history, got %d entries", len(entries))
	}
}

func TestCycleRatio(t *testing.T) {
	_, sess := newTestApp(t)
	if ratioName(sess.AspectRatio()) != "free" {
		t.Fatalf("initial ratio %q", ratioName(sess.AspectRatio()))
	}
	cycleRatio(sess, 1)
	if ratioName(sess.AspectRatio()) != "1:1" {
		t.Fatalf("next ratio %q", ratioName(sess.AspectRatio()))
	}
	cycleRatio(sess, -1)
	cycleRatio(sess, -1)
	if got := ratioName(sess.AspectRatio()); got != crop.Presets[len(crop.Presets)-1].Name {
		t.Fatalf("wrapped ratio %q", got)
	}
}

func TestStatusInfo(t *testing.T) {
	_, sess := newTestApp(t)
	if got := statusInfo(sess); got != "100x100  100%  select  1/1" {
		t.Fatalf("status %q", got)
	}
	if got := statusInfo(editor.New()); got != "" {
		t.Fatalf("empty session status %q", got)
	}
}

func TestControlQueuesUntilWindowOpens(t *testing.T) {
	a, sess := newTestApp(t)
	ran := 0
	a.Control(func(s *editor.Session) {
		if s != sess {
			t.Fatal("control ran against the wrong session")
		}
		ran++
	})
	if ran != 0 {
		t.Fatal("control ran before the loop started")
	}
	var got []controlEvent
	a.setControlSender(func(ev controlEvent) { got = append(got, ev) })
	if len(got) != 1 {
		t.Fatalf("pending controls flushed %d", len(got))
	}
	got[0].fn(sess)
	if ran != 1 {
		t.Fatal("control did not run")
	}
	closed := false
	a.onClose = func() { closed = true }
	a.notifyClose()
	a.notifyClose()
	if !closed {
		t.Fatal("close callback not called")
	}
}

func TestCloseOnlyReachesOpenWindow(t *testing.T) {
	a := New(editor.New())
	a.Close()
	var got []controlEvent
	a.setControlSender(func(ev controlEvent) { got = append(got, ev) })
	if len(got) != 0 {
		t.Fatalf("close before the window opened was queued: %d", len(got))
	}
	a.Close()
	if len(got) != 1 || !got[0].quit {
		t.Fatalf("expected a quit event, got %+v", got)
	}
	a.notifyClose()
	a.Close()
	if len(got) != 1 {
		t.Fatal("close after the window went away was sent")
	}
}
