// Package ui hosts an editor session in a desktop window.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/retouch/internal/capture"
	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/theme"
)

const messageDuration = 3 * time.Second

// Source produces an image to open. It runs off the event loop.
type Source func() (*image.RGBA, string, error)

// FileSource reads and decodes the file at path.
func FileSource(path string) Source {
	return func() (*image.RGBA, string, error) {
		p, err := codec.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		img, err := codec.Decode(p)
		return img, p.Name, err
	}
}

// ClipboardSource decodes the image currently on the clipboard.
func ClipboardSource() Source {
	return func() (*image.RGBA, string, error) {
		p, err := clipboard.ReadPayload()
		if err != nil {
			return nil, "", fmt.Errorf("paste: %w", err)
		}
		img, err := codec.Decode(p)
		return img, p.Name, err
	}
}

// CaptureSource grabs the desktop.
func CaptureSource(opts capture.Options) Source {
	return func() (*image.RGBA, string, error) {
		img, err := capture.Screen(opts)
		if err != nil {
			return nil, "", err
		}
		return img, capture.Name(time.Now()), nil
	}
}

// App runs an editor session in a shiny window.
type App struct {
	session  *editor.Session
	theme    *theme.Theme
	bindings editor.Bindings
	notifier *notify.Notifier
	source   Source
	capture  capture.Options
	title    string

	saveDir string
	format  codec.Format
	quality float64

	controlMu   sync.Mutex
	sendControl func(controlEvent)
	pending     []func(*editor.Session)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// WithBindings replaces the default keyboard shortcuts.
func WithBindings(b editor.Bindings) Option { return func(a *App) { a.bindings = b } }

// WithNotifier sends desktop notifications for loads, saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithSource opens the image produced by src once the window is up.
func WithSource(src Source) Option { return func(a *App) { a.source = src } }

// WithCaptureOptions configures the capture shortcut.
func WithCaptureOptions(o capture.Options) Option { return func(a *App) { a.capture = o } }

// WithExport sets where and how Ctrl+S writes the edited image.
func WithExport(dir string, f codec.Format, quality float64) Option {
	return func(a *App) { a.saveDir, a.format, a.quality = dir, f, quality }
}

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *App) { a.title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App for s with the provided options.
func New(s *editor.Session, opts ...Option) *App {
	a := &App{
		session: s,
		theme:   theme.Default(),
		format:  codec.FormatPNG,
		quality: codec.DefaultQuality,
		title:   "Retouch",
	}
	for _, o := range opts {
		o(a)
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	if a.bindings == nil {
		a.bindings = editor.DefaultBindings()
	}
	return a
}

// controlEvent runs fn against the session on the event loop.
type controlEvent struct {
	fn   func(*editor.Session)
	quit bool
}

type loadedEvent struct {
	img  *image.RGBA
	name string
	err  error
}

type savedEvent struct {
	path string
	err  error
}

type copiedEvent struct {
	err error
}

// Control queues fn to run on the event loop with exclusive access to the
// session. Calls made before the window opens run once it does.
func (a *App) Control(fn func(*editor.Session)) {
	a.controlMu.Lock()
	sender := a.sendControl
	if sender == nil {
		a.pending = append(a.pending, fn)
	}
	a.controlMu.Unlock()
	if sender != nil {
		sender(controlEvent{fn: fn})
	}
}

// Close asks an open window to close. It has no effect once the window is
// gone.
func (a *App) Close() {
	a.controlMu.Lock()
	sender := a.sendControl
	a.controlMu.Unlock()
	if sender != nil {
		sender(controlEvent{quit: true})
	}
}

func (a *App) setControlSender(fn func(controlEvent)) {
	a.controlMu.Lock()
	a.sendControl = fn
	pending := a.pending
	a.pending = nil
	a.controlMu.Unlock()
	if fn != nil {
		for _, p := range pending {
			fn(controlEvent{fn: p})
		}
	}
}

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		a.setControlSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

// initialSize picks a window large enough for the current image, within
// reason.
func (a *App) initialSize() (int, int) {
	d := a.session.Dims()
	if d.X == 0 || d.Y == 0 {
		return 1024, 720
	}
	w := min(max(d.X+toolbarWidth+panelWidth+2*canvasMargin, 640), 1600)
	h := min(max(d.Y+bottomHeight+2*canvasMargin, 480), 1000)
	return w, h
}

func (a *App) Main(s screen.Screen) {
	width, height := a.initialSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	sess := a.session
	lay := newLayout(width, height)
	toolbar, panel := newWidgets(), newWidgets()
	var msg message
	var hoverHandle crop.Handle
	var closing bool
	dirty := true
	fitPending := sess.Buffer() != nil

	flash := func(text string, isErr bool) {
		msg = message{text: text, err: isErr, until: time.Now().Add(messageDuration)}
		if isErr {
			log.Printf("%s", text)
		}
		dirty = true
	}

	sess.Subscribe(func(e editor.Event) {
		switch e.Kind {
		case editor.EventColorPicked:
			flash("picked "+e.Name, false)
		case editor.EventImageLoaded:
			fitPending = true
		}
		dirty = true
	})

	load := func(src Source, what string) {
		if src == nil {
			return
		}
		flash(what+"...", false)
		go func() {
			img, name, err := src()
			w.Send(loadedEvent{img: img, name: name, err: err})
		}()
	}

	save := func() {
		blob, err := sess.Export(a.format, a.quality)
		if err != nil {
			flash(fmt.Sprintf("save: %v", err), true)
			return
		}
		path := filepath.Join(a.saveDir, blob.Filename)
		go func() {
			err := writeFile(path, blob.Data)
			w.Send(savedEvent{path: path, err: err})
		}()
	}

	copyImage := func() {
		img, err := sess.Display()
		if err != nil || img == nil {
			flash("copy: nothing to copy", true)
			return
		}
		go func() {
			w.Send(copiedEvent{err: clipboard.WriteImage(img)})
		}()
	}

	fit := func() {
		sess.FitView(lay.fitSize())
		fitPending = false
	}

	appKeys := map[editor.KeyShortcut]func(){
		{Rune: 'c', Modifiers: key.ModControl}: copyImage,
		{Rune: 's', Modifiers: key.ModControl}: save,
		{Rune: 'v', Modifiers: key.ModControl}: func() { load(ClipboardSource(), "pasting") },
		{Rune: 'n', Modifiers: key.ModControl}: func() { load(CaptureSource(a.capture), "capturing") },
		{Rune: 'f', Modifiers: key.ModControl}: fit,
		{Rune: 'q', Modifiers: key.ModControl}: func() { closing = true },
	}

	toolbarButtons, selectedFn := a.toolbarButtons(fit)
	panelButtons, captions := a.panelButtons(copyImage, save,
		func() { load(ClipboardSource(), "pasting") },
		func() { load(CaptureSource(a.capture), "capturing") })
	toolbar.set(toolbarButtons, lay.toolbar)
	panel.set(panelButtons, lay.panel)
	sess.SetViewportOrigin(lay.origin())

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	a.setControlSender(func(ev controlEvent) { w.Send(ev) })
	load(a.source, "opening")

	for !closing {
		e := w.NextEvent()
		switch e := e.(type) {
		case controlEvent:
			if e.quit {
				closing = true
				break
			}
			if e.fn != nil {
				e.fn(sess)
			}
			if fitPending && sess.Buffer() != nil {
				fit()
			}
			dirty = true
		case loadedEvent:
			if e.err != nil {
				flash(e.err.Error(), true)
				break
			}
			sess.Install(e.img, e.name)
			fit()
			flash("opened "+e.name, false)
			if a.notifier != nil {
				go a.notifier.Loaded(e.name, e.img)
			}
		case savedEvent:
			if e.err != nil {
				flash(fmt.Sprintf("save: %v", e.err), true)
				break
			}
			flash("saved "+e.path, false)
			log.Printf("saved %s", e.path)
			if a.notifier != nil {
				go a.notifier.Exported(e.path)
			}
		case copiedEvent:
			if e.err != nil {
				flash(fmt.Sprintf("copy: %v", e.err), true)
				break
			}
			flash("image copied to clipboard", false)
			if a.notifier != nil {
				go a.notifier.Copied("image")
			}
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				closing = true
				break
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && sess.Active() {
				sess.Dispatch(editor.PointerEvent{Kind: editor.PointerLeave})
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			lay = newLayout(width, height)
			toolbar.layout(lay.toolbar)
			panel.layout(lay.panel)
			sess.SetViewportOrigin(lay.origin())
			if fitPending && sess.Buffer() != nil {
				fit()
			}
			dirty = true
		case paint.Event:
			dirty = true
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if e.Button.IsWheel() {
				if e.Direction == mouse.DirStep || e.Direction == mouse.DirPress {
					switch e.Button {
					case mouse.ButtonWheelUp:
						sess.ZoomIn()
					case mouse.ButtonWheelDown:
						sess.ZoomOut()
					}
				}
				continue
			}
			if !sess.Active() && !p.In(lay.viewport) {
				a.routeWidgets(toolbar, panel, e, p)
				dirty = true
				continue
			}
			if toolbar.setHover(-1) {
				dirty = true
			}
			if panel.setHover(-1) {
				dirty = true
			}
			if e.Direction == mouse.DirNone && sess.Tool() == editor.ToolCrop && !sess.Active() {
				if h := sess.HoverHandle(float64(e.X), float64(e.Y)); h != hoverHandle {
					hoverHandle = h
					dirty = true
				}
			}
			if sess.Active() && !p.In(image.Rect(0, 0, width, height)) {
				sess.Dispatch(editor.PointerEvent{Kind: editor.PointerLeave, X: float64(e.X), Y: float64(e.Y)})
				continue
			}
			if ev, ok := pointerEvent(e); ok {
				sess.Dispatch(ev)
			}
		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			if fn, ok := appKeys[appShortcut(e)]; ok {
				fn()
				dirty = true
				continue
			}
			if sess.Key(e, a.bindings) {
				dirty = true
			}
		case error:
			log.Print(e)
		}

		if !dirty {
			continue
		}
		dirty = false
		toolbar.sync(selectedFn)
		paintMu.Lock()
		if paintCancel != nil && dropCount < frameDropThreshold {
			paintCancel()
			dropCount++
		}
		paintMu.Unlock()
		st := a.snapshot(width, height, toolbar, panel, captions, msg, hoverHandle)
		select {
		case paintCh <- st:
		default:
			select {
			case <-paintCh:
			default:
			}
			paintCh <- st
		}
	}

	paintMu.Lock()
	if paintCancel != nil {
		paintCancel()
	}
	paintMu.Unlock()
}

// routeWidgets handles pointer events over the toolbar and the panel.
func (a *App) routeWidgets(toolbar, panel *widgets, e mouse.Event, p image.Point) {
	for _, g := range []*widgets{toolbar, panel} {
		i := g.at(p)
		g.setHover(i)
		switch {
		case e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft && i >= 0:
			g.setPressed(i)
		case e.Direction == mouse.DirRelease:
			g.setPressed(-1)
			if e.Button == mouse.ButtonLeft && i >= 0 {
				g.activate(i)
			}
		}
	}
}

// snapshot captures everything the paint worker needs.
func (a *App) snapshot(width, height int, toolbar, panel *widgets, captions []*caption, msg message, hover crop.Handle) paintState {
	sess := a.session
	st := paintState{
		width:   width,
		height:  height,
		theme:   a.theme,
		toolbar: toolbar,
		panel:   panel,
		canvas:  sess.Canvas(),
		dims:    sess.Dims(),
		info:    statusInfo(sess),
	}
	img, err := sess.Display()
	if err != nil {
		msg = message{text: fmt.Sprintf("render: %v", err), err: true, until: time.Now().Add(messageDuration)}
	}
	st.img = img
	st.preview = sess.PreviewLayer()
	if area, ok := sess.CropArea(); ok {
		st.area, st.showCrop = area, true
	}
	for _, c := range captions {
		r := c.Rect()
		st.labels = append(st.labels, panelLabel{text: c.text(sess), at: image.Pt(r.Min.X+2, r.Min.Y+(r.Dy()+9)/2)})
	}
	if msg.active(time.Now()) {
		st.status, st.statusErr = msg.text, msg.err
	} else {
		st.status = toolHint(sess, a.bindings)
		if hover != crop.None && sess.Tool() == editor.ToolCrop {
			st.status += "  [" + hover.String() + "]"
		}
	}
	return st
}

// pointerEvent converts a shiny mouse event into an editor pointer event.
// Secondary button releases are dropped so they cannot end a primary drag.
func pointerEvent(e mouse.Event) (editor.PointerEvent, bool) {
	ev := editor.PointerEvent{X: float64(e.X), Y: float64(e.Y)}
	switch e.Direction {
	case mouse.DirPress:
		ev.Kind = editor.PointerDown
	case mouse.DirRelease:
		ev.Kind = editor.PointerUp
	case mouse.DirNone:
		ev.Kind = editor.PointerMove
	default:
		return ev, false
	}
	switch e.Button {
	case mouse.ButtonNone, mouse.ButtonLeft:
		ev.Button = editor.ButtonPrimary
	case mouse.ButtonMiddle:
		ev.Button = editor.ButtonMiddle
	case mouse.ButtonRight:
		if ev.Kind != editor.PointerDown {
			return ev, false
		}
		ev.Button = editor.ButtonSecondary
	default:
		return ev, false
	}
	return ev, true
}

// appShortcut reduces a key event to the form used by window level
// shortcuts, which all require Ctrl.
func appShortcut(e key.Event) editor.KeyShortcut {
	if e.Modifiers&key.ModControl == 0 || e.Rune <= 0 {
		return editor.KeyShortcut{}
	}
	r := e.Rune
	if r < 32 {
		// Some drivers report Ctrl+letter as the control character.
		r += 'a' - 1
	}
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	return editor.KeyShortcut{Rune: r, Modifiers: key.ModControl}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Palette lists the brush colors offered in the toolbar.
var Palette = []color.RGBA{
	{0, 0, 0, 255},
	{255, 255, 255, 255},
	{255, 0, 0, 255},
	{255, 140, 0, 255},
	{255, 215, 0, 255},
	{0, 160, 0, 255},
	{0, 90, 255, 255},
	{150, 0, 200, 255},
}
