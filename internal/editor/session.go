// Package editor is the editing engine. A Session owns the live buffer, its
// pristine original, the undo history, the filter settings and the tool state
// machine. It is driven from a single event loop and is not safe for
// concurrent use.
package editor

import (
	"image"
	"image/color"

	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
	"github.com/example/retouch/internal/render"
	"github.com/example/retouch/internal/view"
)

const (
	MinBrushSize = 1
	MaxBrushSize = 200
	MinFontSize  = 6
	MaxFontSize  = 200
)

var (
	DefaultBrushColor = color.RGBA{255, 0, 0, 255}
	DefaultBackground = color.RGBA{255, 255, 255, 255}
)

// Brush is the stroke configuration shared by draw, erase and shape.
type Brush struct {
	Size  float64
	Color color.RGBA
}

// Font is the text tool configuration.
type Font struct {
	Family string
	Size   float64
}

// Session is one editing session over a single image.
type Session struct {
	buf      *image.RGBA
	pristine *image.RGBA
	name     string

	history *history.Manager
	filters render.Filters
	display *image.RGBA

	overlays  []paint.TextOverlay
	overlayID int

	view   view.State
	origin image.Point

	tool     Tool
	shape    paint.ShapeKind
	area     *crop.Area
	ratio    float64
	g        gesture
	text     string
	brush    Brush
	bg       color.RGBA
	font     Font
	listener []Listener
}

// Option configures a Session at creation.
type Option func(*Session)

// WithBrush sets the initial brush size and color.
func WithBrush(size float64, c color.RGBA) Option {
	return func(s *Session) { s.brush = Brush{Size: size, Color: c} }
}

// WithBackground sets the color painted by the erase tool.
func WithBackground(c color.RGBA) Option { return func(s *Session) { s.bg = c } }

// WithFont sets the text tool's font family and size.
func WithFont(family string, size float64) Option {
	return func(s *Session) { s.font = Font{Family: family, Size: size} }
}

// WithListener registers a notification callback.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = append(s.listener, l) }
}

// WithHistoryLimit overrides the number of retained history entries.
func WithHistoryLimit(n int) Option { return func(s *Session) { s.history = history.New(n) } }

// WithImage installs img as if it had just been loaded.
func WithImage(img *image.RGBA, name string) Option {
	return func(s *Session) { s.pristine, s.name = img, name }
}

// New creates a Session with the provided options.
func New(opts ...Option) *Session {
	s := &Session{
		history: history.New(history.Cap),
		filters: render.DefaultFilters(),
		view:    view.New(),
		brush:   Brush{Size: 4, Color: DefaultBrushColor},
		bg:      DefaultBackground,
		font:    Font{Family: paint.DefaultFontFamily, Size: paint.DefaultFontSize},
	}
	for _, o := range opts {
		o(s)
	}
	s.brush.Size = clampFloat(s.brush.Size, MinBrushSize, MaxBrushSize)
	s.font.Size = clampFloat(s.font.Size, MinFontSize, MaxFontSize)
	if img := s.pristine; img != nil {
		s.pristine = nil
		s.Install(img, s.name)
	}
	return s
}

// Load decodes p and installs it. On failure the current state is kept.
func (s *Session) Load(p codec.Payload) error {
	img, err := codec.Decode(p)
	if err != nil {
		Logger().Warn("load rejected", "name", p.Name, "mime", p.MIME, "err", err)
		return err
	}
	s.Install(img, p.Name)
	return nil
}

// Install replaces the session image with img and resets filters, history,
// overlays, view and tool sub-state.
func (s *Session) Install(img *image.RGBA, name string) {
	s.pristine = pixbuf.Clone(img)
	s.buf = pixbuf.Clone(img)
	s.name = name
	s.filters = render.DefaultFilters()
	s.overlays = nil
	s.view.Reset()
	s.g = gesture{}
	s.area = nil
	if s.tool == ToolCrop {
		s.ensureCropArea()
	}
	s.history.Reset()
	s.history.Push(s.buf, "load")
	s.invalidate()
	b := s.buf.Bounds()
	Logger().Debug("image loaded", "name", name, "width", b.Dx(), "height", b.Dy())
	s.emit(Event{Kind: EventImageLoaded, Name: name})
	s.emit(Event{Kind: EventHistoryChanged})
}

// Export encodes the displayed image, with filters and pending overlays
// applied, in format f.
func (s *Session) Export(f codec.Format, quality float64) (codec.Blob, error) {
	if s.buf == nil {
		return codec.Blob{}, &codec.EncodeError{Format: f, Err: codec.ErrNoImage}
	}
	img, err := s.Display()
	if err != nil {
		return codec.Blob{}, &codec.EncodeError{Format: f, Err: err}
	}
	data, err := codec.Encode(img, f, quality)
	if err != nil {
		return codec.Blob{}, err
	}
	blob := codec.Blob{Data: data, MIME: f.MIME(), Filename: codec.ExportName(s.name, f)}
	Logger().Debug("export produced", "file", blob.Filename, "bytes", len(data))
	s.emit(Event{Kind: EventExportProduced, Name: blob.Filename})
	return blob, nil
}

// Display returns the bitmap shown to the user: the committed buffer with the
// current filters and pending overlays. The result is cached until the next
// change and must not be modified.
func (s *Session) Display() (*image.RGBA, error) {
	if s.buf == nil {
		return nil, nil
	}
	if s.display == nil {
		img, err := render.Render(s.buf, s.filters, s.overlays)
		if err != nil {
			return nil, err
		}
		s.display = img
	}
	return s.display, nil
}

// Buffer returns the live committed buffer. It must not be modified.
func (s *Session) Buffer() *image.RGBA { return s.buf }

// Pristine returns the image as originally loaded.
func (s *Session) Pristine() *image.RGBA { return s.pristine }

func (s *Session) Name() string { return s.name }

// Dims returns the live buffer size.
func (s *Session) Dims() image.Point {
	if s.buf == nil {
		return image.Point{}
	}
	return s.buf.Bounds().Size()
}

// Undo restores the previous history entry. It is ignored mid-gesture.
func (s *Session) Undo() bool {
	if s.g.active {
		return false
	}
	img, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(img)
	return true
}

// Redo restores the next history entry. It is ignored mid-gesture.
func (s *Session) Redo() bool {
	if s.g.active {
		return false
	}
	img, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(img)
	return true
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// History returns the recorded entries oldest first and the pointer.
func (s *Session) History() ([]history.Entry, int) {
	return s.history.Entries(), s.history.Pointer()
}

func (s *Session) restore(img *image.RGBA) {
	s.buf = img
	s.revalidateCrop()
	s.invalidate()
	s.emit(Event{Kind: EventHistoryChanged})
}

// Rotate turns the buffer by degrees, which must be a multiple of 90.
func (s *Session) Rotate(degrees int) bool {
	if s.buf == nil || s.g.active {
		return false
	}
	out, ok := pixbuf.Rotate(s.buf, degrees)
	if !ok {
		return false
	}
	s.buf = out
	s.revalidateCrop()
	s.commit("rotate")
	return true
}

// Flip mirrors the buffer along axis.
func (s *Session) Flip(axis pixbuf.Axis) bool {
	if s.buf == nil || s.g.active {
		return false
	}
	pixbuf.Flip(s.buf, axis)
	s.commit("flip " + axis.String())
	return true
}

// ResetToOriginal replaces the buffer with the pristine image as a new
// history entry.
func (s *Session) ResetToOriginal() bool {
	if s.pristine == nil || s.g.active {
		return false
	}
	s.buf = pixbuf.Clone(s.pristine)
	s.overlays = nil
	s.revalidateCrop()
	s.commit("reset")
	return true
}

// Filters returns the current filter settings.
func (s *Session) Filters() render.Filters { return s.filters }

// SetFilters replaces the filter settings. Filters never enter history.
func (s *Session) SetFilters(f render.Filters) {
	f = f.Clamp()
	if f == s.filters {
		return
	}
	s.filters = f
	s.invalidate()
}

func (s *Session) ResetFilters() { s.SetFilters(render.DefaultFilters()) }

// AddTextOverlay queues text at buffer position (x, y) using the current font
// and brush color. It returns false for empty text.
func (s *Session) AddTextOverlay(text string, x, y float64) bool {
	if text == "" || s.buf == nil {
		return false
	}
	s.overlayID++
	s.overlays = append(s.overlays, paint.TextOverlay{
		ID:         s.overlayID,
		Text:       text,
		X:          x,
		Y:          y,
		FontSize:   s.font.Size,
		FontFamily: s.font.Family,
		Color:      s.brush.Color,
	})
	s.invalidate()
	return true
}

// Overlays returns the pending text overlays in insertion order.
func (s *Session) Overlays() []paint.TextOverlay {
	out := make([]paint.TextOverlay, len(s.overlays))
	copy(out, s.overlays)
	return out
}

// Recompose burns pending overlays into the buffer, clears them and records
// a history entry.
func (s *Session) Recompose() error {
	if len(s.overlays) == 0 || s.buf == nil {
		return nil
	}
	for _, o := range s.overlays {
		if err := paint.DrawText(s.buf, o); err != nil {
			return err
		}
	}
	s.overlays = nil
	s.commit("text")
	return nil
}

func (s *Session) Brush() Brush           { return s.brush }
func (s *Session) Background() color.RGBA { return s.bg }
func (s *Session) Font() Font             { return s.font }
func (s *Session) PendingText() string    { return s.text }

func (s *Session) SetBrushSize(size float64) {
	s.brush.Size = clampFloat(size, MinBrushSize, MaxBrushSize)
}

func (s *Session) SetBrushColor(c color.RGBA) { s.brush.Color = c }

func (s *Session) SetBackground(c color.RGBA) { s.bg = c }

func (s *Session) SetFont(family string, size float64) {
	if family == "" {
		family = s.font.Family
	}
	s.font = Font{Family: family, Size: clampFloat(size, MinFontSize, MaxFontSize)}
}

// SetPendingText sets the text placed by the next text tool click.
func (s *Session) SetPendingText(text string) {
	s.text = text
	s.emit(Event{Kind: EventDisplayChanged})
}

// View returns the zoom and pan state.
func (s *Session) View() view.State { return s.view }

// SetViewportOrigin sets where the host's canvas area starts on screen.
func (s *Session) SetViewportOrigin(p image.Point) { s.origin = p }

// Canvas returns the on-screen rectangle of the buffer.
func (s *Session) Canvas() image.Rectangle {
	return s.view.CanvasRect(s.origin, s.Dims())
}

// ToBuffer converts screen coordinates into buffer coordinates.
func (s *Session) ToBuffer(x, y float64) (float64, float64) {
	return view.ScreenToBuffer(x, y, s.Canvas(), s.Dims())
}

func (s *Session) SetZoom(z float64) { s.view.SetZoom(z); s.viewChanged() }
func (s *Session) ZoomIn()           { s.view.ZoomIn(); s.viewChanged() }
func (s *Session) ZoomOut()          { s.view.ZoomOut(); s.viewChanged() }
func (s *Session) PanBy(dx, dy int)  { s.view.PanBy(dx, dy); s.viewChanged() }

// FitView zooms so the buffer fits viewport and clears the pan.
func (s *Session) FitView(viewport image.Point) {
	s.view.SetZoom(view.Fit(s.Dims(), viewport))
	s.view.Pan = image.Point{}
	s.viewChanged()
}

func (s *Session) viewChanged() { s.emit(Event{Kind: EventDisplayChanged}) }

func (s *Session) commit(label string) {
	s.history.Push(s.buf, label)
	s.invalidate()
	Logger().Debug("commit", "label", label, "entries", s.history.Len(), "pointer", s.history.Pointer())
	s.emit(Event{Kind: EventHistoryChanged})
}

func (s *Session) invalidate() {
	s.display = nil
	s.emit(Event{Kind: EventDisplayChanged})
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
