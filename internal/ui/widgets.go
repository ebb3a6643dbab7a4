package ui

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/retouch/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// LabelButton is a flat button with a text label.
type LabelButton struct {
	Label  string
	Theme  *theme.Theme
	OnTap  func()
	Border bool
	Width  int
	rect   image.Rectangle
}

func (b *LabelButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.Theme.ButtonBackground, b.Theme.ButtonText
	switch state {
	case StateHover:
		bg = b.Theme.ButtonBackgroundHover
	case StatePressed:
		bg, fg = b.Theme.ButtonBackgroundPress, b.Theme.ButtonTextPress
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	if b.Border {
		drawRect(dst, b.rect, b.Theme.ButtonBorder, 1)
	}
	drawLabel(dst, b.Label, b.rect.Min.X+4, b.rect.Min.Y+(b.rect.Dy()+9)/2, fg)
}

func (b *LabelButton) Rect() image.Rectangle     { return b.rect }
func (b *LabelButton) SetRect(r image.Rectangle) { b.rect = r }
func (b *LabelButton) width() int                { return b.Width }

func (b *LabelButton) Activate() {
	if b.OnTap != nil {
		b.OnTap()
	}
}

const swatchSize = 18

// Swatch is a palette entry that sets the brush color.
type Swatch struct {
	Color color.RGBA
	OnTap func(color.RGBA)
	rect  image.Rectangle
}

func (s *Swatch) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{s.Color}, image.Point{}, draw.Src)
	switch state {
	case StateHover:
		draw.Draw(dst, s.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
	case StatePressed:
		drawRect(dst, s.rect, swatchOutline(s.Color), 2)
	}
}

func (s *Swatch) Rect() image.Rectangle     { return s.rect }
func (s *Swatch) SetRect(r image.Rectangle) { s.rect = r }
func (s *Swatch) width() int                { return swatchSize }

func (s *Swatch) Activate() {
	if s.OnTap != nil {
		s.OnTap(s.Color)
	}
}

// widgets is a group of buttons shared by the event loop, which lays them out
// and tracks hover and selection, and the paint worker, which draws them.
type widgets struct {
	mu       sync.Mutex
	buttons  []Button
	selected []bool
	hover    int
	pressed  int
}

func newWidgets() *widgets { return &widgets{hover: -1, pressed: -1} }

// set replaces the buttons, laying them out in a single column inside r.
func (g *widgets) set(buttons []Button, r image.Rectangle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.buttons = buttons
	g.selected = make([]bool, len(buttons))
	g.hover, g.pressed = -1, -1
	g.layoutLocked(r)
}

// layout flows the buttons top to bottom inside r. Narrow buttons share a
// row while they fit.
func (g *widgets) layout(r image.Rectangle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.layoutLocked(r)
}

func (g *widgets) layoutLocked(r image.Rectangle) {
	x, y := r.Min.X+4, r.Min.Y+4
	for _, b := range g.buttons {
		w := r.Dx() - 8
		if sw, ok := b.(sized); ok && sw.width() > 0 {
			w = sw.width()
		}
		if x+w > r.Max.X-4 && x > r.Min.X+4 {
			x = r.Min.X + 4
			y += buttonHeight + rowGap
		}
		b.SetRect(image.Rect(x, y, x+w, y+buttonHeight))
		if w >= r.Dx()-8 {
			x = r.Min.X + 4
			y += buttonHeight + rowGap
		} else {
			x += w + rowGap
		}
	}
}

// at returns the index of the button under p, or -1.
func (g *widgets) at(p image.Point) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return hitTest(g.buttons, p)
}

// setHover records the hovered button and reports whether it changed.
func (g *widgets) setHover(i int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hover == i {
		return false
	}
	g.hover = i
	return true
}

// setPressed records the button held down under the pointer.
func (g *widgets) setPressed(i int) {
	g.mu.Lock()
	g.pressed = i
	g.mu.Unlock()
}

// sync marks buttons for which fn reports true as selected.
func (g *widgets) sync(fn func(Button) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, b := range g.buttons {
		g.selected[i] = fn(b)
	}
}

// activate runs the action of button i outside the lock.
func (g *widgets) activate(i int) {
	g.mu.Lock()
	if i < 0 || i >= len(g.buttons) {
		g.mu.Unlock()
		return
	}
	b := g.buttons[i]
	g.mu.Unlock()
	b.Activate()
}

func (g *widgets) draw(dst *image.RGBA) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, b := range g.buttons {
		state := StateDefault
		switch {
		case g.selected[i] || g.pressed == i:
			state = StatePressed
		case g.hover == i:
			state = StateHover
		}
		b.Draw(dst, state)
	}
}

// sized is implemented by buttons that may be narrower than a full row. A
// width of zero fills the row.
type sized interface {
	width() int
}

func (cb *CacheButton) width() int {
	if s, ok := cb.Button.(sized); ok {
		return s.width()
	}
	return 0
}

// hitTest returns the index of the first button containing p, or -1.
func hitTest(buttons []Button, p image.Point) int {
	for i, b := range buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

func drawLabel(dst *image.RGBA, s string, x, y int, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func labelWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Over)
}

// drawDashedRect outlines rect with alternating dashes of c1 and c2.
func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash int, c1, c2 color.RGBA) {
	pick := func(i int) color.RGBA {
		if (i/dash)%2 == 1 {
			return c2
		}
		return c1
	}
	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.SetRGBA(x, rect.Min.Y, pick(x-rect.Min.X))
		img.SetRGBA(x, rect.Max.Y-1, pick(x-rect.Min.X))
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.SetRGBA(rect.Min.X, y, pick(y-rect.Min.Y))
		img.SetRGBA(rect.Max.X-1, y, pick(y-rect.Min.Y))
	}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if ((x/size)+(y/size))%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}
