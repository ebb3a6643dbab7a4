package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/retouch/internal/capture"
	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
	"github.com/example/retouch/internal/render"
	"github.com/example/retouch/internal/theme"
	"github.com/example/retouch/internal/view"
)

var (
	captureScreenFn  = capture.Screen
	readClipboardFn  = clipboard.ReadPayload
	writeClipboardFn = clipboard.WriteImage
)

// errQuit ends a command script early.
var errQuit = errors.New("quit")

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// loadImage opens an image from a file, the clipboard or the screen.
func loadImage(file string, fromClipboard, fromScreen bool, monitor string) (*image.RGBA, string, error) {
	switch {
	case fromScreen:
		img, err := captureScreenFn(capture.Options{Monitor: monitor})
		if err != nil {
			return nil, "", fmt.Errorf("failed to capture screen: %w", err)
		}
		return img, capture.Name(time.Now()), nil
	case fromClipboard:
		p, err := readClipboardFn()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		img, err := codec.Decode(p)
		if err != nil {
			return nil, "", err
		}
		return img, p.Name, nil
	case file != "":
		p, err := codec.ReadFile(file)
		if err != nil {
			return nil, "", err
		}
		img, err := codec.Decode(p)
		if err != nil {
			return nil, "", err
		}
		return img, p.Name, nil
	}
	return nil, "", errors.New("no input image: use -file, -from-clipboard or -capture")
}

// executor runs line oriented editing commands against a session. Pointer
// based commands take buffer coordinates and are replayed through the tool
// dispatcher.
type executor struct {
	sess    *editor.Session
	r       *root
	out     io.Writer
	saveDir string
	format  codec.Format
	quality float64
}

func newExecutor(sess *editor.Session, r *root, out io.Writer) *executor {
	e := &executor{sess: sess, r: r, out: out, format: codec.FormatPNG, quality: codec.DefaultQuality}
	if r != nil && r.config != nil {
		e.saveDir = r.config.SaveDir
		e.format = r.config.ExportFormat
		e.quality = r.config.ExportQuality
	}
	return e
}

type scriptCommand struct {
	usage string
	run   func(e *executor, args []string) error
}

var scriptCommands map[string]scriptCommand

func init() {
	scriptCommands = map[string]scriptCommand{
		"open":          {"open PATH", (*executor).open},
		"paste":         {"paste", (*executor).paste},
		"capture":       {"capture [MONITOR]", (*executor).capture},
		"save":          {"save [PATH]", (*executor).save},
		"copy":          {"copy", (*executor).copy},
		"crop":          {"crop X Y W H", (*executor).crop},
		"ratio":         {"ratio free|W:H", (*executor).ratio},
		"rotate":        {"rotate DEGREES", (*executor).rotate},
		"flip":          {"flip h|v", (*executor).flip},
		"filter":        {"filter NAME VALUE", (*executor).filter},
		"reset-filters": {"reset-filters", (*executor).resetFilters},
		"reset":         {"reset", (*executor).reset},
		"color":         {"color #RRGGBB|NAME", (*executor).color},
		"background":    {"background #RRGGBB|NAME", (*executor).background},
		"size":          {"size PIXELS", (*executor).size},
		"font":          {"font [FAMILY] SIZE", (*executor).font},
		"tool":          {"tool NAME", (*executor).tool},
		"draw":          {"draw X0 Y0 X1 Y1 [X Y ...]", (*executor).draw},
		"erase":         {"erase X0 Y0 X1 Y1 [X Y ...]", (*executor).erase},
		"shape":         {"shape rect|ellipse|line|arrow X0 Y0 X1 Y1", (*executor).shape},
		"text":          {"text X Y CONTENT...", (*executor).text},
		"pick":          {"pick X Y", (*executor).pick},
		"undo":          {"undo", (*executor).undo},
		"redo":          {"redo", (*executor).redo},
		"history":       {"history", (*executor).history},
		"info":          {"info", (*executor).info},
		"help":          {"help", (*executor).help},
	}
}

// execute runs one command line. It reports true when the line asked to
// quit.
func (e *executor) execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	if name == "exit" || name == "quit" {
		return true, nil
	}
	cmd, ok := scriptCommands[name]
	if !ok {
		return false, fmt.Errorf("unknown command %q (try help)", name)
	}
	if err := cmd.run(e, fields[1:]); err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return false, nil
}

// run executes each line in order, stopping at the first error or quit.
func (e *executor) run(lines []string) error {
	for _, line := range lines {
		done, err := e.execute(line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}

func (e *executor) printf(format string, args ...any) {
	if e.out != nil {
		fmt.Fprintf(e.out, format, args...)
	}
}

func (e *executor) needImage() error {
	if e.sess.Buffer() == nil {
		return codec.ErrNoImage
	}
	return nil
}

func (e *executor) open(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: open PATH")
	}
	p, err := codec.ReadFile(args[0])
	if err != nil {
		return err
	}
	return e.sess.Load(p)
}

func (e *executor) paste(args []string) error {
	p, err := readClipboardFn()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	return e.sess.Load(p)
}

func (e *executor) capture(args []string) error {
	monitor := strings.Join(args, " ")
	img, err := captureScreenFn(capture.Options{Monitor: monitor})
	if err != nil {
		return fmt.Errorf("failed to capture screen: %w", err)
	}
	e.sess.Install(img, capture.Name(time.Now()))
	return nil
}

// exportPath resolves where save writes and in which format.
func (e *executor) exportPath(args []string) (string, codec.Format) {
	if len(args) > 0 {
		path := strings.Join(args, " ")
		if f, ok := codec.FormatFromName(path); ok {
			return path, f
		}
		return path, e.format
	}
	return "", e.format
}

func (e *executor) save(args []string) error {
	path, f := e.exportPath(args)
	blob, err := e.sess.Export(f, e.quality)
	if err != nil {
		return err
	}
	if path == "" {
		path = filepath.Join(e.saveDir, blob.Filename)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	e.printf("saved %s\n", path)
	return nil
}

func (e *executor) copy(args []string) error {
	img, err := e.sess.Display()
	if err != nil {
		return err
	}
	if img == nil {
		return codec.ErrNoImage
	}
	if err := writeClipboardFn(img); err != nil {
		return fmt.Errorf("failed to copy image to clipboard: %w", err)
	}
	e.printf("image copied to clipboard\n")
	if e.r != nil {
		e.r.notifyCopy("image")
	}
	return nil
}

func (e *executor) crop(args []string) error {
	v, err := expectFloats(args, 4, "crop")
	if err != nil {
		return err
	}
	if err := e.needImage(); err != nil {
		return err
	}
	if !e.sess.SetTool(editor.ToolCrop) {
		return errors.New("a gesture is in progress")
	}
	a := crop.Area{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if !e.sess.SetCropArea(a) {
		e.sess.CancelCrop()
		d := e.sess.Dims()
		return fmt.Errorf("area %gx%g+%g+%g does not fit %dx%d or is smaller than %d pixels", a.Width, a.Height, a.X, a.Y, d.X, d.Y, crop.MinSize)
	}
	if !e.sess.ApplyCrop() {
		return errors.New("crop was not applied")
	}
	return nil
}

func (e *executor) ratio(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ratio free|W:H")
	}
	r, err := crop.ParseRatio(args[0])
	if err != nil {
		return err
	}
	e.sess.SetAspectRatio(r)
	return nil
}

func (e *executor) rotate(args []string) error {
	v, err := expectInts(args, 1, "rotate")
	if err != nil {
		return err
	}
	if err := e.needImage(); err != nil {
		return err
	}
	if !e.sess.Rotate(v[0]) {
		return fmt.Errorf("cannot rotate by %d degrees, use a multiple of 90", v[0])
	}
	return nil
}

func (e *executor) flip(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: flip h|v")
	}
	if err := e.needImage(); err != nil {
		return err
	}
	var axis pixbuf.Axis
	switch strings.ToLower(args[0]) {
	case "h", "horizontal":
		axis = pixbuf.Horizontal
	case "v", "vertical":
		axis = pixbuf.Vertical
	default:
		return fmt.Errorf("unknown axis %q", args[0])
	}
	e.sess.Flip(axis)
	return nil
}

// filterAxis returns the field of f named by name.
func filterAxis(f *render.Filters, name string) (*float64, error) {
	switch strings.ToLower(name) {
	case "brightness":
		return &f.Brightness, nil
	case "contrast":
		return &f.Contrast, nil
	case "saturation", "saturate":
		return &f.Saturation, nil
	case "blur":
		return &f.Blur, nil
	case "grayscale", "greyscale", "gray":
		return &f.Grayscale, nil
	case "sepia":
		return &f.Sepia, nil
	case "hue", "hue-rotate":
		return &f.HueRotate, nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

func (e *executor) filter(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: filter NAME VALUE")
	}
	f := e.sess.Filters()
	p, err := filterAxis(&f, args[0])
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q", args[1])
	}
	*p = v
	e.sess.SetFilters(f)
	return nil
}

func (e *executor) resetFilters(args []string) error {
	e.sess.ResetFilters()
	return nil
}

func (e *executor) reset(args []string) error {
	if err := e.needImage(); err != nil {
		return err
	}
	e.sess.ResetToOriginal()
	return nil
}

func (e *executor) color(args []string) error {
	c, err := theme.ParseColor(strings.Join(args, " "))
	if err != nil {
		return err
	}
	e.sess.SetBrushColor(c)
	return nil
}

func (e *executor) background(args []string) error {
	c, err := theme.ParseColor(strings.Join(args, " "))
	if err != nil {
		return err
	}
	e.sess.SetBackground(c)
	return nil
}

func (e *executor) size(args []string) error {
	v, err := expectFloats(args, 1, "size")
	if err != nil {
		return err
	}
	e.sess.SetBrushSize(v[0])
	return nil
}

func (e *executor) font(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: font [FAMILY] SIZE")
	}
	size, err := strconv.ParseFloat(args[len(args)-1], 64)
	if err != nil {
		return fmt.Errorf("invalid font size %q", args[len(args)-1])
	}
	e.sess.SetFont(strings.Join(args[:len(args)-1], " "), size)
	return nil
}

func (e *executor) tool(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tool NAME")
	}
	if k, err := paint.ParseShapeKind(args[0]); err == nil {
		e.sess.SetShapeKind(k)
		e.sess.SetTool(editor.ToolShape)
		return nil
	}
	t, err := editor.ParseTool(args[0])
	if err != nil {
		return err
	}
	e.sess.SetTool(t)
	return nil
}

// gesture replays a pointer drag through points given in buffer coordinates.
func (e *executor) gesture(t editor.Tool, pts []float64) error {
	if err := e.needImage(); err != nil {
		return err
	}
	prev := e.sess.Tool()
	if !e.sess.SetTool(t) {
		return errors.New("a gesture is in progress")
	}
	defer e.sess.SetTool(prev)
	for i := 0; i+1 < len(pts); i += 2 {
		kind := editor.PointerMove
		if i == 0 {
			kind = editor.PointerDown
		}
		x, y := e.toScreen(pts[i], pts[i+1])
		e.sess.Dispatch(editor.PointerEvent{Kind: kind, X: x, Y: y})
	}
	x, y := e.toScreen(pts[len(pts)-2], pts[len(pts)-1])
	e.sess.Dispatch(editor.PointerEvent{Kind: editor.PointerUp, X: x, Y: y})
	return nil
}

func (e *executor) toScreen(x, y float64) (float64, float64) {
	return view.BufferToScreen(x, y, e.sess.Canvas(), e.sess.Dims())
}

func (e *executor) stroke(t editor.Tool, name string, args []string) error {
	if len(args) < 4 || len(args)%2 != 0 {
		return fmt.Errorf("%s requires at least two x y pairs", name)
	}
	pts, err := expectFloats(args, len(args), name)
	if err != nil {
		return err
	}
	return e.gesture(t, pts)
}

func (e *executor) draw(args []string) error  { return e.stroke(editor.ToolDraw, "draw", args) }
func (e *executor) erase(args []string) error { return e.stroke(editor.ToolErase, "erase", args) }

func (e *executor) shape(args []string) error {
	if len(args) != 5 {
		return errors.New("usage: shape rect|ellipse|line|arrow X0 Y0 X1 Y1")
	}
	k, err := paint.ParseShapeKind(args[0])
	if err != nil {
		return err
	}
	pts, err := expectFloats(args[1:], 4, "shape")
	if err != nil {
		return err
	}
	if pts[0] == pts[2] && pts[1] == pts[3] {
		return errors.New("shape needs two distinct points")
	}
	prev := e.sess.ShapeKind()
	e.sess.SetShapeKind(k)
	defer e.sess.SetShapeKind(prev)
	return e.gesture(editor.ToolShape, pts)
}

func (e *executor) text(args []string) error {
	if len(args) < 3 {
		return errors.New("text requires x y and content")
	}
	pts, err := expectFloats(args[:2], 2, "text")
	if err != nil {
		return err
	}
	if err := e.needImage(); err != nil {
		return err
	}
	prev := e.sess.Tool()
	if !e.sess.SetTool(editor.ToolText) {
		return errors.New("a gesture is in progress")
	}
	defer e.sess.SetTool(prev)
	e.sess.SetPendingText(strings.Join(args[2:], " "))
	x, y := e.toScreen(pts[0], pts[1])
	e.sess.Dispatch(editor.PointerEvent{Kind: editor.PointerDown, X: x, Y: y})
	e.sess.Dispatch(editor.PointerEvent{Kind: editor.PointerUp, X: x, Y: y})
	if e.sess.PendingText() != "" {
		e.sess.SetPendingText("")
		return errors.New("text could not be placed")
	}
	return nil
}

func (e *executor) pick(args []string) error {
	pts, err := expectFloats(args, 2, "pick")
	if err != nil {
		return err
	}
	if err := e.needImage(); err != nil {
		return err
	}
	d := e.sess.Dims()
	if pts[0] < 0 || pts[1] < 0 || pts[0] >= float64(d.X) || pts[1] >= float64(d.Y) {
		return fmt.Errorf("point %g,%g is outside the %dx%d image", pts[0], pts[1], d.X, d.Y)
	}
	// Sample the pixel centre so view rounding cannot land on a neighbour.
	if err := e.gesture(editor.ToolEyedropper, []float64{math.Floor(pts[0]) + 0.5, math.Floor(pts[1]) + 0.5}); err != nil {
		return err
	}
	e.printf("%s\n", theme.Hex(e.sess.Brush().Color))
	return nil
}

func (e *executor) undo(args []string) error {
	if !e.sess.Undo() {
		return errors.New("nothing to undo")
	}
	return nil
}

func (e *executor) redo(args []string) error {
	if !e.sess.Redo() {
		return errors.New("nothing to redo")
	}
	return nil
}

func (e *executor) history(args []string) error {
	entries, ptr := e.sess.History()
	for i, h := range entries {
		marker := " "
		if i == ptr {
			marker = "*"
		}
		b := h.Snapshot.Bounds()
		e.printf("%s %2d: %-16s %dx%d\n", marker, i, h.Label, b.Dx(), b.Dy())
	}
	return nil
}

func (e *executor) info(args []string) error {
	if err := e.needImage(); err != nil {
		return err
	}
	d := e.sess.Dims()
	f := e.sess.Filters()
	b := e.sess.Brush()
	e.printf("image: %s %dx%d\n", e.sess.Name(), d.X, d.Y)
	e.printf("tool: %s (%s)\n", e.sess.Tool(), e.sess.ShapeKind())
	e.printf("brush: %gpx %s\n", b.Size, theme.Hex(b.Color))
	e.printf("filters: brightness=%g contrast=%g saturation=%g blur=%g grayscale=%g sepia=%g hue=%g\n",
		f.Brightness, f.Contrast, f.Saturation, f.Blur, f.Grayscale, f.Sepia, f.HueRotate)
	if n := len(e.sess.Overlays()); n > 0 {
		e.printf("pending text overlays: %d\n", n)
	}
	return nil
}

func (e *executor) help(args []string) error {
	names := make([]string, 0, len(scriptCommands))
	for n := range scriptCommands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		e.printf("  %s\n", scriptCommands[n].usage)
	}
	e.printf("  exit\n")
	return nil
}

func expectFloats(args []string, n int, name string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", name, n)
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", name, a)
		}
		out[i] = v
	}
	return out, nil
}

func expectInts(args []string, n int, name string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", name, n)
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", name, a)
		}
		out[i] = v
	}
	return out, nil
}
