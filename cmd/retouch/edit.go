package main

import (
	"flag"
	"fmt"

	"github.com/example/retouch/internal/capture"
	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/ui"
)

type editCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	fromClipboard bool
	fromScreen    bool
	monitor       string
	interactive   bool
	cursor        bool
	outputDir     string
	format        string
	quality       float64
}

var runWindowFn = func(app *ui.App) { app.Run() }

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r.subcommand("edit"), fs: fs}
	fs.StringVar(&e.file, "file", "", "image file to open")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "open the image held by the clipboard")
	fs.BoolVar(&e.fromScreen, "capture", false, "open a screenshot of the desktop")
	fs.StringVar(&e.monitor, "monitor", "", "monitor index, name or 'primary' to capture")
	fs.BoolVar(&e.interactive, "interactive", false, "let the desktop portal choose the capture area")
	fs.BoolVar(&e.cursor, "cursor", false, "include the mouse cursor in captures")
	fs.StringVar(&e.outputDir, "output-dir", r.config.SaveDir, "directory exports are written to")
	fs.StringVar(&e.format, "format", r.config.ExportFormat.String(), "export format: png, jpeg or webp")
	fs.Float64Var(&e.quality, "quality", r.config.ExportQuality, "lossy export quality between 0 and 1")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		if e.file != "" {
			return nil, &UsageError{of: e}
		}
		e.file = fs.Arg(0)
	}
	n := 0
	for _, set := range []bool{e.file != "", e.fromClipboard, e.fromScreen} {
		if set {
			n++
		}
	}
	if n > 1 {
		return nil, fmt.Errorf("choose only one of -file, -from-clipboard and -capture")
	}
	return e, nil
}

// captureOptions is shared by startup and in-window captures.
func (e *editCmd) captureOptions() capture.Options {
	return capture.Options{Monitor: e.monitor, Interactive: e.interactive, IncludeCursor: e.cursor}
}

func (e *editCmd) source() ui.Source {
	switch {
	case e.fromScreen:
		return ui.CaptureSource(e.captureOptions())
	case e.fromClipboard:
		return ui.ClipboardSource()
	case e.file != "":
		return ui.FileSource(e.file)
	}
	return nil
}

func (e *editCmd) Run() error {
	f, err := codec.ParseFormat(e.format)
	if err != nil {
		return err
	}
	sess := editor.New(e.config.SessionOptions()...)
	opts := []ui.Option{
		ui.WithTheme(e.activeTheme),
		ui.WithNotifier(e.notifier),
		ui.WithCaptureOptions(e.captureOptions()),
		ui.WithExport(e.outputDir, f, e.quality),
	}
	if src := e.source(); src != nil {
		opts = append(opts, ui.WithSource(src))
	}
	runWindowFn(ui.New(sess, opts...))
	return nil
}
