package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/editor"
)

type applyCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	fromClipboard bool
	fromScreen    bool
	monitor       string
	commands      commandList
	output        string
	format        string
	quality       float64
	copyResult    bool
}

var (
	loadImageFn           = loadImage
	stdout      io.Writer = os.Stdout
)

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	a := &applyCmd{root: r.subcommand("apply"), fs: fs}
	fs.StringVar(&a.file, "file", "", "image file to edit")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "edit the image held by the clipboard")
	fs.BoolVar(&a.fromScreen, "capture", false, "edit a screenshot of the desktop")
	fs.StringVar(&a.monitor, "monitor", "", "monitor index, name or 'primary' to capture")
	fs.Var(&a.commands, "e", "editing command to run (repeatable)")
	fs.StringVar(&a.output, "output", "", "file to write, '-' for stdout (default: suggested name in the save directory)")
	fs.StringVar(&a.format, "format", r.config.ExportFormat.String(), "export format when -output has no known extension")
	fs.Float64Var(&a.quality, "quality", r.config.ExportQuality, "lossy export quality between 0 and 1")
	fs.BoolVar(&a.copyResult, "copy", false, "copy the result to the clipboard")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		a.commands = append(a.commands, strings.Join(fs.Args(), " "))
	}
	return a, nil
}

func (a *applyCmd) Run() error {
	f, err := codec.ParseFormat(a.format)
	if err != nil {
		return err
	}
	img, name, err := loadImageFn(a.file, a.fromClipboard, a.fromScreen, a.monitor)
	if err != nil {
		return err
	}

	sess := editor.New(a.config.SessionOptions()...)
	sess.Subscribe(a.notifier.Listener(sess))
	sess.Install(img, name)

	ex := newExecutor(sess, a.root, os.Stderr)
	ex.format = f
	ex.quality = a.quality
	if err := ex.run(a.commands); err != nil {
		return err
	}

	if a.copyResult {
		if err := ex.copy(nil); err != nil {
			return err
		}
	}
	if a.output == "-" {
		blob, err := sess.Export(f, a.quality)
		if err != nil {
			return err
		}
		if _, err := stdout.Write(blob.Data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if a.output == "" && a.copyResult {
		return nil
	}
	var saveArgs []string
	if a.output != "" {
		saveArgs = []string{a.output}
	}
	return ex.save(saveArgs)
}
