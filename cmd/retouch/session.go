package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/ui"
)

type sessionCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	fromClipboard bool
	fromScreen    bool
	monitor       string
	execs         commandList
	window        bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (s *sessionCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSessionCmd(args []string, r *root) (*sessionCmd, error) {
	fs := flag.NewFlagSet("session", flag.ExitOnError)
	s := &sessionCmd{root: r.subcommand("session"), fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.StringVar(&s.file, "file", "", "image file to open first")
	fs.BoolVar(&s.fromClipboard, "from-clipboard", false, "start with the image held by the clipboard")
	fs.BoolVar(&s.fromScreen, "capture", false, "start with a screenshot of the desktop")
	fs.StringVar(&s.monitor, "monitor", "", "monitor index, name or 'primary' to capture")
	fs.Var(&s.execs, "e", "execute a command before reading standard input (may be specified multiple times)")
	fs.BoolVar(&s.window, "window", false, "show the session in an editor window")
	fs.Usage = usageFunc(s)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sessionCmd) open(sess *editor.Session) error {
	if s.file == "" && !s.fromClipboard && !s.fromScreen {
		return nil
	}
	img, name, err := loadImageFn(s.file, s.fromClipboard, s.fromScreen, s.monitor)
	if err != nil {
		return err
	}
	sess.Install(img, name)
	return nil
}

func (s *sessionCmd) Run() error {
	sess := editor.New(s.config.SessionOptions()...)
	if !s.window {
		sess.Subscribe(s.notifier.Listener(sess))
		if err := s.open(sess); err != nil {
			return err
		}
		ex := newExecutor(sess, s.root, s.stdout)
		return s.loop(ex.execute)
	}

	if err := s.open(sess); err != nil {
		return err
	}
	ex := newExecutor(sess, s.root, s.stdout)
	closed := make(chan struct{})
	app := ui.New(sess,
		ui.WithOnClose(func() { close(closed) }),
		ui.WithTheme(s.activeTheme),
		ui.WithNotifier(s.notifier),
		ui.WithExport(ex.saveDir, ex.format, ex.quality),
		ui.WithTitle("Retouch session"),
	)
	// Commands run on the window's event loop so they never race its input.
	execute := func(line string) (bool, error) {
		var (
			done bool
			err  error
		)
		finished := make(chan struct{})
		app.Control(func(*editor.Session) {
			defer close(finished)
			done, err = ex.execute(line)
		})
		select {
		case <-finished:
			return done, err
		case <-closed:
			return true, nil
		}
	}
	go func() {
		if err := s.loop(execute); err != nil {
			fmt.Fprintln(s.stderr, err)
		}
		app.Close()
	}()
	runWindowFn(app)
	return nil
}

// loop runs the -e commands and then reads further commands from stdin
// until exit or end of input. Errors from -e commands stop the session;
// errors from typed commands are reported and reading continues.
func (s *sessionCmd) loop(execute func(string) (bool, error)) error {
	for _, line := range s.execs {
		done, err := execute(line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	if len(s.execs) > 0 && s.stdin == nil {
		return nil
	}
	fmt.Fprintln(s.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(s.stdin)
	for {
		fmt.Fprint(s.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := execute(scanner.Text())
		if err != nil {
			fmt.Fprintln(s.stderr, err)
			continue
		}
		if done {
			break
		}
	}
	return scanner.Err()
}
