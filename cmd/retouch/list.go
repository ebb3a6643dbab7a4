package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/example/retouch/internal/capture"
	"github.com/example/retouch/internal/theme"
)

var listMonitorsFn = capture.ListMonitors

type themesCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	cmd := &themesCmd{root: r.subcommand("themes"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	active := c.config.ThemeName(c.themeName)
	if active == "" {
		active = "default"
	}
	mark := func(name string) string {
		if name == active {
			return "*"
		}
		return " "
	}
	fmt.Fprintln(c.out, "embedded themes (* marks the active theme):")
	for _, name := range theme.Names() {
		fmt.Fprintf(c.out, "%s %s\n", mark(name), name)
	}
	if len(c.config.Themes) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.config.Themes))
	for name := range c.config.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(c.out, "config themes:")
	for _, name := range names {
		fmt.Fprintf(c.out, "%s %s\n", mark(name), name)
	}
	return nil
}

type monitorsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *monitorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	cmd := &monitorsCmd{root: r.subcommand("monitors"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *monitorsCmd) Run() error {
	monitors, err := listMonitorsFn()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	if len(monitors) == 0 {
		fmt.Fprintln(c.out, "no monitors available")
		return nil
	}
	fmt.Fprintln(c.out, "available monitors (* marks the primary monitor):")
	for _, m := range monitors {
		marker := " "
		if m.Primary {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %d: %s %dx%d+%d+%d\n", marker, m.Index, m.Name, m.Rect.Dx(), m.Rect.Dy(), m.Rect.Min.X, m.Rect.Min.Y)
	}
	return nil
}
