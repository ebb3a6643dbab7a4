//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import "image"

type stubBackend struct{}

func newBackend() platformBackend { return stubBackend{} }

func (stubBackend) ListMonitors() ([]MonitorInfo, error)   { return nil, errUnsupported }
func (stubBackend) Portal(bool, bool) (*image.RGBA, error) { return nil, errUnsupported }
func (stubBackend) Root() (*image.RGBA, error)             { return nil, errUnsupported }
func (stubBackend) Wayland() bool                          { return false }
