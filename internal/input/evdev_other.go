//go:build !linux

package input

import "context"

// Evdev is only backed by devices on Linux; elsewhere Start just logs.
type Evdev struct {
	Logger   Logger
	Bindings Bindings
	Pointer  *Pointer
	Commands chan<- Command
	OnExit   func()
}

func (e *Evdev) Start(ctx context.Context) {
	if e.Logger != nil {
		e.Logger.Infof("input", "evdev input is not available on this platform")
	}
}
