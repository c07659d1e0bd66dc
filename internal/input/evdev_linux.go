//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01
	evRel = 0x02

	relX = 0x00
	relY = 0x01

	keyF4 = 62
)

// Evdev reads every /dev/input/event* device: relative motion moves Pointer,
// bound chords are sent on Commands and F4 calls OnExit once.
type Evdev struct {
	Logger   Logger
	Bindings Bindings
	Pointer  *Pointer
	Commands chan<- Command
	OnExit   func()

	exitOnce sync.Once
}

// Start spawns one reader per device. It is best-effort: without devices it
// logs and returns.
func (e *Evdev) Start(ctx context.Context) {
	if e.Bindings == nil {
		e.Bindings = DefaultBindings()
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		e.infof("no evdev devices found")
		return
	}

	for _, path := range paths {
		p := path
		go e.read(ctx, p)
	}
	e.infof("reading %d evdev devices", len(paths))
}

func (e *Evdev) read(ctx context.Context, path string) {
	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4
	if eventSize <= 0 {
		eventSize = 24
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	matcher := NewMatcher(e.Bindings)
	buf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}

		for off := 0; off+eventSize <= n; off += eventSize {
			rec := buf[off : off+eventSize]
			typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
			code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
			value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
			e.handle(ctx, matcher, typ, code, value)
		}
	}
}

func (e *Evdev) handle(ctx context.Context, matcher *Matcher, typ, code uint16, value int32) {
	switch typ {
	case evRel:
		if e.Pointer == nil {
			return
		}
		switch code {
		case relX:
			e.Pointer.Move(int(value), 0)
		case relY:
			e.Pointer.Move(0, int(value))
		}
	case evKey:
		if code == keyF4 && value == 1 && e.OnExit != nil {
			e.exitOnce.Do(func() {
				e.infof("F4 pressed: exiting")
				e.OnExit()
			})
			return
		}
		cmd, ok := matcher.Key(code, value)
		if !ok || e.Commands == nil {
			return
		}
		select {
		case e.Commands <- cmd:
		case <-ctx.Done():
		}
	}
}

func (e *Evdev) infof(format string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Infof("input", format, args...)
	}
}
