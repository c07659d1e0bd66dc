package web

import (
	"context"

	"github.com/rook-computer/anchorlines/internal/panel"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/state"
	"github.com/rook-computer/anchorlines/internal/tray"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Loop runs fn on the goroutine that owns the overlay and the controller and
// waits for it to finish. Handlers never touch those objects directly.
type Loop interface {
	Do(ctx context.Context, fn func()) error
}

// DirectLoop runs fn on the calling goroutine. For tests and tools that have
// no app loop.
type DirectLoop struct{}

func (DirectLoop) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Panel is the settings panel model the API drives, normally *panel.Panel.
type Panel interface {
	View() panel.View
	ToggleEnabled(enabled bool)
	ToggleInverted(inverted bool)
	SelectProfile(index int) error
	CreateProfile(name string) error
	DeleteProfile(name string, confirmed bool) error
	Apply(f panel.Fields) error
	SelectScreen(index int) error
	SetEditEnabled(enabled bool) error
}

// Profiles is the controller's profile list, normally *control.Controller.
type Profiles interface {
	Profiles() []scheme.Scheme
	ActiveIndex() int
	ImportProfile(s scheme.Scheme) error
}

// Overlay exposes the current frame, normally *render.Overlay.
type Overlay interface {
	Frame() render.Frame
	State() state.RenderState
}

// TrayMenu exposes the displayed tray state, normally *tray.Menu.
type TrayMenu interface {
	Snapshot() tray.Snapshot
}

type APIV1Deps struct {
	Loop     Loop
	Panel    Panel
	Profiles Profiles
	Overlay  Overlay
	Tray     TrayMenu
	Logger   Logger
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Loop == nil {
		out.Loop = DirectLoop{}
	}
	if out.Tray == nil {
		out.Tray = noTray{}
	}
	return out
}

type noTray struct{}

func (noTray) Snapshot() tray.Snapshot { return tray.Snapshot{} }
