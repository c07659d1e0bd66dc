package control

import (
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/state"
)

// Origin names the surface a state change request came from.
type Origin int

const (
	OriginSettingsPanel Origin = iota
	OriginTrayAction
	OriginHotkey

	// originController marks changes the controller makes on its own, such
	// as re-activating after a delete. They reach every surface.
	originController Origin = -1
)

func (o Origin) String() string {
	switch o {
	case OriginSettingsPanel:
		return "settings-panel"
	case OriginTrayAction:
		return "tray"
	case OriginHotkey:
		return "hotkey"
	case originController:
		return "controller"
	default:
		return "unknown"
	}
}

// Overlay is the render state owner, normally *render.Overlay.
type Overlay interface {
	State() state.RenderState
	SetEnabled(enabled bool)
	SetInverted(inverted bool)
	SetScheme(s scheme.Scheme)
	ToggleHLine() bool
	ToggleVLine() bool
}

// Tray is the checkable menu. Its setters update the displayed state only and
// must not call back into the controller.
type Tray interface {
	SetEnabledChecked(checked bool)
	SetInvertedChecked(checked bool)
	SetLineChecks(hLine, vLine bool)
	SetProfiles(names []string)
	SetActiveProfile(index int)
}

// Panel is the settings panel. Like Tray, its setters are silent.
type Panel interface {
	SetEnabledUI(enabled bool)
	SetInvertedUI(inverted bool)
	SetProfiles(names []string)
	SetCurrentProfile(index int)
}

// ProfileStore persists named schemes, normally *profile.Store.
type ProfileStore interface {
	List() ([]scheme.Scheme, error)
	Save(s scheme.Scheme) error
	Delete(name string) error
}

// Config is the process-wide configuration, normally *settings.Settings.
type Config interface {
	ScreenIndex() int
	CurrentProfile() string
	Enabled() bool
	Inverted() bool
	EditEnabled() bool

	SetScreenIndex(index int) error
	SetCurrentProfile(name string) error
	SetEnabled(enabled bool) error
	SetInverted(inverted bool) error
	SetEditEnabled(enabled bool) error
}

// Listener receives the events the controller emits for views that redraw
// themselves from scratch.
type Listener interface {
	OnProfilesChanged(profiles []scheme.Scheme)
	OnSchemeActivated(s scheme.Scheme)
	OnScreenChanged(index int)
}

// Listeners fans events out to several listeners in order.
type Listeners []Listener

func (ls Listeners) OnProfilesChanged(profiles []scheme.Scheme) {
	for _, l := range ls {
		l.OnProfilesChanged(append([]scheme.Scheme(nil), profiles...))
	}
}

func (ls Listeners) OnSchemeActivated(s scheme.Scheme) {
	for _, l := range ls {
		l.OnSchemeActivated(s)
	}
}

func (ls Listeners) OnScreenChanged(index int) {
	for _, l := range ls {
		l.OnScreenChanged(index)
	}
}

type noopTray struct{}

func (noopTray) SetEnabledChecked(bool)  {}
func (noopTray) SetInvertedChecked(bool) {}
func (noopTray) SetLineChecks(_, _ bool) {}
func (noopTray) SetProfiles([]string)    {}
func (noopTray) SetActiveProfile(int)    {}

type noopPanel struct{}

func (noopPanel) SetEnabledUI(bool)     {}
func (noopPanel) SetInvertedUI(bool)    {}
func (noopPanel) SetProfiles([]string)  {}
func (noopPanel) SetCurrentProfile(int) {}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(component, format string, args ...interface{})  {}
func (noopLogger) Errorf(component, format string, args ...interface{}) {}
