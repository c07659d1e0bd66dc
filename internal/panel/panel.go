package panel

import (
	"github.com/rook-computer/anchorlines/internal/control"
	"github.com/rook-computer/anchorlines/internal/scheme"
)

// Controller is the part of control.Controller the panel drives.
type Controller interface {
	SetEnabled(origin control.Origin, enabled bool)
	SetInverted(origin control.Origin, inverted bool)
	Activate(origin control.Origin, index int) error
	CreateProfile(name string) error
	DeleteProfile(name string) error
	ApplyScheme(s scheme.Scheme) error
	SetScreen(index int) error
	SetEditEnabled(enabled bool) error
	EditEnabled() bool
}

// Panel is the settings panel model. It shows the overlay flags, the profile
// list with the current selection, the screen index and the scheme fields of
// the active profile. The Set*/On* methods are called by the controller and
// only change what is displayed; the remaining methods are user actions and
// are forwarded with OriginSettingsPanel.
//
// Like the controller it lives on the app loop and is not locked.
type Panel struct {
	Controller Controller

	enabled  bool
	inverted bool
	profiles []string
	current  int
	screen   int
	fields   Fields

	confirmed bool
}

func New() *Panel {
	return &Panel{current: -1, fields: FieldsFromScheme(scheme.Normal())}
}

func (p *Panel) SetEnabledUI(enabled bool)   { p.enabled = enabled }
func (p *Panel) SetInvertedUI(inverted bool) { p.inverted = inverted }

func (p *Panel) SetProfiles(names []string) {
	p.profiles = append([]string(nil), names...)
	if p.current >= len(p.profiles) {
		p.current = -1
	}
}

func (p *Panel) SetCurrentProfile(index int) { p.current = index }

func (p *Panel) OnProfilesChanged(profiles []scheme.Scheme) {}

func (p *Panel) OnSchemeActivated(s scheme.Scheme) { p.fields = FieldsFromScheme(s) }

func (p *Panel) OnScreenChanged(index int) { p.screen = index }

// View is the displayed state.
type View struct {
	Enabled     bool     `json:"enabled"`
	Inverted    bool     `json:"inverted"`
	Profiles    []string `json:"profiles"`
	Current     int      `json:"current"`
	CurrentName string   `json:"currentName"`
	Screen      int      `json:"screen"`
	EditEnabled bool     `json:"editEnabled"`
	Fields      Fields   `json:"fields"`
}

func (p *Panel) View() View {
	v := View{
		Enabled:  p.enabled,
		Inverted: p.inverted,
		Profiles: append([]string{}, p.profiles...),
		Current:  p.current,
		Screen:   p.screen,
		Fields:   p.fields,
	}
	if p.current >= 0 && p.current < len(p.profiles) {
		v.CurrentName = p.profiles[p.current]
	}
	if p.Controller != nil {
		v.EditEnabled = p.Controller.EditEnabled()
	}
	return v
}

func (p *Panel) ToggleEnabled(enabled bool) {
	p.enabled = enabled
	p.Controller.SetEnabled(control.OriginSettingsPanel, enabled)
}

func (p *Panel) ToggleInverted(inverted bool) {
	p.inverted = inverted
	p.Controller.SetInverted(control.OriginSettingsPanel, inverted)
}

// SelectProfile is the user picking an entry in the profile list.
func (p *Panel) SelectProfile(index int) error {
	if err := p.Controller.Activate(control.OriginSettingsPanel, index); err != nil {
		return err
	}
	p.current = index
	return nil
}

func (p *Panel) CreateProfile(name string) error { return p.Controller.CreateProfile(name) }

// DeleteProfile forwards a delete together with the answer the user gave to
// the confirmation dialog. The controller asks for it through Confirm.
func (p *Panel) DeleteProfile(name string, confirmed bool) error {
	p.confirmed = confirmed
	defer func() { p.confirmed = false }()
	return p.Controller.DeleteProfile(name)
}

// Confirm is the controller's confirmation hook.
func (p *Panel) Confirm(name string) bool { return p.confirmed }

// Apply saves the edited fields to the active profile. Editing can be
// switched off, in which case nothing is saved.
func (p *Panel) Apply(f Fields) error {
	if !p.Controller.EditEnabled() {
		return &control.ValidationError{Field: "edit", Reason: "editing is disabled"}
	}
	s, err := f.Scheme()
	if err != nil {
		return err
	}
	return p.Controller.ApplyScheme(s)
}

func (p *Panel) SelectScreen(index int) error { return p.Controller.SetScreen(index) }

func (p *Panel) SetEditEnabled(enabled bool) error { return p.Controller.SetEditEnabled(enabled) }
