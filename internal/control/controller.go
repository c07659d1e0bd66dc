package control

import (
	"fmt"
	"strings"

	"github.com/rook-computer/anchorlines/internal/input"
	"github.com/rook-computer/anchorlines/internal/profile"
	"github.com/rook-computer/anchorlines/internal/scheme"
)

// Controller routes state changes from the settings panel, the tray and
// hotkeys to the overlay and to the surfaces that did not originate them.
// It owns the profile list and the one authoritative active index; every
// surface's profile selection is a projection of that index.
//
// A Controller is not safe for concurrent use. The app loop calls it.
type Controller struct {
	Tray     Tray
	Panel    Panel
	Listener Listener
	Logger   Logger

	// Confirm asks the user before a profile is deleted. Nil means yes.
	Confirm func(name string) bool

	overlay Overlay
	store   ProfileStore
	config  Config

	profiles []scheme.Scheme
	active   int
}

func New(overlay Overlay, store ProfileStore, config Config) *Controller {
	return &Controller{
		Tray:     noopTray{},
		Panel:    noopPanel{},
		Listener: Listeners(nil),
		Logger:   noopLogger{},
		overlay:  overlay,
		store:    store,
		config:   config,
		active:   -1,
	}
}

// Init restores the persisted flags, announces the screen and loads the
// profiles, activating the stored current profile or the first one.
func (c *Controller) Init() error {
	enabled, inverted := c.config.Enabled(), c.config.Inverted()
	c.overlay.SetEnabled(enabled)
	c.overlay.SetInverted(inverted)
	c.Tray.SetEnabledChecked(enabled)
	c.Tray.SetInvertedChecked(inverted)
	c.Panel.SetEnabledUI(enabled)
	c.Panel.SetInvertedUI(inverted)
	c.pushLineChecks()

	c.Listener.OnScreenChanged(c.config.ScreenIndex())
	return c.RefreshProfiles()
}

// Profiles returns a copy of the profile list in store order.
func (c *Controller) Profiles() []scheme.Scheme {
	return append([]scheme.Scheme(nil), c.profiles...)
}

func (c *Controller) ProfileNames() []string {
	names := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		names[i] = p.Name
	}
	return names
}

// ActiveIndex is -1 when no profile is active.
func (c *Controller) ActiveIndex() int { return c.active }

// Active returns the stored scheme of the active profile.
func (c *Controller) Active() (scheme.Scheme, bool) {
	if c.active < 0 {
		return scheme.Scheme{}, false
	}
	return c.profiles[c.active], true
}

func (c *Controller) EditEnabled() bool { return c.config.EditEnabled() }

func (c *Controller) ScreenIndex() int { return c.config.ScreenIndex() }

// SetEnabled switches drawing on or off and syncs the surfaces that did not
// send the request.
func (c *Controller) SetEnabled(origin Origin, enabled bool) {
	c.overlay.SetEnabled(enabled)
	if err := c.config.SetEnabled(enabled); err != nil {
		c.Logger.Errorf("control", "persist enabled: %v", err)
	}
	c.dispatch(origin,
		func() { c.Tray.SetEnabledChecked(enabled) },
		func() { c.Panel.SetEnabledUI(enabled) })
	c.Logger.Infof("control", "enabled=%t from %s", enabled, origin)
}

// SetInverted switches between line and masked-background mode.
func (c *Controller) SetInverted(origin Origin, inverted bool) {
	c.overlay.SetInverted(inverted)
	if err := c.config.SetInverted(inverted); err != nil {
		c.Logger.Errorf("control", "persist inverted: %v", err)
	}
	c.dispatch(origin,
		func() { c.Tray.SetInvertedChecked(inverted) },
		func() { c.Panel.SetInvertedUI(inverted) })
	c.Logger.Infof("control", "inverted=%t from %s", inverted, origin)
}

// ToggleHLine flips the horizontal line of the transient scheme copy. The
// saved profile is not touched.
func (c *Controller) ToggleHLine(origin Origin) bool {
	v := c.overlay.ToggleHLine()
	if origin != OriginTrayAction {
		c.pushLineChecks()
	}
	return v
}

func (c *Controller) ToggleVLine(origin Origin) bool {
	v := c.overlay.ToggleVLine()
	if origin != OriginTrayAction {
		c.pushLineChecks()
	}
	return v
}

// Activate makes the profile at index the active one.
func (c *Controller) Activate(origin Origin, index int) error {
	if index < 0 || index >= len(c.profiles) {
		return c.logicError("activate", fmt.Sprintf("index %d out of range [0,%d)", index, len(c.profiles)))
	}
	c.activate(origin, index)
	return nil
}

func (c *Controller) ActivateByName(origin Origin, name string) error {
	i := c.indexOf(name)
	if i < 0 {
		return c.logicError("activate", fmt.Sprintf("no profile named %q", name))
	}
	c.activate(origin, i)
	return nil
}

// SwitchRelative moves the active profile by k positions, wrapping in both
// directions. It needs an active profile to start from.
func (c *Controller) SwitchRelative(k int) error {
	n := len(c.profiles)
	if c.active < 0 || n == 0 {
		return c.logicError("switch profile", "no active profile")
	}
	next := ((c.active+k)%n + n) % n
	c.activate(OriginHotkey, next)
	return nil
}

// CreateProfile saves a default scheme under name and activates it.
func (c *Controller) CreateProfile(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if err := c.checkFree(name); err != nil {
		return err
	}
	return c.addProfile(scheme.Default().WithName(name))
}

func (c *Controller) addProfile(s scheme.Scheme) error {
	if err := c.store.Save(s); err != nil {
		return fmt.Errorf("create profile %q: %w", s.Name, err)
	}
	c.Logger.Infof("control", "created profile %q", s.Name)

	c.reload(func() { c.profiles = append(c.profiles, s) })
	i := c.indexOf(s.Name)
	if i < 0 {
		c.profiles = append(c.profiles, s)
		c.rebuild()
		i = len(c.profiles) - 1
	}
	c.activate(originController, i)
	return nil
}

// ImportProfile saves a shared scheme as a new profile and activates it.
func (c *Controller) ImportProfile(s scheme.Scheme) error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if err := c.checkFree(s.Name); err != nil {
		return err
	}
	return c.addProfile(s)
}

// DeleteProfile removes a profile after confirmation. When the active
// profile goes away its neighbour becomes active.
func (c *Controller) DeleteProfile(name string) error {
	i := c.indexOf(name)
	if i < 0 {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("no profile named %q", name)}
	}
	if c.Confirm != nil && !c.Confirm(name) {
		return ErrCanceled
	}
	if err := c.store.Delete(name); err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	c.Logger.Infof("control", "deleted profile %q", name)

	wasActive := c.active == i
	activeName := ""
	if c.active >= 0 && !wasActive {
		activeName = c.profiles[c.active].Name
	}
	c.reload(func() { c.profiles = append(c.profiles[:i:i], c.profiles[i+1:]...) })

	switch {
	case !wasActive:
		c.active = c.indexOf(activeName)
		c.projectActive(originController)
	case len(c.profiles) > 0:
		c.activate(originController, min(i, len(c.profiles)-1))
	default:
		c.active = -1
		c.projectActive(originController)
		c.persistCurrent("")
	}
	return nil
}

// ApplyScheme saves s as the active profile and shows it. Nothing changes
// when the save fails.
func (c *Controller) ApplyScheme(s scheme.Scheme) error {
	if c.active < 0 {
		return &ValidationError{Field: "profile", Reason: "no active profile to save to"}
	}
	s.Name = c.profiles[c.active].Name
	if s.Version == 0 {
		s.Version = scheme.Version
	}
	if err := c.store.Save(s); err != nil {
		return fmt.Errorf("save profile %q: %w", s.Name, err)
	}
	c.profiles[c.active] = s
	c.overlay.SetScheme(s)
	c.pushLineChecks()
	c.Listener.OnSchemeActivated(s)
	c.Logger.Infof("control", "applied scheme to %q", s.Name)
	return nil
}

// RefreshProfiles re-reads the store. The active profile is kept by name;
// if it disappeared the first profile becomes active.
func (c *Controller) RefreshProfiles() error {
	list, err := c.store.List()
	if err != nil {
		return err
	}

	prevName := c.config.CurrentProfile()
	var prev scheme.Scheme
	hadActive := c.active >= 0
	if hadActive {
		prev = c.profiles[c.active]
		prevName = prev.Name
	}

	c.profiles = list
	c.rebuild()

	i := c.indexOf(prevName)
	switch {
	case i >= 0 && hadActive && c.profiles[i] == prev:
		// Same profile, same contents: keep the transient line toggles.
		c.active = i
		c.projectActive(originController)
	case i >= 0:
		c.activate(originController, i)
	case len(c.profiles) > 0:
		c.activate(originController, 0)
	default:
		c.active = -1
		c.projectActive(originController)
	}
	return nil
}

// HandleHotkey runs a hotkey command.
func (c *Controller) HandleHotkey(cmd input.Command) error {
	switch cmd {
	case input.CmdToggleOverlay:
		c.SetEnabled(OriginHotkey, !c.overlay.State().Enabled)
	case input.CmdToggleInverted:
		c.SetInverted(OriginHotkey, !c.overlay.State().Inverted)
	case input.CmdToggleHLine:
		c.ToggleHLine(OriginHotkey)
	case input.CmdToggleVLine:
		c.ToggleVLine(OriginHotkey)
	case input.CmdPreviousProfile:
		return c.SwitchRelative(-1)
	case input.CmdNextProfile:
		return c.SwitchRelative(1)
	default:
		return c.logicError("hotkey", fmt.Sprintf("unknown command %v", cmd))
	}
	return nil
}

// SetScreen records the screen the overlay should cover.
func (c *Controller) SetScreen(index int) error {
	if index < 0 {
		return &ValidationError{Field: "screen", Reason: "must not be negative"}
	}
	if err := c.config.SetScreenIndex(index); err != nil {
		return err
	}
	c.Listener.OnScreenChanged(index)
	return nil
}

func (c *Controller) SetEditEnabled(enabled bool) error {
	return c.config.SetEditEnabled(enabled)
}

func (c *Controller) activate(origin Origin, index int) {
	c.active = index
	s := c.profiles[index]
	c.overlay.SetScheme(s)
	c.projectActive(origin)
	c.pushLineChecks()
	c.persistCurrent(s.Name)
	c.Listener.OnSchemeActivated(s)
	c.Logger.Infof("control", "activated profile %q (%d/%d) from %s", s.Name, index+1, len(c.profiles), origin)
}

// projectActive shows the active index on every surface except origin.
func (c *Controller) projectActive(origin Origin) {
	c.dispatch(origin,
		func() { c.Tray.SetActiveProfile(c.active) },
		func() { c.Panel.SetCurrentProfile(c.active) })
}

// reload re-reads the store after a create or delete so the list keeps store
// order. If listing fails, fallback edits the in-memory list instead.
func (c *Controller) reload(fallback func()) {
	list, err := c.store.List()
	if err != nil {
		c.Logger.Errorf("control", "list profiles: %v", err)
		fallback()
	} else {
		c.profiles = list
	}
	c.rebuild()
}

// rebuild pushes the profile names to every dependent list.
func (c *Controller) rebuild() {
	names := c.ProfileNames()
	c.Tray.SetProfiles(names)
	c.Panel.SetProfiles(names)
	c.Listener.OnProfilesChanged(c.Profiles())
}

func (c *Controller) pushLineChecks() {
	sc := c.overlay.State().Scheme
	c.Tray.SetLineChecks(sc.HLineEnabled, sc.VLineEnabled)
}

func (c *Controller) persistCurrent(name string) {
	if err := c.config.SetCurrentProfile(name); err != nil {
		c.Logger.Errorf("control", "persist current profile: %v", err)
	}
}

// dispatch pushes a change to the surfaces that did not originate it.
func (c *Controller) dispatch(origin Origin, toTray, toPanel func()) {
	switch origin {
	case OriginSettingsPanel:
		toTray()
	case OriginTrayAction:
		toPanel()
	default:
		toTray()
		toPanel()
	}
}

// checkFree rejects a name whose profile file is already taken, including
// names that differ only in characters the file name replaces.
func (c *Controller) checkFree(name string) error {
	for _, p := range c.profiles {
		if p.Name == name {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("profile %q already exists", name)}
		}
		if profile.SameFile(p.Name, name) {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("profile %q would overwrite %q", name, p.Name)}
		}
	}
	return nil
}

func (c *Controller) indexOf(name string) int {
	for i, p := range c.profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (c *Controller) logicError(op, reason string) error {
	err := &LogicError{Op: op, Reason: reason}
	c.Logger.Errorf("control", "%v", err)
	return err
}
