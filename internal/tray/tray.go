package tray

import (
	"fmt"
	"strings"
	"sync"
)

// Action identifies a tray menu entry.
type Action string

const (
	Enabled  Action = "enabled"
	Inverted Action = "inverted"
	HLine    Action = "hline"
	VLine    Action = "vline"
	Profile  Action = "profile"
	Exit     Action = "exit"
)

// ParseAction accepts the action names used by the simulator endpoints.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case Enabled, Inverted, HLine, VLine, Profile, Exit:
		return a, nil
	}
	return "", fmt.Errorf("unknown tray action %q", s)
}

// Event is a user click on the menu. Checked is the state the entry shows
// after the click; Index is set for Profile clicks.
type Event struct {
	Action  Action
	Checked bool
	Index   int
}

// Menu is the tray menu model: checkable actions plus a profile submenu
// whose checked entry is set by the controller. The Set* methods only update
// what is shown and never produce events; Click does.
type Menu struct {
	mu       sync.Mutex
	enabled  bool
	inverted bool
	hLine    bool
	vLine    bool
	profiles []string
	active   int

	ch     chan Event
	closed bool
}

func NewMenu() *Menu {
	return &Menu{active: -1, ch: make(chan Event, 16)}
}

// Events delivers user clicks. The app loop routes them to the controller.
func (m *Menu) Events() <-chan Event { return m.ch }

func (m *Menu) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.ch)
	}
	return nil
}

func (m *Menu) SetEnabledChecked(checked bool) {
	m.mu.Lock()
	m.enabled = checked
	m.mu.Unlock()
}

func (m *Menu) SetInvertedChecked(checked bool) {
	m.mu.Lock()
	m.inverted = checked
	m.mu.Unlock()
}

func (m *Menu) SetLineChecks(hLine, vLine bool) {
	m.mu.Lock()
	m.hLine, m.vLine = hLine, vLine
	m.mu.Unlock()
}

func (m *Menu) SetProfiles(names []string) {
	m.mu.Lock()
	m.profiles = append([]string(nil), names...)
	if m.active >= len(m.profiles) {
		m.active = -1
	}
	m.mu.Unlock()
}

func (m *Menu) SetActiveProfile(index int) {
	m.mu.Lock()
	m.active = index
	m.mu.Unlock()
}

// Click simulates the user activating a checkable entry: the entry flips
// its own check mark and an event is emitted.
func (m *Menu) Click(a Action) error {
	m.mu.Lock()
	var checked bool
	switch a {
	case Enabled:
		m.enabled = !m.enabled
		checked = m.enabled
	case Inverted:
		m.inverted = !m.inverted
		checked = m.inverted
	case HLine:
		m.hLine = !m.hLine
		checked = m.hLine
	case VLine:
		m.vLine = !m.vLine
		checked = m.vLine
	case Exit:
	default:
		m.mu.Unlock()
		return fmt.Errorf("tray action %q is not clickable", a)
	}
	m.mu.Unlock()
	return m.emit(Event{Action: a, Checked: checked, Index: -1})
}

// ClickProfile activates the profile entry at index.
func (m *Menu) ClickProfile(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.profiles) {
		m.mu.Unlock()
		return fmt.Errorf("no profile entry %d", index)
	}
	m.active = index
	m.mu.Unlock()
	return m.emit(Event{Action: Profile, Checked: true, Index: index})
}

func (m *Menu) emit(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("tray menu closed")
	}
	select {
	case m.ch <- ev:
		return nil
	default:
		return fmt.Errorf("tray event queue full")
	}
}

// Item is one profile entry as shown in the submenu.
type Item struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// Snapshot is the displayed menu state.
type Snapshot struct {
	Enabled  bool   `json:"enabled"`
	Inverted bool   `json:"inverted"`
	HLine    bool   `json:"hline"`
	VLine    bool   `json:"vline"`
	Profiles []Item `json:"profiles"`
}

func (m *Menu) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{Enabled: m.enabled, Inverted: m.inverted, HLine: m.hLine, VLine: m.vLine}
	s.Profiles = make([]Item, len(m.profiles))
	for i, name := range m.profiles {
		s.Profiles[i] = Item{Name: name, Checked: i == m.active}
	}
	return s
}

// Lines renders the menu as text, one entry per line.
func (s Snapshot) Lines() []string {
	mark := func(b bool) string {
		if b {
			return "[x]"
		}
		return "[ ]"
	}
	lines := []string{
		mark(s.Enabled) + " Enabled",
		mark(s.Inverted) + " Inverted",
		mark(s.HLine) + " Horizontal line",
		mark(s.VLine) + " Vertical line",
	}
	for _, p := range s.Profiles {
		dot := "( )"
		if p.Checked {
			dot = "(*)"
		}
		lines = append(lines, "    "+dot+" "+p.Name)
	}
	return lines
}
