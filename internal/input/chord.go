package input

import (
	"fmt"
	"strings"
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
)

// Chord is a modifier set plus one letter key.
type Chord struct {
	Mods Modifier
	Key  rune // upper case letter
}

func (c Chord) String() string {
	var parts []string
	if c.Mods&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	return strings.Join(append(parts, string(c.Key)), "+")
}

// ParseChord reads chords written like "Ctrl+Shift+T".
func ParseChord(s string) (Chord, error) {
	var c Chord
	parts := strings.Split(s, "+")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == len(parts)-1 {
			if len(part) != 1 {
				return Chord{}, fmt.Errorf("chord %q: key must be a single letter", s)
			}
			r := rune(strings.ToUpper(part)[0])
			if r < 'A' || r > 'Z' {
				return Chord{}, fmt.Errorf("chord %q: key must be a letter", s)
			}
			c.Key = r
			continue
		}
		switch strings.ToLower(part) {
		case "ctrl", "control":
			c.Mods |= ModCtrl
		case "shift":
			c.Mods |= ModShift
		case "alt":
			c.Mods |= ModAlt
		default:
			return Chord{}, fmt.Errorf("chord %q: unknown modifier %q", s, part)
		}
	}
	return c, nil
}

// Bindings maps chords to commands.
type Bindings map[Chord]Command

// DefaultBindings returns the stock Ctrl+Shift chords.
func DefaultBindings() Bindings {
	cs := ModCtrl | ModShift
	return Bindings{
		{Mods: cs, Key: 'T'}: CmdToggleOverlay,
		{Mods: cs, Key: 'I'}: CmdToggleInverted,
		{Mods: cs, Key: 'H'}: CmdToggleHLine,
		{Mods: cs, Key: 'V'}: CmdToggleVLine,
		{Mods: cs, Key: 'P'}: CmdPreviousProfile,
		{Mods: cs, Key: 'N'}: CmdNextProfile,
	}
}

// Lookup returns the command bound to c, or CmdNone.
func (b Bindings) Lookup(c Chord) Command {
	if cmd, ok := b[c]; ok {
		return cmd
	}
	return CmdNone
}

// Linux input-event-codes.h
const (
	keyLeftCtrl   = 29
	keyRightCtrl  = 97
	keyLeftShift  = 42
	keyRightShift = 54
	keyLeftAlt    = 56
	keyRightAlt   = 100
)

var letterKeys = map[uint16]rune{
	16: 'Q', 17: 'W', 18: 'E', 19: 'R', 20: 'T', 21: 'Y', 22: 'U', 23: 'I', 24: 'O', 25: 'P',
	30: 'A', 31: 'S', 32: 'D', 33: 'F', 34: 'G', 35: 'H', 36: 'J', 37: 'K', 38: 'L',
	44: 'Z', 45: 'X', 46: 'C', 47: 'V', 48: 'B', 49: 'N', 50: 'M',
}

// Matcher turns a stream of key events from one keyboard into commands.
type Matcher struct {
	bindings Bindings
	held     map[uint16]bool
}

func NewMatcher(b Bindings) *Matcher {
	return &Matcher{bindings: b, held: make(map[uint16]bool)}
}

// Key feeds one key event (value 1 = press, 0 = release, 2 = autorepeat).
// It returns the bound command when a letter is pressed while its chord's
// modifiers are held.
func (m *Matcher) Key(code uint16, value int32) (Command, bool) {
	if modifierOf(code) != 0 {
		m.held[code] = value != 0
		return CmdNone, false
	}
	if value != 1 {
		return CmdNone, false
	}
	r, ok := letterKeys[code]
	if !ok {
		return CmdNone, false
	}
	cmd := m.bindings.Lookup(Chord{Mods: m.mods(), Key: r})
	return cmd, cmd != CmdNone
}

func (m *Matcher) mods() Modifier {
	var mods Modifier
	for code, down := range m.held {
		if down {
			mods |= modifierOf(code)
		}
	}
	return mods
}

func modifierOf(code uint16) Modifier {
	switch code {
	case keyLeftCtrl, keyRightCtrl:
		return ModCtrl
	case keyLeftShift, keyRightShift:
		return ModShift
	case keyLeftAlt, keyRightAlt:
		return ModAlt
	}
	return 0
}
