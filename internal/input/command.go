package input

import "fmt"

// Command is an abstract hotkey action. It carries no payload.
type Command int

const (
	CmdNone Command = iota
	CmdToggleOverlay
	CmdToggleInverted
	CmdToggleHLine
	CmdToggleVLine
	CmdPreviousProfile
	CmdNextProfile
)

var commandNames = map[Command]string{
	CmdToggleOverlay:   "toggle-overlay",
	CmdToggleInverted:  "toggle-inverted",
	CmdToggleHLine:     "toggle-hline",
	CmdToggleVLine:     "toggle-vline",
	CmdPreviousProfile: "previous-profile",
	CmdNextProfile:     "next-profile",
}

// Commands lists every command in a stable order.
func Commands() []Command {
	return []Command{
		CmdToggleOverlay,
		CmdToggleInverted,
		CmdToggleHLine,
		CmdToggleVLine,
		CmdPreviousProfile,
		CmdNextProfile,
	}
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "none"
}

// ParseCommand maps a command ID such as "toggle-hline" back to its Command.
func ParseCommand(id string) (Command, error) {
	for c, name := range commandNames {
		if name == id {
			return c, nil
		}
	}
	return CmdNone, fmt.Errorf("unknown command %q", id)
}
