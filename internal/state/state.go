package state

import (
	"image"

	"github.com/rook-computer/anchorlines/internal/scheme"
)

// RenderState is everything the overlay needs to compose a frame apart from
// the surface size. Scheme is an owned copy: edits made here (for example a
// hotkey hiding the horizontal line) never reach a saved profile.
type RenderState struct {
	Enabled  bool
	Inverted bool
	Cursor   image.Point
	Scheme   scheme.Scheme
}

// New returns the startup state: enabled, line mode, the transient normal scheme.
func New() RenderState {
	return RenderState{Enabled: true, Scheme: scheme.Normal()}
}
