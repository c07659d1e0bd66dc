package render

import (
	"image"

	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/state"
)

// Overlay owns the render state of one surface and recomputes its frame
// whenever an input changes. It is not safe for concurrent use; the app loop
// is its only caller.
type Overlay struct {
	state  state.RenderState
	bounds image.Rectangle
	frame  Frame

	presenter  Presenter
	lastPolled image.Point
	polled     bool
}

// NewOverlay returns an overlay spanning bounds (global coordinates) with the
// startup state.
func NewOverlay(bounds image.Rectangle, presenter Presenter) *Overlay {
	o := &Overlay{state: state.New(), bounds: bounds, presenter: presenter}
	o.redraw()
	return o
}

// State returns a copy of the current render state.
func (o *Overlay) State() state.RenderState { return o.state }

// Frame returns the most recently composed frame.
func (o *Overlay) Frame() Frame { return o.frame }

func (o *Overlay) Bounds() image.Rectangle { return o.bounds }

func (o *Overlay) SetPresenter(p Presenter) {
	o.presenter = p
	o.redraw()
}

func (o *Overlay) SetEnabled(enabled bool) {
	if o.state.Enabled == enabled {
		return
	}
	o.state.Enabled = enabled
	o.redraw()
}

func (o *Overlay) SetInverted(inverted bool) {
	if o.state.Inverted == inverted {
		return
	}
	o.state.Inverted = inverted
	o.redraw()
}

// SetScheme replaces the active scheme with a copy of s.
func (o *Overlay) SetScheme(s scheme.Scheme) {
	o.state.Scheme = s
	o.redraw()
}

// ToggleHLine flips the horizontal line of the active copy and returns the new value.
func (o *Overlay) ToggleHLine() bool {
	o.state.Scheme.HLineEnabled = !o.state.Scheme.HLineEnabled
	o.redraw()
	return o.state.Scheme.HLineEnabled
}

// ToggleVLine flips the vertical line of the active copy and returns the new value.
func (o *Overlay) ToggleVLine() bool {
	o.state.Scheme.VLineEnabled = !o.state.Scheme.VLineEnabled
	o.redraw()
	return o.state.Scheme.VLineEnabled
}

// Place moves the overlay to a new surface rectangle.
func (o *Overlay) Place(bounds image.Rectangle) {
	if o.bounds == bounds {
		return
	}
	o.bounds = bounds
	if o.polled {
		o.state.Cursor = o.lastPolled.Sub(bounds.Min)
	}
	o.redraw()
}

// OnCursorTick takes a polled global pointer position. It returns false, and
// does nothing, when the position has not changed since the last poll.
func (o *Overlay) OnCursorTick(global image.Point) bool {
	if o.polled && global == o.lastPolled {
		return false
	}
	o.polled = true
	o.lastPolled = global
	o.state.Cursor = global.Sub(o.bounds.Min)
	o.redraw()
	return true
}

func (o *Overlay) redraw() {
	o.frame = Compose(Input{State: o.state, Width: o.bounds.Dx(), Height: o.bounds.Dy()})
	if o.presenter != nil {
		o.presenter.Present(o.frame)
	}
}
