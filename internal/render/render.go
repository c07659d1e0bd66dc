package render

import (
	"context"
	"image"
	"image/color"
)

// Renderer is a windowing shell that shows overlay frames on some surface.
type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	// Bounds is the surface the overlay spans, in global pointer coordinates.
	Bounds() image.Rectangle
	Present(frame Frame)
}

// Presenter receives every recomputed frame.
type Presenter interface {
	Present(frame Frame)
}

// NoopRenderer accepts frames and drops them.
type NoopRenderer struct {
	Rect image.Rectangle
}

func (n *NoopRenderer) Start(ctx context.Context) error { return nil }
func (n *NoopRenderer) Stop() error                     { return nil }
func (n *NoopRenderer) Bounds() image.Rectangle         { return n.Rect }
func (n *NoopRenderer) Present(frame Frame)             {}

type Kind int

const (
	// KindLine is a one pixel wide horizontal or vertical segment.
	KindLine Kind = iota
	// KindRect is a filled axis-aligned rectangle.
	KindRect
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	default:
		return "unknown"
	}
}

// Primitive is one draw instruction of a frame.
//
// Lines use From and To as inclusive end points on the same row or column.
// Rectangles use Rect as a half-open box that may be degenerate; a degenerate
// box covers nothing.
type Primitive struct {
	Kind  Kind
	From  image.Point
	To    image.Point
	Rect  image.Rectangle
	Color color.NRGBA
}

// Bounds returns the pixels a primitive covers as a half-open rectangle.
func (p Primitive) Bounds() image.Rectangle {
	if p.Kind == KindRect {
		if p.Rect.Empty() {
			return image.Rectangle{}
		}
		return p.Rect
	}
	minX, maxX := min(p.From.X, p.To.X), max(p.From.X, p.To.X)
	minY, maxY := min(p.From.Y, p.To.Y), max(p.From.Y, p.To.Y)
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Frame is the composed output for one surface state.
type Frame struct {
	Width      int
	Height     int
	Cursor     image.Point
	Primitives []Primitive
}
