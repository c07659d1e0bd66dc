package render

import (
	"image"

	"github.com/rook-computer/anchorlines/internal/render/layout"
	"github.com/rook-computer/anchorlines/internal/state"
)

// Input is everything Compose depends on.
type Input struct {
	State  state.RenderState
	Width  int
	Height int
}

// EffectiveWidth folds the enable flag and colour transparency into a line
// width. Negative stored widths count as 0.
func EffectiveWidth(enabled bool, width int, alpha uint8) int {
	if !enabled || alpha == 0 || width < 0 {
		return 0
	}
	return width
}

// Compose turns the overlay state into draw primitives. It is pure: the same
// input always yields the same frame.
func Compose(in Input) Frame {
	st := in.State
	frame := Frame{Width: in.Width, Height: in.Height, Cursor: st.Cursor}
	if !st.Enabled || in.Width <= 0 || in.Height <= 0 {
		return frame
	}

	sc := st.Scheme
	hw := EffectiveWidth(sc.HLineEnabled, sc.HLineWidth, sc.HLineColor.A)
	vw := EffectiveWidth(sc.VLineEnabled, sc.VLineWidth, sc.VLineColor.A)

	if st.Inverted {
		frame.Primitives = composeInverted(in, hw, vw)
	} else {
		frame.Primitives = composeLines(in, hw, vw)
	}
	return frame
}

func composeLines(in Input, hw, vw int) []Primitive {
	sc := in.State.Scheme
	cx, cy := in.State.Cursor.X, in.State.Cursor.Y
	var out []Primitive

	switch {
	case hw == 1:
		var segments []layout.Segment
		switch vw {
		case 0:
			segments = []layout.Segment{{From: 0, To: in.Width - 1}}
		case 1:
			// Both lines are thin: the horizontal line keeps the crossing pixel
			// and the vertical line skips it.
			segments = layout.SplitAround(in.Width, cx, cx)
		default:
			gs, ge := layout.LineGap(cx, vw)
			segments = layout.SplitAround(in.Width, gs, ge)
		}
		for _, seg := range segments {
			out = append(out, Primitive{
				Kind:  KindLine,
				From:  image.Pt(seg.From, cy),
				To:    image.Pt(seg.To, cy),
				Color: sc.HLineColor,
			})
		}
	case hw > 1:
		top, bottom := layout.Centered(cy, hw)
		out = append(out, Primitive{
			Kind:  KindRect,
			Rect:  image.Rectangle{Min: image.Pt(0, top), Max: image.Pt(in.Width, bottom)},
			Color: sc.HLineColor,
		})
	}

	switch {
	case vw == 1:
		var segments []layout.Segment
		if hw == 0 {
			segments = []layout.Segment{{From: 0, To: in.Height - 1}}
		} else {
			gs, ge := layout.LineGap(cy, hw)
			segments = layout.SplitAround(in.Height, gs, ge)
		}
		for _, seg := range segments {
			out = append(out, Primitive{
				Kind:  KindLine,
				From:  image.Pt(cx, seg.From),
				To:    image.Pt(cx, seg.To),
				Color: sc.VLineColor,
			})
		}
	case vw > 1:
		// Thick lines span the whole surface; where they cross a thick
		// horizontal line the two rectangles overlap.
		left, right := layout.Centered(cx, vw)
		out = append(out, Primitive{
			Kind:  KindRect,
			Rect:  image.Rectangle{Min: image.Pt(left, 0), Max: image.Pt(right, in.Height)},
			Color: sc.VLineColor,
		})
	}
	return out
}

func composeInverted(in Input, hw, vw int) []Primitive {
	bg := in.State.Scheme.InvertedBackground
	if bg.A == 0 {
		return nil
	}
	vLeft := vw / 2
	hTop := hw / 2
	gap := layout.Gap{Left: vLeft, Right: vw - vLeft, Top: hTop, Bottom: hw - hTop}
	quads := layout.CrossQuadrants(image.Rect(0, 0, in.Width, in.Height), in.State.Cursor, gap)

	out := make([]Primitive, 0, 4)
	for _, r := range quads.Rects() {
		out = append(out, Primitive{Kind: KindRect, Rect: r, Color: bg})
	}
	return out
}
