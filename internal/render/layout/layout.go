package layout

import "image"

// Centered returns the half-open span [start, end) of the given width centred
// on c. For odd widths the extra pixel falls after c.
func Centered(c, width int) (start, end int) {
	if width < 0 {
		width = 0
	}
	start = c - width/2
	return start, start + width
}

// LineGap returns the half-open span [c-width/2, c+width/2) a thin line
// leaves open for a thick line crossing it at c. For odd widths the gap is one
// pixel narrower than the thick line, so the thin line touches its last column.
func LineGap(c, width int) (start, end int) {
	if width < 0 {
		width = 0
	}
	return c - width/2, c + width/2
}

// Segment is an inclusive pixel run [From, To] along one axis.
type Segment struct {
	From, To int
}

// SplitAround returns the parts of [0, length-1] that lie outside the
// half-open gap [gapStart, gapEnd). Empty parts are dropped, so the result has
// zero, one or two segments.
func SplitAround(length, gapStart, gapEnd int) []Segment {
	if length <= 0 {
		return nil
	}
	var out []Segment
	if end := min(gapStart-1, length-1); end >= 0 {
		out = append(out, Segment{From: 0, To: end})
	}
	if start := max(gapEnd, 0); start <= length-1 {
		out = append(out, Segment{From: start, To: length - 1})
	}
	return out
}

type Grid2x2Rects struct {
	TopLeft     image.Rectangle
	TopRight    image.Rectangle
	BottomLeft  image.Rectangle
	BottomRight image.Rectangle
}

// Rects lists the quadrants in top-left, top-right, bottom-left, bottom-right order.
func (g Grid2x2Rects) Rects() []image.Rectangle {
	return []image.Rectangle{g.TopLeft, g.TopRight, g.BottomLeft, g.BottomRight}
}

// Gap is a cross-shaped hole measured from its centre point.
type Gap struct {
	Left, Right, Top, Bottom int
}

// CrossQuadrants splits rect into four quadrants around center, leaving gap
// uncovered. Quadrants are built field by field and never normalized: when the
// gap reaches past an edge the quadrant has a non-positive size and is empty.
func CrossQuadrants(rect image.Rectangle, center image.Point, gap Gap) Grid2x2Rects {
	left := center.X - gap.Left
	right := center.X + gap.Right
	top := center.Y - gap.Top
	bottom := center.Y + gap.Bottom
	return Grid2x2Rects{
		TopLeft:     image.Rectangle{Min: rect.Min, Max: image.Pt(left, top)},
		TopRight:    image.Rectangle{Min: image.Pt(right, rect.Min.Y), Max: image.Pt(rect.Max.X, top)},
		BottomLeft:  image.Rectangle{Min: image.Pt(rect.Min.X, bottom), Max: image.Pt(left, rect.Max.Y)},
		BottomRight: image.Rectangle{Min: image.Pt(right, bottom), Max: rect.Max},
	}
}
