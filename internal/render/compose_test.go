package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/state"
)

func thinScheme() scheme.Scheme {
	s := scheme.Default()
	s.HLineWidth, s.VLineWidth = 1, 1
	s.HLineColor = color.NRGBA{G: 255, A: 100}
	s.VLineColor = color.NRGBA{G: 255, A: 100}
	s.InvertedBackground = color.NRGBA{G: 255, A: 100}
	return s
}

func compose(s scheme.Scheme, cursor image.Point, inverted bool) Frame {
	return Compose(Input{
		State:  state.RenderState{Enabled: true, Inverted: inverted, Cursor: cursor, Scheme: s},
		Width:  800,
		Height: 600,
	})
}

func TestEffectiveWidth(t *testing.T) {
	for _, w := range []int{0, 1, 2, 25, 1000} {
		for a := 0; a <= 255; a++ {
			alpha := uint8(a)
			if got := EffectiveWidth(false, w, alpha); got != 0 {
				t.Fatalf("disabled w=%d a=%d: got %d", w, a, got)
			}
			want := w
			if alpha == 0 {
				want = 0
			}
			if got := EffectiveWidth(true, w, alpha); got != want {
				t.Fatalf("enabled w=%d a=%d: got %d want %d", w, a, got, want)
			}
		}
	}
	if got := EffectiveWidth(true, -4, 255); got != 0 {
		t.Fatalf("negative width: got %d", got)
	}
}

func TestDisabledDrawsNothing(t *testing.T) {
	f := Compose(Input{State: state.RenderState{Enabled: false, Scheme: thinScheme()}, Width: 800, Height: 600})
	if len(f.Primitives) != 0 {
		t.Fatalf("got %d primitives", len(f.Primitives))
	}
}

// Each thin line is reported as two segments split at the crossing.
func TestThinLinesScenario(t *testing.T) {
	f := compose(thinScheme(), image.Pt(400, 300), false)

	var h, v []Primitive
	for _, p := range f.Primitives {
		if p.Kind != KindLine {
			t.Fatalf("unexpected %v primitive", p.Kind)
		}
		if p.From.Y == p.To.Y && p.From.X != p.To.X {
			h = append(h, p)
		} else {
			v = append(v, p)
		}
	}
	if len(h) != 2 || len(v) != 2 {
		t.Fatalf("want 2 horizontal and 2 vertical segments, got %d and %d", len(h), len(v))
	}
	if h[0].To.X >= 400 || h[1].From.X < 400 {
		t.Errorf("horizontal not split at x=400: %+v", h)
	}
	if v[0].To.Y >= 300 || v[1].From.Y <= 300 {
		t.Errorf("vertical not split at y=300: %+v", v)
	}
	assertNoOverlap(t, f.Primitives)
	if covered := coverage(f, image.Pt(400, 300)); covered != 1 {
		t.Errorf("crossing pixel drawn %d times", covered)
	}
}

func TestThinLinesNeverOverlap(t *testing.T) {
	for _, cursor := range []image.Point{{0, 0}, {799, 599}, {1, 598}, {400, 0}, {-10, 50}, {900, 700}} {
		f := compose(thinScheme(), cursor, false)
		assertNoOverlap(t, f.Primitives)
	}
}

func TestThinLineUnbrokenWhenOtherAxisHidden(t *testing.T) {
	s := thinScheme()
	s.VLineEnabled = false
	f := compose(s, image.Pt(400, 300), false)
	if len(f.Primitives) != 1 {
		t.Fatalf("want one unbroken line, got %+v", f.Primitives)
	}
	if p := f.Primitives[0]; p.From != image.Pt(0, 300) || p.To != image.Pt(799, 300) {
		t.Fatalf("unexpected line %+v", p)
	}

	s = thinScheme()
	s.HLineColor.A = 0
	f = compose(s, image.Pt(400, 300), false)
	if len(f.Primitives) != 1 || f.Primitives[0].From != image.Pt(400, 0) || f.Primitives[0].To != image.Pt(400, 599) {
		t.Fatalf("want one unbroken vertical line, got %+v", f.Primitives)
	}
}

func TestThinLineSplitsAroundThickLine(t *testing.T) {
	s := thinScheme()
	s.VLineWidth = 6
	f := compose(s, image.Pt(400, 300), false)
	if len(f.Primitives) != 3 {
		t.Fatalf("want 2 segments + 1 rect, got %+v", f.Primitives)
	}
	left, right, rect := f.Primitives[0], f.Primitives[1], f.Primitives[2]
	if left.To.X != 400-3-1 || right.From.X != 400+3 {
		t.Fatalf("segments %+v %+v", left, right)
	}
	if rect.Kind != KindRect || rect.Rect != image.Rect(397, 0, 403, 600) {
		t.Fatalf("rect %+v", rect)
	}
	assertNoOverlap(t, f.Primitives)

	s = thinScheme()
	s.HLineWidth = 5
	f = compose(s, image.Pt(400, 300), false)
	if len(f.Primitives) != 3 {
		t.Fatalf("want 1 rect + 2 segments, got %+v", f.Primitives)
	}
	if f.Primitives[0].Rect != image.Rect(0, 298, 800, 303) {
		t.Fatalf("rect %+v", f.Primitives[0])
	}
	// Odd widths: the second segment starts w/2 after the centre and shares
	// the thick line's last row.
	top, bottom := f.Primitives[1], f.Primitives[2]
	if top.To.Y != 297 || bottom.From.Y != 302 {
		t.Fatalf("vertical segments %+v %+v", top, bottom)
	}

	s = thinScheme()
	s.VLineWidth = 5
	f = compose(s, image.Pt(400, 300), false)
	if len(f.Primitives) != 3 {
		t.Fatalf("want 2 segments + 1 rect, got %+v", f.Primitives)
	}
	left, right = f.Primitives[0], f.Primitives[1]
	if left.To.X != 397 || right.From.X != 402 || right.To.X != 799 {
		t.Fatalf("horizontal segments %+v %+v", left, right)
	}
	if f.Primitives[2].Rect != image.Rect(398, 0, 403, 600) {
		t.Fatalf("rect %+v", f.Primitives[2])
	}
}

func TestThickLinesOverlapAtCrossing(t *testing.T) {
	s := scheme.Default()
	f := compose(s, image.Pt(400, 300), false)
	if len(f.Primitives) != 2 {
		t.Fatalf("want two rects, got %+v", f.Primitives)
	}
	h, v := f.Primitives[0], f.Primitives[1]
	if h.Rect != image.Rect(0, 288, 800, 313) {
		t.Errorf("h rect %v", h.Rect)
	}
	if v.Rect != image.Rect(388, 0, 413, 600) {
		t.Errorf("v rect %v", v.Rect)
	}
	if h.Bounds().Intersect(v.Bounds()).Empty() {
		t.Errorf("thick lines are expected to overlap at the crossing")
	}
}

func TestInvertedScenario(t *testing.T) {
	s := thinScheme()
	s.HLineWidth, s.VLineWidth = 4, 4
	f := compose(s, image.Pt(400, 300), true)
	want := []image.Rectangle{
		image.Rect(0, 0, 398, 298),
		image.Rect(402, 0, 800, 298),
		image.Rect(0, 302, 398, 600),
		image.Rect(402, 302, 800, 600),
	}
	if len(f.Primitives) != 4 {
		t.Fatalf("want 4 rects, got %d", len(f.Primitives))
	}
	for i, p := range f.Primitives {
		if p.Kind != KindRect || p.Rect != want[i] || p.Color != s.InvertedBackground {
			t.Errorf("quadrant %d = %+v, want %v", i, p, want[i])
		}
	}
}

func TestInvertedCoverageTilesSurface(t *testing.T) {
	const w, h = 120, 80
	for _, hw := range []int{1, 2, 3, 7} {
		for _, vw := range []int{1, 4, 5} {
			s := thinScheme()
			s.HLineWidth, s.VLineWidth = hw, vw
			for _, cursor := range []image.Point{{10, 10}, {60, 40}, {110, 70}} {
				f := Compose(Input{
					State:  state.RenderState{Enabled: true, Inverted: true, Cursor: cursor, Scheme: s},
					Width:  w,
					Height: h,
				})
				area := 0
				for _, p := range f.Primitives {
					area += p.Bounds().Dx() * p.Bounds().Dy()
				}
				assertNoOverlap(t, f.Primitives)
				cross := hw*w + vw*h - hw*vw
				if area+cross != w*h {
					t.Errorf("hw=%d vw=%d cursor=%v: quadrants %d + cross %d != %d", hw, vw, cursor, area, cross, w*h)
				}
				// Every pixel on the cursor row and column is uncovered.
				for x := 0; x < w; x++ {
					if coverage(f, image.Pt(x, cursor.Y)) != 0 {
						t.Fatalf("pixel (%d,%d) covered", x, cursor.Y)
					}
				}
			}
		}
	}
}

func TestInvertedTransparentBackgroundDrawsNothing(t *testing.T) {
	s := thinScheme()
	s.InvertedBackground.A = 0
	if f := compose(s, image.Pt(400, 300), true); len(f.Primitives) != 0 {
		t.Fatalf("got %+v", f.Primitives)
	}
}

func TestInvertedNearEdgeIsDegenerateNotPanicking(t *testing.T) {
	s := scheme.Default()
	f := compose(s, image.Pt(2, 2), true)
	if len(f.Primitives) != 4 {
		t.Fatalf("want 4 rects, got %d", len(f.Primitives))
	}
	if !f.Primitives[0].Bounds().Empty() {
		t.Fatalf("top-left should be empty: %v", f.Primitives[0].Rect)
	}
	if f.Primitives[0].Rect.Max != image.Pt(2-12, 2-12) {
		t.Fatalf("top-left kept raw coordinates: %v", f.Primitives[0].Rect)
	}
}

func TestInvertedHiddenLinesLeaveNoGap(t *testing.T) {
	s := thinScheme()
	s.HLineEnabled = false
	s.VLineColor.A = 0
	f := compose(s, image.Pt(400, 300), true)
	area := 0
	for _, p := range f.Primitives {
		area += p.Bounds().Dx() * p.Bounds().Dy()
	}
	if area != 800*600 {
		t.Fatalf("area %d", area)
	}
}

func assertNoOverlap(t *testing.T, prims []Primitive) {
	t.Helper()
	for i := range prims {
		for j := i + 1; j < len(prims); j++ {
			a, b := prims[i].Bounds(), prims[j].Bounds()
			if !a.Intersect(b).Empty() {
				t.Fatalf("primitives %d %v and %d %v overlap", i, a, j, b)
			}
		}
	}
}

func coverage(f Frame, pt image.Point) int {
	n := 0
	for _, p := range f.Primitives {
		if pt.In(p.Bounds()) {
			n++
		}
	}
	return n
}
