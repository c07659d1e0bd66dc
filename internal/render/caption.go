package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/anchorlines/internal/state"
)

const captionSizePt = 14

var (
	captionOnce sync.Once
	captionFace font.Face
)

// captionFontFace parses the embedded Go font once; basicfont is the fallback.
func captionFontFace() font.Face {
	captionOnce.Do(func() {
		tt, err := truetype.Parse(goregular.TTF)
		if err != nil {
			captionFace = basicfont.Face7x13
			return
		}
		captionFace = truetype.NewFace(tt, &truetype.Options{Size: captionSizePt, DPI: 72, Hinting: font.HintingFull})
	})
	return captionFace
}

// DrawCaption writes lines of text in the top-left corner of img on a dim backing box.
func DrawCaption(img *image.RGBA, lines ...string) {
	if len(lines) == 0 {
		return
	}
	face := captionFontFace()
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	const margin = 6

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(CaptionColor), Face: face}
	width := 0
	for _, line := range lines {
		width = max(width, drawer.MeasureString(line).Ceil())
	}

	box := image.Rect(0, 0, width+2*margin, lineHeight*len(lines)+2*margin).Intersect(img.Bounds())
	Rasterize(img, Frame{Primitives: []Primitive{{
		Kind:  KindRect,
		Rect:  box,
		Color: color.NRGBA{A: 0xA0},
	}}})

	for i, line := range lines {
		drawer.Dot = fixed.P(margin, margin+ascent+i*lineHeight)
		drawer.DrawString(line)
	}
}

// CaptionLines describes a render state for snapshot captions.
func CaptionLines(st state.RenderState) []string {
	name := st.Scheme.Name
	if name == "" {
		name = "(no profile)"
	}
	mode := "lines"
	if st.Inverted {
		mode = "inverted"
	}
	if !st.Enabled {
		mode = "off"
	}
	return []string{
		"profile: " + name,
		fmt.Sprintf("cursor: %d,%d  mode: %s", st.Cursor.X, st.Cursor.Y, mode),
	}
}
