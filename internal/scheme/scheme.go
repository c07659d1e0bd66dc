package scheme

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Version is the schema revision written by this build.
const Version = 1000

// Scheme describes how the overlay lines and the inverted background look.
// It is a value type: pass it by value and never share a pointer between the
// renderer and the profile store.
type Scheme struct {
	Version int
	Name    string

	HLineEnabled bool
	HLineWidth   int
	HLineColor   color.NRGBA

	VLineEnabled bool
	VLineWidth   int
	VLineColor   color.NRGBA

	InvertedBackground color.NRGBA
}

// Default returns the scheme a freshly created profile starts from.
func Default() Scheme {
	green := color.NRGBA{R: 0, G: 255, B: 0, A: 51}
	return Scheme{
		Version:            Version,
		HLineEnabled:       true,
		HLineWidth:         25,
		HLineColor:         green,
		VLineEnabled:       true,
		VLineWidth:         25,
		VLineColor:         green,
		InvertedBackground: green,
	}
}

// Normal returns the transient scheme shown before any profile is active:
// thin lines, no inverted background.
func Normal() Scheme {
	s := Default()
	s.HLineWidth = 1
	s.VLineWidth = 1
	s.HLineColor = color.NRGBA{R: 0, G: 255, B: 0, A: 100}
	s.VLineColor = color.NRGBA{R: 0, G: 255, B: 0, A: 100}
	s.InvertedBackground = color.NRGBA{}
	return s
}

// WithName returns a copy of s carrying name.
func (s Scheme) WithName(name string) Scheme {
	s.Name = name
	return s
}

// AlphaToPercent converts an 8-bit alpha to the 0..100 opacity shown in the settings panel.
func AlphaToPercent(alpha uint8) int {
	return int(math.Floor(float64(alpha)*100/255 + 0.5))
}

// PercentToAlpha converts a 0..100 opacity back to 8-bit alpha. Out of range values are clamped.
func PercentToAlpha(percent int) uint8 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return uint8(math.Floor(float64(percent)*255/100 + 0.5))
}

// HexColor formats the RGB part of c as #rrggbb.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor parses #rrggbb (leading # optional) and applies alpha.
func ParseHexColor(s string, alpha uint8) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
