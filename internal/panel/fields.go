package panel

import (
	"fmt"
	"image/color"

	"github.com/rook-computer/anchorlines/internal/control"
	"github.com/rook-computer/anchorlines/internal/scheme"
)

// Fields are the editable scheme fields as the settings panel shows them:
// colours as #rrggbb and transparency as opacity percent.
type Fields struct {
	HLineEnabled bool   `json:"hLineEnabled"`
	HLineWidth   int    `json:"hLineWidth"`
	HLineColor   string `json:"hLineColor"`
	HLineOpacity int    `json:"hLineOpacity"`

	VLineEnabled bool   `json:"vLineEnabled"`
	VLineWidth   int    `json:"vLineWidth"`
	VLineColor   string `json:"vLineColor"`
	VLineOpacity int    `json:"vLineOpacity"`

	BackgroundColor   string `json:"backgroundColor"`
	BackgroundOpacity int    `json:"backgroundOpacity"`
}

func FieldsFromScheme(s scheme.Scheme) Fields {
	return Fields{
		HLineEnabled:      s.HLineEnabled,
		HLineWidth:        max(s.HLineWidth, 0),
		HLineColor:        scheme.HexColor(s.HLineColor),
		HLineOpacity:      scheme.AlphaToPercent(s.HLineColor.A),
		VLineEnabled:      s.VLineEnabled,
		VLineWidth:        max(s.VLineWidth, 0),
		VLineColor:        scheme.HexColor(s.VLineColor),
		VLineOpacity:      scheme.AlphaToPercent(s.VLineColor.A),
		BackgroundColor:   scheme.HexColor(s.InvertedBackground),
		BackgroundOpacity: scheme.AlphaToPercent(s.InvertedBackground.A),
	}
}

// Scheme builds a scheme from the field values. The name is left empty; the
// controller fills in the active profile's name.
func (f Fields) Scheme() (scheme.Scheme, error) {
	s := scheme.Scheme{
		Version:      scheme.Version,
		HLineEnabled: f.HLineEnabled,
		HLineWidth:   f.HLineWidth,
		VLineEnabled: f.VLineEnabled,
		VLineWidth:   f.VLineWidth,
	}
	if f.HLineWidth < 0 {
		return s, &control.ValidationError{Field: "hLineWidth", Reason: "must not be negative"}
	}
	if f.VLineWidth < 0 {
		return s, &control.ValidationError{Field: "vLineWidth", Reason: "must not be negative"}
	}

	var err error
	if s.HLineColor, err = parseColor("hLine", f.HLineColor, f.HLineOpacity); err != nil {
		return s, err
	}
	if s.VLineColor, err = parseColor("vLine", f.VLineColor, f.VLineOpacity); err != nil {
		return s, err
	}
	if s.InvertedBackground, err = parseColor("background", f.BackgroundColor, f.BackgroundOpacity); err != nil {
		return s, err
	}
	return s, nil
}

func parseColor(prefix, hex string, opacity int) (color.NRGBA, error) {
	if opacity < 0 || opacity > 100 {
		return color.NRGBA{}, &control.ValidationError{Field: prefix + "Opacity", Reason: fmt.Sprintf("%d is outside 0..100", opacity)}
	}
	c, err := scheme.ParseHexColor(hex, scheme.PercentToAlpha(opacity))
	if err != nil {
		return color.NRGBA{}, &control.ValidationError{Field: prefix + "Color", Reason: err.Error()}
	}
	return c, nil
}
