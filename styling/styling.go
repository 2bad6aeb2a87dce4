package styling

import (
	"image/color"
)

// ColorRule decides the colour for one feature from its attributes. The
// closed set of implementations (ConstantColor, AttributeMap,
// RoundRobinByGroup) covers every colour strategy the map presets use.
type ColorRule interface {
	Resolve(attributes map[string]string) color.Color
}

// ConstantColor colours every feature the same.
type ConstantColor struct {
	Color color.Color
}

func (c *ConstantColor) Resolve(attributes map[string]string) color.Color {
	return c.Color
}

// AttributeMap picks a colour keyed by an attribute value (e.g. route-type
// code), falling back to Default for unmapped values.
type AttributeMap struct {
	Field   string
	Mapping map[string]color.Color
	Default color.Color
}

func (a *AttributeMap) Resolve(attributes map[string]string) color.Color {
	mappedColor, ok := a.Mapping[attributes[a.Field]]
	if !ok {
		return a.Default
	}
	return mappedColor
}

// RoundRobinByGroup hands out palette colours to distinct values of a
// grouping attribute in first-seen order, wrapping around the palette.
// Resolving the same group value again returns the colour already
// assigned, so resolution is deterministic within one render.
type RoundRobinByGroup struct {
	Field   string
	Palette []color.Color

	assigned  map[string]color.Color
	nextIndex int
}

func (r *RoundRobinByGroup) Resolve(attributes map[string]string) color.Color {
	if r.assigned == nil {
		r.assigned = make(map[string]color.Color)
	}

	groupValue := attributes[r.Field]

	assignedColor, ok := r.assigned[groupValue]
	if ok {
		return assignedColor
	}

	assignedColor = r.Palette[r.nextIndex%len(r.Palette)]
	r.nextIndex++
	r.assigned[groupValue] = assignedColor

	return assignedColor
}

type MarkerSymbol string

const (
	MarkerStar   MarkerSymbol = "star"
	MarkerCircle MarkerSymbol = "circle"
	MarkerSquare MarkerSymbol = "square"
)

// PolygonStyle describes how a polygon layer is drawn.
type PolygonStyle struct {
	Fill      ColorRule
	EdgeColor color.Color
	EdgeWidth float64
	Opacity   float64
}

// LineStyle describes how a line layer is drawn.
type LineStyle struct {
	Color   ColorRule
	Width   float64
	Opacity float64
}

// PointStyle describes how a point layer is drawn, with an optional text
// label taken from LabelField, offset from the marker and anchored
// left/bottom.
type PointStyle struct {
	Color      color.Color
	Marker     MarkerSymbol
	Size       float64
	Opacity    float64
	LabelField string
	LabelSize  float64
}

// LabelStyle describes free-standing text labels (county names, highway
// names) drawn with a background box.
type LabelStyle struct {
	TextColor  color.Color
	TextSize   float64
	Background color.Color
	EdgeColor  color.Color
}

// ApplyOpacity scales a colour's alpha channel by opacity in [0, 1].
func ApplyOpacity(c color.Color, opacity float64) color.Color {
	if c == nil {
		return nil
	}
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}

	// RGBA() is alpha-premultiplied, so all four channels scale together
	r, g, b, a := c.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * opacity),
		G: uint16(float64(g) * opacity),
		B: uint16(float64(b) * opacity),
		A: uint16(float64(a) * opacity),
	}
}
