package presets

import (
	"image/color"

	"github.com/jamesrr39/tigermap/styling"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/jamesrr39/tigermap/tigermapdal"
	"github.com/jamesrr39/tigermap/tigermapexport"
	"github.com/jamesrr39/tigermap/tigermaprenderer"
	"github.com/paulmach/orb"
)

// Preset is the complete recipe for one map product: page geometry, the
// coordinate window, per-layer styling and labelling, and the output
// formats to write.
type Preset struct {
	Name         string
	Title        string
	TitleSize    float64
	WidthInches  float64
	HeightInches float64
	DPI          int
	CRS          tigermap.CRS

	// Extent fixes the coordinate window. When nil the window is derived
	// from the filtered county layer, padded by BufferFraction.
	Extent         *orb.Bound
	BufferFraction float64

	// county layer
	CountyNames      []string
	CountyStateFP    string
	CountyStyle      *styling.PolygonStyle
	CountyLabelField string
	CountyLabelStyle *styling.LabelStyle

	// road layer
	RoadStyle           *styling.LineStyle
	RoadLabelField      string
	RoadLabelStyle      *styling.LabelStyle
	RoadLabelBackground styling.ColorRule
	MaxRoadLabels       int
	DedupLinesByField   string

	// POI layer
	POIStyle *styling.PointStyle

	LegendTitle    string
	LegendTextSize float64
	Legend         []tigermaprenderer.LegendEntry

	Formats []tigermapexport.Format
}

// ContinentalUS is a country-wide overview: every county coloured from the
// pastel palette, primary roads in a single dark grey, no text labels. The
// window is fixed so Alaska and the island territories do not blow out the
// frame.
func ContinentalUS() *Preset {
	extent := orb.Bound{
		Min: orb.Point{-130, 20},
		Max: orb.Point{-65, 50},
	}

	return &Preset{
		Name:         "continental-us",
		Title:        "Continental United States",
		TitleSize:    48,
		WidthInches:  48,
		HeightInches: 48,
		DPI:          300,
		CRS:          tigermap.CRSWGS84,
		Extent:       &extent,
		CountyStyle: &styling.PolygonStyle{
			Fill:      &styling.RoundRobinByGroup{Field: tigermapdal.AttributeName, Palette: styling.CountyPalette},
			EdgeColor: styling.CountyEdgeColor,
			EdgeWidth: 0.2,
			Opacity:   1,
		},
		RoadStyle: &styling.LineStyle{
			Color:   &styling.ConstantColor{Color: styling.HighwayGray},
			Width:   0.5,
			Opacity: 0.8,
		},
		POIStyle: &styling.PointStyle{
			Color:   styling.POIGreen,
			Marker:  styling.MarkerStar,
			Size:    9,
			Opacity: 1,
		},
		Formats: []tigermapexport.Format{tigermapexport.FormatPNG, tigermapexport.FormatPDF},
	}
}

// SoCal is a regional close-up of four Southern California counties with
// route-type colour coding, a legend, labelled highways and labelled
// county centroids.
func SoCal() *Preset {
	return &Preset{
		Name:           "socal",
		Title:          "Southern California",
		TitleSize:      36,
		WidthInches:    24,
		HeightInches:   24,
		DPI:            300,
		CRS:            tigermap.CRSWGS84,
		BufferFraction: 0.05,
		CountyNames:    []string{"Los Angeles", "Orange", "Riverside", "San Bernardino"},
		CountyStateFP:  "06",
		CountyStyle: &styling.PolygonStyle{
			Fill:      &styling.RoundRobinByGroup{Field: tigermapdal.AttributeName, Palette: styling.CountyPalette},
			EdgeColor: styling.CountyEdgeColor,
			EdgeWidth: 0.6,
			Opacity:   1,
		},
		CountyLabelField: tigermapdal.AttributeName,
		CountyLabelStyle: &styling.LabelStyle{
			TextColor:  color.Black,
			TextSize:   18,
			Background: color.NRGBA{0xff, 0xff, 0xff, 0xb2},
			EdgeColor:  color.Gray{0x80},
		},
		RoadStyle: &styling.LineStyle{
			Color: &styling.AttributeMap{
				Field:   tigermapdal.AttributeRouteTyp,
				Mapping: styling.RouteTypeColors,
				Default: styling.HighwayGray,
			},
			Width:   1.2,
			Opacity: 0.9,
		},
		RoadLabelField: tigermapdal.AttributeFullName,
		RoadLabelStyle: &styling.LabelStyle{
			TextColor: color.White,
			TextSize:  9,
		},
		RoadLabelBackground: &styling.AttributeMap{
			Field:   tigermapdal.AttributeRouteTyp,
			Mapping: styling.RouteTypeColors,
			Default: styling.HighwayGray,
		},
		MaxRoadLabels:     12,
		DedupLinesByField: tigermapdal.AttributeFullName,
		POIStyle: &styling.PointStyle{
			Color:      styling.POIGreen,
			Marker:     styling.MarkerStar,
			Size:       10,
			Opacity:    1,
			LabelField: tigermapdal.POIFieldName,
			LabelSize:  9,
		},
		LegendTitle:    "Route Types",
		LegendTextSize: 14,
		Legend: []tigermaprenderer.LegendEntry{
			{Label: "Interstate", Color: styling.RouteColorInterstate},
			{Label: "US Route", Color: styling.RouteColorUSRoute},
			{Label: "State Route", Color: styling.RouteColorStateRoute},
			{Label: "County Road", Color: styling.RouteColorCounty},
		},
		Formats: []tigermapexport.Format{tigermapexport.FormatPNG, tigermapexport.FormatPDF, tigermapexport.FormatSVG},
	}
}

// Builtin returns the presets compiled into the binary, keyed by name.
func Builtin() map[string]*Preset {
	builtins := []*Preset{ContinentalUS(), SoCal()}

	presetsByName := make(map[string]*Preset, len(builtins))
	for _, preset := range builtins {
		presetsByName[preset.Name] = preset
	}
	return presetsByName
}
