package styling

import (
	"image/color"
)

// Pastel palette used for county fills.
var CountyPalette = []color.Color{
	color.RGBA{0xff, 0xe5, 0xcc, 0xff}, // light peach
	color.RGBA{0xff, 0xd1, 0xdc, 0xff}, // soft coral
	color.RGBA{0xff, 0xf8, 0xdc, 0xff}, // pale yellow
	color.RGBA{0xff, 0xa0, 0x7a, 0xff}, // light salmon
	color.RGBA{0xf5, 0xf5, 0xdc, 0xff}, // warm beige
	color.RGBA{0xff, 0xef, 0xd5, 0xff}, // papaya whip
	color.RGBA{0xff, 0xe4, 0xe1, 0xff}, // misty rose
	color.RGBA{0xfa, 0xfa, 0xd2, 0xff}, // light goldenrod yellow
}

// Route-type colour coding for TIGER/Line RTTYP codes.
var (
	RouteColorInterstate = color.RGBA{0xff, 0x00, 0x00, 0xff}
	RouteColorUSRoute    = color.RGBA{0x00, 0x66, 0xcc, 0xff}
	RouteColorStateRoute = color.RGBA{0xff, 0x66, 0x00, 0xff}
	RouteColorCounty     = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

var RouteTypeColors = map[string]color.Color{
	"I": RouteColorInterstate,
	"U": RouteColorUSRoute,
	"S": RouteColorStateRoute,
	"C": RouteColorCounty,
}

var (
	CountyEdgeColor = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	HighwayGray     = color.RGBA{0x40, 0x40, 0x40, 0xff}
	POIGreen        = color.RGBA{0x22, 0x8b, 0x22, 0xff}
)
