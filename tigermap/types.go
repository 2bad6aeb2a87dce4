package tigermap

import (
	"github.com/paulmach/orb"
)

// CRS identifies a coordinate reference system by its EPSG code.
type CRS string

const (
	// CRSWGS84 is plain lat/lon degrees. All TIGER/Line files ship in it,
	// and every layer is normalized to it before rendering.
	CRSWGS84 CRS = "EPSG:4326"
	// CRSWebMercator is the spherical mercator projection.
	CRSWebMercator CRS = "EPSG:3857"
)

// Record is one feature: a geometry plus its attribute table row.
type Record struct {
	Geometry   orb.Geometry
	Attributes map[string]string
}

// Layer is an ordered collection of records sharing one CRS. A layer is
// never mutated after loading; reprojection and filtering build new layers.
type Layer struct {
	CRS     CRS
	Records []*Record
}

func NewLayer(crs CRS, records []*Record) *Layer {
	return &Layer{
		CRS:     crs,
		Records: records,
	}
}

// TotalBounds is the union of all record geometry bounds.
func (l *Layer) TotalBounds() orb.Bound {
	var bound orb.Bound
	boundSet := false

	for _, record := range l.Records {
		if record.Geometry == nil {
			continue
		}
		if !boundSet {
			bound = record.Geometry.Bound()
			boundSet = true
			continue
		}
		bound = bound.Union(record.Geometry.Bound())
	}

	return bound
}

// HasGeometries reports whether at least one record carries a geometry.
func (l *Layer) HasGeometries() bool {
	for _, record := range l.Records {
		if record.Geometry != nil {
			return true
		}
	}
	return false
}
