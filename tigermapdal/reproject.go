package tigermapdal

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Reproject returns the layer in the target CRS. A layer already in the
// target CRS is returned as-is. A layer with no CRS gets the target CRS
// assigned without transforming coordinates (mirrors how TIGER files with
// a missing .prj are treated: trusted to already be in the declared CRS).
func Reproject(layer *tigermap.Layer, targetCRS tigermap.CRS) (*tigermap.Layer, errorsx.Error) {
	if layer.CRS == targetCRS {
		return layer, nil
	}

	if layer.CRS == "" {
		return tigermap.NewLayer(targetCRS, layer.Records), nil
	}

	projection, err := lookupProjection(layer.CRS, targetCRS)
	if err != nil {
		return nil, err
	}

	var records []*tigermap.Record
	for _, record := range layer.Records {
		var geometry orb.Geometry
		if record.Geometry != nil {
			// project.Geometry mutates coordinates in place, so work on a clone
			geometry = project.Geometry(orb.Clone(record.Geometry), projection)
		}

		records = append(records, &tigermap.Record{
			Geometry:   geometry,
			Attributes: record.Attributes,
		})
	}

	return tigermap.NewLayer(targetCRS, records), nil
}

// ReprojectBound transforms a bounding box between coordinate systems by
// projecting its corner points.
func ReprojectBound(bound orb.Bound, fromCRS, toCRS tigermap.CRS) (orb.Bound, errorsx.Error) {
	if fromCRS == toCRS || fromCRS == "" {
		return bound, nil
	}

	projection, err := lookupProjection(fromCRS, toCRS)
	if err != nil {
		return orb.Bound{}, err
	}

	return orb.Bound{
		Min: projection(bound.Min),
		Max: projection(bound.Max),
	}, nil
}

func lookupProjection(fromCRS, toCRS tigermap.CRS) (orb.Projection, errorsx.Error) {
	switch {
	case fromCRS == tigermap.CRSWGS84 && toCRS == tigermap.CRSWebMercator:
		return project.WGS84.ToMercator, nil
	case fromCRS == tigermap.CRSWebMercator && toCRS == tigermap.CRSWGS84:
		return project.Mercator.ToWGS84, nil
	default:
		return nil, errorsx.Wrap(ErrInvalidData, "fromCRS", fromCRS, "toCRS", toCRS, "reason", "unsupported CRS pair")
	}
}
