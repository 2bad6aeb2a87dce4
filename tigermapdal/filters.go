package tigermapdal

import (
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
)

// FilterByBBox returns a new layer holding only records whose geometry
// intersects bbox widened by buffer on each side. Source order is kept.
func FilterByBBox(layer *tigermap.Layer, bbox orb.Bound, buffer float64) *tigermap.Layer {
	expanded := tigermap.ExpandBound(bbox, buffer)

	var records []*tigermap.Record
	for _, record := range layer.Records {
		if record.Geometry == nil {
			continue
		}

		if !tigermap.Overlaps(expanded, record.Geometry.Bound()) {
			continue
		}

		// a bound overlap is not enough: a diagonal line's envelope can
		// cover the window while the line itself never enters it. Clipping
		// decides real intersection; clip uses its input as scratch space,
		// so it gets a clone.
		if clip.Geometry(expanded, orb.Clone(record.Geometry)) == nil {
			continue
		}

		records = append(records, record)
	}

	return tigermap.NewLayer(layer.CRS, records)
}

// FilterByAttribute returns a new layer holding only records for which the
// predicate returns true.
func FilterByAttribute(layer *tigermap.Layer, predicate func(attributes map[string]string) bool) *tigermap.Layer {
	var records []*tigermap.Record
	for _, record := range layer.Records {
		if predicate(record.Attributes) {
			records = append(records, record)
		}
	}

	return tigermap.NewLayer(layer.CRS, records)
}

// DedupByAttribute returns a new layer keeping only the first record seen
// for each distinct value of field. Records with an empty value for the
// field are always kept.
func DedupByAttribute(layer *tigermap.Layer, field string) *tigermap.Layer {
	seen := make(map[string]struct{})

	var records []*tigermap.Record
	for _, record := range layer.Records {
		value := record.Attributes[field]
		if value == "" {
			records = append(records, record)
			continue
		}

		_, ok := seen[value]
		if ok {
			continue
		}
		seen[value] = struct{}{}

		records = append(records, record)
	}

	return tigermap.NewLayer(layer.CRS, records)
}
