package tigermapdal

import (
	"testing"

	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedPointLayer(entries map[string]orb.Point) *tigermap.Layer {
	var records []*tigermap.Record
	for _, name := range []string{"A", "B", "C", "D"} {
		point, ok := entries[name]
		if !ok {
			continue
		}
		records = append(records, &tigermap.Record{
			Geometry:   point,
			Attributes: map[string]string{AttributeName: name},
		})
	}
	return tigermap.NewLayer(tigermap.CRSWGS84, records)
}

func TestFilterByBBox(t *testing.T) {
	layer := namedPointLayer(map[string]orb.Point{
		"A": {0, 0},
		"B": {5, 5},
		"C": {20, 20},
	})

	bbox := orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{6, 6}}

	filtered := FilterByBBox(layer, bbox, 0)
	require.Len(t, filtered.Records, 2)
	assert.Equal(t, "A", filtered.Records[0].Attributes[AttributeName], "source order is kept")
	assert.Equal(t, "B", filtered.Records[1].Attributes[AttributeName])

	// widening the bbox can only add records
	widened := FilterByBBox(layer, bbox, 15)
	assert.Len(t, widened.Records, 3)
}

func TestFilterByBBox_requiresRealIntersection(t *testing.T) {
	layer := tigermap.NewLayer(tigermap.CRSWGS84, []*tigermap.Record{
		// envelope covers the bbox corner but the line itself stays outside
		{Geometry: orb.LineString{{0, 0}, {10, 10}}, Attributes: map[string]string{AttributeFullName: "diagonal"}},
		{Geometry: orb.LineString{{0, 1}, {10, 1}}, Attributes: map[string]string{AttributeFullName: "crossing"}},
	})

	bbox := orb.Bound{Min: orb.Point{6, 0}, Max: orb.Point{10, 2}}

	filtered := FilterByBBox(layer, bbox, 0)
	require.Len(t, filtered.Records, 1)
	assert.Equal(t, "crossing", filtered.Records[0].Attributes[AttributeFullName])

	// the source geometry is untouched; clipping works on a clone
	assert.Equal(t, orb.LineString{{0, 1}, {10, 1}}, layer.Records[1].Geometry)
}

func TestFilterByBBox_keepsPolygonContainingTheWindow(t *testing.T) {
	layer := tigermap.NewLayer(tigermap.CRSWGS84, []*tigermap.Record{
		{Geometry: orb.Polygon{orb.Ring{{-50, -50}, {50, -50}, {50, 50}, {-50, 50}, {-50, -50}}}},
	})

	filtered := FilterByBBox(layer, orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{1, 1}}, 0)
	assert.Len(t, filtered.Records, 1)
}

func TestFilterByBBox_skipsNilGeometry(t *testing.T) {
	layer := tigermap.NewLayer(tigermap.CRSWGS84, []*tigermap.Record{
		{Geometry: nil, Attributes: map[string]string{AttributeName: "empty"}},
		{Geometry: orb.Point{1, 1}, Attributes: map[string]string{AttributeName: "ok"}},
	})

	filtered := FilterByBBox(layer, tigermap.GetWholeWorldBounds(), 0)
	require.Len(t, filtered.Records, 1)
	assert.Equal(t, "ok", filtered.Records[0].Attributes[AttributeName])
}

func TestFilterByAttribute(t *testing.T) {
	layer := namedPointLayer(map[string]orb.Point{
		"A": {0, 0},
		"B": {1, 1},
		"C": {2, 2},
		"D": {3, 3},
	})

	wanted := map[string]bool{"A": true, "C": true}
	filtered := FilterByAttribute(layer, func(attributes map[string]string) bool {
		return wanted[attributes[AttributeName]]
	})

	require.Len(t, filtered.Records, 2)
	assert.Equal(t, "A", filtered.Records[0].Attributes[AttributeName])
	assert.Equal(t, "C", filtered.Records[1].Attributes[AttributeName])
	assert.Equal(t, orb.Point{0, 0}, filtered.Records[0].Geometry, "geometry passes through untouched")
}

func TestDedupByAttribute(t *testing.T) {
	layer := tigermap.NewLayer(tigermap.CRSWGS84, []*tigermap.Record{
		{Geometry: orb.Point{0, 0}, Attributes: map[string]string{AttributeFullName: "I-10"}},
		{Geometry: orb.Point{1, 1}, Attributes: map[string]string{AttributeFullName: "I-5"}},
		{Geometry: orb.Point{2, 2}, Attributes: map[string]string{AttributeFullName: "I-10"}},
		{Geometry: orb.Point{3, 3}, Attributes: map[string]string{AttributeFullName: ""}},
		{Geometry: orb.Point{4, 4}, Attributes: map[string]string{AttributeFullName: ""}},
	})

	deduped := DedupByAttribute(layer, AttributeFullName)

	require.Len(t, deduped.Records, 4, "duplicates removed, empty values always kept")
	assert.Equal(t, orb.Point{0, 0}, deduped.Records[0].Geometry, "first seen wins")
}
