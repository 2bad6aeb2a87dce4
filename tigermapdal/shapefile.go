package tigermapdal

import (
	"fmt"
	"os"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/tigermap/tigermap"
	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// LoadPolygonLayer reads a polygon shapefile (e.g. TIGER/Line counties)
// into a layer. TIGER/Line files ship in WGS84, so the layer CRS is set
// accordingly.
func LoadPolygonLayer(fs gofs.Fs, path string) (*tigermap.Layer, errorsx.Error) {
	return loadShapefileLayer(fs, path, polygonShapeToGeometry)
}

// LoadLineLayer reads a polyline shapefile (e.g. TIGER/Line primary roads)
// into a layer.
func LoadLineLayer(fs gofs.Fs, path string) (*tigermap.Layer, errorsx.Error) {
	return loadShapefileLayer(fs, path, lineShapeToGeometry)
}

type shapeToGeometryFunc func(shape shp.Shape) (orb.Geometry, errorsx.Error)

func loadShapefileLayer(fs gofs.Fs, path string, shapeToGeometry shapeToGeometryFunc) (*tigermap.Layer, errorsx.Error) {
	_, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorsx.Wrap(ErrNotFound, "path", path)
		}
		return nil, errorsx.Wrap(err, "path", path)
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, errorsx.Wrap(ErrInvalidData, "path", path, "openError", err.Error())
	}
	defer reader.Close()

	fields := reader.Fields()

	var records []*tigermap.Record
	for reader.Next() {
		rowIdx, shape := reader.Shape()

		geometry, err := shapeToGeometry(shape)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", path, "row", rowIdx)
		}

		attributes := make(map[string]string, len(fields))
		for fieldIdx, field := range fields {
			attributes[field.String()] = reader.ReadAttribute(rowIdx, fieldIdx)
		}

		records = append(records, &tigermap.Record{
			Geometry:   geometry,
			Attributes: attributes,
		})
	}

	if readerErr := reader.Err(); readerErr != nil {
		return nil, errorsx.Wrap(readerErr, "path", path)
	}

	layer := tigermap.NewLayer(tigermap.CRSWGS84, records)

	if len(layer.Records) == 0 {
		return nil, errorsx.Wrap(ErrInvalidData, "path", path, "reason", "shapefile contains no records")
	}

	if !layer.HasGeometries() {
		return nil, errorsx.Wrap(ErrInvalidData, "path", path, "reason", "shapefile contains no valid geometries")
	}

	return layer, nil
}

func polygonShapeToGeometry(shape shp.Shape) (orb.Geometry, errorsx.Error) {
	switch s := shape.(type) {
	case *shp.Polygon:
		return partsToPolygon(s.Parts, s.Points), nil
	case *shp.Null:
		return nil, nil
	default:
		return nil, errorsx.Wrap(ErrInvalidData, "reason", "expected polygon shape", "shapeType", fmt.Sprintf("%T", shape))
	}
}

func lineShapeToGeometry(shape shp.Shape) (orb.Geometry, errorsx.Error) {
	switch s := shape.(type) {
	case *shp.PolyLine:
		lines := partsToLineStrings(s.Parts, s.Points)
		if len(lines) == 1 {
			return lines[0], nil
		}
		return orb.MultiLineString(lines), nil
	case *shp.Null:
		return nil, nil
	default:
		return nil, errorsx.Wrap(ErrInvalidData, "reason", "expected polyline shape", "shapeType", fmt.Sprintf("%T", shape))
	}
}

// partsToPolygon converts a shapefile part/point table into a polygon; each
// part becomes one ring. Ring role (outer/hole) is left to the even-odd fill
// rule at draw time.
func partsToPolygon(parts []int32, points []shp.Point) orb.Polygon {
	var polygon orb.Polygon
	for _, line := range partsToLineStrings(parts, points) {
		polygon = append(polygon, orb.Ring(line))
	}
	return polygon
}

func partsToLineStrings(parts []int32, points []shp.Point) []orb.LineString {
	var lines []orb.LineString
	for partIdx, start := range parts {
		end := len(points)
		if partIdx != len(parts)-1 {
			end = int(parts[partIdx+1])
		}

		var line orb.LineString
		for _, point := range points[start:end] {
			line = append(line, orb.Point{point.X, point.Y})
		}

		lines = append(lines, line)
	}
	return lines
}
