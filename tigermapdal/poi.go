package tigermapdal

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/paulmach/orb"
)

// PointRecord is one point-of-interest entry before it becomes a layer
// record. Latitude and Longitude may be set to NaN to mark them missing
// (mirrors an absent CSV column).
type PointRecord struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// LoadPointsFromRecords builds a point layer from in-memory records.
// The layer CRS is WGS84; geometries are (longitude, latitude) points.
func LoadPointsFromRecords(pointRecords []*PointRecord) (*tigermap.Layer, errorsx.Error) {
	if len(pointRecords) == 0 {
		return nil, errorsx.Wrap(ErrInvalidData, "reason", "point record list is empty")
	}

	var records []*tigermap.Record
	for idx, pointRecord := range pointRecords {
		err := validatePointRecord(pointRecord)
		if err != nil {
			return nil, errorsx.Wrap(err, "record", idx)
		}

		records = append(records, &tigermap.Record{
			Geometry: orb.Point{pointRecord.Longitude, pointRecord.Latitude},
			Attributes: map[string]string{
				POIFieldName:      pointRecord.Name,
				POIFieldLatitude:  strconv.FormatFloat(pointRecord.Latitude, 'f', -1, 64),
				POIFieldLongitude: strconv.FormatFloat(pointRecord.Longitude, 'f', -1, 64),
			},
		})
	}

	return tigermap.NewLayer(tigermap.CRSWGS84, records), nil
}

func validatePointRecord(pointRecord *PointRecord) errorsx.Error {
	if pointRecord.Name == "" {
		return errorsx.Wrap(ErrInvalidData, "missingField", POIFieldName)
	}

	if math.IsNaN(pointRecord.Latitude) {
		return errorsx.Wrap(ErrInvalidData, "missingField", POIFieldLatitude)
	}

	if math.IsNaN(pointRecord.Longitude) {
		return errorsx.Wrap(ErrInvalidData, "missingField", POIFieldLongitude)
	}

	if pointRecord.Latitude < -90 || pointRecord.Latitude > 90 {
		return errorsx.Wrap(ErrInvalidData, "field", POIFieldLatitude, "value", pointRecord.Latitude)
	}

	if pointRecord.Longitude < -180 || pointRecord.Longitude > 180 {
		return errorsx.Wrap(ErrInvalidData, "field", POIFieldLongitude, "value", pointRecord.Longitude)
	}

	return nil
}

// LoadPointsFromCSV reads a point layer from a CSV file with header
// columns name,latitude,longitude.
func LoadPointsFromCSV(fs gofs.Fs, path string) (*tigermap.Layer, errorsx.Error) {
	file, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorsx.Wrap(ErrNotFound, "path", path)
		}
		return nil, errorsx.Wrap(err, "path", path)
	}
	defer file.Close()

	pointRecords, xerr := readPointRecordsCSV(file)
	if xerr != nil {
		return nil, errorsx.Wrap(xerr, "path", path)
	}

	return LoadPointsFromRecords(pointRecords)
}

func readPointRecordsCSV(reader io.Reader) ([]*PointRecord, errorsx.Error) {
	csvReader := csv.NewReader(reader)

	header, err := csvReader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errorsx.Wrap(ErrInvalidData, "reason", "CSV file is empty")
		}
		return nil, errorsx.Wrap(err)
	}

	columnIndexes := make(map[string]int)
	for idx, columnName := range header {
		columnIndexes[strings.TrimSpace(strings.ToLower(columnName))] = idx
	}

	for _, requiredColumn := range []string{POIFieldName, POIFieldLatitude, POIFieldLongitude} {
		_, ok := columnIndexes[requiredColumn]
		if !ok {
			return nil, errorsx.Wrap(ErrInvalidData, "missingField", requiredColumn)
		}
	}

	var pointRecords []*PointRecord
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		latitude, err := strconv.ParseFloat(strings.TrimSpace(row[columnIndexes[POIFieldLatitude]]), 64)
		if err != nil {
			return nil, errorsx.Wrap(ErrInvalidData, "field", POIFieldLatitude, "value", row[columnIndexes[POIFieldLatitude]])
		}

		longitude, err := strconv.ParseFloat(strings.TrimSpace(row[columnIndexes[POIFieldLongitude]]), 64)
		if err != nil {
			return nil, errorsx.Wrap(ErrInvalidData, "field", POIFieldLongitude, "value", row[columnIndexes[POIFieldLongitude]])
		}

		pointRecords = append(pointRecords, &PointRecord{
			Name:      strings.TrimSpace(row[columnIndexes[POIFieldName]]),
			Latitude:  latitude,
			Longitude: longitude,
		})
	}

	return pointRecords, nil
}
