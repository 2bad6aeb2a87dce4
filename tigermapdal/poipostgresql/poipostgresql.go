// Package poipostgresql loads point-of-interest layers from a postgres
// table with name/latitude/longitude columns.
package poipostgresql

import (
	"fmt"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/jamesrr39/tigermap/tigermapdal"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type poiRow struct {
	Name      string  `db:"name"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

func LoadPoints(connStr, tableName string) (*tigermap.Layer, errorsx.Error) {
	db, err := sqlx.Open("postgres", "postgresql://"+connStr)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	defer db.Close()

	var rows []poiRow
	err = db.Select(&rows, fmt.Sprintf("SELECT name, latitude, longitude FROM %s ORDER BY name", pq.QuoteIdentifier(tableName)))
	if err != nil {
		return nil, errorsx.Wrap(err, "table", tableName)
	}

	var pointRecords []*tigermapdal.PointRecord
	for _, row := range rows {
		pointRecords = append(pointRecords, &tigermapdal.PointRecord{
			Name:      row.Name,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		})
	}

	return tigermapdal.LoadPointsFromRecords(pointRecords)
}
