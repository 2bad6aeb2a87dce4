package tigermapdal

import (
	"errors"
)

var (
	// ErrNotFound indicates a referenced input path does not exist.
	ErrNotFound = errors.New("input not found")
	// ErrInvalidData indicates input data is present but empty, missing
	// required fields, or carrying no usable geometry.
	ErrInvalidData = errors.New("invalid input data")
)

// attribute names shared by the TIGER/Line loaders and the POI loaders
const (
	AttributeName     = "NAME"
	AttributeStateFP  = "STATEFP"
	AttributeFullName = "FULLNAME"
	AttributeRouteTyp = "RTTYP"

	POIFieldName      = "name"
	POIFieldLatitude  = "latitude"
	POIFieldLongitude = "longitude"
)
