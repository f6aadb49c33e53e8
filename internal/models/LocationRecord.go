package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// UnknownRegion is used as both address fields when the directory has no usable names.
const UnknownRegion = "不明な地域"

var validate = validator.New()

// LocationRecord is the resolved address and coordinates of a postal code.
type LocationRecord struct {
	FullAddress  string    `json:"location" validate:"required"`
	TitleAddress string    `json:"titleLocation" validate:"required"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	FetchedAt    time.Time `json:"timestamp" validate:"required"`
}

type locationRecordJSON struct {
	FullAddress  string    `json:"location" validate:"required"`
	TitleAddress string    `json:"titleLocation" validate:"required"`
	Lat          *float64  `json:"lat" validate:"required"`
	Lon          *float64  `json:"lon" validate:"required"`
	FetchedAt    time.Time `json:"timestamp" validate:"required"`
}

// UnmarshalJSON requires both coordinates; an absent lat or lon must not
// read as 0.
func (r *LocationRecord) UnmarshalJSON(b []byte) error {
	var w locationRecordJSON
	if err := decodeStrict(b, &w); err != nil {
		return err
	}
	*r = LocationRecord{
		FullAddress:  w.FullAddress,
		TitleAddress: w.TitleAddress,
		Lat:          *w.Lat,
		Lon:          *w.Lon,
		FetchedAt:    w.FetchedAt,
	}
	return nil
}

func (r LocationRecord) Stamp() time.Time {
	return r.FetchedAt
}

func (r LocationRecord) WithStamp(t time.Time) LocationRecord {
	r.FetchedAt = t
	return r
}

// Validate checks the record's schema. Coordinate ranges are checked separately
// by ValidateCoordinates so that cached out-of-range values still surface as errors.
func (r LocationRecord) Validate() error {
	return validate.Struct(r)
}

type coordinates struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// ValidateCoordinates rejects latitudes outside [-90, 90] and longitudes outside [-180, 180].
func ValidateCoordinates(lat, lon float64) error {
	if err := validate.Struct(coordinates{Lat: lat, Lon: lon}); err != nil {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}
