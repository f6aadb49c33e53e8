package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned for input that is neither NNNNNNN nor NNN-NNNN.
	ErrInvalidFormat = errors.New("invalid postal code")

	// ErrUnsupportedPostalCode means the postal directory has no entry for the code (HTTP 404).
	ErrUnsupportedPostalCode = errors.New("postal code not found in directory (unsupported)")

	// ErrDirectoryService is the kind of a non-success, non-404 directory response.
	ErrDirectoryService = errors.New("postal directory service error")

	// ErrEmptyLocationData is returned when the directory answers with no entries.
	ErrEmptyLocationData = errors.New("postal directory returned no location data")

	// ErrGeocodingService is the kind of a non-success geocoding response.
	ErrGeocodingService = errors.New("geocoding service error")

	// ErrGeocodingEmptyResult is returned when the geocoder finds nothing for the address.
	ErrGeocodingEmptyResult = errors.New("geocoding returned no result for address")

	// ErrInvalidCoordinates is returned for coordinates outside the geographic range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrWeatherService is the kind of a non-success forecast response.
	ErrWeatherService = errors.New("weather service error")

	// ErrIncompleteWeatherData is returned when the forecast lacks two full days.
	ErrIncompleteWeatherData = errors.New("weather data missing or incomplete")

	// ErrCachePersistence is logged when a cache file cannot be written.
	ErrCachePersistence = errors.New("cache persistence failed")

	// ErrCacheLoad is logged when a cache file cannot be read or parsed.
	ErrCacheLoad = errors.New("cache load failed")
)

// StatusError is an upstream non-success HTTP status. It unwraps to its Kind.
type StatusError struct {
	Kind       error
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Kind
}
