package domain

import "errors"

// Aggregation failure modes. All of these are recovered locally: the
// offending point, route, or cache map is skipped and the run continues.
// None is ever fatal; the user-visible effect is reduced coverage.
var (
	// ErrInvalidCoordinate marks a latitude/longitude that is non-finite
	// or out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidDistance marks a route whose computed distance is
	// non-finite or negative.
	ErrInvalidDistance = errors.New("invalid route distance")

	// ErrCorruptedCache marks a persisted cache map that failed to decode
	// or had the wrong shape. The map is discarded and rebuilt empty.
	ErrCorruptedCache = errors.New("corrupted geocode cache")

	// Remote reverse-geocoding failures, distinguished so callers can
	// log them separately. The point simply stays ungeocoded for the run.
	ErrGeocodeTimeout   = errors.New("geocode request timed out")
	ErrGeocodeNoResult  = errors.New("geocode returned no result")
	ErrGeocodeTransport = errors.New("geocode transport failure")
)
