package domain

import (
	"math"

	"github.com/jgoikoetxea/mileatlas/internal/pkg/geospatial"
)

const (
	// DefaultMaxGapMeters is the largest jump between consecutive trace
	// points still considered continuous movement. Anything wider is a
	// GPS pause or teleport and splits the trace.
	DefaultMaxGapMeters = 20.0

	// DefaultMaxSamples bounds how many representative points a route
	// contributes to geocoding.
	DefaultMaxSamples = 10

	// sampleDedupDeg is the tolerance, in degrees on either axis, below
	// which the trailing point is considered already sampled.
	sampleDedupDeg = 0.0001
)

// SegmentTrace splits a raw coordinate trace into movement segments.
// Consecutive points farther apart than maxGapMeters start a new segment,
// and segments with fewer than two points are discarded: a single point
// carries no distance information.
func SegmentTrace(points []GeoPoint, maxGapMeters float64) [][]GeoPoint {
	if maxGapMeters <= 0 {
		maxGapMeters = DefaultMaxGapMeters
	}
	if len(points) == 0 {
		return nil
	}

	var segments [][]GeoPoint
	current := []GeoPoint{points[0]}

	for i := 1; i < len(points); i++ {
		gap := geospatial.Haversine(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
		if gap <= maxGapMeters {
			current = append(current, points[i])
			continue
		}
		if len(current) >= 2 {
			segments = append(segments, current)
		}
		current = []GeoPoint{points[i]}
	}
	if len(current) >= 2 {
		segments = append(segments, current)
	}
	return segments
}

// SamplePoints reduces a trace to at most maxSamples representative
// points. Short traces are returned unchanged. Longer ones are strided,
// and the final point is carried over when it differs from the last
// sample by more than ~0.0001 degrees on either axis, so the route's
// endpoint is never silently dropped.
func SamplePoints(points []GeoPoint, maxSamples int) []GeoPoint {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if len(points) <= maxSamples {
		return points
	}

	stride := len(points) / maxSamples
	if stride < 1 {
		stride = 1
	}

	var samples []GeoPoint
	for i := 0; i < len(points); i += stride {
		samples = append(samples, points[i])
	}

	last := points[len(points)-1]
	tail := samples[len(samples)-1]
	if math.Abs(last.Lat-tail.Lat) > sampleDedupDeg || math.Abs(last.Lon-tail.Lon) > sampleDedupDeg {
		samples = append(samples, last)
	}
	return samples
}
