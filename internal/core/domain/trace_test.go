package domain

import "testing"

// Roughly 0.0001 deg of latitude is ~11 m, safely under the 20 m gap.
func contiguousTrace(n int) []GeoPoint {
	points := make([]GeoPoint, n)
	for i := range points {
		points[i] = GeoPoint{Lat: 52.5200 + float64(i)*0.0001, Lon: 13.4050}
	}
	return points
}

func TestSegmentTrace_ContinuousStaysWhole(t *testing.T) {
	points := contiguousTrace(5)

	segments := SegmentTrace(points, DefaultMaxGapMeters)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if len(segments[0]) != 5 {
		t.Errorf("expected 5 points, got %d", len(segments[0]))
	}
}

func TestSegmentTrace_SplitsOnGap(t *testing.T) {
	// Two tight clusters ~1.1 km apart: the jump is far beyond 20 m.
	points := []GeoPoint{
		{52.5200, 13.4050},
		{52.5201, 13.4050},
		{52.5300, 13.4050},
		{52.5301, 13.4050},
	}

	segments := SegmentTrace(points, DefaultMaxGapMeters)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if len(seg) != 2 {
			t.Errorf("segment %d: expected 2 points, got %d", i, len(seg))
		}
	}
}

func TestSegmentTrace_DropsSinglePointSegments(t *testing.T) {
	// Middle point is isolated by big gaps on both sides.
	points := []GeoPoint{
		{52.5200, 13.4050},
		{52.5201, 13.4050},
		{52.6000, 13.4050}, // alone
		{52.7000, 13.4050},
		{52.7001, 13.4050},
	}

	segments := SegmentTrace(points, DefaultMaxGapMeters)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments (isolated point dropped), got %d", len(segments))
	}
}

func TestSegmentTrace_Empty(t *testing.T) {
	if got := SegmentTrace(nil, DefaultMaxGapMeters); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := SegmentTrace([]GeoPoint{{52.52, 13.405}}, DefaultMaxGapMeters); got != nil {
		t.Errorf("expected nil for single point, got %v", got)
	}
}

func TestSamplePoints_ShortTraceUnchanged(t *testing.T) {
	points := contiguousTrace(7)
	samples := SamplePoints(points, DefaultMaxSamples)
	if len(samples) != 7 {
		t.Fatalf("expected all 7 points back, got %d", len(samples))
	}
}

func TestSamplePoints_Strided(t *testing.T) {
	points := contiguousTrace(100)
	samples := SamplePoints(points, DefaultMaxSamples)

	// stride = 100/10 = 10 → indices 0,10,...,90, plus the distinct
	// trailing point 99.
	if len(samples) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(samples))
	}
	if samples[0] != points[0] {
		t.Errorf("first sample should be the first point")
	}
	if samples[len(samples)-1] != points[99] {
		t.Errorf("last sample should be the trailing point")
	}
}

func TestSamplePoints_NoDuplicateTail(t *testing.T) {
	// 40 points with stride 4 samples index 36; make the tail point
	// nearly identical to it so the carryover is skipped.
	points := contiguousTrace(40)
	points[39] = GeoPoint{Lat: points[36].Lat + 0.00005, Lon: points[36].Lon}

	samples := SamplePoints(points, DefaultMaxSamples)
	if len(samples) != 10 {
		t.Fatalf("expected 10 samples with deduped tail, got %d", len(samples))
	}
}

func TestRouteDistance_Memoized(t *testing.T) {
	r := &Route{ID: "r1", Points: contiguousTrace(3)}
	first := r.DistanceKm()
	if first <= 0 {
		t.Fatalf("expected positive distance, got %f", first)
	}

	// Mutating the points after the first call must not change the
	// reported distance.
	r.Points = nil
	if got := r.DistanceKm(); got != first {
		t.Errorf("distance changed after memoization: %f != %f", got, first)
	}
}

func TestRouteDistance_TooFewPoints(t *testing.T) {
	r := &Route{ID: "r1", Points: []GeoPoint{{52.52, 13.405}}}
	if got := r.DistanceKm(); got != 0 {
		t.Errorf("expected 0 for single point, got %f", got)
	}
	if !r.ValidDistance() {
		t.Errorf("zero distance is still valid")
	}
}
