package domain

import (
	"math"
	"testing"
)

func TestGeoPoint_Valid(t *testing.T) {
	cases := []struct {
		p    GeoPoint
		want bool
	}{
		{GeoPoint{0, 0}, true},
		{GeoPoint{90, 180}, true},
		{GeoPoint{-90, -180}, true},
		{GeoPoint{90.001, 0}, false},
		{GeoPoint{0, -180.001}, false},
		{GeoPoint{math.NaN(), 0}, false},
		{GeoPoint{0, math.Inf(1)}, false},
	}
	for _, c := range cases {
		if got := c.p.Valid(); got != c.want {
			t.Errorf("Valid(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestGeoPoint_QuantKey(t *testing.T) {
	cases := []struct {
		p    GeoPoint
		want string
	}{
		{GeoPoint{52.52004, 13.40495}, "52.520,13.405"},
		{GeoPoint{-33.8688, 151.2093}, "-33.869,151.209"},
		{GeoPoint{0, 0}, "0.000,0.000"},
	}
	for _, c := range cases {
		if got := c.p.QuantKey(); got != c.want {
			t.Errorf("QuantKey(%+v) = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestGeoPoint_QuantKeySharedByNearbyPoints(t *testing.T) {
	a := GeoPoint{52.5201, 13.4049}
	b := GeoPoint{52.5203, 13.4051}
	if a.QuantKey() != b.QuantKey() {
		t.Errorf("points ~30m apart should share a key: %s vs %s", a.QuantKey(), b.QuantKey())
	}
}

func TestBounds_Contains(t *testing.T) {
	b := Bounds{MinLat: 47.27, MaxLat: 55.06, MinLon: 5.87, MaxLon: 15.04}

	if !b.Contains(GeoPoint{52.52, 13.405}) {
		t.Error("interior point should be contained")
	}
	if !b.Contains(GeoPoint{47.27, 5.87}) {
		t.Error("edge point should be contained (inclusive)")
	}
	if b.Contains(GeoPoint{47.26, 5.87}) {
		t.Error("point just outside should not be contained")
	}
}

func TestBounds_Area(t *testing.T) {
	b := Bounds{MinLat: 0, MaxLat: 2, MinLon: 0, MaxLon: 3}
	if got := b.Area(); got != 6 {
		t.Errorf("Area = %f, want 6", got)
	}
}
