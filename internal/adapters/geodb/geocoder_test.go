package geodb

import (
	"context"
	"errors"
	"testing"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

func TestGeocode_CityMatch(t *testing.T) {
	g := NewGeocoder()

	res, err := g.Geocode(context.Background(), 52.520, 13.405)
	if err != nil {
		t.Fatal(err)
	}
	if res.Country != "Germany" {
		t.Errorf("country = %q, want Germany", res.Country)
	}
	if res.City != "Berlin" {
		t.Errorf("city = %q, want Berlin", res.City)
	}
	if res.Confidence != 0.95 {
		t.Errorf("confidence = %f, want 0.95", res.Confidence)
	}
}

func TestGeocode_ConfidenceTiers(t *testing.T) {
	g := NewGeocoder()

	cases := []struct {
		name     string
		lat, lon float64
		wantCity string
		wantConf float64
	}{
		// ~17 km north of Berlin: named city, lower confidence.
		{"near city", 52.670, 13.405, "Berlin", 0.80},
		// ~36 km north of Berlin: rural bucket.
		{"rural", 52.840, 13.405, "Rural Germany", 0.70},
		// Inside Germany but >50 km from every city marker.
		{"remote", 53.900, 12.800, "Other Germany", 0.60},
	}

	for _, c := range cases {
		res, err := g.Geocode(context.Background(), c.lat, c.lon)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if res.Country != "Germany" {
			t.Errorf("%s: country = %q, want Germany", c.name, res.Country)
		}
		if res.City != c.wantCity {
			t.Errorf("%s: city = %q, want %q", c.name, res.City, c.wantCity)
		}
		if res.Confidence != c.wantConf {
			t.Errorf("%s: confidence = %f, want %f", c.name, res.Confidence, c.wantConf)
		}
	}
}

func TestGeocode_OverlapPicksSmallestBox(t *testing.T) {
	g := NewGeocoder()

	// Seattle sits inside both the US and the (much larger) Canada box.
	res, err := g.Geocode(context.Background(), 47.606, -122.332)
	if err != nil {
		t.Fatal(err)
	}
	if res.Country != "United States" {
		t.Errorf("country = %q, want United States", res.Country)
	}
	if res.City != "Seattle" {
		t.Errorf("city = %q, want Seattle", res.City)
	}
}

func TestGeocode_NoMatch(t *testing.T) {
	g := NewGeocoder()

	// Mid-Atlantic, outside every box.
	res, err := g.Geocode(context.Background(), 20.0, -30.0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Country != domain.UnknownLabel || res.City != domain.UnknownLabel {
		t.Errorf("expected Unknown/Unknown, got %q/%q", res.Country, res.City)
	}
	if res.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", res.Confidence)
	}
}

func TestGeocode_InvalidCoordinate(t *testing.T) {
	g := NewGeocoder()

	_, err := g.Geocode(context.Background(), 91.0, 0.0)
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestGeocode_Deterministic(t *testing.T) {
	g := NewGeocoder()

	first, err := g.Geocode(context.Background(), 47.606, -122.332)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		res, err := g.Geocode(context.Background(), 47.606, -122.332)
		if err != nil {
			t.Fatal(err)
		}
		if res != first {
			t.Fatalf("result changed between calls: %+v vs %+v", res, first)
		}
	}
}
