package geodb

import (
	"context"
	"fmt"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/geospatial"
)

// Nearest-city distance tiers in kilometers and the confidence assigned
// to each.
const (
	cityRadiusKm  = 10.0
	nearRadiusKm  = 25.0
	ruralRadiusKm = 50.0

	confCity  = 0.95
	confNear  = 0.80
	confRural = 0.70
	confOther = 0.60
)

// Geocoder implements ports.GeocodeProvider against the compiled-in
// country table. It is pure, deterministic, and never touches the
// network.
type Geocoder struct {
	table []CountryRegion
}

// NewGeocoder returns a geocoder over the compiled-in table.
func NewGeocoder() *Geocoder {
	return &Geocoder{table: Countries()}
}

// Geocode resolves a coordinate to (country, city, confidence).
// When several country boxes contain the point, the smallest box wins:
// a coarse outer box (think Canada) must not swallow points inside a
// tighter neighbour. A point outside every box resolves to
// ("Unknown", "Unknown", 0).
func (g *Geocoder) Geocode(_ context.Context, lat, lon float64) (domain.GeocodeResult, error) {
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.GeocodeResult{}, domain.ErrInvalidCoordinate
	}

	var match *CountryRegion
	for i := range g.table {
		c := &g.table[i]
		if !c.Bounds.Contains(p) {
			continue
		}
		if match == nil || c.Bounds.Area() < match.Bounds.Area() {
			match = c
		}
	}
	if match == nil {
		return domain.GeocodeResult{
			Country: domain.UnknownLabel,
			City:    domain.UnknownLabel,
		}, nil
	}

	res := domain.GeocodeResult{Country: domain.NormalizeCountry(match.Name)}
	if len(match.Cities) == 0 {
		res.City = fmt.Sprintf("Other %s", res.Country)
		res.Confidence = confOther
		return res, nil
	}

	closest, distKm := nearestCity(match.Cities, p)
	switch {
	case distKm <= cityRadiusKm:
		res.City = closest.Name
		res.Confidence = confCity
	case distKm <= nearRadiusKm:
		res.City = closest.Name
		res.Confidence = confNear
	case distKm <= ruralRadiusKm:
		res.City = fmt.Sprintf("Rural %s", res.Country)
		res.Confidence = confRural
	default:
		res.City = fmt.Sprintf("Other %s", res.Country)
		res.Confidence = confOther
	}
	return res, nil
}

func nearestCity(cities []City, p domain.GeoPoint) (City, float64) {
	best := cities[0]
	bestKm := geospatial.HaversineKm(p.Lat, p.Lon, best.Lat, best.Lon)
	for _, c := range cities[1:] {
		if d := geospatial.HaversineKm(p.Lat, p.Lon, c.Lat, c.Lon); d < bestKm {
			best, bestKm = c, d
		}
	}
	return best, bestKm
}
