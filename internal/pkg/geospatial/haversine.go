package geospatial

import "math"

// Mean Earth radius. Good to ~0.5% anywhere, which is far below GPS
// receiver noise on consumer traces.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in meters between two
// WGS84 coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// HaversineKm returns the great-circle distance in kilometers. Mileage
// tallies are kept in kilometers, so this is the primary form.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	sinLat := math.Sin(toRad(lat2-lat1) / 2)
	sinLon := math.Sin(toRad(lon2-lon1) / 2)

	a := sinLat*sinLat + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*sinLon*sinLon
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox returns the box that encloses a circle of radiusMeters
// around a point. Longitude degrees shrink with latitude, so the
// east-west delta is scaled by cos(lat).
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
