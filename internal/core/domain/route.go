package domain

import (
	"math"
	"sync"
	"time"

	"github.com/jgoikoetxea/mileatlas/internal/pkg/geospatial"
)

// Route categories as reported by the trace source.
const (
	CategoryRunning = "running"
	CategoryWalking = "walking"
	CategoryCycling = "cycling"
	CategoryOther   = "other"
)

// Route is an ordered GPS trace with its recording metadata.
type Route struct {
	ID         string        `json:"id"`
	Points     []GeoPoint    `json:"points"`
	RecordedAt time.Time     `json:"recorded_at"`
	Category   string        `json:"category"`
	Duration   time.Duration `json:"duration"`

	distOnce sync.Once
	distKm   float64
}

// DistanceKm returns the route's total great-circle length in kilometers,
// computed once per instance and reused. Routes with fewer than two
// points have zero length.
func (r *Route) DistanceKm() float64 {
	r.distOnce.Do(func() {
		r.distKm = RouteDistanceKm(r.Points)
	})
	return r.distKm
}

// ValidDistance reports whether the memoized distance is finite and
// non-negative. Routes failing this are excluded from aggregation totals.
func (r *Route) ValidDistance() bool {
	d := r.DistanceKm()
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}

// RouteDistanceKm sums the haversine distances over consecutive pairs.
// Returns 0 for fewer than two points.
func RouteDistanceKm(points []GeoPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += geospatial.HaversineKm(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}
	return total
}
