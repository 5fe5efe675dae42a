package ports

import (
	"context"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

// CacheStore is the key-value port behind the persistent geocode cache.
// Get returns (nil, nil) for a missing key; implementations must treat
// decode or type failures as absence, never as a crash.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// GeocodeProvider resolves a coordinate to a country/city label pair.
// The compiled-in offline geocoder is the default implementation; a
// network reverse-geocoding client is the retained fallback. Remote
// implementations report failures through the domain geocode errors.
type GeocodeProvider interface {
	Geocode(ctx context.Context, lat, lon float64) (domain.GeocodeResult, error)
}

// SnapshotPublisher streams aggregation progress to interested consumers.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, runID string, snap domain.Snapshot) error
}
