package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
	"github.com/jgoikoetxea/mileatlas/internal/core/ports"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/metrics"
)

// Storage keys of the two persisted cache maps.
const (
	countryCacheKey = "coordCountryCache"
	cityCacheKey    = "coordCityCache"
)

// GeoCache memoizes quantized-coordinate → country/city lookups across
// aggregation runs. Two independent maps are persisted through the
// injected CacheStore; entries never expire because the underlying
// offline geocoding is static. Writes stay in memory until Save.
//
// GeoCache is not safe for concurrent use by itself; the aggregation
// worker owns it, and the legacy concurrent resolver serializes its
// writes externally.
type GeoCache struct {
	store ports.CacheStore

	countries map[string]string
	cities    map[string]string
}

// NewGeoCache creates an empty cache over a storage port.
func NewGeoCache(store ports.CacheStore) *GeoCache {
	return &GeoCache{
		store:     store,
		countries: make(map[string]string),
		cities:    make(map[string]string),
	}
}

// Load reads both persisted maps and runs the cleanup pass. A map that
// fails to decode or has the wrong shape is discarded entirely and
// rebuilt empty; a corrupted map is never partially trusted.
func (c *GeoCache) Load(ctx context.Context) {
	c.countries = c.loadMap(ctx, countryCacheKey)
	c.cities = c.loadMap(ctx, cityCacheKey)
	c.cleanup()
}

func (c *GeoCache) loadMap(ctx context.Context, key string) map[string]string {
	raw, err := c.store.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return make(map[string]string)
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		slog.Warn("discarding corrupted geocode cache map",
			"key", key, "error", fmt.Errorf("%w: %v", domain.ErrCorruptedCache, err))
		metrics.CorruptedCacheLoads.Inc()
		return make(map[string]string)
	}
	return m
}

// cleanup re-normalizes every cached country through the alias table
// (entries may predate normalization) and drops city entries whose key
// has no country entry; a city without a known country is meaningless.
func (c *GeoCache) cleanup() {
	for key, country := range c.countries {
		if normalized := domain.NormalizeCountry(country); normalized != country {
			c.countries[key] = normalized
		}
	}
	for key := range c.cities {
		if _, ok := c.countries[key]; !ok {
			delete(c.cities, key)
		}
	}
}

// Lookup returns the cached (country, city) for a quantized key. A hit
// with no stored city reads "Unknown".
func (c *GeoCache) Lookup(key string) (country, city string, ok bool) {
	country, ok = c.countries[key]
	if !ok {
		return "", "", false
	}
	city, found := c.cities[key]
	if !found {
		city = domain.UnknownLabel
	}
	return country, city, true
}

// Put records a freshly geocoded entry in the in-memory maps. Nothing
// is persisted until Save.
func (c *GeoCache) Put(key, country, city string) {
	c.countries[key] = domain.NormalizeCountry(country)
	c.cities[key] = city
}

// Len returns the number of cached country entries.
func (c *GeoCache) Len() int {
	return len(c.countries)
}

// Save overwrites both persisted maps unconditionally with the final
// in-memory state. A crash before Save loses only this run's new
// entries, never the previously persisted state.
func (c *GeoCache) Save(ctx context.Context) error {
	countriesRaw, err := json.Marshal(c.countries)
	if err != nil {
		return fmt.Errorf("encode country cache: %w", err)
	}
	citiesRaw, err := json.Marshal(c.cities)
	if err != nil {
		return fmt.Errorf("encode city cache: %w", err)
	}

	if err := c.store.Set(ctx, countryCacheKey, countriesRaw); err != nil {
		return fmt.Errorf("persist country cache: %w", err)
	}
	if err := c.store.Set(ctx, cityCacheKey, citiesRaw); err != nil {
		return fmt.Errorf("persist city cache: %w", err)
	}
	return nil
}
