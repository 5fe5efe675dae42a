package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/metrics"
)

// defaultMaxInFlight bounds concurrent remote geocode lookups.
const defaultMaxInFlight = 50

// prefetch warms the cache for every sample point the tally pass will
// visit, resolving misses through the provider with bounded concurrency.
// This is the retained legacy path for network reverse geocoding: the
// in-flight lookup count is capped, a single mutex serializes writes to
// the shared cache maps, and a WaitGroup barrier waits for every
// outstanding lookup before the sequential tally pass starts. Failed
// lookups are skipped; those points stay ungeocoded for this run.
func (s *StatsService) prefetch(ctx context.Context, routes []*domain.Route, cache *GeoCache) int {
	type lookup struct {
		key   string
		point domain.GeoPoint
	}

	var pending []lookup
	queued := make(map[string]struct{})
	for _, route := range routes {
		if hasInvalidPoint(route.Points) {
			continue
		}
		for _, p := range domain.SamplePoints(route.Points, s.cfg.MaxSamples) {
			key := p.QuantKey()
			if _, dup := queued[key]; dup {
				continue
			}
			queued[key] = struct{}{}
			if _, _, ok := cache.Lookup(key); !ok {
				pending = append(pending, lookup{key: key, point: p})
			}
		}
	}
	if len(pending) == 0 {
		return 0
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		tokens   = make(chan struct{}, s.cfg.MaxInFlight)
		resolved int
	)

	for _, l := range pending {
		wg.Add(1)
		tokens <- struct{}{}
		go func(l lookup) {
			defer wg.Done()
			defer func() { <-tokens }()

			res, err := s.provider.Geocode(ctx, l.point.Lat, l.point.Lon)
			if err != nil {
				metrics.GeocodeCalls.WithLabelValues("error").Inc()
				slog.Debug("prefetch geocode failed", "key", l.key, "error", err)
				return
			}
			metrics.GeocodeCalls.WithLabelValues("ok").Inc()

			mu.Lock()
			cache.Put(l.key, res.Country, res.City)
			resolved++
			mu.Unlock()
		}(l)
	}
	wg.Wait()

	slog.Info("geocode prefetch complete", "looked_up", len(pending), "resolved", resolved)
	return resolved
}
