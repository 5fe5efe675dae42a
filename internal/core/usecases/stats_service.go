package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
	"github.com/jgoikoetxea/mileatlas/internal/core/ports"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/metrics"
)

// Margin below which leftover distance is floating-point noise rather
// than genuinely ungeocoded mileage.
const unknownEpsilonKm = 1e-9

// StatsConfig tunes an aggregation run.
type StatsConfig struct {
	// PublishEvery is the number of routes between interim snapshots.
	PublishEvery int
	// MaxSamples bounds geocoded points per route.
	MaxSamples int
	// Prefetch resolves cache misses through the provider concurrently
	// before tallying. Only worth switching on for remote providers.
	Prefetch bool
	// MaxInFlight bounds concurrent prefetch lookups.
	MaxInFlight int
}

func (c StatsConfig) withDefaults() StatsConfig {
	if c.PublishEvery <= 0 {
		c.PublishEvery = 10
	}
	if c.MaxSamples <= 0 {
		c.MaxSamples = domain.DefaultMaxSamples
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = defaultMaxInFlight
	}
	return c
}

// StatsService turns stored GPS routes into per-country and per-city
// distance tallies, streaming progress while it works.
//
// A single worker goroutine owns every piece of mutable run state
// (tallies, cache maps, counters), so the run itself needs no locking;
// everything other goroutines can see is an immutable Snapshot value.
// Starting a new run supersedes older ones: each run carries a
// generation, and a run that is no longer current stops publishing, so
// consumers only ever observe the latest requested run.
type StatsService struct {
	repo     ports.RouteRepository
	store    ports.CacheStore
	provider ports.GeocodeProvider
	pub      ports.SnapshotPublisher // optional
	cfg      StatsConfig

	gen    atomic.Int64
	latest atomic.Pointer[domain.Snapshot]
}

// NewStatsService wires the aggregator. pub may be nil when no external
// snapshot stream is configured.
func NewStatsService(
	repo ports.RouteRepository,
	store ports.CacheStore,
	provider ports.GeocodeProvider,
	pub ports.SnapshotPublisher,
	cfg StatsConfig,
) *StatsService {
	return &StatsService{
		repo:     repo,
		store:    store,
		provider: provider,
		pub:      pub,
		cfg:      cfg.withDefaults(),
	}
}

// Latest returns the most recently published snapshot, or nil before
// the first run publishes anything.
func (s *StatsService) Latest() *domain.Snapshot {
	return s.latest.Load()
}

// Recompute loads every stored route and starts an aggregation run,
// draining the snapshot stream in the background. It returns once the
// run has been started.
func (s *StatsService) Recompute(ctx context.Context) error {
	routes, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load routes: %w", err)
	}
	ch := s.Run(ctx, routes)
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Run starts an aggregation over the given routes and returns the
// snapshot stream. The stream carries zero or more Done=false interim
// snapshots and is closed after the final Done=true snapshot (or after
// the run is superseded). The input sequence is never mutated.
func (s *StatsService) Run(ctx context.Context, routes []*domain.Route) <-chan domain.Snapshot {
	gen := s.gen.Add(1)
	ch := make(chan domain.Snapshot, 1)
	go s.run(ctx, gen, routes, ch)
	return ch
}

func (s *StatsService) run(ctx context.Context, gen int64, routes []*domain.Route, ch chan domain.Snapshot) {
	defer close(ch)
	started := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(started).Seconds())
	}()

	ctx, span := otel.Tracer("mileatlas/aggregation").Start(ctx, "aggregation.run")
	span.SetAttributes(attribute.Int("routes.total", len(routes)))
	defer span.End()

	// Step 1: validate and total. Routes with fewer than two points or a
	// non-finite/negative distance are excluded from the total outright.
	var usable []*domain.Route
	var totalKm float64
	for _, r := range routes {
		if len(r.Points) < 2 {
			metrics.RoutesDiscarded.WithLabelValues("too_few_points").Inc()
			continue
		}
		if !r.ValidDistance() {
			metrics.RoutesDiscarded.WithLabelValues("invalid_distance").Inc()
			slog.Warn("route excluded from aggregation",
				"route_id", r.ID, "error", domain.ErrInvalidDistance)
			continue
		}
		usable = append(usable, r)
		totalKm += r.DistanceKm()
	}
	if d := len(routes) - len(usable); d > 0 {
		slog.Info("aggregation input validated", "routes", len(routes), "discarded", d)
	}

	// Step 2: load the persistent geocode cache; its cleanup pass runs
	// as part of Load.
	cache := NewGeoCache(s.store)
	cache.Load(ctx)

	geocoded := 0
	if s.cfg.Prefetch {
		geocoded += s.prefetch(ctx, usable, cache)
	}

	countryTally := make(domain.Tally)
	cityTally := make(domain.Tally)
	seen := make(map[string]struct{})
	total := len(usable)

	snapshot := func(processed int, done bool) domain.Snapshot {
		return domain.Snapshot{
			TotalKm:       totalKm,
			Countries:     countryTally.SortedEntries(),
			Cities:        cityTally.SortedEntries(),
			Processed:     processed,
			Total:         total,
			UniqueCoords:  len(seen),
			GeocodedCount: geocoded,
			Done:          done,
		}
	}

	// Step 3: sequential tally pass. Each route's distance is split
	// equally across its sample points.
	for i, route := range usable {
		if !s.publishable(gen) {
			return // superseded; stop without touching persisted state
		}

		if hasInvalidPoint(route.Points) {
			metrics.RoutesDiscarded.WithLabelValues("invalid_coordinate").Inc()
			continue
		}

		samples := domain.SamplePoints(route.Points, s.cfg.MaxSamples)
		share := route.DistanceKm() / float64(len(samples))

		for _, p := range samples {
			key := p.QuantKey()
			seen[key] = struct{}{}

			country, city, ok := cache.Lookup(key)
			if ok {
				metrics.CacheHits.Inc()
			} else {
				metrics.CacheMisses.Inc()
				res, err := s.provider.Geocode(ctx, p.Lat, p.Lon)
				if err != nil {
					metrics.GeocodeCalls.WithLabelValues("error").Inc()
					slog.Debug("geocode failed, point left unresolved",
						"key", key, "error", err)
					continue
				}
				metrics.GeocodeCalls.WithLabelValues("ok").Inc()
				country = domain.NormalizeCountry(res.Country)
				city = res.City
				cache.Put(key, country, city)
				geocoded++
			}

			countryTally.Add(country, share)
			cityTally.Add(city, share)
		}

		if (i+1)%s.cfg.PublishEvery == 0 && i+1 < total {
			s.publish(ctx, gen, ch, snapshot(i+1, false), false)
		}
	}

	// Step 4: whatever distance never resolved to a country lands in the
	// unknown bucket so the country tally always conserves the total.
	if rem := totalKm - countryTally.TotalKm(); rem > unknownEpsilonKm {
		countryTally.Add(domain.UnknownBucket, rem)
	}

	// Step 5: persist the cache. Failure costs only this run's new
	// entries; the previously persisted maps stay intact.
	if s.publishable(gen) {
		if err := cache.Save(ctx); err != nil {
			slog.Error("geocode cache not persisted", "error", err)
		}
	}

	// Step 6: final snapshot.
	s.publish(ctx, gen, ch, snapshot(total, true), true)
}

// publishable reports whether this run is still the current generation.
func (s *StatsService) publishable(gen int64) bool {
	return s.gen.Load() == gen
}

// publish hands a snapshot to the consumer without ever blocking the
// worker: interim snapshots are dropped when the consumer lags, and the
// final snapshot replaces whatever undelivered interim is still
// buffered, so the most recent snapshot always wins.
func (s *StatsService) publish(ctx context.Context, gen int64, ch chan domain.Snapshot, snap domain.Snapshot, final bool) {
	if !s.publishable(gen) {
		return
	}

	s.latest.Store(&snap)
	metrics.SnapshotsPublished.Inc()

	if s.pub != nil {
		if err := s.pub.PublishSnapshot(ctx, fmt.Sprintf("run-%d", gen), snap); err != nil {
			slog.Warn("snapshot publish failed", "error", err)
		}
	}

	if final {
		select {
		case <-ch:
		default:
		}
		ch <- snap
		return
	}
	select {
	case ch <- snap:
	default:
	}
}

func hasInvalidPoint(points []domain.GeoPoint) bool {
	for _, p := range points {
		if !p.Valid() {
			metrics.PointsDiscarded.Inc()
			return true
		}
	}
	return false
}
