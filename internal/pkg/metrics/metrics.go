package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mileatlas",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Aggregation data-quality counters. These make discarded input
	// observable without surfacing it as user-facing errors.
	RoutesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "aggregation",
		Name:      "routes_discarded_total",
		Help:      "Routes dropped before tallying",
	}, []string{"reason"})

	PointsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "aggregation",
		Name:      "points_discarded_total",
		Help:      "Trace points dropped for invalid coordinates",
	})

	SnapshotsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "aggregation",
		Name:      "snapshots_published_total",
		Help:      "Progress snapshots published to consumers",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mileatlas",
		Subsystem: "aggregation",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of a full aggregation run",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	})

	// Geocode cache metrics
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "geocache",
		Name:      "hits_total",
		Help:      "Geocode cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "geocache",
		Name:      "misses_total",
		Help:      "Geocode cache misses",
	})

	CorruptedCacheLoads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "geocache",
		Name:      "corrupted_loads_total",
		Help:      "Persisted cache maps discarded as undecodable",
	})

	// Geocoder metrics
	GeocodeCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mileatlas",
		Subsystem: "geocoder",
		Name:      "calls_total",
		Help:      "Provider geocode calls by outcome",
	}, []string{"outcome"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
