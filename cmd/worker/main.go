package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/jgoikoetxea/mileatlas/internal/adapters/geodb"
	natsadapter "github.com/jgoikoetxea/mileatlas/internal/adapters/nats"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/nominatim"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/postgres"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/valkey"
	"github.com/jgoikoetxea/mileatlas/internal/core/ports"
	"github.com/jgoikoetxea/mileatlas/internal/core/usecases"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/config"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/logging"
	"github.com/jgoikoetxea/mileatlas/internal/workflows"
)

func main() {
	cfg, err := config.Load("mileatlas-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, snapshots stay local", "error", err)
		pub = nil
	} else {
		defer pub.Close()
	}

	var provider ports.GeocodeProvider
	switch cfg.Geocoder.Provider {
	case "remote":
		provider = nominatim.NewClient(
			cfg.Geocoder.RemoteURL,
			time.Duration(cfg.Geocoder.RemoteTimeout)*time.Second,
			cfg.Geocoder.MaxInFlight,
		)
	default:
		provider = geodb.NewGeocoder()
	}

	routeRepo := postgres.NewRouteRepo(db)
	var snapPub ports.SnapshotPublisher
	if pub != nil {
		snapPub = pub
	}
	stats := usecases.NewStatsService(routeRepo, cache, provider, snapPub, usecases.StatsConfig{
		PublishEvery: cfg.Aggregator.PublishEvery,
		MaxSamples:   cfg.Aggregator.MaxSamples,
		Prefetch:     cfg.Geocoder.Provider == "remote",
		MaxInFlight:  cfg.Geocoder.MaxInFlight,
	})

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: "localhost:7233",
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, workflows.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.AggregationWorkflow)
	w.RegisterActivity(&workflows.AggregationActivities{
		Stats:  stats,
		Routes: routeRepo,
	})

	logging.Component("worker").Info("aggregation worker started", "task_queue", workflows.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
