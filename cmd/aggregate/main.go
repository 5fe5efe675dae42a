package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jgoikoetxea/mileatlas/internal/adapters/geodb"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/nominatim"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/postgres"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/valkey"
	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
	"github.com/jgoikoetxea/mileatlas/internal/core/ports"
	"github.com/jgoikoetxea/mileatlas/internal/core/usecases"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/config"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/logging"
)

// One-shot aggregation over every stored route. Prints interim progress
// as the run streams snapshots and the full country/city tables at the
// end. Useful for cron jobs and local inspection without the API server.
func main() {
	cfg, err := config.Load("mileatlas-aggregate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn" // keep stdout readable for the tables
	}
	logging.Setup(logLevel, "text")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

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

	repo := postgres.NewRouteRepo(db)
	stats := usecases.NewStatsService(repo, cache, provider, nil, usecases.StatsConfig{
		PublishEvery: cfg.Aggregator.PublishEvery,
		MaxSamples:   cfg.Aggregator.MaxSamples,
		Prefetch:     cfg.Geocoder.Provider == "remote",
		MaxInFlight:  cfg.Geocoder.MaxInFlight,
	})

	routes, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("load routes: %v", err)
	}
	fmt.Printf("aggregating %d routes...\n", len(routes))

	started := time.Now()
	var final *domain.Snapshot
	for snap := range stats.Run(ctx, routes) {
		if snap.Done {
			s := snap
			final = &s
			continue
		}
		fmt.Printf("  %d/%d routes, %d coords, %d geocoded\n",
			snap.Processed, snap.Total, snap.UniqueCoords, snap.GeocodedCount)
	}
	if final == nil {
		log.Fatal("run ended without a final snapshot")
	}

	fmt.Printf("\ndone in %s: %.2f km over %d routes (%d coords, %d geocoded)\n\n",
		time.Since(started).Round(time.Millisecond),
		final.TotalKm, final.Processed, final.UniqueCoords, final.GeocodedCount)

	printTable("COUNTRIES", final.Countries, final.TotalKm)
	fmt.Println()
	printTable("CITIES", final.Cities, final.TotalKm)
}

func printTable(title string, entries []domain.TallyEntry, totalKm float64) {
	fmt.Printf("%-30s %12s %8s\n", title, "KM", "%")
	for _, e := range entries {
		pct := 0.0
		if totalKm > 0 {
			pct = 100 * e.Km / totalKm
		}
		fmt.Printf("%-30s %12.2f %7.1f%%\n", e.Label, e.Km, pct)
	}
}
