package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jgoikoetxea/mileatlas/internal/adapters/geodb"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/http"
	natsadapter "github.com/jgoikoetxea/mileatlas/internal/adapters/nats"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/nominatim"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/postgres"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/valkey"
	"github.com/jgoikoetxea/mileatlas/internal/core/ports"
	"github.com/jgoikoetxea/mileatlas/internal/core/usecases"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/config"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/logging"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("mileatlas-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	// NATS snapshot stream
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, snapshots stay local", "error", err)
		pub = nil
	} else {
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Geocode provider
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

	// Repos and services
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

	deps := &http.Dependencies{
		Stats:    stats,
		Routes:   routeRepo,
		Geocoder: provider,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // GPS traces can be large
		AppName:      "MileAtlas API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
