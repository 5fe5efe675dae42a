package http

import (
	"github.com/nats-io/nats.go"

	"github.com/jgoikoetxea/mileatlas/internal/adapters/postgres"
	"github.com/jgoikoetxea/mileatlas/internal/adapters/valkey"
	"github.com/jgoikoetxea/mileatlas/internal/core/ports"
	"github.com/jgoikoetxea/mileatlas/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Stats    *usecases.StatsService
	Routes   ports.RouteRepository
	Geocoder ports.GeocodeProvider
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Store
}
