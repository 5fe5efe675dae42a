package ports

import (
	"context"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

// RouteRepository persists GPS routes. The aggregator never mutates the
// sequences it reads back.
type RouteRepository interface {
	Insert(ctx context.Context, route *domain.Route) error
	InsertBatch(ctx context.Context, routes []*domain.Route) error
	GetByID(ctx context.Context, id string) (*domain.Route, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Route, error)
	ListAll(ctx context.Context) ([]*domain.Route, error)
	Count(ctx context.Context) (int, error)
}
