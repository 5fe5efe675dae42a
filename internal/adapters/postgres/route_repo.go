package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

// RouteRepo implements ports.RouteRepository. Coordinate sequences are
// stored as JSONB; routes are modest in length after segmentation, so a
// relational point table would buy nothing.
type RouteRepo struct {
	db *DB
}

func NewRouteRepo(db *DB) *RouteRepo { return &RouteRepo{db: db} }

func (r *RouteRepo) Insert(ctx context.Context, route *domain.Route) error {
	points, err := json.Marshal(route.Points)
	if err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO routes (id, points, recorded_at, category, duration_seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET points = EXCLUDED.points, recorded_at = EXCLUDED.recorded_at,
		    category = EXCLUDED.category, duration_seconds = EXCLUDED.duration_seconds
	`, route.ID, points, route.RecordedAt, route.Category, int64(route.Duration.Seconds()))
	return err
}

func (r *RouteRepo) InsertBatch(ctx context.Context, routes []*domain.Route) error {
	batch := &pgx.Batch{}
	for _, route := range routes {
		points, err := json.Marshal(route.Points)
		if err != nil {
			return fmt.Errorf("encode points for %s: %w", route.ID, err)
		}
		batch.Queue(`
			INSERT INTO routes (id, points, recorded_at, category, duration_seconds)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET points = EXCLUDED.points, recorded_at = EXCLUDED.recorded_at,
			    category = EXCLUDED.category, duration_seconds = EXCLUDED.duration_seconds
		`, route.ID, points, route.RecordedAt, route.Category, int64(route.Duration.Seconds()))
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range routes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func (r *RouteRepo) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT id, points, recorded_at, category, duration_seconds
		FROM routes WHERE id = $1
	`, id)
	return scanRoute(row)
}

func (r *RouteRepo) List(ctx context.Context, offset, limit int) ([]*domain.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, points, recorded_at, category, duration_seconds
		FROM routes ORDER BY recorded_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoutes(rows)
}

func (r *RouteRepo) ListAll(ctx context.Context) ([]*domain.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, points, recorded_at, category, duration_seconds
		FROM routes ORDER BY recorded_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoutes(rows)
}

func (r *RouteRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM routes`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var (
		route   domain.Route
		points  []byte
		seconds int64
	)
	if err := row.Scan(&route.ID, &points, &route.RecordedAt, &route.Category, &seconds); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(points, &route.Points); err != nil {
		return nil, fmt.Errorf("decode points for %s: %w", route.ID, err)
	}
	route.Duration = time.Duration(seconds) * time.Second
	return &route, nil
}

func collectRoutes(rows pgx.Rows) ([]*domain.Route, error) {
	var routes []*domain.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}
