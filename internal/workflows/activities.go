package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/jgoikoetxea/mileatlas/internal/core/ports"
	"github.com/jgoikoetxea/mileatlas/internal/core/usecases"
)

// AggregationActivities holds the activity implementations for the
// aggregation workflow.
type AggregationActivities struct {
	Stats  *usecases.StatsService
	Routes ports.RouteRepository
}

// CountRoutes returns the number of stored routes.
func (a *AggregationActivities) CountRoutes(ctx context.Context) (int, error) {
	n, err := a.Routes.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count routes: %w", err)
	}
	return n, nil
}

// RunAggregation executes a full aggregation run and blocks until the
// final snapshot arrives, heartbeating progress so Temporal can tell a
// slow run from a stuck one.
func (a *AggregationActivities) RunAggregation(ctx context.Context) (RunSummary, error) {
	routes, err := a.Routes.ListAll(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("load routes: %w", err)
	}

	ch := a.Stats.Run(ctx, routes)

	var final *RunSummary
	for snap := range ch {
		activity.RecordHeartbeat(ctx, snap.Processed)
		if snap.Done {
			final = &RunSummary{
				TotalKm:       snap.TotalKm,
				Processed:     snap.Processed,
				Discarded:     len(routes) - snap.Total,
				UniqueCoords:  snap.UniqueCoords,
				GeocodedCount: snap.GeocodedCount,
				Countries:     len(snap.Countries),
				Cities:        len(snap.Cities),
			}
		}
	}
	if final == nil {
		// The stream closed without a final snapshot: a newer run
		// superseded this one.
		return RunSummary{}, fmt.Errorf("aggregation run superseded before completion")
	}
	return *final, nil
}
