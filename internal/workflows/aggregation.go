package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TaskQueue is the Temporal task queue the aggregation worker listens on.
const TaskQueue = "mileatlas-aggregation"

// AggregationInput is the input for the scheduled aggregation workflow.
type AggregationInput struct {
	RequestedBy string // "schedule" | "api" | "cli"
}

// RunSummary is returned by the aggregation activity when a run finishes.
type RunSummary struct {
	TotalKm       float64
	Processed     int
	Discarded     int
	UniqueCoords  int
	GeocodedCount int
	Countries     int
	Cities        int
}

// AggregationWorkflow runs a full mileage aggregation over all stored routes.
// The heavy lifting happens in a single long activity; a short counting
// activity up front lets the workflow skip empty databases cheaply.
func AggregationWorkflow(ctx workflow.Context, input AggregationInput) (RunSummary, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting aggregation workflow", "requestedBy", input.RequestedBy)

	countOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}

	// Step 1: Count stored routes
	var total int
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, countOpts),
		"CountRoutes",
	).Get(ctx, &total)
	if err != nil {
		return RunSummary{}, err
	}
	if total == 0 {
		logger.Info("No routes stored, skipping aggregation")
		return RunSummary{}, nil
	}

	// Step 2: Run the aggregation. Geocoding a large backlog can take a
	// while, so the timeout is generous and progress is heartbeated.
	runOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	}

	var summary RunSummary
	err = workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, runOpts),
		"RunAggregation",
	).Get(ctx, &summary)
	if err != nil {
		return RunSummary{}, err
	}

	logger.Info("Aggregation finished",
		"totalKm", summary.TotalKm,
		"processed", summary.Processed,
		"countries", summary.Countries,
		"cities", summary.Cities)
	return summary, nil
}
