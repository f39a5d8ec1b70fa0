// Package healthstore defines the health-data access interface the rest of
// the service reads through, plus its Postgres implementation.
package healthstore

import (
	"context"
	"time"

	"github.com/claude/healthboard/internal/models"
)

// Store is the read-only contract against the backing health-data store.
//
// Failure semantics matter more than the method set: "no data" and "not
// authorized" are both ordinary empty results, never errors. Callers
// contain genuine query errors at the single metric or stream they affect.
type Store interface {
	// QueryStatistic aggregates a metric over [start, end). ok=false means
	// no samples existed in the window; day-level callers treat that as 0,
	// workout-scoped callers treat it as absent.
	QueryStatistic(ctx context.Context, metric models.MetricKind, agg models.Aggregation, start, end time.Time) (value float64, ok bool, err error)

	// QuerySamples returns raw observations for a metric, sorted by end
	// time descending, unbounded count.
	QuerySamples(ctx context.Context, metric models.MetricKind, start, end time.Time) ([]models.Observation, error)

	// QuerySleepSamples returns sleep-stage observations (StageCode set)
	// overlapping the window.
	QuerySleepSamples(ctx context.Context, start, end time.Time) ([]models.Observation, error)

	// QueryWorkouts returns partial workout records starting in the window.
	QueryWorkouts(ctx context.Context, start, end time.Time) ([]models.WorkoutRecord, error)

	// RequestAuthorization asks for read access to the given kinds. It is
	// idempotent. A failure is reported as an error for logging, but
	// consumers must behave as if every query simply returns no data.
	RequestAuthorization(ctx context.Context, kinds []models.MetricKind) error
}
