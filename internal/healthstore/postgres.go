package healthstore

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/healthboard/internal/models"
)

// PG implements Store against a Postgres health database populated by an
// external exporter.
type PG struct {
	Pool *pgxpool.Pool
}

// Compile-time check: *PG satisfies Store.
var _ Store = (*PG)(nil)

// NewPG creates a PG store with a connection pool.
func NewPG(ctx context.Context, dsn string) (*PG, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PG{Pool: pool}, nil
}

// Close closes the connection pool.
func (pg *PG) Close() {
	pg.Pool.Close()
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// QueryStatistic aggregates a metric's samples over [start, end).
func (pg *PG) QueryStatistic(ctx context.Context, metric models.MetricKind, agg models.Aggregation, start, end time.Time) (float64, bool, error) {
	aggExpr := "SUM(qty)"
	if agg == models.AggregationAverage {
		aggExpr = "AVG(qty)"
	}

	var value *float64
	var count int64
	err := pg.Pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s, COUNT(*)
		 FROM health_samples
		 WHERE metric_name = $1 AND start_time >= $2 AND start_time < $3`, aggExpr),
		metric.Name(), start, end).Scan(&value, &count)
	if err != nil {
		return 0, false, fmt.Errorf("querying %s statistic: %w", metric.Name(), err)
	}
	if count == 0 || value == nil {
		return 0, false, nil
	}
	return *value, true, nil
}

// QuerySamples returns a metric's raw observations, end time descending.
func (pg *PG) QuerySamples(ctx context.Context, metric models.MetricKind, start, end time.Time) ([]models.Observation, error) {
	rows, err := pg.Pool.Query(ctx,
		`SELECT start_time, end_time, source, device, qty
		 FROM health_samples
		 WHERE metric_name = $1 AND start_time >= $2 AND start_time < $3
		 ORDER BY end_time DESC`,
		metric.Name(), start, end)
	if err != nil {
		return nil, fmt.Errorf("querying %s samples: %w", metric.Name(), err)
	}
	defer rows.Close()

	var result []models.Observation
	for rows.Next() {
		var o models.Observation
		var device string
		if err := rows.Scan(&o.Start, &o.End, &o.Source, &device, &o.Value); err != nil {
			return nil, fmt.Errorf("scanning %s sample: %w", metric.Name(), err)
		}
		o.Device = models.ParseDeviceKind(device)
		result = append(result, o)
	}
	return result, rows.Err()
}

// QuerySleepSamples returns sleep-stage observations overlapping the window.
func (pg *PG) QuerySleepSamples(ctx context.Context, start, end time.Time) ([]models.Observation, error) {
	rows, err := pg.Pool.Query(ctx,
		`SELECT start_time, end_time, stage, source, device
		 FROM sleep_samples
		 WHERE end_time > $1 AND start_time < $2
		 ORDER BY start_time ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sleep samples: %w", err)
	}
	defer rows.Close()

	var result []models.Observation
	for rows.Next() {
		var o models.Observation
		var device string
		if err := rows.Scan(&o.Start, &o.End, &o.StageCode, &o.Source, &device); err != nil {
			return nil, fmt.Errorf("scanning sleep sample: %w", err)
		}
		o.Device = models.ParseDeviceKind(device)
		o.Value = o.End.Sub(o.Start).Seconds()
		result = append(result, o)
	}
	return result, rows.Err()
}

// QueryWorkouts returns partial workout records starting in the window.
// Derived fields are left nil for the aggregator's fill-in pass.
func (pg *PG) QueryWorkouts(ctx context.Context, start, end time.Time) ([]models.WorkoutRecord, error) {
	rows, err := pg.Pool.Query(ctx,
		`SELECT id, activity, start_time, end_time, duration_sec, source, device,
		        total_energy_kcal, total_distance_m, elevation_ascended_m
		 FROM workouts
		 WHERE start_time >= $1 AND start_time < $2
		 ORDER BY start_time ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRecord
	for rows.Next() {
		var w models.WorkoutRecord
		var activity, device string
		if err := rows.Scan(&w.ID, &activity, &w.Start, &w.End, &w.DurationSec,
			&w.Source, &device,
			&w.TotalEnergyKcal, &w.TotalDistanceMeters, &w.ElevationAscendedMeters); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		w.Activity, _ = models.ParseActivityType(activity)
		w.Device = models.ParseDeviceKind(device)
		result = append(result, w)
	}
	return result, rows.Err()
}

// RequestAuthorization verifies the database is reachable. The metric kinds
// are accepted for interface compatibility; Postgres grants are all or
// nothing here.
func (pg *PG) RequestAuthorization(ctx context.Context, _ []models.MetricKind) error {
	if err := pg.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("authorizing health store access: %w", err)
	}
	return nil
}
