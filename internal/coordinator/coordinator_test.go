package coordinator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/healthboard/internal/daycache"
	"github.com/claude/healthboard/internal/models"
)

// fakeStore serves canned data and counts queries so tests can assert on
// fetch-vs-cache behavior.
type fakeStore struct {
	mu       sync.Mutex
	queries  int
	stats    map[models.MetricKind]float64
	statErr  map[models.MetricKind]error
	samples  map[models.MetricKind][]models.Observation
	sleepObs []models.Observation
	workouts []models.WorkoutRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stats:   make(map[models.MetricKind]float64),
		statErr: make(map[models.MetricKind]error),
		samples: make(map[models.MetricKind][]models.Observation),
	}
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func (f *fakeStore) QueryStatistic(_ context.Context, metric models.MetricKind, _ models.Aggregation, _, _ time.Time) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if err := f.statErr[metric]; err != nil {
		return 0, false, err
	}
	v, ok := f.stats[metric]
	return v, ok, nil
}

func (f *fakeStore) QuerySamples(_ context.Context, metric models.MetricKind, _, _ time.Time) ([]models.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	return f.samples[metric], nil
}

func (f *fakeStore) QuerySleepSamples(_ context.Context, _, _ time.Time) ([]models.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	return f.sleepObs, nil
}

func (f *fakeStore) QueryWorkouts(_ context.Context, _, _ time.Time) ([]models.WorkoutRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	return f.workouts, nil
}

func (f *fakeStore) RequestAuthorization(_ context.Context, _ []models.MetricKind) error {
	return nil
}

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestCoordinator(t *testing.T, store *fakeStore, cache *daycache.Cache) (*Coordinator, context.Context) {
	t.Helper()
	if cache == nil {
		cache = daycache.New(daycache.NewMemoryLedger())
	}
	c := New(store, cache, Config{
		Loc:                 time.UTC,
		TrustedSleepSources: []string{"Watch"},
		Now:                 func() time.Time { return testNow },
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)
	return c, ctx
}

// TestFetchDayCachesPastDays verifies that a completed non-today day is
// served from cache on repeat requests without touching the store.
func TestFetchDayCachesPastDays(t *testing.T) {
	store := newFakeStore()
	store.stats[models.MetricStepCount] = 8000
	c, ctx := newTestCoordinator(t, store, nil)

	yesterday := testNow.AddDate(0, 0, -1)
	first, err := c.FetchDay(ctx, yesterday)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.Metrics[models.MetricStepCount] != 8000 {
		t.Errorf("steps = %v, want 8000", first.Metrics[models.MetricStepCount])
	}

	after := store.count()
	second, err := c.FetchDay(ctx, yesterday)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if store.count() != after {
		t.Errorf("second fetch issued %d store queries, want 0", store.count()-after)
	}
	if second != first {
		t.Error("second fetch did not return the cached entry")
	}
}

// TestFetchDayAlwaysRefetchesToday verifies that today bypasses the cache:
// it can still accumulate samples intraday.
func TestFetchDayAlwaysRefetchesToday(t *testing.T) {
	store := newFakeStore()
	c, ctx := newTestCoordinator(t, store, nil)

	if _, err := c.FetchDay(ctx, testNow); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	after := store.count()
	if _, err := c.FetchDay(ctx, testNow); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if store.count() == after {
		t.Error("second fetch of today issued no store queries, want a full refetch")
	}
}

// TestMetricErrorDegradesToZero verifies that one failing metric records
// zero while the rest of the day completes normally.
func TestMetricErrorDegradesToZero(t *testing.T) {
	store := newFakeStore()
	store.stats[models.MetricActiveEnergy] = 420
	store.statErr[models.MetricStepCount] = context.DeadlineExceeded
	c, ctx := newTestCoordinator(t, store, nil)

	entry, err := c.FetchDay(ctx, testNow.AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if v, ok := entry.Metrics[models.MetricStepCount]; !ok || v != 0 {
		t.Errorf("Metrics[step_count] = %v, %v; want 0 recorded", v, ok)
	}
	if entry.Metrics[models.MetricActiveEnergy] != 420 {
		t.Errorf("Metrics[active_energy] = %v, want 420", entry.Metrics[models.MetricActiveEnergy])
	}
}

// TestFetchDaySegmentsSleep verifies the sleep pipeline end to end: trusted
// stage observations around the day come back as a summarized session.
func TestFetchDaySegmentsSleep(t *testing.T) {
	store := newFakeStore()
	night := time.Date(2025, 3, 11, 23, 0, 0, 0, time.UTC)
	store.sleepObs = []models.Observation{
		{Start: night, End: night.Add(30 * time.Minute), StageCode: "Core", Source: "Watch"},
		{Start: night.Add(30 * time.Minute), End: night.Add(50 * time.Minute), StageCode: "REM", Source: "Watch"},
		{Start: night, End: night.Add(8 * time.Hour), StageCode: "Asleep", Source: "Untrusted Phone App"},
	}
	c, ctx := newTestCoordinator(t, store, nil)

	entry, err := c.FetchDay(ctx, time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if entry.Sleep.TotalSleepSeconds != 3000 {
		t.Errorf("total sleep = %v, want 3000 (trusted Core+REM only)",
			entry.Sleep.TotalSleepSeconds)
	}
}

// TestWorkoutHeartRateFallback verifies that when the store has no scoped
// heart-rate statistic for a workout, the average is correlated from the
// day's raw samples instead.
func TestWorkoutHeartRateFallback(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)
	dist := 1609.34
	store.workouts = []models.WorkoutRecord{{
		ID:                  uuid.New(),
		Activity:            models.ActivityRunning,
		Start:               start,
		End:                 start.Add(10 * time.Minute),
		DurationSec:         600,
		TotalDistanceMeters: &dist,
	}}
	store.samples[models.MetricHeartRate] = []models.Observation{
		{Value: 120, Start: start.Add(2 * time.Minute), End: start.Add(2 * time.Minute)},
		{Value: 140, Start: start.Add(5 * time.Minute), End: start.Add(5 * time.Minute)},
	}
	c, ctx := newTestCoordinator(t, store, nil)

	entry, err := c.FetchDay(ctx, start)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entry.Workouts) != 1 {
		t.Fatalf("got %d workouts, want 1", len(entry.Workouts))
	}

	w := entry.Workouts[0]
	if w.AvgHeartRateBPM == nil || *w.AvgHeartRateBPM != 130 {
		t.Errorf("AvgHeartRateBPM = %v, want 130 from sample fallback", w.AvgHeartRateBPM)
	}
	if w.AvgPaceSecPerMeter == nil {
		t.Error("AvgPaceSecPerMeter = nil, want derived from distance")
	}
}

// drainBackground collects background events until n arrive or the timeout
// elapses.
func drainBackground(t *testing.T, events <-chan Event, n int) []Event {
	t.Helper()
	var got []Event
	deadline := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case ev := <-events:
			if ev.Intent == IntentBackground {
				got = append(got, ev)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for background events: got %d, want %d", len(got), n)
		}
	}
	return got
}

// TestBackfillSkipsLedgeredDays verifies that the backfill walks the
// historical window fetching only unledgered days.
func TestBackfillSkipsLedgeredDays(t *testing.T) {
	store := newFakeStore()
	cache := daycache.New(daycache.NewMemoryLedger())

	// Three days already fetched in a previous run.
	today := daycache.DayKey(testNow, time.UTC)
	for i := 1; i <= 3; i++ {
		d := today.AddDate(0, 0, -i)
		if err := cache.Put(d, &daycache.Entry{Day: d}); err != nil {
			t.Fatalf("seeding cache: %v", err)
		}
	}

	c, ctx := newTestCoordinator(t, store, cache)
	if err := c.StartBackfill(ctx); err != nil {
		t.Fatalf("start backfill: %v", err)
	}

	events := drainBackground(t, c.Events(), DefaultBackfillDays-3)
	for _, ev := range events {
		for i := 1; i <= 3; i++ {
			if ev.Day.Equal(today.AddDate(0, 0, -i)) {
				t.Errorf("backfill refetched ledgered day %v", ev.Day)
			}
		}
	}
}

// TestBackfillNeverTouchesDisplayed verifies that background results land
// only in the cache: the foreground projection stays on the selected day.
func TestBackfillNeverTouchesDisplayed(t *testing.T) {
	store := newFakeStore()
	c, ctx := newTestCoordinator(t, store, nil)

	entry, err := c.FetchDay(ctx, testNow)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := c.StartBackfill(ctx); err != nil {
		t.Fatalf("start backfill: %v", err)
	}
	drainBackground(t, c.Events(), DefaultBackfillDays)

	day, displayed, loading, err := c.Displayed(ctx)
	if err != nil {
		t.Fatalf("displayed: %v", err)
	}
	if !day.Equal(daycache.DayKey(testNow, time.UTC)) {
		t.Errorf("displayed day = %v, want today", day)
	}
	if displayed != entry {
		t.Error("background fetch replaced the displayed entry")
	}
	if loading {
		t.Error("loading indicator stuck after fetch completed")
	}
}

// TestCachedRange verifies the range read path after a backfill.
func TestCachedRange(t *testing.T) {
	store := newFakeStore()
	c, ctx := newTestCoordinator(t, store, nil)

	if err := c.StartBackfill(ctx); err != nil {
		t.Fatalf("start backfill: %v", err)
	}
	drainBackground(t, c.Events(), DefaultBackfillDays)

	today := daycache.DayKey(testNow, time.UTC)
	entries, err := c.CachedRange(ctx, today.AddDate(0, 0, -7), today)
	if err != nil {
		t.Fatalf("cached range: %v", err)
	}
	if len(entries) != 7 {
		t.Errorf("got %d entries in the last week, want 7", len(entries))
	}
}
