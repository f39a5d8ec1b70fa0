// Package coordinator decides which calendar days need fetching, runs the
// historical backfill, and owns all mutable fetch state.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/healthboard/internal/daycache"
	"github.com/claude/healthboard/internal/healthstore"
	"github.com/claude/healthboard/internal/models"
	"github.com/claude/healthboard/internal/sleep"
	"github.com/claude/healthboard/internal/workout"
)

// DefaultBackfillDays is the historical window walked by a backfill: the
// days preceding today.
const DefaultBackfillDays = 29

// ErrStopped is returned for requests made after the coordinator shut down.
var ErrStopped = errors.New("coordinator stopped")

// Intent tags a fetch with who asked for it. Foreground fetches drive the
// displayed projection; background fetches only ever land in the cache.
type Intent int

const (
	IntentForeground Intent = iota
	IntentBackground
)

func (i Intent) String() string {
	if i == IntentBackground {
		return "background"
	}
	return "foreground"
}

// Event announces that a day's entry was applied to the cache. Consumers
// interested in the visible day filter on Day themselves.
type Event struct {
	Day    time.Time
	Entry  *daycache.Entry
	Intent Intent
}

// Config carries the coordinator's policy knobs.
type Config struct {
	// Loc is the calendar time zone for day boundaries. Defaults to UTC.
	Loc *time.Location

	// BackfillDays overrides DefaultBackfillDays when positive.
	BackfillDays int

	// TrustedSleepSources, SessionGap, and Stages configure the sleep
	// segmenter; see the sleep package.
	TrustedSleepSources []string
	SessionGap          time.Duration
	Stages              models.StageMapping

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Coordinator is the single owner of the day cache, the fetch ledger, and
// the displayed-day projection. All mutation is linearized through its Run
// goroutine; fetches run as independent goroutines that suspend on the
// store and hand results back to the owner for application.
type Coordinator struct {
	store        healthstore.Store
	cache        *daycache.Cache
	seg          *sleep.Segmenter
	log          *slog.Logger
	loc          *time.Location
	backfillDays int
	now          func() time.Time

	cmds    chan func()
	stopped chan struct{}
	events  chan Event

	// Owner-goroutine state. Touched only from Run.
	displayedDay   time.Time
	displayed      *daycache.Entry
	loadingDay     time.Time
	seq            uint64
	lastRequested  map[int64]uint64
	backfillActive bool
}

// New creates a Coordinator. Call Run before issuing requests.
func New(store healthstore.Store, cache *daycache.Cache, cfg Config, log *slog.Logger) *Coordinator {
	loc := cfg.Loc
	if loc == nil {
		loc = time.UTC
	}
	days := cfg.BackfillDays
	if days <= 0 {
		days = DefaultBackfillDays
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		store: store,
		cache: cache,
		seg: sleep.NewSegmenter(sleep.Config{
			TrustedSources: cfg.TrustedSleepSources,
			SessionGap:     cfg.SessionGap,
			Stages:         cfg.Stages,
		}),
		log:           log,
		loc:           loc,
		backfillDays:  days,
		now:           now,
		cmds:          make(chan func(), 64),
		stopped:       make(chan struct{}),
		events:        make(chan Event, 64),
		lastRequested: make(map[int64]uint64),
	}
}

// Run processes owner commands until ctx is canceled. It must run exactly
// once, typically as `go coord.Run(ctx)`.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.cmds:
			fn()
		}
	}
}

// Events returns the day-updated stream. The channel is buffered and
// best-effort: a slow consumer drops events rather than stalling writes.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// do runs fn on the owner goroutine.
func (c *Coordinator) do(ctx context.Context, fn func()) error {
	select {
	case c.cmds <- fn:
		return nil
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// today returns the current day key.
func (c *Coordinator) today() time.Time {
	return daycache.DayKey(c.now(), c.loc)
}

// FetchDay serves a foreground request for the day containing t. A
// ledgered non-today day replays from cache without touching the store;
// today is always re-fetched because it can still accumulate samples
// intraday. The displayed projection and loading indicator follow the
// request. Blocks until the entry is available.
func (c *Coordinator) FetchDay(ctx context.Context, t time.Time) (*daycache.Entry, error) {
	day := daycache.DayKey(t, c.loc)

	type decision struct {
		cached *daycache.Entry
		seq    uint64
	}
	decided := make(chan decision, 1)
	err := c.do(ctx, func() {
		if !day.Equal(c.today()) {
			if has, err := c.cache.Has(day); err == nil && has {
				// The ledger can outlive the process; an entry missing
				// from memory falls through to a refetch.
				if entry := c.cache.Get(day); entry != nil {
					c.displayedDay = day
					c.displayed = entry
					decided <- decision{cached: entry}
					return
				}
			} else if err != nil {
				c.log.Warn("ledger lookup failed, refetching", "day", day.Format("2006-01-02"), "error", err)
			}
		}
		c.seq++
		c.lastRequested[day.Unix()] = c.seq
		c.loadingDay = day
		c.displayedDay = day
		decided <- decision{seq: c.seq}
	})
	if err != nil {
		return nil, err
	}

	var dec decision
	select {
	case dec = <-decided:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if dec.seq == 0 {
		return dec.cached, nil
	}

	entry := c.fetchDayData(ctx, day)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	applied := make(chan *daycache.Entry, 1)
	err = c.do(ctx, func() {
		applied <- c.apply(day, entry, IntentForeground, dec.seq)
	})
	if err != nil {
		return nil, err
	}
	select {
	case e := <-applied:
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// StartBackfill walks the historical window (the days preceding today)
// oldest-last, fetching each unledgered day sequentially in the
// background. Call once per foreground transition; a backfill already in
// flight makes this a no-op. Returns immediately.
func (c *Coordinator) StartBackfill(ctx context.Context) error {
	return c.do(ctx, func() {
		if c.backfillActive {
			return
		}
		c.backfillActive = true
		go c.runBackfill(ctx)
	})
}

func (c *Coordinator) runBackfill(ctx context.Context) {
	defer func() {
		_ = c.do(ctx, func() { c.backfillActive = false })
	}()

	today := c.today()
	fetched := 0
	for i := 1; i <= c.backfillDays; i++ {
		if ctx.Err() != nil {
			return
		}
		day := today.AddDate(0, 0, -i)

		type decision struct {
			skip bool
			seq  uint64
		}
		decided := make(chan decision, 1)
		err := c.do(ctx, func() {
			if has, err := c.cache.Has(day); err == nil && has {
				decided <- decision{skip: true}
				return
			}
			c.seq++
			c.lastRequested[day.Unix()] = c.seq
			decided <- decision{seq: c.seq}
		})
		if err != nil {
			return
		}
		dec := <-decided
		if dec.skip {
			continue
		}

		entry := c.fetchDayData(ctx, day)
		err = c.do(ctx, func() {
			c.apply(day, entry, IntentBackground, dec.seq)
		})
		if err != nil {
			return
		}
		fetched++
	}
	c.log.Info("backfill complete", "window_days", c.backfillDays, "fetched", fetched)
}

// apply writes a completed fetch. Last-requested-wins: a result whose
// request predates a newer request for the same day is discarded, which
// also guarantees a stale background fetch can never clobber a foreground
// fetch the user is viewing. Background results never touch the displayed
// projection. Runs on the owner goroutine.
func (c *Coordinator) apply(day time.Time, entry *daycache.Entry, intent Intent, seq uint64) *daycache.Entry {
	if c.lastRequested[day.Unix()] != seq {
		c.log.Debug("discarding superseded fetch",
			"day", day.Format("2006-01-02"), "intent", intent.String())
		return c.cache.Get(day)
	}

	if err := c.cache.Put(day, entry); err != nil {
		c.log.Warn("ledger write failed", "day", day.Format("2006-01-02"), "error", err)
	}

	if intent == IntentForeground {
		if day.Equal(c.loadingDay) {
			c.loadingDay = time.Time{}
		}
		if day.Equal(c.displayedDay) {
			c.displayed = entry
		}
	}

	select {
	case c.events <- Event{Day: day, Entry: entry, Intent: intent}:
	default:
	}
	return entry
}

// Displayed returns the foreground projection: the selected day, its entry
// (nil while its first fetch is in flight), and whether the loading
// indicator is up for it.
func (c *Coordinator) Displayed(ctx context.Context) (day time.Time, entry *daycache.Entry, loading bool, err error) {
	done := make(chan struct{})
	err = c.do(ctx, func() {
		day = c.displayedDay
		entry = c.displayed
		loading = c.displayedDay.Equal(c.loadingDay) && !c.loadingDay.IsZero()
		close(done)
	})
	if err != nil {
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	return
}

// CachedRange returns the cached entries with day keys in [start, end),
// without fetching. Entries are snapshots owned by the cache; callers must
// not mutate them.
func (c *Coordinator) CachedRange(ctx context.Context, start, end time.Time) ([]*daycache.Entry, error) {
	start = daycache.DayKey(start, c.loc)
	end = daycache.DayKey(end, c.loc)

	var entries []*daycache.Entry
	done := make(chan struct{})
	err := c.do(ctx, func() {
		c.cache.Range(start, end, func(e *daycache.Entry) {
			entries = append(entries, e)
		})
		close(done)
	})
	if err != nil {
		return nil, err
	}
	select {
	case <-done:
		return entries, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetchDayData performs the actual store queries for one day and joins the
// results into a complete entry. Each metric or stream degrades to
// zero/empty on error with a warning; the day always completes.
func (c *Coordinator) fetchDayData(ctx context.Context, day time.Time) *daycache.Entry {
	dayEnd := day.AddDate(0, 0, 1)
	// The night attributed to a day runs from the previous evening into
	// that morning.
	sleepStart := day.Add(-6 * time.Hour)
	sleepEnd := day.Add(18 * time.Hour)

	entry := &daycache.Entry{
		Day:     day,
		Metrics: make(map[models.MetricKind]float64),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, kind := range models.DayMetricKinds() {
		wg.Add(1)
		go func(kind models.MetricKind) {
			defer wg.Done()
			value, ok, err := c.store.QueryStatistic(ctx, kind, kind.DayAggregation(), day, dayEnd)
			if err != nil {
				c.log.Warn("metric query failed, recording zero",
					"day", day.Format("2006-01-02"), "metric", kind.Name(), "error", err)
			}
			mu.Lock()
			if ok && err == nil {
				entry.Metrics[kind] = value
			} else {
				entry.Metrics[kind] = 0
			}
			mu.Unlock()
		}(kind)
	}

	for _, kind := range models.RawSampleKinds() {
		wg.Add(1)
		go func(kind models.MetricKind) {
			defer wg.Done()
			samples, err := c.store.QuerySamples(ctx, kind, day, dayEnd)
			if err != nil {
				c.log.Warn("sample query failed, recording empty",
					"day", day.Format("2006-01-02"), "metric", kind.Name(), "error", err)
				return
			}
			mu.Lock()
			switch kind {
			case models.MetricHeartRate:
				entry.Samples.HeartRate = samples
			case models.MetricStepCount:
				entry.Samples.Steps = samples
			case models.MetricHeartRateVariability:
				entry.Samples.HRV = samples
			}
			mu.Unlock()
		}(kind)
	}

	var sleepObs []models.Observation
	wg.Add(1)
	go func() {
		defer wg.Done()
		obs, err := c.store.QuerySleepSamples(ctx, sleepStart, sleepEnd)
		if err != nil {
			c.log.Warn("sleep query failed, recording empty",
				"day", day.Format("2006-01-02"), "error", err)
			return
		}
		mu.Lock()
		sleepObs = obs
		mu.Unlock()
	}()

	var workouts []models.WorkoutRecord
	wg.Add(1)
	go func() {
		defer wg.Done()
		found, err := c.store.QueryWorkouts(ctx, day, dayEnd)
		if err != nil {
			c.log.Warn("workout query failed, recording empty",
				"day", day.Format("2006-01-02"), "error", err)
			return
		}
		mu.Lock()
		workouts = found
		mu.Unlock()
	}()

	wg.Wait()

	entry.Sleep = c.seg.Segment(sleepObs)

	// Enrichment runs after the join so the heart-rate fallback can reuse
	// the day's raw samples.
	hr := make([]models.Observation, len(entry.Samples.HeartRate))
	copy(hr, entry.Samples.HeartRate)
	workout.SortSamplesAscending(hr)

	for i := range workouts {
		w := &workouts[i]
		workout.Enrich(w, c.workoutStatFunc(ctx, w, hr))
	}
	entry.Workouts = workouts

	return entry
}

// workoutStatFunc builds the per-workout statistic callback. It queries the
// store scoped to the workout's extent; for heart rate it falls back to
// correlating the day's raw samples when the store has no scoped result.
// Query errors degrade to absent.
func (c *Coordinator) workoutStatFunc(ctx context.Context, w *models.WorkoutRecord, hrAscending []models.Observation) workout.StatFunc {
	return func(metric models.MetricKind, agg models.Aggregation) (float64, bool) {
		value, ok, err := c.store.QueryStatistic(ctx, metric, agg, w.Start, w.End)
		if err != nil {
			c.log.Warn("workout statistic failed, treating as absent",
				"workout", w.ID.String(), "metric", metric.Name(), "error", err)
			return 0, false
		}
		if !ok && metric == models.MetricHeartRate && agg == models.AggregationAverage {
			return workout.AverageHeartRate(hrAscending, w.Start, w.End)
		}
		return value, ok
	}
}
