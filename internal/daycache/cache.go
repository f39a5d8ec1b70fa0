// Package daycache holds per-calendar-day fetch results and the ledger of
// which days have completed a fetch.
package daycache

import (
	"time"

	"github.com/claude/healthboard/internal/models"
)

// RawSamples are the per-day observation streams kept for charting.
type RawSamples struct {
	HeartRate []models.Observation `json:"heart_rate"`
	Steps     []models.Observation `json:"steps"`
	HRV       []models.Observation `json:"hrv"`
}

// Entry is one calendar day's aggregate: whole-day metric totals, the
// reconstructed sleep summary, enriched workouts, and raw samples. Entries
// are replaced whole on write, never field-merged.
type Entry struct {
	Day      time.Time                     `json:"day"`
	Metrics  map[models.MetricKind]float64 `json:"metrics"`
	Sleep    models.SleepSummary           `json:"sleep"`
	Workouts []models.WorkoutRecord        `json:"workouts"`
	Samples  RawSamples                    `json:"samples"`
}

// DayKey normalizes an instant to its local midnight, the canonical cache
// key for the calendar day containing it.
func DayKey(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Cache is the in-memory per-day store. It is not safe for concurrent use
// on its own: the fetch coordinator is its single owner and linearizes all
// access. Entries live for the process lifetime; there is no eviction.
type Cache struct {
	entries map[int64]*Entry
	ledger  Ledger
}

// New creates an empty cache coupled to the given ledger.
func New(ledger Ledger) *Cache {
	return &Cache{entries: make(map[int64]*Entry), ledger: ledger}
}

// Get returns the entry for a day key, or nil when the day was never
// fetched (or fetched empty before the process restarted).
func (c *Cache) Get(day time.Time) *Entry {
	return c.entries[day.Unix()]
}

// Put overwrites the day's entry in full and records the day in the
// ledger. Partial updates are not supported by design.
func (c *Cache) Put(day time.Time, e *Entry) error {
	c.entries[day.Unix()] = e
	return c.ledger.Mark(day)
}

// Has reports whether the day has completed at least one fetch, per the
// ledger. This can be true even when Get returns nil: an all-empty day
// still counts as fetched.
func (c *Cache) Has(day time.Time) (bool, error) {
	return c.ledger.Has(day)
}

// Range calls fn for each cached entry with a key in [start, end), in no
// particular order.
func (c *Cache) Range(start, end time.Time, fn func(*Entry)) {
	for key, e := range c.entries {
		if key >= start.Unix() && key < end.Unix() {
			fn(e)
		}
	}
}
