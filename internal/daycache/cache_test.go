package daycache

import (
	"testing"
	"time"

	"github.com/claude/healthboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestDayKey verifies normalization to local midnight across time zones.
func TestDayKey(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			"afternoon utc",
			time.Date(2025, 3, 14, 15, 30, 45, 0, time.UTC),
			time.UTC,
			day(2025, 3, 14),
		},
		{
			"utc evening is next local morning",
			time.Date(2025, 3, 14, 2, 0, 0, 0, time.UTC),
			denver,
			time.Date(2025, 3, 13, 0, 0, 0, 0, denver),
		},
		{
			"already midnight",
			day(2025, 3, 14),
			time.UTC,
			day(2025, 3, 14),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.in, tt.loc); !got.Equal(tt.want) {
				t.Errorf("DayKey(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestCachePutReplacesWhole verifies replace-whole-entry semantics: a second
// Put for the same day discards the first entry entirely.
func TestCachePutReplacesWhole(t *testing.T) {
	c := New(NewMemoryLedger())
	d := day(2025, 3, 14)

	first := &Entry{Day: d, Metrics: map[models.MetricKind]float64{models.MetricStepCount: 1000}}
	second := &Entry{Day: d, Metrics: map[models.MetricKind]float64{models.MetricActiveEnergy: 300}}

	if err := c.Put(d, first); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(d, second); err != nil {
		t.Fatalf("put: %v", err)
	}

	got := c.Get(d)
	if got == nil {
		t.Fatal("expected entry")
	}
	if _, stale := got.Metrics[models.MetricStepCount]; stale {
		t.Error("first entry's metrics leaked into the replacement")
	}
	if got.Metrics[models.MetricActiveEnergy] != 300 {
		t.Errorf("Metrics[active_energy] = %v, want 300", got.Metrics[models.MetricActiveEnergy])
	}
}

// TestCacheHasTracksLedgerNotEntries verifies that Has follows the ledger:
// an empty-but-fetched day reports true, an unfetched day false.
func TestCacheHasTracksLedgerNotEntries(t *testing.T) {
	c := New(NewMemoryLedger())
	fetched := day(2025, 3, 14)
	unfetched := day(2025, 3, 15)

	if err := c.Put(fetched, &Entry{Day: fetched}); err != nil {
		t.Fatalf("put: %v", err)
	}

	if has, _ := c.Has(fetched); !has {
		t.Error("Has(fetched) = false, want true")
	}
	if has, _ := c.Has(unfetched); has {
		t.Error("Has(unfetched) = true, want false")
	}
	if c.Get(unfetched) != nil {
		t.Error("Get(unfetched) should be nil")
	}
}

// TestCacheRange verifies that Range visits only entries inside the window.
func TestCacheRange(t *testing.T) {
	c := New(NewMemoryLedger())
	for d := 10; d <= 14; d++ {
		dd := day(2025, 3, d)
		if err := c.Put(dd, &Entry{Day: dd}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	var visited int
	c.Range(day(2025, 3, 11), day(2025, 3, 14), func(e *Entry) { visited++ })
	if visited != 3 {
		t.Errorf("visited %d entries, want 3 (11th through 13th)", visited)
	}
}
