package daycache

import "time"

// Ledger records which calendar days have completed at least one fetch.
// A ledgered day is never re-fetched, with the sole exception of the
// current day, which callers always treat as stale.
type Ledger interface {
	Mark(day time.Time) error
	Has(day time.Time) (bool, error)
	Close() error
}

// MemoryLedger is the process-lifetime ledger used by the server, matching
// the cache's own lifetime.
type MemoryLedger struct {
	days map[int64]bool
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{days: make(map[int64]bool)}
}

func (l *MemoryLedger) Mark(day time.Time) error {
	l.days[day.Unix()] = true
	return nil
}

func (l *MemoryLedger) Has(day time.Time) (bool, error) {
	return l.days[day.Unix()], nil
}

func (l *MemoryLedger) Close() error { return nil }
