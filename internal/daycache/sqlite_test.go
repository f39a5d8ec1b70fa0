package daycache

import (
	"testing"
	"time"
)

// TestSQLiteLedgerRoundTrip verifies marking and re-opening: the ledger
// survives a close/reopen cycle, which is its whole reason to exist.
func TestSQLiteLedgerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	l, err := OpenSQLiteLedger(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if has, err := l.Has(d); err != nil || has {
		t.Fatalf("Has before mark = %v, %v; want false, nil", has, err)
	}
	if err := l.Mark(d); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := l.Mark(d); err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSQLiteLedger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if has, err := reopened.Has(d); err != nil || !has {
		t.Errorf("Has after reopen = %v, %v; want true, nil", has, err)
	}
	if has, err := reopened.Has(d.AddDate(0, 0, 1)); err != nil || has {
		t.Errorf("Has(next day) = %v, %v; want false, nil", has, err)
	}
}
