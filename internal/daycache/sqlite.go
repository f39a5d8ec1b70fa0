package daycache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLedger persists the fetched-day ledger so a long historical
// backfill can resume after a restart without re-querying finished days.
// Only the ledger persists; cache entries themselves stay in memory.
type SQLiteLedger struct {
	db *sql.DB
}

// OpenSQLiteLedger opens (or creates) the ledger database at dir/ledger.db.
func OpenSQLiteLedger(dir string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "ledger.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS fetched_days (
		day        TEXT PRIMARY KEY,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger table: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// Mark records that a day completed a fetch. Re-marking is harmless.
func (l *SQLiteLedger) Mark(day time.Time) error {
	_, err := l.db.Exec(
		`INSERT OR REPLACE INTO fetched_days (day) VALUES (?)`,
		day.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("marking day fetched: %w", err)
	}
	return nil
}

// Has checks whether a day has completed a fetch.
func (l *SQLiteLedger) Has(day time.Time) (bool, error) {
	var count int
	err := l.db.QueryRow(
		`SELECT COUNT(*) FROM fetched_days WHERE day = ?`,
		day.Format("2006-01-02"),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking day fetched: %w", err)
	}
	return count > 0, nil
}

// Close closes the ledger database.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
