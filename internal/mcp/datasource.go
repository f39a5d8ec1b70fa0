package mcp

import (
	"context"
	"time"

	"github.com/claude/healthboard/internal/daycache"
)

// DataSource abstracts the data layer for MCP tools. Both the fetch
// coordinator (local) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	// FetchDay returns the complete entry for the day containing t,
	// fetching it if needed.
	FetchDay(ctx context.Context, t time.Time) (*daycache.Entry, error)

	// CachedRange returns already-fetched entries with day keys in
	// [start, end), without triggering fetches.
	CachedRange(ctx context.Context, start, end time.Time) ([]*daycache.Entry, error)
}
