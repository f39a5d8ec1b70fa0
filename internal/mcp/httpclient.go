package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/healthboard/internal/daycache"
)

// HTTPClient implements DataSource by calling the Healthboard REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	loc        *time.Location
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The
// location must match the server's configured day-boundary zone.
func NewHTTPClient(baseURL string, loc *time.Location) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		loc:        loc,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// FetchDay retrieves one day through the server's fetch path.
func (c *HTTPClient) FetchDay(ctx context.Context, t time.Time) (*daycache.Entry, error) {
	date := daycache.DayKey(t, c.loc).Format("2006-01-02")

	body, err := c.get(ctx, "/api/v1/day/"+date, nil)
	if err != nil {
		return nil, err
	}

	var entry daycache.Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("httpclient: decode day entry: %w", err)
	}
	return &entry, nil
}

// CachedRange retrieves the server's cached entries in [start, end).
func (c *HTTPClient) CachedRange(ctx context.Context, start, end time.Time) ([]*daycache.Entry, error) {
	params := url.Values{}
	params.Set("start", daycache.DayKey(start, c.loc).Format("2006-01-02"))
	// The REST endpoint treats end as inclusive; step back one day from the
	// exclusive bound.
	params.Set("end", daycache.DayKey(end, c.loc).AddDate(0, 0, -1).Format("2006-01-02"))

	body, err := c.get(ctx, "/api/v1/days", params)
	if err != nil {
		return nil, err
	}

	var entries []*daycache.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode day entries: %w", err)
	}
	return entries, nil
}
