package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/healthboard/internal/models"
)

func (h *handlers) todaySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entry, err := h.ds.FetchDay(ctx, time.Now().In(h.loc))
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// catalogEntry describes one tracked metric for clients.
type catalogEntry struct {
	Name           string `json:"name"`
	Unit           string `json:"unit"`
	DayAggregation string `json:"day_aggregation"`
	DayTotal       bool   `json:"day_total"`
	RawSamples     bool   `json:"raw_samples"`
}

func metricCatalogEntries() []catalogEntry {
	dayTotals := make(map[models.MetricKind]bool)
	for _, k := range models.DayMetricKinds() {
		dayTotals[k] = true
	}
	rawKinds := make(map[models.MetricKind]bool)
	for _, k := range models.RawSampleKinds() {
		rawKinds[k] = true
	}

	var entries []catalogEntry
	for _, k := range models.AllMetricKinds() {
		entries = append(entries, catalogEntry{
			Name:           k.Name(),
			Unit:           k.Unit(),
			DayAggregation: k.DayAggregation().String(),
			DayTotal:       dayTotals[k],
			RawSamples:     rawKinds[k],
		})
	}
	return entries
}

func (h *handlers) metricCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(metricCatalogEntries())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
