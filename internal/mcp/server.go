// Package mcp exposes the day dashboard to model-context-protocol clients.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, loc *time.Location, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Healthboard", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Healthboard day dashboard. Query per-day health summaries: metric totals, reconstructed sleep sessions, and enriched workouts. Dates are calendar days in the service time zone."),
	)

	h := &handlers{ds: ds, loc: loc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetDaySummary, Handler: h.getDaySummary},
		server.ServerTool{Tool: toolGetSleep, Handler: h.getSleep},
		server.ServerTool{Tool: toolGetSleepTrends, Handler: h.getSleepTrends},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetVisibleMetrics, Handler: h.getVisibleMetrics},
		server.ServerTool{Tool: toolListMetrics, Handler: h.listMetrics},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.todaySummary},
		server.ServerResource{Resource: resMetricCatalog, Handler: h.metricCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	loc *time.Location
	log *slog.Logger
}

// --- Resource definitions ---

var resToday = mcp.NewResource(
	"healthboard://today",
	"Today",
	mcp.WithResourceDescription("Today's complete day entry: metric totals, reconstructed sleep, and enriched workouts"),
	mcp.WithMIMEType("application/json"),
)

var resMetricCatalog = mcp.NewResource(
	"healthboard://metric_catalog",
	"Metric Catalog",
	mcp.WithResourceDescription("All tracked health metrics with units and day-total aggregation"),
	mcp.WithMIMEType("application/json"),
)
