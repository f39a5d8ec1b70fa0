package mcp

import (
	"context"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/healthboard/internal/models"
	"github.com/claude/healthboard/internal/sleep"
	"github.com/claude/healthboard/internal/workout"
)

// dateRange parses start/end date strings in the service zone, defaulting
// to the last 7 days. The end date is inclusive: it advances one day to
// form the exclusive bound.
func (h *handlers) dateRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = time.ParseInLocation("2006-01-02", endStr, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = end.AddDate(0, 0, 1)
	} else {
		now := time.Now().In(h.loc)
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc).AddDate(0, 0, 1)
	}

	if startStr != "" {
		start, err = time.ParseInLocation("2006-01-02", startStr, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -8)
	}

	return start, end, nil
}

// --- Tool definitions ---

var toolGetDaySummary = mcp.NewTool("get_day_summary",
	mcp.WithDescription("Get one calendar day's complete summary: metric totals (steps, energy, exercise minutes, stand hours, flights, distance, resting heart rate), the reconstructed sleep session, and enriched workouts. Fetches the day if it is not cached yet."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date (YYYY-MM-DD)")),
)

var toolGetSleep = mcp.NewTool("get_sleep",
	mcp.WithDescription("Retrieve reconstructed nightly sleep sessions for a date range. Each night has window bounds, stage intervals (awake/REM/core/deep), and total sleep seconds. Nights without data are omitted."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date, inclusive (YYYY-MM-DD). Defaults to today.")),
)

var toolGetSleepTrends = mcp.NewTool("get_sleep_trends",
	mcp.WithDescription("Aggregated sleep stats over a date range: average total/REM/core/deep hours, average bedtime and waketime (circular mean, so nights spanning midnight average correctly), and bedtime/waketime consistency."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date, inclusive. Defaults to today.")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query workouts with optional activity type filter. Returns enriched records including average heart rate, active energy, and the per-activity display metrics (pace, power, cadence, elevation gain) where applicable."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date, inclusive. Defaults to today.")),
	mcp.WithString("type", mcp.Description("Filter by activity type (e.g. 'Running', 'Cycling', 'Yoga')")),
)

var toolGetVisibleMetrics = mcp.NewTool("get_visible_metrics",
	mcp.WithDescription("List which display metrics (distance, elevation gain, pace, power, cadence) apply to a given workout activity type. Duration and calories always apply."),
	mcp.WithString("activity", mcp.Required(), mcp.Description("Activity type name (e.g. 'Running')")),
)

var toolListMetrics = mcp.NewTool("list_metrics",
	mcp.WithDescription("List all tracked health metrics with their units and how the whole-day total is computed (sum or average)."),
)

// --- Tool handlers ---

func (h *handlers) getDaySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	day, err := time.ParseInLocation("2006-01-02", dateStr, h.loc)
	if err != nil {
		return mcp.NewToolResultError("invalid date format, want YYYY-MM-DD"), nil
	}

	entry, err := h.ds.FetchDay(ctx, day)
	if err != nil {
		h.log.Error("mcp get_day_summary", "error", err)
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entry)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSleep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := h.dateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	entries, err := h.ds.CachedRange(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sleep", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type night struct {
		Day   string              `json:"day"`
		Sleep models.SleepSummary `json:"sleep"`
	}
	nights := []night{}
	for _, e := range entries {
		if e.Sleep.IsEmpty() {
			continue
		}
		nights = append(nights, night{Day: e.Day.Format("2006-01-02"), Sleep: e.Sleep})
	}
	sort.Slice(nights, func(i, j int) bool { return nights[i].Day < nights[j].Day })

	result, err := mcp.NewToolResultJSON(nights)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSleepTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := h.dateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	entries, err := h.ds.CachedRange(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sleep_trends", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	nights := make([]models.SleepSummary, 0, len(entries))
	for _, e := range entries {
		nights = append(nights, e.Sleep)
	}

	result, err := mcp.NewToolResultJSON(sleep.ComputeTrends(nights))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := h.dateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	var filter models.ActivityType
	filtered := false
	if name := req.GetString("type", ""); name != "" {
		filter, filtered = models.ParseActivityType(name)
		if !filtered {
			return mcp.NewToolResultError("unknown activity type: " + name), nil
		}
	}

	entries, err := h.ds.CachedRange(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	workouts := []models.WorkoutRecord{}
	for _, e := range entries {
		for _, w := range e.Workouts {
			if filtered && w.Activity != filter {
				continue
			}
			workouts = append(workouts, w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].Start.Before(workouts[j].Start) })

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVisibleMetrics(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("activity")
	if err != nil {
		return mcp.NewToolResultError("activity parameter is required"), nil
	}
	activity, ok := models.ParseActivityType(name)
	if !ok {
		return mcp.NewToolResultError("unknown activity type: " + name), nil
	}

	visible := workout.VisibleMetrics(activity)
	names := make([]string, 0, len(visible))
	for _, m := range visible {
		names = append(names, m.String())
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"activity": activity.String(),
		"metrics":  names,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(metricCatalogEntries())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
