package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/healthboard/internal/daycache"
	"github.com/claude/healthboard/internal/models"
	"github.com/claude/healthboard/internal/sleep"
)

// handleGetDay serves one calendar day, fetching it if the cache has no
// completed entry. The path date is "2006-01-02" in the service time zone.
func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	day, err := time.ParseInLocation("2006-01-02", dateStr, s.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	entry, err := s.coord.FetchDay(r.Context(), day)
	if err != nil {
		s.log.Error("day fetch failed", "date", dateStr, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleGetDays serves the cached entries in a date range without fetching.
// Days never fetched are simply absent from the response.
func (s *Server) handleGetDays(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entries, err := s.coord.CachedRange(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day.Before(entries[j].Day) })
	writeJSON(w, http.StatusOK, entries)
}

// handleSleepTrends averages the reconstructed nights in a date range.
func (s *Server) handleSleepTrends(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entries, err := s.coord.CachedRange(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	nights := make([]models.SleepSummary, 0, len(entries))
	for _, e := range entries {
		nights = append(nights, e.Sleep)
	}
	writeJSON(w, http.StatusOK, sleep.ComputeTrends(nights))
}

// handleQueryWorkouts lists enriched workouts from the cached range, start
// time ascending, optionally filtered by activity type.
func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var filter models.ActivityType
	filtered := false
	if name := r.URL.Query().Get("type"); name != "" {
		filter, filtered = models.ParseActivityType(name)
		if !filtered {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown activity type"})
			return
		}
	}

	entries, err := s.coord.CachedRange(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	workouts := []models.WorkoutRecord{}
	for _, e := range entries {
		for _, wo := range e.Workouts {
			if filtered && wo.Activity != filter {
				continue
			}
			workouts = append(workouts, wo)
		}
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].Start.Before(workouts[j].Start) })
	writeJSON(w, http.StatusOK, workouts)
}

// handleStartBackfill kicks off the historical backfill. Idempotent while
// one is already running.
func (s *Server) handleStartBackfill(w http.ResponseWriter, r *http.Request) {
	// The backfill outlives this request; it stops with the coordinator.
	if err := s.coord.StartBackfill(context.WithoutCancel(r.Context())); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "backfill started"})
}

// handleStatus reports the foreground projection: the selected day and
// whether its fetch is still in flight.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	day, entry, loading, err := s.coord.Displayed(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := map[string]any{"loading": loading}
	if !day.IsZero() {
		resp["day"] = day.Format("2006-01-02")
	}
	if entry != nil {
		resp["entry"] = entry
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseDateRange reads start/end query params as "2006-01-02" in the
// service time zone. Defaults to the last 7 days; end is exclusive after
// being advanced one day so a date-only end includes that whole day.
func (s *Server) parseDateRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		end = daycache.DayKey(time.Now(), s.loc).AddDate(0, 0, 1)
		start = end.AddDate(0, 0, -8)
		return
	}

	start, err = time.ParseInLocation("2006-01-02", startStr, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = daycache.DayKey(time.Now(), s.loc).AddDate(0, 0, 1)
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = end.AddDate(0, 0, 1)
	}
	return
}
