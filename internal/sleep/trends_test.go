package sleep

import (
	"math"
	"testing"
	"time"

	"github.com/claude/healthboard/internal/models"
)

func summaryFor(start time.Time, totalSleepSec int) models.SleepSummary {
	end := start.Add(time.Duration(totalSleepSec) * time.Second)
	return models.SleepSummary{
		WindowStart:       start,
		WindowEnd:         end,
		Core:              []models.SleepInterval{{Stage: models.StageCore, Start: start, End: end, DurationSeconds: totalSleepSec}},
		TotalSleepSeconds: totalSleepSec,
	}
}

// TestComputeTrendsSkipsEmptyNights verifies that absent nights do not drag
// down the averages.
func TestComputeTrendsSkipsEmptyNights(t *testing.T) {
	base := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	trends := ComputeTrends([]models.SleepSummary{
		summaryFor(base, 7*3600),
		{}, // a day with no data
		summaryFor(base.AddDate(0, 0, 1), 8*3600),
	})

	if trends.Nights != 2 {
		t.Fatalf("Nights = %d, want 2", trends.Nights)
	}
	if math.Abs(trends.AvgTotalSleepHr-7.5) > 0.001 {
		t.Errorf("AvgTotalSleepHr = %.3f, want 7.5", trends.AvgTotalSleepHr)
	}
}

// TestComputeTrendsMidnightWrap verifies that bedtimes on either side of
// midnight average near midnight instead of midday.
func TestComputeTrendsMidnightWrap(t *testing.T) {
	d1 := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)
	trends := ComputeTrends([]models.SleepSummary{
		summaryFor(d1, 6*3600),
		summaryFor(d2, 6*3600),
	})

	if trends.AvgBedtime != "00:00" {
		t.Errorf("AvgBedtime = %q, want 00:00", trends.AvgBedtime)
	}
}

// TestCircularMeanStd verifies the mean and spread behavior of the circular
// statistics helper.
func TestCircularMeanStd(t *testing.T) {
	tests := []struct {
		name     string
		hours    []float64
		wantMean float64
	}{
		{"identical times", []float64{22, 22, 22}, 22},
		{"around midnight", []float64{23, 1}, 0},
		{"morning cluster", []float64{7, 7.5, 8}, 7.5},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std := circularMeanStd(tt.hours)
			if math.Abs(mean-tt.wantMean) > 0.1 {
				t.Errorf("mean = %.2f, want %.2f", mean, tt.wantMean)
			}
			if len(tt.hours) > 1 && tt.hours[0] == tt.hours[len(tt.hours)-1] && std > 0.01 {
				t.Errorf("std = %.4f, want ~0 for identical times", std)
			}
		})
	}
}

// TestHoursToHHMM verifies fractional-hour formatting including the 24:00
// wrap and minute rounding.
func TestHoursToHHMM(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "00:00"},
		{7.5, "07:30"},
		{23.999, "00:00"},
		{24, "00:00"},
		{22.758, "22:45"},
	}

	for _, tt := range tests {
		if got := hoursToHHMM(tt.hours); got != tt.want {
			t.Errorf("hoursToHHMM(%.3f) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}
