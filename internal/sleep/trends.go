package sleep

import (
	"fmt"
	"math"
	"time"

	"github.com/claude/healthboard/internal/models"
)

// Trends aggregates reconstructed nights into dashboard-level averages.
type Trends struct {
	Nights                   int     `json:"nights"`
	AvgTotalSleepHr          float64 `json:"avg_total_sleep_hr"`
	AvgREMHr                 float64 `json:"avg_rem_hr"`
	AvgCoreHr                float64 `json:"avg_core_hr"`
	AvgDeepHr                float64 `json:"avg_deep_hr"`
	AvgBedtime               string  `json:"avg_bedtime"`
	AvgWaketime              string  `json:"avg_waketime"`
	BedtimeConsistencyStdHr  float64 `json:"bedtime_consistency_stddev_hr"`
	WaketimeConsistencyStdHr float64 `json:"waketime_consistency_stddev_hr"`
}

// ComputeTrends averages a set of nightly summaries. Empty summaries are
// skipped; bedtime and waketime use circular means so nights spanning
// midnight average correctly.
func ComputeTrends(nights []models.SleepSummary) Trends {
	var t Trends
	var bedtimes, waketimes []float64
	var totalSec, remSec, coreSec, deepSec int

	for _, n := range nights {
		if n.IsEmpty() {
			continue
		}
		t.Nights++
		totalSec += n.TotalSleepSeconds
		remSec += stageSeconds(n.REM)
		coreSec += stageSeconds(n.Core)
		deepSec += stageSeconds(n.Deep)
		bedtimes = append(bedtimes, hourOfDay(n.WindowStart))
		waketimes = append(waketimes, hourOfDay(n.WindowEnd))
	}
	if t.Nights == 0 {
		return t
	}

	n := float64(t.Nights)
	t.AvgTotalSleepHr = float64(totalSec) / 3600 / n
	t.AvgREMHr = float64(remSec) / 3600 / n
	t.AvgCoreHr = float64(coreSec) / 3600 / n
	t.AvgDeepHr = float64(deepSec) / 3600 / n

	avgBed, stdBed := circularMeanStd(bedtimes)
	avgWake, stdWake := circularMeanStd(waketimes)
	t.AvgBedtime = hoursToHHMM(avgBed)
	t.AvgWaketime = hoursToHHMM(avgWake)
	t.BedtimeConsistencyStdHr = math.Round(stdBed*100) / 100
	t.WaketimeConsistencyStdHr = math.Round(stdWake*100) / 100

	return t
}

func stageSeconds(intervals []models.SleepInterval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.DurationSeconds
	}
	return total
}

// hourOfDay extracts the fractional hour of day from a time.Time.
func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0 + float64(t.Second())/3600.0
}

// circularMeanStd computes the circular mean and standard deviation for
// times expressed as hours (0–24). This handles the midnight wrap correctly
// (23:00 and 01:00 average to 00:00, not 12:00).
func circularMeanStd(hours []float64) (mean, std float64) {
	if len(hours) == 0 {
		return 0, 0
	}

	var sinSum, cosSum float64
	for _, h := range hours {
		rad := h / 24.0 * 2 * math.Pi
		sinSum += math.Sin(rad)
		cosSum += math.Cos(rad)
	}

	n := float64(len(hours))
	sinAvg := sinSum / n
	cosAvg := cosSum / n

	meanRad := math.Atan2(sinAvg, cosAvg)
	if meanRad < 0 {
		meanRad += 2 * math.Pi
	}
	mean = meanRad / (2 * math.Pi) * 24.0

	// Circular variance = 1 - R, std = sqrt(-2 ln R) converted to hours.
	r := math.Sqrt(sinAvg*sinAvg + cosAvg*cosAvg)
	if r > 1 {
		r = 1
	}
	if r > 0 {
		std = math.Sqrt(-2*math.Log(r)) / (2 * math.Pi) * 24.0
	}

	return mean, std
}

// hoursToHHMM formats fractional hours (0–24) as "HH:MM".
func hoursToHHMM(h float64) string {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours >= 24 {
		hours -= 24
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
