package workout

import (
	"math"
	"testing"
	"time"

	"github.com/claude/healthboard/internal/models"
	"github.com/google/uuid"
)

// statTable is a StatFunc backed by a fixed map, keyed by metric+aggregation.
type statKey struct {
	metric models.MetricKind
	agg    models.Aggregation
}

func statTable(values map[statKey]float64) StatFunc {
	return func(m models.MetricKind, a models.Aggregation) (float64, bool) {
		v, ok := values[statKey{m, a}]
		return v, ok
	}
}

func runningWorkout(durationSec float64, distance *float64) *models.WorkoutRecord {
	start := time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)
	return &models.WorkoutRecord{
		ID:                  uuid.New(),
		Activity:            models.ActivityRunning,
		Start:               start,
		End:                 start.Add(time.Duration(durationSec) * time.Second),
		DurationSec:         durationSec,
		TotalDistanceMeters: distance,
	}
}

func f(v float64) *float64 { return &v }

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %.4f", name, want)
	}
	if math.Abs(*got-want) > 0.0005 {
		t.Errorf("%s = %.4f, want %.4f", name, *got, want)
	}
}

// TestEnrichPaceFromDistance verifies the primary pace rule: duration over
// recorded distance.
func TestEnrichPaceFromDistance(t *testing.T) {
	w := runningWorkout(600, f(1609.34))
	Enrich(w, statTable(nil))
	approx(t, "AvgPaceSecPerMeter", w.AvgPaceSecPerMeter, 600/1609.34)
}

// TestEnrichPaceFallbackToSpeed verifies the fallback: with no recorded
// distance, pace is the inverted average running speed.
func TestEnrichPaceFallbackToSpeed(t *testing.T) {
	w := runningWorkout(600, nil)
	Enrich(w, statTable(map[statKey]float64{
		{models.MetricRunningSpeed, models.AggregationAverage}: 3.0,
	}))
	approx(t, "AvgPaceSecPerMeter", w.AvgPaceSecPerMeter, 1.0/3.0)
}

// TestEnrichPaceNotForOtherActivities verifies that pace stays nil for
// activity types outside its visibility set even when inputs exist.
func TestEnrichPaceNotForOtherActivities(t *testing.T) {
	w := runningWorkout(600, f(1000))
	w.Activity = models.ActivityYoga
	Enrich(w, statTable(map[statKey]float64{
		{models.MetricRunningSpeed, models.AggregationAverage}: 3.0,
	}))
	if w.AvgPaceSecPerMeter != nil {
		t.Errorf("AvgPaceSecPerMeter = %v, want nil for yoga", *w.AvgPaceSecPerMeter)
	}
}

// TestEnrichElevationMetadataPrecedence verifies that recorded ascent
// metadata beats the flights-climbed estimate when both are present.
func TestEnrichElevationMetadataPrecedence(t *testing.T) {
	w := runningWorkout(600, nil)
	w.ElevationAscendedMeters = f(10)
	Enrich(w, statTable(map[statKey]float64{
		{models.MetricFlightsClimbed, models.AggregationSum}: 5,
	}))
	approx(t, "ElevationGainFeet", w.ElevationGainFeet, 10*3.28084)
}

// TestEnrichElevationFlightsFallback verifies the ten-feet-per-flight
// approximation when no ascent metadata was recorded.
func TestEnrichElevationFlightsFallback(t *testing.T) {
	w := runningWorkout(600, nil)
	Enrich(w, statTable(map[statKey]float64{
		{models.MetricFlightsClimbed, models.AggregationSum}: 5,
	}))
	approx(t, "ElevationGainFeet", w.ElevationGainFeet, 50)
}

// TestEnrichCadencePrefersSpeed verifies that the stride-length estimate
// from average speed wins over the step-count fallback.
func TestEnrichCadencePrefersSpeed(t *testing.T) {
	w := runningWorkout(600, nil)
	Enrich(w, statTable(map[statKey]float64{
		{models.MetricRunningSpeed, models.AggregationAverage}: 2.55,
		{models.MetricStepCount, models.AggregationSum}:        1200,
	}))
	approx(t, "AvgCadenceSPM", w.AvgCadenceSPM, 2.55/0.85*60)
}

// TestEnrichCadenceStepFallback verifies steps-per-duration cadence when no
// speed samples exist.
func TestEnrichCadenceStepFallback(t *testing.T) {
	w := runningWorkout(600, nil)
	Enrich(w, statTable(map[statKey]float64{
		{models.MetricStepCount, models.AggregationSum}: 1200,
	}))
	approx(t, "AvgCadenceSPM", w.AvgCadenceSPM, 120)
}

// TestEnrichAbsentStaysNil verifies that with no stats available every
// optional field stays nil — unknown, not zero.
func TestEnrichAbsentStaysNil(t *testing.T) {
	w := runningWorkout(600, nil)
	Enrich(w, statTable(nil))

	if w.AvgHeartRateBPM != nil || w.ActiveEnergyKcal != nil ||
		w.ElevationGainFeet != nil || w.AvgPaceSecPerMeter != nil ||
		w.AvgPowerWatts != nil || w.AvgCadenceSPM != nil {
		t.Errorf("expected all derived fields nil, got %+v", w)
	}
}

// TestEnrichHeartRateAndEnergy verifies the two unconditional derivations.
func TestEnrichHeartRateAndEnergy(t *testing.T) {
	w := runningWorkout(600, nil)
	w.Activity = models.ActivityYoga // visibility-gated metrics stay nil
	Enrich(w, statTable(map[statKey]float64{
		{models.MetricHeartRate, models.AggregationAverage}: 132,
		{models.MetricActiveEnergy, models.AggregationSum}:  250,
	}))
	approx(t, "AvgHeartRateBPM", w.AvgHeartRateBPM, 132)
	approx(t, "ActiveEnergyKcal", w.ActiveEnergyKcal, 250)
}

// TestMetricVisible spot-checks the visibility table.
func TestMetricVisible(t *testing.T) {
	tests := []struct {
		activity models.ActivityType
		metric   DisplayMetric
		want     bool
	}{
		{models.ActivityRunning, DisplayPace, true},
		{models.ActivityWalking, DisplayPace, true},
		{models.ActivityCycling, DisplayPower, true},
		{models.ActivityCycling, DisplayPace, false},
		{models.ActivityYoga, DisplayDistance, false},
		{models.ActivityStairClimbing, DisplayElevationGain, true},
	}

	for _, tt := range tests {
		if got := MetricVisible(tt.activity, tt.metric); got != tt.want {
			t.Errorf("MetricVisible(%v, %v) = %v, want %v", tt.activity, tt.metric, got, tt.want)
		}
	}
}
