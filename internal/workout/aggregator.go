// Package workout derives computed workout metrics (pace, cadence,
// elevation, power) from raw workout statistics using documented fallback
// chains.
package workout

import "github.com/claude/healthboard/internal/models"

// Approximation constants used by the derivation rules. These are part of
// the output contract; do not retune them.
const (
	MetersToFeet       = 3.28084
	FeetPerFlight      = 10.0
	StrideLengthMeters = 0.85
)

// StatFunc returns the requested aggregate of a metric restricted to the
// current workout's extent, or ok=false when the store has no samples
// there. Supplied by the caller, backed by the health-data store.
type StatFunc func(metric models.MetricKind, agg models.Aggregation) (float64, bool)

// Enrich populates the derived fields of a partial workout record in place.
// It runs once during construction; afterwards the record is immutable from
// the consumer's perspective.
//
// Rules apply in a fixed order so later rules can reuse earlier results.
// Every derived value is an estimate; absence of input leaves the field nil
// rather than writing a zero. Metrics outside the activity type's
// visibility set are not derived at all.
func Enrich(w *models.WorkoutRecord, stat StatFunc) {
	if v, ok := stat(models.MetricHeartRate, models.AggregationAverage); ok {
		w.AvgHeartRateBPM = &v
	}

	if v, ok := stat(models.MetricActiveEnergy, models.AggregationSum); ok {
		w.ActiveEnergyKcal = &v
	}

	if MetricVisible(w.Activity, DisplayElevationGain) {
		if w.ElevationAscendedMeters != nil {
			// Recorded ascent metadata wins over the flights estimate.
			feet := *w.ElevationAscendedMeters * MetersToFeet
			w.ElevationGainFeet = &feet
		} else if flights, ok := stat(models.MetricFlightsClimbed, models.AggregationSum); ok {
			feet := flights * FeetPerFlight
			w.ElevationGainFeet = &feet
		}
	}

	if MetricVisible(w.Activity, DisplayPace) {
		if w.TotalDistanceMeters != nil && *w.TotalDistanceMeters > 0 {
			pace := w.DurationSec / *w.TotalDistanceMeters
			w.AvgPaceSecPerMeter = &pace
		} else if speed, ok := stat(models.MetricRunningSpeed, models.AggregationAverage); ok && speed > 0 {
			pace := 1 / speed
			w.AvgPaceSecPerMeter = &pace
		}
	}

	if MetricVisible(w.Activity, DisplayPower) {
		// Summed power-proxy samples, not a true power-sensor reading.
		if v, ok := stat(models.MetricCyclingPower, models.AggregationSum); ok {
			w.AvgPowerWatts = &v
		}
	}

	if MetricVisible(w.Activity, DisplayCadence) {
		if speed, ok := stat(models.MetricRunningSpeed, models.AggregationAverage); ok && speed > 0 {
			spm := speed / StrideLengthMeters * 60
			w.AvgCadenceSPM = &spm
		} else if steps, ok := stat(models.MetricStepCount, models.AggregationSum); ok && w.DurationSec > 0 {
			spm := steps / w.DurationSec * 60
			w.AvgCadenceSPM = &spm
		}
	}
}
