package models

import "fmt"

// MetricKind is a closed enumeration of the health metrics this service
// reads. Using an enum instead of free-form metric-name strings gives
// compile-time exhaustiveness for the lookup tables below.
type MetricKind int

const (
	MetricStepCount MetricKind = iota
	MetricHeartRate
	MetricRestingHeartRate
	MetricHeartRateVariability
	MetricActiveEnergy
	MetricExerciseMinutes
	MetricStandHours
	MetricFlightsClimbed
	MetricWalkingRunningDistance
	MetricRunningSpeed
	MetricCyclingPower
	MetricSleepAnalysis
)

// metricInfo holds the storage name and display unit for a metric.
type metricInfo struct {
	name string
	unit string
}

var metricTable = map[MetricKind]metricInfo{
	MetricStepCount:              {"step_count", "steps"},
	MetricHeartRate:              {"heart_rate", "bpm"},
	MetricRestingHeartRate:       {"resting_heart_rate", "bpm"},
	MetricHeartRateVariability:   {"heart_rate_variability", "ms"},
	MetricActiveEnergy:           {"active_energy", "kcal"},
	MetricExerciseMinutes:        {"exercise_time", "min"},
	MetricStandHours:             {"stand_hours", "hr"},
	MetricFlightsClimbed:         {"flights_climbed", "count"},
	MetricWalkingRunningDistance: {"walking_running_distance", "m"},
	MetricRunningSpeed:           {"running_speed", "m/s"},
	MetricCyclingPower:           {"cycling_power", "W"},
	MetricSleepAnalysis:          {"sleep_analysis", "hr"},
}

// Name returns the metric's storage name.
func (m MetricKind) Name() string {
	return metricTable[m].name
}

// Unit returns the metric's display unit.
func (m MetricKind) Unit() string {
	return metricTable[m].unit
}

// MarshalText renders the storage name, so metric-keyed maps serialize
// readably in JSON responses.
func (m MetricKind) MarshalText() ([]byte, error) {
	return []byte(m.Name()), nil
}

// UnmarshalText resolves a storage name.
func (m *MetricKind) UnmarshalText(text []byte) error {
	k, ok := MetricKindFromName(string(text))
	if !ok {
		return fmt.Errorf("unknown metric %q", string(text))
	}
	*m = k
	return nil
}

// MetricKindFromName resolves a storage name back to a MetricKind.
func MetricKindFromName(name string) (MetricKind, bool) {
	for k, info := range metricTable {
		if info.name == name {
			return k, true
		}
	}
	return 0, false
}

// Aggregation selects how a statistic query combines samples.
type Aggregation int

const (
	AggregationSum Aggregation = iota
	AggregationAverage
)

func (a Aggregation) String() string {
	if a == AggregationAverage {
		return "average"
	}
	return "sum"
}

// DayAggregation returns the aggregation used when computing a metric's
// whole-day total. Rate-like metrics average; everything else sums.
func (m MetricKind) DayAggregation() Aggregation {
	switch m {
	case MetricHeartRate, MetricRestingHeartRate, MetricHeartRateVariability,
		MetricRunningSpeed, MetricCyclingPower:
		return AggregationAverage
	default:
		return AggregationSum
	}
}

// AllMetricKinds lists every metric in declaration order.
func AllMetricKinds() []MetricKind {
	kinds := make([]MetricKind, 0, len(metricTable))
	for k := MetricStepCount; k <= MetricSleepAnalysis; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// DayMetricKinds lists the whole-day totals fetched for every calendar day.
func DayMetricKinds() []MetricKind {
	return []MetricKind{
		MetricStepCount,
		MetricActiveEnergy,
		MetricExerciseMinutes,
		MetricStandHours,
		MetricFlightsClimbed,
		MetricWalkingRunningDistance,
		MetricRestingHeartRate,
	}
}

// RawSampleKinds lists the metrics whose raw observations are kept per day
// for charting.
func RawSampleKinds() []MetricKind {
	return []MetricKind{
		MetricHeartRate,
		MetricStepCount,
		MetricHeartRateVariability,
	}
}
