package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutRecord is a single workout session. The health store returns
// partial records (identity, timing, and whatever totals the recording app
// attached); the aggregator's fill-in pass populates the derived pointer
// fields before the record is handed to consumers. A nil pointer means
// "unknown", never zero.
type WorkoutRecord struct {
	ID       uuid.UUID    `json:"id"`
	Activity ActivityType `json:"activity"`
	Start    time.Time    `json:"start"`
	End      time.Time    `json:"end"`
	// DurationSec is the recorded active duration, which can be shorter
	// than End-Start when the workout was paused.
	DurationSec float64    `json:"duration_sec"`
	Source      string     `json:"source"`
	Device      DeviceKind `json:"device"`

	TotalEnergyKcal         *float64 `json:"total_energy_kcal,omitempty"`
	TotalDistanceMeters     *float64 `json:"total_distance_meters,omitempty"`
	ElevationAscendedMeters *float64 `json:"elevation_ascended_meters,omitempty"`

	AvgHeartRateBPM    *float64 `json:"avg_heart_rate_bpm,omitempty"`
	ActiveEnergyKcal   *float64 `json:"active_energy_kcal,omitempty"`
	ElevationGainFeet  *float64 `json:"elevation_gain_feet,omitempty"`
	AvgPowerWatts      *float64 `json:"avg_power_watts,omitempty"`
	AvgCadenceSPM      *float64 `json:"avg_cadence_spm,omitempty"`
	AvgPaceSecPerMeter *float64 `json:"avg_pace_sec_per_meter,omitempty"`
}
