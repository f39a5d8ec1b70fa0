package workout

import "github.com/claude/healthboard/internal/models"

// DisplayMetric enumerates the derived metrics whose relevance depends on
// the activity type. Duration and calories are always relevant and are not
// gated here.
type DisplayMetric int

const (
	DisplayDistance DisplayMetric = iota
	DisplayElevationGain
	DisplayPace
	DisplayPower
	DisplayCadence
)

var displayMetricNames = map[DisplayMetric]string{
	DisplayDistance:      "distance",
	DisplayElevationGain: "elevation_gain",
	DisplayPace:          "pace",
	DisplayPower:         "power",
	DisplayCadence:       "cadence",
}

func (m DisplayMetric) String() string {
	return displayMetricNames[m]
}

// visibility maps each activity type to the derived metrics that make sense
// for it. Types absent from the map show duration and calories only.
var visibility = map[models.ActivityType][]DisplayMetric{
	models.ActivityRunning:            {DisplayDistance, DisplayElevationGain, DisplayPace, DisplayPower, DisplayCadence},
	models.ActivityWalking:            {DisplayDistance, DisplayElevationGain, DisplayPace, DisplayCadence},
	models.ActivityHiking:             {DisplayDistance, DisplayElevationGain},
	models.ActivityCycling:            {DisplayDistance, DisplayElevationGain, DisplayPower},
	models.ActivityHandCycling:        {DisplayDistance, DisplayPower},
	models.ActivitySwimming:           {DisplayDistance},
	models.ActivityRowing:             {DisplayDistance, DisplayPower},
	models.ActivityPaddleSports:       {DisplayDistance},
	models.ActivityCrossCountrySkiing: {DisplayDistance, DisplayElevationGain},
	models.ActivityDownhillSkiing:     {DisplayDistance, DisplayElevationGain},
	models.ActivitySnowboarding:       {DisplayDistance, DisplayElevationGain},
	models.ActivitySkatingSports:      {DisplayDistance},
	models.ActivityWheelchairWalkPace: {DisplayDistance},
	models.ActivityWheelchairRunPace:  {DisplayDistance},
	models.ActivityTrackAndField:      {DisplayDistance},
	models.ActivitySwimBikeRun:        {DisplayDistance, DisplayElevationGain},
	models.ActivityStairClimbing:      {DisplayElevationGain},
	models.ActivityClimbing:           {DisplayElevationGain},
}

// MetricVisible reports whether a derived metric should be computed and
// surfaced for the given activity type.
func MetricVisible(t models.ActivityType, m DisplayMetric) bool {
	for _, v := range visibility[t] {
		if v == m {
			return true
		}
	}
	return false
}

// VisibleMetrics returns the derived metrics relevant for an activity type.
func VisibleMetrics(t models.ActivityType) []DisplayMetric {
	return visibility[t]
}
