package models

import "time"

// SleepStage is one of the six stages a sleep observation can carry.
type SleepStage int

const (
	StageInBed SleepStage = iota
	StageAwake
	StageUnspecified
	StageREM
	StageCore
	StageDeep
)

var sleepStageNames = map[SleepStage]string{
	StageInBed:       "In Bed",
	StageAwake:       "Awake",
	StageUnspecified: "Asleep",
	StageREM:         "REM",
	StageCore:        "Core",
	StageDeep:        "Deep",
}

func (s SleepStage) String() string {
	if name, ok := sleepStageNames[s]; ok {
		return name
	}
	return "Asleep"
}

// MarshalText renders the stage name for JSON output.
func (s SleepStage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText resolves a stage name, mapping unknown names to the
// unspecified Asleep stage.
func (s *SleepStage) UnmarshalText(text []byte) error {
	for stage, name := range sleepStageNames {
		if name == string(text) {
			*s = stage
			return nil
		}
	}
	*s = StageUnspecified
	return nil
}

// IsAsleep reports whether time in this stage counts toward total sleep.
// In Bed, Awake, and unspecified Asleep time do not.
func (s SleepStage) IsAsleep() bool {
	return s == StageREM || s == StageCore || s == StageDeep
}

// StageMapping maps the store's raw stage codes to sleep stages. The code
// set is platform-version-dependent, so the mapping is injected into the
// segmenter as configuration rather than derived from version checks.
type StageMapping map[string]SleepStage

// ModernStageMapping returns the six-code mapping used by platforms that
// report distinct sleep phases.
func ModernStageMapping() StageMapping {
	return StageMapping{
		"In Bed": StageInBed,
		"Awake":  StageAwake,
		"Asleep": StageUnspecified,
		"REM":    StageREM,
		"Core":   StageCore,
		"Deep":   StageDeep,
	}
}

// LegacyStageMapping returns the three-code mapping used by platforms that
// only distinguish in-bed, asleep, and awake. Generic asleep time maps to
// StageUnspecified.
func LegacyStageMapping() StageMapping {
	return StageMapping{
		"In Bed": StageInBed,
		"Asleep": StageUnspecified,
		"Awake":  StageAwake,
	}
}

// SleepInterval is one contiguous stretch of a single sleep stage.
type SleepInterval struct {
	Stage           SleepStage `json:"stage"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	DurationSeconds int        `json:"duration_seconds"`
	Source          string     `json:"source"`
	Device          DeviceKind `json:"device"`
}

// SleepSummary is the reconstructed result for one night. The four exposed
// stage lists exclude In Bed and unspecified Asleep intervals; those still
// count toward the window bounds. TotalSleepSeconds sums REM, Core, and
// Deep only.
type SleepSummary struct {
	WindowStart       time.Time       `json:"window_start"`
	WindowEnd         time.Time       `json:"window_end"`
	Awake             []SleepInterval `json:"awake"`
	REM               []SleepInterval `json:"rem"`
	Core              []SleepInterval `json:"core"`
	Deep              []SleepInterval `json:"deep"`
	TotalSleepSeconds int             `json:"total_sleep_seconds"`
}

// IsEmpty reports whether the summary holds no intervals at all.
func (s SleepSummary) IsEmpty() bool {
	return len(s.Awake) == 0 && len(s.REM) == 0 && len(s.Core) == 0 &&
		len(s.Deep) == 0 && s.TotalSleepSeconds == 0 && s.WindowStart.IsZero()
}
