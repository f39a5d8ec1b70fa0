package models

import "time"

// DeviceKind classifies the hardware that recorded a sample.
type DeviceKind int

const (
	DeviceOther DeviceKind = iota
	DeviceWatch
	DevicePhone
)

var deviceKindNames = map[DeviceKind]string{
	DeviceOther: "other",
	DeviceWatch: "watch",
	DevicePhone: "phone",
}

func (d DeviceKind) String() string {
	if name, ok := deviceKindNames[d]; ok {
		return name
	}
	return "other"
}

// MarshalText renders the device name for JSON output.
func (d DeviceKind) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText resolves a device name, mapping unknown names to Other.
func (d *DeviceKind) UnmarshalText(text []byte) error {
	*d = ParseDeviceKind(string(text))
	return nil
}

// ParseDeviceKind maps a stored device name to a DeviceKind.
// Unknown names map to DeviceOther.
func ParseDeviceKind(s string) DeviceKind {
	switch s {
	case "watch":
		return DeviceWatch
	case "phone":
		return DevicePhone
	default:
		return DeviceOther
	}
}

// Observation is a single time-stamped sample from the health store.
// The value covers the half-open interval [Start, End). Immutable once
// constructed.
type Observation struct {
	Value  float64    `json:"value"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Source string     `json:"source,omitempty"`
	Device DeviceKind `json:"device,omitempty"`

	// StageCode is set only on sleep-analysis observations and holds the
	// store's raw stage code ("Core", "Deep", "Asleep", ...). Callers map
	// it through a StageMapping; the code set depends on the recording
	// platform version.
	StageCode string `json:"stage_code,omitempty"`
}

// Duration returns End - Start. Zero-length observations are valid.
func (o Observation) Duration() time.Duration {
	return o.End.Sub(o.Start)
}
