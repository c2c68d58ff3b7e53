package models

import "time"

// RelayState is the derived control state of a zone. It is never persisted.
type RelayState string

const (
	StateIdle     RelayState = "IDLE"
	StateWatering RelayState = "WATERING"
	StateDisabled RelayState = "DISABLED"
)

// RelayOn reports whether the zone's relay should be energized in state s.
func (s RelayState) RelayOn() bool {
	return s == StateWatering
}

// Transition is one state change decided by the engine.
type Transition struct {
	Zone     ZoneID     `json:"zone"`
	From     RelayState `json:"from"`
	To       RelayState `json:"to"`
	Humidity Percentage `json:"humidity"`
	SensorOK bool       `json:"sensor_ok"`
	At       time.Time  `json:"at"`
}

// ZoneStatus is the render-ready view of one zone.
type ZoneStatus struct {
	Zone   ZoneID     `json:"zone"`
	Config ZoneConfig `json:"config"`
	State  RelayState `json:"state"`
}

// StatusView is what the status page and the JSON status endpoint render.
type StatusView struct {
	Humidity  Percentage   `json:"humidity"`
	Zones     []ZoneStatus `json:"zones"`
	SensorOK  bool         `json:"sensor_ok"`
	Connected bool         `json:"connected"`
	UpdatedAt time.Time    `json:"updated_at"`
}
