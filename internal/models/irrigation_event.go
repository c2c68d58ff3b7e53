package models

import "time"

// Event types stored in the irrigation log.
const (
	EventWateringStart  = "WATERING_START"
	EventWateringStop   = "WATERING_STOP"
	EventZoneDisabled   = "ZONE_DISABLED"
	EventZoneEnabled    = "ZONE_ENABLED"
	EventConfigUpdate   = "CONFIG_UPDATE"
	EventConfigRejected = "CONFIG_REJECTED"
	EventTelemetry      = "TELEMETRY"
)

// IrrigationEvent is a single log entry.
type IrrigationEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Zone        string    `json:"zone,omitempty"` // morning | afternoon | "" for system-wide
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
