package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ZoneID identifies one of the two irrigation zones.
type ZoneID int

const (
	ZoneMorning ZoneID = iota
	ZoneAfternoon

	// ZoneCount is the fixed number of zones.
	ZoneCount = 2
)

const (
	zoneMorningName   = "morning"
	zoneAfternoonName = "afternoon"
)

// AllZones lists zones in their canonical order.
var AllZones = [ZoneCount]ZoneID{ZoneMorning, ZoneAfternoon}

var (
	// ErrOutOfBounds is returned when a percentage or time-of-day field leaves its domain.
	ErrOutOfBounds = errors.New("value out of bounds")
	// ErrInvalidRange is returned when min_humidity > max_humidity.
	ErrInvalidRange = errors.New("min_humidity must be <= max_humidity")
	// ErrUnknownZone is returned for zone selectors other than morning/afternoon.
	ErrUnknownZone = errors.New("unknown zone")
)

func (z ZoneID) String() string {
	switch z {
	case ZoneMorning:
		return zoneMorningName
	case ZoneAfternoon:
		return zoneAfternoonName
	default:
		return "zone(" + strconv.Itoa(int(z)) + ")"
	}
}

// Valid reports whether z is one of the known zones.
func (z ZoneID) Valid() bool {
	return z >= 0 && int(z) < ZoneCount
}

// ParseZoneID maps a selector ("morning", "afternoon", case-insensitive) to a ZoneID.
func ParseZoneID(s string) (ZoneID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case zoneMorningName:
		return ZoneMorning, nil
	case zoneAfternoonName:
		return ZoneAfternoon, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownZone, s)
	}
}

func (z ZoneID) MarshalText() ([]byte, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownZone, int(z))
	}
	return []byte(z.String()), nil
}

func (z *ZoneID) UnmarshalText(b []byte) error {
	id, err := ParseZoneID(string(b))
	if err != nil {
		return err
	}
	*z = id
	return nil
}

// Percentage is a humidity value or threshold in the range 0–100.
type Percentage float64

const (
	MinPercentage Percentage = 0
	MaxPercentage Percentage = 100
)

// Valid reports whether p lies within [0,100].
func (p Percentage) Valid() bool {
	return p >= MinPercentage && p <= MaxPercentage
}

// Clamp limits p to [0,100].
func (p Percentage) Clamp() Percentage {
	switch {
	case p < MinPercentage:
		return MinPercentage
	case p > MaxPercentage:
		return MaxPercentage
	default:
		return p
	}
}

// ZoneConfig is the schedule and thresholds of a single zone.
type ZoneConfig struct {
	Enabled     bool       `json:"enabled"`
	StartTime   TimeOfDay  `json:"start_time"`
	MinHumidity Percentage `json:"min_humidity"`
	MaxHumidity Percentage `json:"max_humidity"`
}

// FieldError names the offending field of a rejected ZoneConfig.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// Validate checks field domains first (ErrOutOfBounds) and then the
// min/max ordering (ErrInvalidRange).
func (c ZoneConfig) Validate() error {
	if c.StartTime.Hour < 0 || c.StartTime.Hour > 23 {
		return &FieldError{Field: "start_time", Err: fmt.Errorf("%w: hour %d not in 0-23", ErrOutOfBounds, c.StartTime.Hour)}
	}
	if c.StartTime.Minute < 0 || c.StartTime.Minute > 59 {
		return &FieldError{Field: "start_time", Err: fmt.Errorf("%w: minute %d not in 0-59", ErrOutOfBounds, c.StartTime.Minute)}
	}
	if !c.MinHumidity.Valid() {
		return &FieldError{Field: "min_humidity", Err: fmt.Errorf("%w: %g not in 0-100", ErrOutOfBounds, float64(c.MinHumidity))}
	}
	if !c.MaxHumidity.Valid() {
		return &FieldError{Field: "max_humidity", Err: fmt.Errorf("%w: %g not in 0-100", ErrOutOfBounds, float64(c.MaxHumidity))}
	}
	if c.MinHumidity > c.MaxHumidity {
		return &FieldError{Field: "min_humidity", Err: fmt.Errorf("%w (min %g, max %g)", ErrInvalidRange, float64(c.MinHumidity), float64(c.MaxHumidity))}
	}
	return nil
}

// Zones holds one ZoneConfig per zone, indexed by ZoneID.
type Zones [ZoneCount]ZoneConfig

// Zone returns the config of id.
func (z Zones) Zone(id ZoneID) ZoneConfig {
	return z[id]
}

// DefaultZones returns the factory configuration used when nothing is persisted.
func DefaultZones() Zones {
	return Zones{
		ZoneMorning: {
			Enabled:     true,
			StartTime:   TimeOfDay{Hour: 6, Minute: 0},
			MinHumidity: 40,
			MaxHumidity: 70,
		},
		ZoneAfternoon: {
			Enabled:     false,
			StartTime:   TimeOfDay{Hour: 18, Minute: 0},
			MinHumidity: 30,
			MaxHumidity: 70,
		},
	}
}
