package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime is returned when a time-of-day string cannot be parsed.
var ErrMalformedTime = errors.New("malformed time of day")

// TimeOfDay is a wall-clock time without a date. Its text form is "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM", "H:MM" and the compact "HHMM" form.
// Only the syntax is checked here; ranges are checked by ZoneConfig.Validate.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	var hh, mm string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hh, mm = s[:i], s[i+1:]
	} else if len(s) == 3 || len(s) == 4 {
		hh, mm = s[:len(s)-2], s[len(s)-2:]
	} else {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	if hh == "" || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// TimeOfDayOf returns the wall-clock time of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
