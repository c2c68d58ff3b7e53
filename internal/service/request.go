package service

import (
	"errors"
	"time"
)

// ErrMalformedSubmission is returned when a submission is missing a field or
// a field cannot be parsed. The store is never touched in that case.
var ErrMalformedSubmission = errors.New("malformed submission")

// ZoneSubmission is a decoded form or JSON body. Every field arrives as text
// so that parsing errors can be reported per field.
type ZoneSubmission struct {
	Zone        string `form:"zone" json:"zone" validate:"required"`
	Enabled     string `form:"enabled" json:"enabled" validate:"required,oneof=on off true false 1 0"`
	StartTime   string `form:"start_time" json:"start_time" validate:"required"`
	MinHumidity string `form:"min_humidity" json:"min_humidity" validate:"required,numeric"`
	MaxHumidity string `form:"max_humidity" json:"max_humidity" validate:"required,numeric"`
}

// SubmissionError names the offending submission field.
type SubmissionError struct {
	Field  string
	Reason string
}

func (e *SubmissionError) Error() string {
	return ErrMalformedSubmission.Error() + ": " + e.Field + ": " + e.Reason
}

func (e *SubmissionError) Unwrap() error { return ErrMalformedSubmission }

// LogFilter supports history filtering by time range, type and zone.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "WATERING_START", "CONFIG_UPDATE", ...
	Zone string    // "", "morning", "afternoon"
}
