package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	// ErrInvalidFilter is returned for filters that can never match.
	ErrInvalidFilter = errors.New("invalid log filter")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the
// time range and zone selector.
func normalizeAndValidateFilter(f LogFilter) (repository.EventFilter, error) {
	out := repository.EventFilter{
		From: normalizeToUTC(f.From),
		To:   normalizeToUTC(f.To),
		Type: normalizeEventType(f.Type),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return repository.EventFilter{}, fmt.Errorf("%w: %w", ErrInvalidFilter, errInvalidTimeRange)
	}
	if z := strings.TrimSpace(f.Zone); z != "" {
		id, err := models.ParseZoneID(z)
		if err != nil {
			return repository.EventFilter{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
		out.Zone = id.String()
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.IrrigationEvent, error) {
	rf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, rf)
}
