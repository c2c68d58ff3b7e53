package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"irrigation_controller/internal/engine"
	"irrigation_controller/internal/models"
)

// ConfigUpdateService turns a raw submission into a ZoneConfig and hands it
// to the store. A submission is applied whole or not at all.
type ConfigUpdateService struct {
	store    ZoneStore
	mon      *MonitoringService
	rec      engine.Recorder
	validate *validator.Validate
}

func NewConfigUpdateService(store ZoneStore, mon *MonitoringService, rec engine.Recorder) *ConfigUpdateService {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json/form names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ConfigUpdateService{store: store, mon: mon, rec: rec, validate: v}
}

// Apply validates sub, updates the store and returns the resulting view.
// Malformed input yields a *SubmissionError; range violations come back from
// the store as *models.FieldError wrapping ErrOutOfBounds or ErrInvalidRange.
func (s *ConfigUpdateService) Apply(ctx context.Context, sub ZoneSubmission) (models.StatusView, error) {
	id, cfg, err := s.parse(sub)
	if err == nil {
		err = s.store.Update(id, cfg)
	}
	view := s.mon.View()
	if err != nil {
		s.recordRejected(sub, err)
		return view, err
	}
	s.record(models.IrrigationEvent{
		Zone:        id.String(),
		Type:        models.EventConfigUpdate,
		Description: "Zone configuration updated",
		Metadata: map[string]any{
			"enabled":      cfg.Enabled,
			"start_time":   cfg.StartTime.String(),
			"min_humidity": float64(cfg.MinHumidity),
			"max_humidity": float64(cfg.MaxHumidity),
		},
	})
	return view, nil
}

// Zone returns the current configuration and state of the named zone.
func (s *ConfigUpdateService) Zone(ctx context.Context, zone string) (models.ZoneStatus, error) {
	if err := ctx.Err(); err != nil {
		return models.ZoneStatus{}, err
	}
	id, err := models.ParseZoneID(zone)
	if err != nil {
		return models.ZoneStatus{}, err
	}
	for _, zs := range s.mon.View().Zones {
		if zs.Zone == id {
			return zs, nil
		}
	}
	return models.ZoneStatus{}, fmt.Errorf("%w: %s", models.ErrUnknownZone, zone)
}

func (s *ConfigUpdateService) parse(sub ZoneSubmission) (models.ZoneID, models.ZoneConfig, error) {
	if err := s.validate.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return 0, models.ZoneConfig{}, &SubmissionError{Field: verrs[0].Field(), Reason: describeTag(verrs[0])}
		}
		return 0, models.ZoneConfig{}, &SubmissionError{Field: "body", Reason: err.Error()}
	}

	id, err := models.ParseZoneID(sub.Zone)
	if err != nil {
		return 0, models.ZoneConfig{}, &SubmissionError{Field: "zone", Reason: err.Error()}
	}
	start, err := models.ParseTimeOfDay(sub.StartTime)
	if err != nil {
		return 0, models.ZoneConfig{}, &SubmissionError{Field: "start_time", Reason: err.Error()}
	}
	minH, err := strconv.ParseFloat(sub.MinHumidity, 64)
	if err != nil {
		return 0, models.ZoneConfig{}, &SubmissionError{Field: "min_humidity", Reason: "not a number"}
	}
	maxH, err := strconv.ParseFloat(sub.MaxHumidity, 64)
	if err != nil {
		return 0, models.ZoneConfig{}, &SubmissionError{Field: "max_humidity", Reason: "not a number"}
	}

	return id, models.ZoneConfig{
		Enabled:     parseEnabled(sub.Enabled),
		StartTime:   start,
		MinHumidity: models.Percentage(minH),
		MaxHumidity: models.Percentage(maxH),
	}, nil
}

func parseEnabled(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1":
		return true
	}
	return false
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "numeric":
		return "must be a number"
	}
	return "failed " + fe.Tag()
}

func (s *ConfigUpdateService) recordRejected(sub ZoneSubmission, err error) {
	meta := map[string]any{"reason": err.Error()}
	var se *SubmissionError
	var fe *models.FieldError
	switch {
	case errors.As(err, &se):
		meta["field"] = se.Field
	case errors.As(err, &fe):
		meta["field"] = fe.Field
	}
	zone := ""
	if id, perr := models.ParseZoneID(sub.Zone); perr == nil {
		zone = id.String()
	}
	s.record(models.IrrigationEvent{
		Zone:        zone,
		Type:        models.EventConfigRejected,
		Description: "Zone configuration rejected",
		Metadata:    meta,
	})
}

func (s *ConfigUpdateService) record(ev models.IrrigationEvent) {
	if s.rec == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC()
	s.rec.Record(ev)
}
