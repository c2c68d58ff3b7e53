package service

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"irrigation_controller/internal/engine"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
)

// TelemetryService periodically records the latest humidity reading and
// zone states as a TELEMETRY event.
type TelemetryService struct {
	scheduler *gocron.Scheduler
	eng       EngineStatus
	rec       engine.Recorder
	interval  time.Duration
	log       *logger.Logger
}

func NewTelemetryService(eng EngineStatus, rec engine.Recorder, interval time.Duration, log *logger.Logger) *TelemetryService {
	if log == nil {
		log = logger.NewNop()
	}
	return &TelemetryService{
		scheduler: gocron.NewScheduler(time.UTC),
		eng:       eng,
		rec:       rec,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the sampling job and starts the scheduler in the background.
func (t *TelemetryService) Start() error {
	if t.interval <= 0 {
		return fmt.Errorf("telemetry interval must be positive, got %s", t.interval)
	}
	_, err := t.scheduler.Every(t.interval).SingletonMode().Do(t.sample)
	if err != nil {
		return fmt.Errorf("schedule telemetry: %w", err)
	}
	t.scheduler.StartAsync()
	t.log.Infow("telemetry_started", "interval", t.interval.String())
	return nil
}

// Stop stops the scheduler and cancels any future samples.
func (t *TelemetryService) Stop() {
	if t.scheduler != nil {
		t.scheduler.Stop()
	}
}

// sample is a no-op until the control loop has ticked once.
func (t *TelemetryService) sample() {
	st := t.eng.Status()
	if st.LastTick.IsZero() {
		return
	}
	meta := map[string]any{"humidity": float64(st.Humidity), "sensor_ok": st.SensorOK}
	for _, id := range models.AllZones {
		meta[id.String()] = st.States[id]
	}
	t.rec.Record(models.IrrigationEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  st.LastTick.UTC(),
		Type:        models.EventTelemetry,
		Description: fmt.Sprintf("Soil humidity %.1f%%", float64(st.Humidity)),
		Metadata:    meta,
	})
}
