// Package engine runs the periodic irrigation decision loop.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
)

// ConfigSource yields a consistent copy of one zone's configuration.
type ConfigSource interface {
	Zone(id models.ZoneID) (models.ZoneConfig, error)
}

// Sensor returns the current soil humidity and whether it can be trusted.
// It must not block beyond one hardware sample.
type Sensor interface {
	Read() (models.Percentage, bool)
}

// RelayDriver drives the zone relays. Set must be idempotent.
type RelayDriver interface {
	Set(zone models.ZoneID, on bool) error
	AllOff() error
}

// Recorder accepts events without blocking.
type Recorder interface {
	Record(ev models.IrrigationEvent)
}

// Status is a copy of the engine's observable state.
type Status struct {
	States   [models.ZoneCount]models.RelayState
	Humidity models.Percentage
	SensorOK bool
	LastTick time.Time
}

// Engine owns the zone relay states. Tick and Run belong to the control
// loop; Status may be called from any goroutine.
type Engine struct {
	config ConfigSource
	sensor Sensor
	relays RelayDriver
	clock  Clock
	rec    Recorder
	log    *logger.Logger

	mu       sync.RWMutex
	states   [models.ZoneCount]models.RelayState
	humidity models.Percentage
	sensorOK bool
	lastTick time.Time
}

// New returns an engine with both zones Idle. rec and log may be nil.
func New(config ConfigSource, sensor Sensor, relays RelayDriver, clock Clock, rec Recorder, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	e := &Engine{
		config: config,
		sensor: sensor,
		relays: relays,
		clock:  clock,
		rec:    rec,
		log:    log,
	}
	for _, id := range models.AllZones {
		e.states[id] = models.StateIdle
	}
	return e
}

// Run forces every relay off, then ticks every period until ctx is
// canceled, and forces every relay off again on the way out.
func (e *Engine) Run(ctx context.Context, period time.Duration) {
	if err := e.relays.AllOff(); err != nil {
		e.log.Errorw("relays_reset_failed", "err", err)
	}
	defer e.shutdown()

	e.Tick()

	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.Tick()
		}
	}
}

func (e *Engine) shutdown() {
	if err := e.relays.AllOff(); err != nil {
		e.log.Errorw("relays_shutdown_failed", "err", err)
	}
	e.mu.Lock()
	for _, id := range models.AllZones {
		if e.states[id] == models.StateWatering {
			e.states[id] = models.StateIdle
		}
	}
	e.mu.Unlock()
	e.log.Infow("engine_stopped")
}

// Tick runs one decision pass over both zones and returns the state
// changes it applied.
func (e *Engine) Tick() []models.Transition {
	now := e.clock.Now()
	tod := models.TimeOfDayOf(now)
	humidity, sensorOK := e.sensor.Read()

	e.mu.Lock()
	if sensorOK != e.sensorOK && !e.lastTick.IsZero() {
		e.log.Warnw("sensor_validity_changed", "valid", sensorOK, "humidity", float64(humidity))
	}
	e.humidity = humidity
	e.sensorOK = sensorOK
	e.lastTick = now
	current := e.states
	e.mu.Unlock()

	var applied []models.Transition
	for _, id := range models.AllZones {
		cfg, err := e.config.Zone(id)
		if err != nil {
			e.log.Errorw("zone_config_unavailable", "zone", id.String(), "err", err)
			continue
		}

		from := current[id]
		to := nextState(from, cfg, humidity, sensorOK, tod)
		if to == from {
			continue
		}

		if from.RelayOn() != to.RelayOn() {
			if err := e.relays.Set(id, to.RelayOn()); err != nil {
				// keep the old state so the change is retried next tick
				e.log.Errorw("relay_set_failed", "zone", id.String(), "from", from, "to", to, "err", err)
				continue
			}
		}

		e.mu.Lock()
		e.states[id] = to
		e.mu.Unlock()

		tr := models.Transition{Zone: id, From: from, To: to, Humidity: humidity, SensorOK: sensorOK, At: now}
		applied = append(applied, tr)
		e.log.Infow("zone_state_changed",
			"zone", id.String(), "from", from, "to", to,
			"humidity", float64(humidity), "sensor_ok", sensorOK, "time", tod.String())
		e.record(tr, cfg)
	}
	return applied
}

// nextState applies the hysteresis rules. A zone that was Disabled and is
// enabled again is evaluated as Idle in the same pass. Without a valid
// reading an enabled zone is held Idle.
func nextState(cur models.RelayState, cfg models.ZoneConfig, humidity models.Percentage, sensorOK bool, now models.TimeOfDay) models.RelayState {
	if !cfg.Enabled {
		return models.StateDisabled
	}
	if !sensorOK {
		return models.StateIdle
	}
	if cur == models.StateDisabled {
		cur = models.StateIdle
	}
	switch cur {
	case models.StateWatering:
		if humidity >= cfg.MaxHumidity {
			return models.StateIdle
		}
	case models.StateIdle:
		// the window stays open from start_time until midnight
		if humidity <= cfg.MinHumidity && !now.Before(cfg.StartTime) {
			return models.StateWatering
		}
	}
	return cur
}

// Status returns a copy of the current zone states and last humidity reading.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Status{States: e.states, Humidity: e.humidity, SensorOK: e.sensorOK, LastTick: e.lastTick}
}

// Humidity returns the reading taken by the most recent tick.
func (e *Engine) Humidity() models.Percentage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.humidity
}

func (e *Engine) record(tr models.Transition, cfg models.ZoneConfig) {
	if e.rec == nil {
		return
	}
	typ, desc := describe(tr)
	e.rec.Record(models.IrrigationEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  tr.At.UTC(),
		Zone:        tr.Zone.String(),
		Type:        typ,
		Description: desc,
		Metadata: map[string]any{
			"from":         tr.From,
			"to":           tr.To,
			"humidity":     float64(tr.Humidity),
			"min_humidity": float64(cfg.MinHumidity),
			"max_humidity": float64(cfg.MaxHumidity),
			"start_time":   cfg.StartTime.String(),
		},
	})
}

func describe(tr models.Transition) (string, string) {
	switch tr.To {
	case models.StateWatering:
		return models.EventWateringStart, fmt.Sprintf("Watering started at %.1f%% humidity", float64(tr.Humidity))
	case models.StateDisabled:
		return models.EventZoneDisabled, "Zone disabled"
	}
	if tr.From == models.StateWatering && !tr.SensorOK {
		return models.EventWateringStop, "Watering stopped: soil sensor unavailable"
	}
	if tr.From == models.StateWatering {
		return models.EventWateringStop, fmt.Sprintf("Watering stopped at %.1f%% humidity", float64(tr.Humidity))
	}
	return models.EventZoneEnabled, "Zone enabled"
}
