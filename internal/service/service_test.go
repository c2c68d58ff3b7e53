package service

import (
	"sync"
	"time"

	"irrigation_controller/internal/engine"
	"irrigation_controller/internal/models"
)

// ---- Test doubles shared by the service tests ----

type stubEngine struct {
	st engine.Status
}

func (e *stubEngine) Status() engine.Status { return e.st }

type stubNet struct{ up bool }

func (n stubNet) Connected() bool { return n.up }

type captureRecorder struct {
	mu     sync.Mutex
	events []models.IrrigationEvent
}

func (r *captureRecorder) Record(ev models.IrrigationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *captureRecorder) all() []models.IrrigationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.IrrigationEvent(nil), r.events...)
}

func tickedEngine(h models.Percentage, morning, afternoon models.RelayState) *stubEngine {
	return &stubEngine{st: engine.Status{
		States:   [models.ZoneCount]models.RelayState{morning, afternoon},
		Humidity: h,
		LastTick: time.Date(2025, 6, 1, 6, 30, 0, 0, time.UTC),
	}}
}
