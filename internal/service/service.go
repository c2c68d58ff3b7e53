package service

import (
	"context"

	"irrigation_controller/internal/engine"
	"irrigation_controller/internal/models"
	"irrigation_controller/internal/repository"
)

// ZoneStore is the configuration store shared with the control loop.
type ZoneStore interface {
	Snapshot() models.Zones
	Zone(id models.ZoneID) (models.ZoneConfig, error)
	Update(id models.ZoneID, cfg models.ZoneConfig) error
}

// EngineStatus exposes the control loop's derived state.
type EngineStatus interface {
	Status() engine.Status
}

// Connectivity reports whether the network is currently up.
type Connectivity interface {
	Connected() bool
}

// Config applies user submissions to the zone configuration.
type Config interface {
	// Apply validates and stores one zone submission. The returned view is
	// always populated, on rejection too, so the caller can re-render.
	Apply(ctx context.Context, sub ZoneSubmission) (models.StatusView, error)
	Zone(ctx context.Context, zone string) (models.ZoneStatus, error)
}

// Monitoring exposes read-only state (humidity, zone configs and states, network).
type Monitoring interface {
	Status(ctx context.Context) (models.StatusView, error)
}

// EventLog exposes the append-only irrigation log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.IrrigationEvent, error)
}

// Service aggregates everything the HTTP layer needs.
type Service struct {
	Config
	Monitoring
	EventLog
}

// NewService wires the repositories and the running control loop into the
// request-facing services. rec may be nil.
func NewService(repos *repository.Repository, store ZoneStore, eng EngineStatus, net Connectivity, rec engine.Recorder) *Service {
	mon := NewMonitoringService(store, eng, net)
	return &Service{
		Config:     NewConfigUpdateService(store, mon, rec),
		Monitoring: mon,
		EventLog:   NewEventLogService(repos.EventRepo),
	}
}
