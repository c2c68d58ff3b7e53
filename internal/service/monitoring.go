package service

import (
	"context"
	"time"

	"irrigation_controller/internal/models"
)

type MonitoringService struct {
	store ZoneStore
	eng   EngineStatus
	net   Connectivity
}

// NewMonitoringService builds the status view source. net may be nil, in
// which case the view always reports disconnected.
func NewMonitoringService(store ZoneStore, eng EngineStatus, net Connectivity) *MonitoringService {
	return &MonitoringService{store: store, eng: eng, net: net}
}

// Status returns the current view of both zones.
func (s *MonitoringService) Status(ctx context.Context) (models.StatusView, error) {
	if err := ctx.Err(); err != nil {
		return models.StatusView{}, err
	}
	return s.View(), nil
}

// View combines one consistent config snapshot with the engine's last tick.
func (s *MonitoringService) View() models.StatusView {
	zones := s.store.Snapshot()
	st := s.eng.Status()

	view := models.StatusView{
		Humidity:  st.Humidity,
		SensorOK:  st.SensorOK,
		Zones:     make([]models.ZoneStatus, 0, models.ZoneCount),
		Connected: s.net != nil && s.net.Connected(),
		UpdatedAt: toUTC(st.LastTick),
	}
	if view.UpdatedAt.IsZero() {
		view.UpdatedAt = time.Now().UTC()
	}
	for _, id := range models.AllZones {
		view.Zones = append(view.Zones, models.ZoneStatus{
			Zone:   id,
			Config: zones.Zone(id),
			State:  st.States[id],
		})
	}
	return view
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
