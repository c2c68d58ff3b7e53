package handlers

import (
	"context"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockConfig struct {
	view    models.StatusView
	err     error
	zone    models.ZoneStatus
	zoneErr error

	lastSub   service.ZoneSubmission
	lastZone  string
	applyCall int
}

func (m *mockConfig) Apply(_ context.Context, sub service.ZoneSubmission) (models.StatusView, error) {
	m.applyCall++
	m.lastSub = sub
	return m.view, m.err
}

func (m *mockConfig) Zone(_ context.Context, zone string) (models.ZoneStatus, error) {
	m.lastZone = zone
	return m.zone, m.zoneErr
}

type mockMonitoring struct {
	view models.StatusView
	err  error
}

func (m *mockMonitoring) Status(_ context.Context) (models.StatusView, error) {
	return m.view, m.err
}

type mockEventLog struct {
	resp []models.IrrigationEvent
	err  error
	last service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.IrrigationEvent, error) {
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func sampleView() models.StatusView {
	zones := models.DefaultZones()
	return models.StatusView{
		Humidity: 47.3,
		Zones: []models.ZoneStatus{
			{Zone: models.ZoneMorning, Config: zones.Zone(models.ZoneMorning), State: models.StateIdle},
			{Zone: models.ZoneAfternoon, Config: zones.Zone(models.ZoneAfternoon), State: models.StateDisabled},
		},
		Connected: true,
	}
}
