package repository

import (
	"context"
	"database/sql"
	"time"

	"irrigation_controller/internal/models"
)

// ZoneRepo persists zone configurations, one row per zone.
type ZoneRepo interface {
	SaveZone(ctx context.Context, zone models.ZoneID, cfg models.ZoneConfig) error
	LoadAll(ctx context.Context) (map[models.ZoneID]models.ZoneConfig, error)
}

// EventFilter narrows an event listing. Zero values mean "no bound".
type EventFilter struct {
	From time.Time
	To   time.Time
	Type string
	Zone string
}

type EventRepo interface {
	Append(ctx context.Context, e models.IrrigationEvent) error
	List(ctx context.Context, f EventFilter) ([]models.IrrigationEvent, error)
}

type Repository struct {
	ZoneRepo  ZoneRepo
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ZoneRepo:  NewZoneSQLite(db),
		EventRepo: NewEventSQLite(db),
	}
}
