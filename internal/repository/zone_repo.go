package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"irrigation_controller/internal/models"
)

type ZoneSQLite struct {
	db *sql.DB
}

func NewZoneSQLite(db *sql.DB) *ZoneSQLite {
	return &ZoneSQLite{db: db}
}

const (
	upsertZoneSQL = `
		INSERT INTO zone_config (zone, enabled, start_time, min_humidity, max_humidity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(zone) DO UPDATE SET
			enabled=excluded.enabled,
			start_time=excluded.start_time,
			min_humidity=excluded.min_humidity,
			max_humidity=excluded.max_humidity,
			updated_at=excluded.updated_at
	`

	selectZonesSQL = `
		SELECT zone, enabled, start_time, min_humidity, max_humidity
		FROM zone_config ORDER BY zone
	`
)

// SaveZone inserts or replaces the row for zone.
func (r *ZoneSQLite) SaveZone(ctx context.Context, zone models.ZoneID, cfg models.ZoneConfig) error {
	if !zone.Valid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownZone, int(zone))
	}
	_, err := r.db.ExecContext(ctx, upsertZoneSQL,
		zone.String(),
		cfg.Enabled,
		cfg.StartTime.String(),
		float64(cfg.MinHumidity),
		float64(cfg.MaxHumidity),
		time.Now().UTC(),
	)
	return err
}

// LoadAll returns every stored zone. Rows with an unknown zone name or an
// unparsable start time are an error; range checks are left to the caller.
func (r *ZoneSQLite) LoadAll(ctx context.Context) (map[models.ZoneID]models.ZoneConfig, error) {
	rows, err := r.db.QueryContext(ctx, selectZonesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.ZoneID]models.ZoneConfig, models.ZoneCount)
	for rows.Next() {
		var (
			name, start string
			cfg         models.ZoneConfig
			minH, maxH  float64
		)
		if err := rows.Scan(&name, &cfg.Enabled, &start, &minH, &maxH); err != nil {
			return nil, err
		}
		id, err := models.ParseZoneID(name)
		if err != nil {
			return nil, err
		}
		if cfg.StartTime, err = models.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("zone %s: %w", name, err)
		}
		cfg.MinHumidity = models.Percentage(minH)
		cfg.MaxHumidity = models.Percentage(maxH)
		out[id] = cfg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
