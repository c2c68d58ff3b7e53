package store

import (
	"context"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
)

// Loader reads previously persisted zone configurations.
type Loader interface {
	LoadAll(ctx context.Context) (map[models.ZoneID]models.ZoneConfig, error)
}

// InitialZones returns the persisted configuration merged over the defaults.
// A read error, a missing row or a row that fails validation falls back to
// the default for that zone, so boot never fails on stored config.
func InitialZones(ctx context.Context, l Loader, log *logger.Logger) models.Zones {
	if log == nil {
		log = logger.NewNop()
	}
	zones := models.DefaultZones()
	if l == nil {
		return zones
	}

	stored, err := l.LoadAll(ctx)
	if err != nil {
		log.Warnw("zone_config_load_failed", "err", err)
		return zones
	}
	for _, id := range models.AllZones {
		cfg, ok := stored[id]
		if !ok {
			log.Infow("zone_config_default", "zone", id.String())
			continue
		}
		if err := cfg.Validate(); err != nil {
			log.Warnw("zone_config_invalid", "zone", id.String(), "err", err)
			continue
		}
		zones[id] = cfg
	}
	return zones
}
