package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
)

// persistTimeout bounds a single background write.
const persistTimeout = 5 * time.Second

// Persister saves one zone's configuration. It is only ever called from
// the store's background writer, never from Update.
type Persister interface {
	SaveZone(ctx context.Context, zone models.ZoneID, cfg models.ZoneConfig) error
}

// zoneSlot guards one zone's record. Readers copy under RLock; the single
// writer replaces the whole record under Lock.
type zoneSlot struct {
	mu  sync.RWMutex
	cfg models.ZoneConfig
}

// ConfigStore is the only owner of the zone configurations. The control
// loop and request handlers share it; each zone has its own lock so an
// update of one zone never waits on the other.
type ConfigStore struct {
	zones [models.ZoneCount]zoneSlot

	persister Persister
	dirty     [models.ZoneCount]atomic.Bool
	wake      chan struct{}
	stopped   atomic.Bool
	log       *logger.Logger
}

// Option configures a ConfigStore.
type Option func(*ConfigStore)

// WithPersister enables best-effort persistence after successful updates.
// Writes happen in Run; Update only marks the zone dirty.
func WithPersister(p Persister) Option {
	return func(s *ConfigStore) { s.persister = p }
}

// WithLogger sets the logger used by the background writer.
func WithLogger(l *logger.Logger) Option {
	return func(s *ConfigStore) { s.log = l }
}

// New builds a store seeded with initial. Every initial zone must be valid.
func New(initial models.Zones, opts ...Option) (*ConfigStore, error) {
	s := &ConfigStore{
		wake: make(chan struct{}, 1),
		log:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, id := range models.AllZones {
		if err := initial.Zone(id).Validate(); err != nil {
			return nil, fmt.Errorf("initial %s config: %w", id, err)
		}
		s.zones[id].cfg = initial.Zone(id)
	}
	return s, nil
}

// Snapshot returns a point-in-time copy of both zones. Read locks are taken
// in zone order and held together, so no update lands between the two copies.
func (s *ConfigStore) Snapshot() models.Zones {
	var out models.Zones
	for _, id := range models.AllZones {
		s.zones[id].mu.RLock()
	}
	for _, id := range models.AllZones {
		out[id] = s.zones[id].cfg
	}
	for i := len(models.AllZones) - 1; i >= 0; i-- {
		s.zones[models.AllZones[i]].mu.RUnlock()
	}
	return out
}

// Zone returns a copy of one zone's configuration.
func (s *ConfigStore) Zone(id models.ZoneID) (models.ZoneConfig, error) {
	if !id.Valid() {
		return models.ZoneConfig{}, fmt.Errorf("%w: %d", models.ErrUnknownZone, int(id))
	}
	slot := &s.zones[id]
	slot.mu.RLock()
	defer slot.mu.RUnlock()
	return slot.cfg, nil
}

// Update validates cfg and replaces the stored record for id. On error the
// stored record is left untouched. Validation runs before the lock is taken.
func (s *ConfigStore) Update(id models.ZoneID, cfg models.ZoneConfig) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownZone, int(id))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	slot := &s.zones[id]
	slot.mu.Lock()
	slot.cfg = cfg
	slot.mu.Unlock()

	s.markDirty(id)
	return nil
}

// markDirty flags id for the background writer without blocking.
func (s *ConfigStore) markDirty(id models.ZoneID) {
	if s.persister == nil {
		return
	}
	s.dirty[id].Store(true)
	if s.stopped.Load() {
		s.log.Warnw("zone_config_not_persisted", "zone", id.String(), "reason", "writer stopped")
		return
	}
	select {
	case s.wake <- struct{}{}:
	default: // a wake-up is already pending
	}
}

// Run drains dirty zones to the persister until ctx is canceled, then
// flushes once more. Updates made after that stay in memory only. It always writes the latest record of a zone, so
// bursts of updates collapse into one write.
func (s *ConfigStore) Run(ctx context.Context) {
	if s.persister == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			s.stopped.Store(true)
			s.flush(context.Background())
			return
		case <-s.wake:
			s.flush(ctx)
		}
	}
}

func (s *ConfigStore) flush(parent context.Context) {
	for _, id := range models.AllZones {
		if !s.dirty[id].Swap(false) {
			continue
		}
		cfg, _ := s.Zone(id)
		ctx, cancel := context.WithTimeout(parent, persistTimeout)
		err := s.persister.SaveZone(ctx, id, cfg)
		cancel()
		if err != nil {
			s.log.Warnw("zone_config_persist_failed", "zone", id.String(), "err", err)
		}
	}
}
