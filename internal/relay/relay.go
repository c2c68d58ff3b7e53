// Package relay drives the per-zone valve relays.
package relay

import (
	"fmt"
	"sync"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
)

// Switch writes a relay output unconditionally.
type Switch interface {
	Write(zone models.ZoneID, on bool) error
}

// Bank makes a Switch idempotent: a write reaches the Switch only when the
// requested level differs from the last level written successfully.
// Bank is meant to be driven from the control loop only; the mutex makes
// State safe to call from elsewhere.
type Bank struct {
	sw  Switch
	log *logger.Logger

	mu    sync.Mutex
	on    [models.ZoneCount]bool
	known [models.ZoneCount]bool
}

func NewBank(sw Switch, log *logger.Logger) *Bank {
	if log == nil {
		log = logger.NewNop()
	}
	return &Bank{sw: sw, log: log}
}

// Set drives zone to on. Repeating the current level is a no-op.
func (b *Bank) Set(zone models.ZoneID, on bool) error {
	if !zone.Valid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownZone, int(zone))
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.known[zone] && b.on[zone] == on {
		return nil
	}
	if err := b.sw.Write(zone, on); err != nil {
		// level is unknown after a failed write; the next Set retries
		b.known[zone] = false
		return fmt.Errorf("relay %s on=%t: %w", zone, on, err)
	}
	b.on[zone], b.known[zone] = on, true
	b.log.Infow("relay_switched", "zone", zone.String(), "on", on)
	return nil
}

// AllOff writes off to every zone regardless of the cached level.
func (b *Bank) AllOff() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for _, id := range models.AllZones {
		if err := b.sw.Write(id, false); err != nil {
			b.known[id] = false
			if firstErr == nil {
				firstErr = fmt.Errorf("relay %s off: %w", id, err)
			}
			continue
		}
		b.on[id], b.known[id] = false, true
	}
	return firstErr
}

// State reports the last level written to zone.
func (b *Bank) State(zone models.ZoneID) bool {
	if !zone.Valid() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.on[zone]
}
