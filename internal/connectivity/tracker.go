// Package connectivity tracks whether the controller is reachable on the network.
package connectivity

import (
	"sync"
	"time"

	"irrigation_controller/internal/logger"
)

// Tracker records network up/down events. It is safe for concurrent use.
type Tracker struct {
	log *logger.Logger

	mu      sync.RWMutex
	up      bool
	since   time.Time
	changes int
}

func NewTracker(log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Tracker{log: log, since: time.Now().UTC()}
}

// Up marks the network as available. Repeated calls are no-ops.
func (t *Tracker) Up(addr string) {
	t.set(true, "network_up", "addr", addr)
}

// Down marks the network as lost.
func (t *Tracker) Down(reason string) {
	t.set(false, "network_down", "reason", reason)
}

func (t *Tracker) set(up bool, msg string, kv ...any) {
	t.mu.Lock()
	if t.up == up {
		t.mu.Unlock()
		return
	}
	t.up = up
	t.since = time.Now().UTC()
	t.changes++
	t.mu.Unlock()
	t.log.Infow(msg, kv...)
}

// Connected reports the last recorded state.
func (t *Tracker) Connected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.up
}

// Since returns when the current state was entered.
func (t *Tracker) Since() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.since
}
