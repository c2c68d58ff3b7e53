package service

import (
	"context"
	"sync/atomic"
	"time"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
	"irrigation_controller/internal/repository"
)

const (
	defaultRecorderBuffer = 256
	appendTimeout         = 3 * time.Second
	drainTimeout          = 5 * time.Second
)

// EventRecorder decouples event producers from the database. Record never
// blocks; when the buffer is full the event is dropped and counted.
type EventRecorder struct {
	repo    repository.EventRepo
	ch      chan models.IrrigationEvent
	log     *logger.Logger
	dropped atomic.Uint64
}

func NewEventRecorder(repo repository.EventRepo, buffer int, log *logger.Logger) *EventRecorder {
	if buffer <= 0 {
		buffer = defaultRecorderBuffer
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &EventRecorder{
		repo: repo,
		ch:   make(chan models.IrrigationEvent, buffer),
		log:  log,
	}
}

func (r *EventRecorder) Record(ev models.IrrigationEvent) {
	select {
	case r.ch <- ev:
	default:
		n := r.dropped.Add(1)
		r.log.Warnw("event_dropped", "type", ev.Type, "zone", ev.Zone, "dropped_total", n)
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (r *EventRecorder) Dropped() uint64 { return r.dropped.Load() }

// Run appends buffered events until ctx is canceled, then drains what is
// left within drainTimeout.
func (r *EventRecorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return
		case ev := <-r.ch:
			// an event already accepted is written even if shutdown races it
			r.append(context.WithoutCancel(ctx), ev)
		}
	}
}

func (r *EventRecorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case ev := <-r.ch:
			r.append(ctx, ev)
		default:
			return
		}
	}
}

func (r *EventRecorder) append(ctx context.Context, ev models.IrrigationEvent) {
	actx, cancel := context.WithTimeout(ctx, appendTimeout)
	defer cancel()
	if err := r.repo.Append(actx, ev); err != nil {
		r.log.Errorw("event_append_failed", "type", ev.Type, "zone", ev.Zone, "err", err)
	}
}
