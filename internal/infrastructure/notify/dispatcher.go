// Package notify delivers reservation lifecycle notifications off the
// request path. Email and SMS delivery are external collaborators; this
// package only routes events to a Notifier with per-reservation ordering.
package notify

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/api/metrics"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Notifier delivers one reservation event to the outside world.
type Notifier interface {
	Notify(ctx context.Context, event ports.ReservationEvent) error
}

// Dispatcher routes reservation events to a fixed set of workers using
// consistent hashing on the reservation id, guaranteeing per-reservation
// notification ordering.
type Dispatcher struct {
	workers  []chan ports.ReservationEvent
	notifier Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.ReservationEvent, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReservationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its reservation.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.ReservationEvent) {
	idx := d.shardIndex(event.ReservationID)
	d.workers[idx] <- event
	metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a reservation id deterministically to a worker index.
func (d *Dispatcher) shardIndex(reservationID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(reservationID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReservationEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.Notify(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("reservation_id", event.ReservationID).
					Str("kind", event.Kind).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
			metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

// LogNotifier is the default Notifier: it records the event and drops it.
// Real email/SMS delivery plugs in behind the same interface.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Notify(_ context.Context, event ports.ReservationEvent) error {
	n.Log.Info().
		Str("kind", event.Kind).
		Str("reservation_id", event.ReservationID).
		Str("business_id", event.BusinessID).
		Str("client_email", event.ClientEmail).
		Time("starts_at", event.StartsAt).
		Msg("reservation notification")
	return nil
}
