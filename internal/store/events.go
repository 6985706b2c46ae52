package store

import (
	"context"
	"log"
	"time"

	"tapid-connect/internal/connect"
	"tapid-connect/internal/model"
)

// Recorder writes connect store events to the connection event log on
// its own goroutine. Refreshes and day selections are not recorded.
type Recorder struct {
	store   Store
	timeout time.Duration
	queue   chan connect.Event
}

// NewRecorder creates a recorder holding up to size pending events.
func NewRecorder(s Store, size int, timeout time.Duration) *Recorder {
	if size <= 0 {
		size = 64
	}
	return &Recorder{
		store:   s,
		timeout: timeout,
		queue:   make(chan connect.Event, size),
	}
}

// Publish implements connect.EventSink. An event is dropped rather than
// stalling the store when the queue is full.
func (r *Recorder) Publish(ev connect.Event) {
	switch ev.Kind {
	case connect.EventRefreshed, connect.EventDaySelected:
		return
	}
	select {
	case r.queue <- ev:
	default:
		log.Printf("Event log queue full; dropping %s event for %s", ev.Kind, ev.ProviderID)
	}
}

// Run writes queued events until ctx is done. Events still queued at
// that point are written before it returns.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case ev := <-r.queue:
			r.record(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-r.queue:
					r.record(ev)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) record(ev connect.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := r.store.RecordEvent(ctx, model.ConnectionEvent{
		Kind:       string(ev.Kind),
		ProviderID: ev.ProviderID,
		Name:       ev.Name,
		Error:      ev.Error,
		OccurredAt: ev.At,
	})
	if err != nil {
		log.Printf("Error recording connection event: %v", err)
	}
}
