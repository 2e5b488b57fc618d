package service

import (
	"context"
	"sync"

	"github.com/Rodrymza/app-novedades/internal/events"
)

// eventRecorder is a Dispatcher that keeps every published event.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) Subscribe(events.EventType, events.EventHandler) {}

func (r *eventRecorder) OfType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
