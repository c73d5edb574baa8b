// Package testutil provides shared helpers for widget tests: an event
// recorder safe to use from timer goroutines and a dependency constructor
// wired to a fake clock.
package testutil

import (
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/c360/widgetkit/widget"
)

// EventRecorder captures emitted widget events for assertions. Timer
// callbacks emit from their own goroutines, so all access is
// mutex-protected.
type EventRecorder struct {
	mu     sync.Mutex
	events []widget.Event
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Record appends an event; pass it to OnAny as the listener
func (r *EventRecorder) Record(e widget.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Count returns how many events with the given name were recorded
func (r *EventRecorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent event with the given name
func (r *EventRecorder) Last(name string) (widget.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name == name {
			return r.events[i], true
		}
	}
	return widget.Event{}, false
}

// Len returns the total number of recorded events
func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Events returns a copy of all recorded events in order
func (r *EventRecorder) Events() []widget.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]widget.Event, len(r.events))
	copy(out, r.events)
	return out
}

// FakeDeps returns widget dependencies driven by a fake clock, plus the
// clock for advancing time in tests.
func FakeDeps() (widget.Dependencies, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return widget.Dependencies{Clock: clock}, clock
}
