package widget

import (
	"sync"
	"time"
)

// Event is an outbound, named, payload-carrying notification a widget
// emits to inform external observers of a state change.
type Event struct {
	// Name is the event discriminator, e.g. "retrywaiting"
	Name string

	// Widget is the emitting widget's instance ID
	Widget string

	// Detail carries the event payload
	Detail map[string]any

	// Timestamp is when the event was emitted
	Timestamp time.Time
}

// Listener receives emitted events
type Listener func(Event)

// Emitter fans events out to registered listeners. Delivery is synchronous
// in call order; emission is fire-and-forget with no return value. This is
// the sole mechanism by which a widget communicates outward.
//
// Registration is thread-safe; delivery happens on the emitting goroutine.
type Emitter struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[string]map[int]Listener // event name -> id -> listener
	all       map[int]Listener            // listeners for every event
}

// NewEmitter creates an Emitter with no listeners
func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make(map[string]map[int]Listener),
		all:       make(map[int]Listener),
	}
}

// On registers a listener for the named event and returns an unsubscribe
// function. A nil listener is ignored.
func (e *Emitter) On(name string, fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++

	if e.listeners[name] == nil {
		e.listeners[name] = make(map[int]Listener)
	}
	e.listeners[name][id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[name], id)
	}
}

// OnAny registers a listener for every event and returns an unsubscribe
// function.
func (e *Emitter) OnAny(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.all[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.all, id)
	}
}

// Emit delivers the event synchronously to named listeners first, then to
// catch-all listeners, preserving registration order within each group.
func (e *Emitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	e.mu.RLock()
	named := make([]listenerEntry, 0, len(e.listeners[ev.Name]))
	for id, fn := range e.listeners[ev.Name] {
		named = append(named, listenerEntry{id, fn})
	}
	catchAll := make([]listenerEntry, 0, len(e.all))
	for id, fn := range e.all {
		catchAll = append(catchAll, listenerEntry{id, fn})
	}
	e.mu.RUnlock()

	sortListeners(named)
	sortListeners(catchAll)

	for _, entry := range named {
		entry.fn(ev)
	}
	for _, entry := range catchAll {
		entry.fn(ev)
	}
}

type listenerEntry struct {
	id int
	fn Listener
}

// sortListeners orders entries by registration ID. Listener counts are
// tiny, so insertion sort beats pulling in sort for a hot path.
func sortListeners(entries []listenerEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].id > entries[j].id; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
