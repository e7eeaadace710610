// Package events is a synchronous post-write/post-delete dispatcher.
// Side effects that the schema used to hide in persistence hooks (the
// aggregate rollups) are registered here explicitly per entity type and
// invoked by the services after a successful write.
package events

import (
	"sync"

	"gorm.io/gorm"
)

type Action string

const (
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Entity names used as registration keys.
const (
	EntityCourse = "course"
	EntityReview = "review"
)

// Event describes a completed mutation of a child entity.
// DB is the handle the mutation ran on, so listeners observe the same
// transaction state as the triggering write.
type Event struct {
	Entity     string
	Action     Action
	BootcampID string
	DB         *gorm.DB
}

type Handler func(Event)

// Dispatcher routes events to the handlers registered for their entity.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
	}
}

// Listen registers a handler for the given entity.
func (d *Dispatcher) Listen(entity string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[entity] = append(d.handlers[entity], handler)
}

// Fire dispatches an event synchronously to all registered handlers.
// Handlers must not propagate failures back to the triggering request;
// the dispatcher itself never returns an error.
func (d *Dispatcher) Fire(ev Event) {
	d.mu.RLock()
	hs := make([]Handler, len(d.handlers[ev.Entity]))
	copy(hs, d.handlers[ev.Entity])
	d.mu.RUnlock()

	for _, h := range hs {
		h(ev)
	}
}

// Flush removes all handlers (useful in tests).
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[string][]Handler)
}
