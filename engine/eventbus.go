package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"vehiclegw/logging"
)

type EventType int

type SubscriberID int

type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

type subscriber struct {
	id SubscriberID
	fn func(Event)
}

// routes is an immutable snapshot of the subscriber table. Emit reads it
// without locking; writers replace it whole.
type routes struct {
	any    []subscriber
	byType map[EventType][]subscriber
}

// EventBus delivers events synchronously, on the emitting goroutine.
// Catch-all subscribers run first, then the subscribers for the event's
// type, each group in registration order. Handlers must not block, and a
// panicking handler is logged and skipped.
type EventBus struct {
	mu     sync.Mutex // serializes writers
	nextID SubscriberID
	table  atomic.Pointer[routes]
	log    logging.Logger
}

type BusOption func(*EventBus)

// WithBusLogger sets where handler panics are reported.
func WithBusLogger(l logging.Logger) BusOption {
	return func(eb *EventBus) { eb.log = l }
}

func NewEventBus(opts ...BusOption) *EventBus {
	eb := &EventBus{log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(eb)
	}
	eb.table.Store(&routes{byType: map[EventType][]subscriber{}})
	return eb
}

// Subscribe registers a handler for all event types.
func (eb *EventBus) Subscribe(fn func(Event)) SubscriberID {
	return eb.update(func(r *routes, id SubscriberID) {
		r.any = append(r.any, subscriber{id: id, fn: fn})
	})
}

// SubscribeTypes registers a handler for specific event types.
func (eb *EventBus) SubscribeTypes(fn func(Event), types ...EventType) SubscriberID {
	return eb.update(func(r *routes, id SubscriberID) {
		seen := make(map[EventType]bool, len(types))
		for _, t := range types {
			if seen[t] {
				continue
			}
			seen[t] = true
			r.byType[t] = append(r.byType[t], subscriber{id: id, fn: fn})
		}
	})
}

// Unsubscribe removes a subscriber by ID. Unknown IDs are ignored.
func (eb *EventBus) Unsubscribe(id SubscriberID) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	next := eb.table.Load().clone()
	next.any = without(next.any, id)
	for t, subs := range next.byType {
		if subs = without(subs, id); len(subs) == 0 {
			delete(next.byType, t)
		} else {
			next.byType[t] = subs
		}
	}
	eb.table.Store(next)
}

// Emit stamps evt if needed and hands it to every matching subscriber.
// Subscribers added while Emit runs do not see evt.
func (eb *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	r := eb.table.Load()
	for _, s := range r.any {
		eb.deliver(s, evt)
	}
	for _, s := range r.byType[evt.Type] {
		eb.deliver(s, evt)
	}
}

func (eb *EventBus) deliver(s subscriber, evt Event) {
	defer func() {
		if p := recover(); p != nil {
			eb.log.Error(fmt.Errorf("%v", p), "event handler panicked", "event", evt.Type, "subscriber", s.id)
		}
	}()
	s.fn(evt)
}

func (eb *EventBus) update(apply func(*routes, SubscriberID)) SubscriberID {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.nextID++
	next := eb.table.Load().clone()
	apply(next, eb.nextID)
	eb.table.Store(next)
	return eb.nextID
}

func (r *routes) clone() *routes {
	c := &routes{
		any:    append([]subscriber(nil), r.any...),
		byType: make(map[EventType][]subscriber, len(r.byType)),
	}
	for t, subs := range r.byType {
		c.byType[t] = append([]subscriber(nil), subs...)
	}
	return c
}

func without(subs []subscriber, id SubscriberID) []subscriber {
	out := subs[:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
