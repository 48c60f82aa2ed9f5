// Package notify carries change signals between the stores and the UI
// surfaces observing them. Payloads name which store changed and where
// the mutation originated, nothing more: observers re-read the store's
// state rather than trusting an event for data.
package notify

import "sync"

// Topic names the store a signal belongs to.
type Topic string

const (
	TopicCartChanged     Topic = "cart.changed"
	TopicWishlistChanged Topic = "wishlist.changed"
)

// Event is a change signal. Origin is empty for mutations made by this
// process; relays stamp it with the publishing instance's ID so
// observers can tell a foreign mutation needs a reload from storage.
type Event struct {
	Topic  Topic  `json:"topic"`
	Origin string `json:"origin,omitempty"`
}

// Remote reports whether the mutation happened in another process.
func (e Event) Remote() bool {
	return e.Origin != ""
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(Event)

// Bus is the in-process publish/subscribe hub. Any number of observers
// may subscribe to a topic; every Subscribe returns the matching
// unsubscribe so view teardown cannot leak observers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic]map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler)}
}

// Subscribe registers a handler for a topic and returns its
// unsubscribe. Calling the unsubscribe more than once is harmless.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers an event to every subscriber of its topic.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Topic]))
	for _, h := range b.subs[ev.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}
