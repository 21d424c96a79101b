package services

import "sync"

// subscriberHub fans a value out to every callback registered under a key.
// Callbacks run while the lock is held so that a returned unsubscribe
// function, once it returns, guarantees no further invocations.
type subscriberHub[T any] struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func(T)
}

func newSubscriberHub[T any]() *subscriberHub[T] {
	return &subscriberHub[T]{subs: make(map[string]map[int]func(T))}
}

// subscribe registers fn under key and returns its unsubscribe handle.
// fn runs with the hub locked, so it must not call subscribe or unsubscribe
// on the same hub.
func (h *subscriberHub[T]) subscribe(key string, fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]func(T))
	}
	h.subs[key][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[key], id)
		if len(h.subs[key]) == 0 {
			delete(h.subs, key)
		}
	}
}

// publish delivers value to every subscriber registered under key.
func (h *subscriberHub[T]) publish(key string, value T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fn := range h.subs[key] {
		fn(value)
	}
}
