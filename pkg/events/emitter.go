// Package events implements the connector-to-framework event channel as an
// explicit subscription/publish mechanism. The connector registers SDK-side
// listeners itself and republishes through an Emitter, so framework
// subscribers never touch the wallet provider directly.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// ConnectEvent signals that a wallet session became active.
type ConnectEvent struct {
	ChainID int64
}

// ChangeEvent signals that the active account set or chain changed.
// A zero ChainID means the chain did not change; an empty Accounts slice
// means the account set did not change.
type ChangeEvent struct {
	Accounts []string
	ChainID  int64
}

// DisconnectEvent signals that the wallet session ended.
type DisconnectEvent struct{}

// Subscription identifies one registered handler.
type Subscription struct {
	id    string
	event string
}

const (
	eventConnect    = "connect"
	eventChange     = "change"
	eventDisconnect = "disconnect"
)

// Emitter fans framework events out to registered handlers.
// Delivery is synchronous, in registration order, on the publishing
// goroutine.
type Emitter struct {
	mu          sync.RWMutex
	connects    []entry[ConnectEvent]
	changes     []entry[ChangeEvent]
	disconnects []entry[DisconnectEvent]
}

type entry[T any] struct {
	id      string
	handler func(T)
}

// NewEmitter creates an emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// OnConnect registers a handler for connect events.
func (e *Emitter) OnConnect(handler func(ConnectEvent)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := Subscription{id: uuid.NewString(), event: eventConnect}
	e.connects = append(e.connects, entry[ConnectEvent]{id: sub.id, handler: handler})
	return sub
}

// OnChange registers a handler for change events.
func (e *Emitter) OnChange(handler func(ChangeEvent)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := Subscription{id: uuid.NewString(), event: eventChange}
	e.changes = append(e.changes, entry[ChangeEvent]{id: sub.id, handler: handler})
	return sub
}

// OnDisconnect registers a handler for disconnect events.
func (e *Emitter) OnDisconnect(handler func(DisconnectEvent)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := Subscription{id: uuid.NewString(), event: eventDisconnect}
	e.disconnects = append(e.disconnects, entry[DisconnectEvent]{id: sub.id, handler: handler})
	return sub
}

// Unsubscribe removes a previously registered handler. Unknown
// subscriptions are ignored.
func (e *Emitter) Unsubscribe(sub Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch sub.event {
	case eventConnect:
		e.connects = remove(e.connects, sub.id)
	case eventChange:
		e.changes = remove(e.changes, sub.id)
	case eventDisconnect:
		e.disconnects = remove(e.disconnects, sub.id)
	}
}

// EmitConnect publishes a connect event to all connect subscribers.
func (e *Emitter) EmitConnect(ev ConnectEvent) {
	for _, h := range snapshot(e, &e.connects) {
		h(ev)
	}
}

// EmitChange publishes a change event to all change subscribers.
func (e *Emitter) EmitChange(ev ChangeEvent) {
	for _, h := range snapshot(e, &e.changes) {
		h(ev)
	}
}

// EmitDisconnect publishes a disconnect event to all disconnect subscribers.
func (e *Emitter) EmitDisconnect(ev DisconnectEvent) {
	for _, h := range snapshot(e, &e.disconnects) {
		h(ev)
	}
}

func remove[T any](entries []entry[T], id string) []entry[T] {
	filtered := entries[:0]
	for _, en := range entries {
		if en.id != id {
			filtered = append(filtered, en)
		}
	}
	return filtered
}

// snapshot copies the handler slice under the read lock so handlers may
// subscribe or unsubscribe while an emit is in flight.
func snapshot[T any](e *Emitter, entries *[]entry[T]) []func(T) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	handlers := make([]func(T), 0, len(*entries))
	for _, en := range *entries {
		handlers = append(handlers, en.handler)
	}
	return handlers
}
