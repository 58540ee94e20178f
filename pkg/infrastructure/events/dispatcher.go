package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type subscription struct {
	id      string
	handler EventHandler
}

// dispatcher delivers appended events to subscribed handlers in subscription order
type dispatcher struct {
	mutex       sync.RWMutex
	subscribers map[string][]subscription
	logger      zerolog.Logger
}

func newDispatcher(logger zerolog.Logger) *dispatcher {
	return &dispatcher{
		subscribers: make(map[string][]subscription),
		logger:      logger,
	}
}

// Subscribe registers handler for the given event types and returns the
// subscription id to pass to Unsubscribe
func (d *dispatcher) Subscribe(eventTypes []string, handler EventHandler) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	id := uuid.NewString()
	for _, eventType := range eventTypes {
		d.subscribers[eventType] = append(d.subscribers[eventType], subscription{id: id, handler: handler})
	}

	return id, nil
}

// Unsubscribe removes every registration made under id
func (d *dispatcher) Unsubscribe(id string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for eventType, subs := range d.subscribers {
		kept := make([]subscription, 0, len(subs))
		for _, sub := range subs {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		d.subscribers[eventType] = kept
	}

	return nil
}

// notify runs on the appending goroutine after the event is stored. Handler
// errors are logged and never fail the append.
func (d *dispatcher) notify(event Event) {
	d.mutex.RLock()
	subs := append([]subscription(nil), d.subscribers[event.Type()]...)
	d.mutex.RUnlock()

	for _, sub := range subs {
		if !sub.handler.CanHandle(event.Type()) {
			continue
		}
		if err := sub.handler.Handle(event); err != nil {
			d.logger.Error().
				Err(err).
				Str("event_type", event.Type()).
				Str("event_id", event.ID()).
				Msg("event handler failed")
		}
	}
}
