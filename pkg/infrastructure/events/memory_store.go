package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type InMemoryEventStore struct {
	*dispatcher
	streams   map[string][]Event
	mutex     sync.RWMutex
	allEvents []Event
}

var _ EventStore = (*InMemoryEventStore)(nil)

func NewInMemoryEventStore(logger zerolog.Logger) *InMemoryEventStore {
	return &InMemoryEventStore{
		dispatcher: newDispatcher(logger.With().Str("component", "event_store").Logger()),
		streams:    make(map[string][]Event),
		allEvents:  make([]Event, 0),
	}
}

func (s *InMemoryEventStore) AppendEvent(ctx context.Context, streamID string, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	eventWithVersion := BaseEvent{
		EventID:      event.ID(),
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	s.mutex.Unlock()

	s.notify(eventWithVersion)

	return nil
}

func (s *InMemoryEventStore) ReadEvents(ctx context.Context, streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[fromVersion-1:]...), nil
}

func (s *InMemoryEventStore) ReadAllEvents(ctx context.Context, fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}
