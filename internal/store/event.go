package store

import (
	"sync"

	"github.com/efreitasn/minimarket/internal/domain"
)

// EventStore is a thread-safe append-only log of engine events, the
// backing store for the UI-facing event feed.
type EventStore struct {
	mu     sync.RWMutex
	events []*domain.Event
}

// NewEventStore creates an empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Append adds an event to the log.
func (s *EventStore) Append(e *domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, e)
}

// Since returns up to limit events with Seq greater than afterSeq, in
// ascending sequence order. Pass afterSeq 0 to read from the start.
func (s *EventStore) Since(afterSeq int64, limit int) []*domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Event, 0, limit)
	for _, e := range s.events {
		if e.Seq <= afterSeq {
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Recent returns up to n most recent events, newest first.
func (s *EventStore) Recent(n int) []*domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.events) {
		n = len(s.events)
	}
	out := make([]*domain.Event, 0, n)
	for i := len(s.events) - 1; i >= len(s.events)-n; i-- {
		out = append(out, s.events[i])
	}
	return out
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
