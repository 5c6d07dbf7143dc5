package events

import (
	"context"
	"sync"
)

// RecordingPublisher keeps every event it receives. Err, when set, is
// returned from each publish after the event is recorded.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []ProductDeletedEvent
	Err    error
}

// PublishProductDeleted implements Publisher.
func (r *RecordingPublisher) PublishProductDeleted(_ context.Context, event ProductDeletedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

// Events returns a copy of the recorded events in arrival order.
func (r *RecordingPublisher) Events() []ProductDeletedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ProductDeletedEvent, len(r.events))
	copy(out, r.events)
	return out
}

var _ Publisher = (*RecordingPublisher)(nil)
