package services

import (
	"sync"

	"github.com/google/uuid"
)

// recorderStub captures emitted analytics events for assertions.
type recorderStub struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	ProjectID uuid.UUID
	EventType string
	UserID    *uuid.UUID
	Metadata  map[string]string
}

func (r *recorderStub) Record(projectID uuid.UUID, eventType string, userID *uuid.UUID, metadata map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{
		ProjectID: projectID,
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	})
}

func (r *recorderStub) byType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
