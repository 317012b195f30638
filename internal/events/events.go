// Package events publishes reservation lifecycle events to a message broker.
package events

import (
	"context"
	"time"

	"restaurant-seating-backend/internal/model"
)

// Routing keys of the published events.
const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationStatusChanged = "reservation.status_changed"
)

// Event is the JSON payload published for every reservation change.
type Event struct {
	Type        string            `json:"type"`
	OccurredAt  time.Time         `json:"occurredAt"`
	Reservation model.Reservation `json:"reservation"`
}

// NewReservationEvent builds an event of the given type for r.
func NewReservationEvent(eventType string, r model.Reservation, at time.Time) Event {
	return Event{Type: eventType, OccurredAt: at.UTC(), Reservation: r}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
