package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeBookingCreated   Type = "booking.created"
	TypeBookingCancelled Type = "booking.cancelled"
	TypeBookingPaid      Type = "booking.paid"
	TypeBookingExpired   Type = "booking.expired"
)

// BookingEvent describes one lifecycle transition, published after the
// durable store committed it.
type BookingEvent struct {
	Type        Type      `json:"type"`
	BookingID   string    `json:"booking_id"`
	UnitID      string    `json:"unit_id"`
	RequesterID string    `json:"requester_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NopPublisher drops every event. Used when no broker is configured and
// in tests.
type NopPublisher struct{}

func NewNopPublisher() NopPublisher {
	return NopPublisher{}
}

func (NopPublisher) Publish(_ context.Context, _ BookingEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
