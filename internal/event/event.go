// Package event publishes booking lifecycle notifications for downstream
// consumers (ticket delivery, mail, analytics). Publication is best-effort:
// a broker outage must never fail the booking operation that triggered it.
package event

import (
	"context"
	"time"
)

const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
)

type BookingEvent struct {
	Reference   string    `json:"reference"`
	ScheduleID  int64     `json:"schedule_id"`
	UserID      int64     `json:"user_id"`
	SeatIDs     []string  `json:"seat_ids"`
	TotalAmount string    `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	BookingConfirmed(ctx context.Context, event BookingEvent) error
	BookingCancelled(ctx context.Context, event BookingEvent) error
}

// NopPublisher discards all events. Used when no broker is configured and in
// tests that don't assert on published messages.
type NopPublisher struct{}

func (NopPublisher) BookingConfirmed(ctx context.Context, event BookingEvent) error { return nil }
func (NopPublisher) BookingCancelled(ctx context.Context, event BookingEvent) error { return nil }
