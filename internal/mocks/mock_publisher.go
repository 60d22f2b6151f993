package mocks

import (
	"context"
	"sync"

	"github.com/angelchiav/cinema-booking-system/internal/event"
)

// MockPublisher records published events for inspection.
type MockPublisher struct {
	mu        sync.Mutex
	Confirmed []event.BookingEvent
	Cancelled []event.BookingEvent
	Err       error
}

func (m *MockPublisher) BookingConfirmed(ctx context.Context, ev event.BookingEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Confirmed = append(m.Confirmed, ev)
	return nil
}

func (m *MockPublisher) BookingCancelled(ctx context.Context, ev event.BookingEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancelled = append(m.Cancelled, ev)
	return nil
}
