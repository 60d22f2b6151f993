package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Schedule is a single screening instance: one movie on one screen at one time,
// with a fixed seat layout. Schedules are immutable to the booking core; the
// catalog owns their lifecycle.
type Schedule struct {
	ID         int64
	MovieID    int64
	MovieTitle string
	Screen     int
	StartTime  time.Time
	EndTime    time.Time
	BasePrice  decimal.Decimal
	Seats      []string // layout in row-major order, e.g. "A1", "A2", "B1"
}

func (s *Schedule) Capacity() int {
	return len(s.Seats)
}

// SeatSet returns the layout as a lookup set.
func (s *Schedule) SeatSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Seats))
	for _, id := range s.Seats {
		set[id] = struct{}{}
	}
	return set
}

type ScheduleRepository interface {
	GetById(ctx context.Context, id int64) (*Schedule, error)
	GetAll(ctx context.Context, pagination Pagination) ([]Schedule, *Metadata, error)
}
