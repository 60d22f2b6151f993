package domain

import (
	"context"
	"time"
)

// SeatHold is a temporary exclusive claim on one seat for one schedule by one
// user. At most one live hold may exist per (schedule, seat); the repository
// enforces this with a conditional create.
type SeatHold struct {
	ID         int64
	ScheduleID int64
	SeatID     string
	UserID     int64
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the hold is reclaimable at the given instant.
// A hold expires exactly at its deadline: expires-at <= now.
func (h SeatHold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

type HoldRepository interface {
	// CreateAll inserts every hold or none. Expired holds occupying the target
	// seats are purged in the same transaction (they no longer block). A live
	// conflicting hold yields ErrEditConflict.
	CreateAll(ctx context.Context, holds []SeatHold, now time.Time) ([]SeatHold, error)

	// GetBySeats returns the holds currently stored for the given seats,
	// expired or not. Expiry classification is the caller's concern.
	GetBySeats(ctx context.Context, scheduleID int64, seatIDs []string) ([]SeatHold, error)

	GetBySchedule(ctx context.Context, scheduleID int64) ([]SeatHold, error)

	DeleteByID(ctx context.Context, id int64) error

	// ListExpired returns up to limit holds with expires-at <= now.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]SeatHold, error)

	// DeleteIfExpired deletes the given holds only where still present and
	// still expired at now, returning how many rows it removed. Safe to call
	// with a stale id set.
	DeleteIfExpired(ctx context.Context, ids []int64, now time.Time) (int, error)
}
