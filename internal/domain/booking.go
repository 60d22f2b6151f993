package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// CanTransitionTo encodes the booking state machine: pending is initial,
// cancelled and expired are terminal, and a confirmed booking may still be
// cancelled by its owner.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusConfirmed || to == BookingStatusCancelled || to == BookingStatusExpired
	case BookingStatusConfirmed:
		return to == BookingStatusCancelled
	default:
		return false
	}
}

// Terminal reports whether no user-driven transition remains.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusExpired
}

// Booking aggregates one or more seats of a single schedule reserved by one
// user under a unique reference. A pending booking inherits the soonest
// deadline of the holds it consumed and expires if not confirmed in time.
type Booking struct {
	ID          int64
	Reference   string
	UserID      int64
	ScheduleID  int64
	Status      BookingStatus
	TotalAmount decimal.Decimal
	SeatIDs     []string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	ConfirmedAt *time.Time
}

// Expired reports whether a pending booking's confirmation window has closed.
func (b *Booking) Expired(now time.Time) bool {
	return b.Status == BookingStatusPending && !b.ExpiresAt.After(now)
}

// NewBookingReference returns a 32-character unique reference.
func NewBookingReference() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

type BookingRepository interface {
	// CreateFromHolds inserts the booking with its seats and removes the
	// consumed holds in one atomic step. If any hold id no longer exists the
	// whole operation fails with ErrEditConflict and nothing is written.
	CreateFromHolds(ctx context.Context, booking *Booking, holdIDs []int64) error

	GetByReference(ctx context.Context, reference string) (*Booking, error)

	// GetActiveBySchedule returns bookings that block their seats: confirmed
	// ones, and pending ones whose expires-at is after now.
	GetActiveBySchedule(ctx context.Context, scheduleID int64, now time.Time) ([]Booking, error)

	// UpdateStatus performs a compare-and-swap on the booking status. A missing
	// booking yields ErrRecordNotFound; a booking no longer in the from state
	// yields ErrEditConflict.
	UpdateStatus(ctx context.Context, reference string, from, to BookingStatus, confirmedAt *time.Time) (*Booking, error)

	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]Booking, error)

	// ExpireIfPending flips a pending booking past its deadline to expired,
	// reporting whether this call performed the transition.
	ExpireIfPending(ctx context.Context, reference string, now time.Time) (bool, error)

	GetPageByUser(ctx context.Context, userID int64, pagination Pagination) ([]Booking, *Metadata, error)
}
