// Package booking implements the seat-hold and booking lifecycle: a seat moves
// free → held → booked and back via release or expiry, and a booking moves
// pending → confirmed | cancelled | expired. All mutual-exclusion enforcement
// for (schedule, seat) pairs lives here.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/angelchiav/cinema-booking-system/internal/event"
	"github.com/angelchiav/cinema-booking-system/internal/seatlock"
	"github.com/shopspring/decimal"
)

const (
	// DefaultHoldTTL is how long a seat hold blocks other users.
	DefaultHoldTTL = 15 * time.Minute

	// sweepBatch caps how many expired records a single sweep pass loads.
	sweepBatch = 500
)

type Manager struct {
	schedules domain.ScheduleRepository
	holds     domain.HoldRepository
	bookings  domain.BookingRepository
	locker    seatlock.Locker
	events    event.Publisher
	clock     Clock
	logger    *slog.Logger
	holdTTL   time.Duration
}

type ManagerOpts struct {
	Schedules domain.ScheduleRepository
	Holds     domain.HoldRepository
	Bookings  domain.BookingRepository
	Locker    seatlock.Locker
	Events    event.Publisher
	Clock     Clock
	Logger    *slog.Logger
	HoldTTL   time.Duration
}

func NewManager(opts ManagerOpts) *Manager {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Events == nil {
		opts.Events = event.NopPublisher{}
	}
	if opts.HoldTTL <= 0 {
		opts.HoldTTL = DefaultHoldTTL
	}

	return &Manager{
		schedules: opts.Schedules,
		holds:     opts.Holds,
		bookings:  opts.Bookings,
		locker:    opts.Locker,
		events:    opts.Events,
		clock:     opts.Clock,
		logger:    opts.Logger,
		holdTTL:   opts.HoldTTL,
	}
}

// Reserve places a hold on every requested seat, or on none of them. Each hold
// expires holdTTL after creation.
func (m *Manager) Reserve(ctx context.Context, scheduleID int64, seatIDs []string, userID int64) ([]domain.SeatHold, error) {
	seatIDs = normalizeSeatIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, &domain.InvalidSeatError{ScheduleID: scheduleID}
	}

	schedule, err := m.schedules.GetById(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	layout := schedule.SeatSet()
	var invalid []string
	for _, id := range seatIDs {
		if _, ok := layout[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return nil, &domain.InvalidSeatError{ScheduleID: scheduleID, SeatIDs: invalid}
	}

	unlock, err := m.locker.Lock(ctx, scheduleID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := m.clock.Now()

	conflicts, err := m.conflictingSeats(ctx, scheduleID, seatIDs, now)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &domain.SeatUnavailableError{ScheduleID: scheduleID, SeatIDs: conflicts}
	}

	holds := make([]domain.SeatHold, len(seatIDs))
	for i, seatID := range seatIDs {
		holds[i] = domain.SeatHold{
			ScheduleID: scheduleID,
			SeatID:     seatID,
			UserID:     userID,
			CreatedAt:  now,
			ExpiresAt:  now.Add(m.holdTTL),
		}
	}

	created, err := m.holds.CreateAll(ctx, holds, now)
	if err != nil {
		// A conditional-create conflict means another node claimed a seat
		// between our check and the write.
		if errors.Is(err, domain.ErrEditConflict) {
			return nil, &domain.SeatUnavailableError{ScheduleID: scheduleID, SeatIDs: seatIDs}
		}
		return nil, err
	}

	return created, nil
}

// Release removes the caller's active hold on one seat.
func (m *Manager) Release(ctx context.Context, scheduleID int64, seatID string, userID int64) error {
	unlock, err := m.locker.Lock(ctx, scheduleID, []string{seatID})
	if err != nil {
		return err
	}
	defer unlock()

	holds, err := m.holds.GetBySeats(ctx, scheduleID, []string{seatID})
	if err != nil {
		return err
	}

	now := m.clock.Now()

	for _, hold := range holds {
		if hold.Expired(now) || hold.UserID != userID {
			continue
		}
		return m.holds.DeleteByID(ctx, hold.ID)
	}

	return domain.ErrNotHolder
}

// Promote atomically converts the caller's active holds on the given seats
// into one pending booking. The booking inherits the soonest hold deadline.
func (m *Manager) Promote(ctx context.Context, scheduleID int64, seatIDs []string, userID int64, totalAmount decimal.Decimal) (*domain.Booking, error) {
	seatIDs = normalizeSeatIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, &domain.HoldNotOwnedError{ScheduleID: scheduleID}
	}

	if _, err := m.schedules.GetById(ctx, scheduleID); err != nil {
		return nil, err
	}

	unlock, err := m.locker.Lock(ctx, scheduleID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer unlock()

	holds, err := m.holds.GetBySeats(ctx, scheduleID, seatIDs)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()

	bySeat := make(map[string]domain.SeatHold, len(holds))
	for _, hold := range holds {
		bySeat[hold.SeatID] = hold
	}

	var notOwned, expired []string
	holdIDs := make([]int64, 0, len(seatIDs))
	deadline := time.Time{}

	for _, seatID := range seatIDs {
		hold, ok := bySeat[seatID]
		switch {
		case !ok || hold.UserID != userID:
			notOwned = append(notOwned, seatID)
		case hold.Expired(now):
			expired = append(expired, seatID)
		default:
			holdIDs = append(holdIDs, hold.ID)
			if deadline.IsZero() || hold.ExpiresAt.Before(deadline) {
				deadline = hold.ExpiresAt
			}
		}
	}

	if len(notOwned) > 0 {
		return nil, &domain.HoldNotOwnedError{ScheduleID: scheduleID, SeatIDs: notOwned}
	}
	if len(expired) > 0 {
		return nil, &domain.HoldExpiredError{ScheduleID: scheduleID, SeatIDs: expired}
	}

	booking := &domain.Booking{
		Reference:   domain.NewBookingReference(),
		UserID:      userID,
		ScheduleID:  scheduleID,
		Status:      domain.BookingStatusPending,
		TotalAmount: totalAmount,
		SeatIDs:     seatIDs,
		CreatedAt:   now,
		ExpiresAt:   deadline,
	}

	err = m.bookings.CreateFromHolds(ctx, booking, holdIDs)
	if err != nil {
		// A consumed hold vanished between check and promotion.
		if errors.Is(err, domain.ErrEditConflict) {
			return nil, &domain.HoldExpiredError{ScheduleID: scheduleID, SeatIDs: seatIDs}
		}
		return nil, err
	}

	return booking, nil
}

// Confirm finalizes a pending booking. A booking past its deadline is expired
// in place and reported as already finalized.
func (m *Manager) Confirm(ctx context.Context, reference string) (*domain.Booking, error) {
	booking, err := m.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, domain.ErrAlreadyFinalized
	}

	now := m.clock.Now()

	if booking.Expired(now) {
		if err := m.expireBooking(ctx, booking, now); err != nil {
			return nil, err
		}
		return nil, domain.ErrAlreadyFinalized
	}

	confirmed, err := m.bookings.UpdateStatus(ctx, reference, domain.BookingStatusPending, domain.BookingStatusConfirmed, &now)
	if err != nil {
		if errors.Is(err, domain.ErrEditConflict) {
			return nil, domain.ErrAlreadyFinalized
		}
		return nil, err
	}

	m.publish(ctx, event.QueueBookingConfirmed, confirmed, now)

	return confirmed, nil
}

// Cancel voids a pending or confirmed booking on behalf of its owner and frees
// the associated seats.
func (m *Manager) Cancel(ctx context.Context, reference string, userID int64) (*domain.Booking, error) {
	booking, err := m.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, domain.ErrNotOwner
	}

	if !booking.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, domain.ErrAlreadyFinalized
	}

	now := m.clock.Now()

	if booking.Expired(now) {
		if err := m.expireBooking(ctx, booking, now); err != nil {
			return nil, err
		}
		return nil, domain.ErrAlreadyFinalized
	}

	cancelled, err := m.bookings.UpdateStatus(ctx, reference, booking.Status, domain.BookingStatusCancelled, nil)
	if err != nil {
		if errors.Is(err, domain.ErrEditConflict) {
			return nil, domain.ErrAlreadyFinalized
		}
		return nil, err
	}

	m.publish(ctx, event.QueueBookingCancelled, cancelled, now)

	return cancelled, nil
}

// SweepExpired reclaims expired holds and expires overdue pending bookings,
// returning how many records it transitioned. Each record is re-checked under
// the seat lock, so running the sweep concurrently with reservations, or
// repeatedly, is safe and never double counts.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	now := m.clock.Now()
	reclaimed := 0

	expiredHolds, err := m.holds.ListExpired(ctx, now, sweepBatch)
	if err != nil {
		return reclaimed, err
	}

	for scheduleID, holds := range groupBySchedule(expiredHolds) {
		seatIDs := make([]string, len(holds))
		ids := make([]int64, len(holds))
		for i, hold := range holds {
			seatIDs[i] = hold.SeatID
			ids[i] = hold.ID
		}

		unlock, err := m.locker.Lock(ctx, scheduleID, seatIDs)
		if err != nil {
			return reclaimed, err
		}

		n, err := m.holds.DeleteIfExpired(ctx, ids, now)
		unlock()
		if err != nil {
			return reclaimed, err
		}

		reclaimed += n
	}

	overdue, err := m.bookings.ListExpiredPending(ctx, now, sweepBatch)
	if err != nil {
		return reclaimed, err
	}

	for i := range overdue {
		booking := &overdue[i]

		unlock, err := m.locker.Lock(ctx, booking.ScheduleID, booking.SeatIDs)
		if err != nil {
			return reclaimed, err
		}

		done, err := m.bookings.ExpireIfPending(ctx, booking.Reference, now)
		unlock()
		if err != nil {
			return reclaimed, err
		}

		if done {
			reclaimed++
		}
	}

	return reclaimed, nil
}

// SeatMap reports per-seat availability for a schedule. A seat is available
// iff it carries no unexpired hold and belongs to no live booking.
func (m *Manager) SeatMap(ctx context.Context, scheduleID int64) (*SeatMap, error) {
	schedule, err := m.schedules.GetById(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()

	taken, err := m.takenSeats(ctx, scheduleID, now)
	if err != nil {
		return nil, err
	}

	seats := make([]SeatAvailability, len(schedule.Seats))
	for i, seatID := range schedule.Seats {
		_, blocked := taken[seatID]
		seats[i] = SeatAvailability{SeatID: seatID, Available: !blocked}
	}

	return &SeatMap{
		ScheduleID: scheduleID,
		MovieTitle: schedule.MovieTitle,
		Screen:     schedule.Screen,
		StartTime:  schedule.StartTime,
		Capacity:   schedule.Capacity(),
		Seats:      seats,
	}, nil
}

type SeatMap struct {
	ScheduleID int64
	MovieTitle string
	Screen     int
	StartTime  time.Time
	Capacity   int
	Seats      []SeatAvailability
}

type SeatAvailability struct {
	SeatID    string
	Available bool
}

func (m *Manager) conflictingSeats(ctx context.Context, scheduleID int64, seatIDs []string, now time.Time) ([]string, error) {
	taken, err := m.takenSeats(ctx, scheduleID, now)
	if err != nil {
		return nil, err
	}

	var conflicts []string
	for _, seatID := range seatIDs {
		if _, ok := taken[seatID]; ok {
			conflicts = append(conflicts, seatID)
		}
	}

	return conflicts, nil
}

func (m *Manager) takenSeats(ctx context.Context, scheduleID int64, now time.Time) (map[string]struct{}, error) {
	taken := make(map[string]struct{})

	holds, err := m.holds.GetBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	for _, hold := range holds {
		if !hold.Expired(now) {
			taken[hold.SeatID] = struct{}{}
		}
	}

	bookings, err := m.bookings.GetActiveBySchedule(ctx, scheduleID, now)
	if err != nil {
		return nil, err
	}
	for _, booking := range bookings {
		for _, seatID := range booking.SeatIDs {
			taken[seatID] = struct{}{}
		}
	}

	return taken, nil
}

func (m *Manager) expireBooking(ctx context.Context, booking *domain.Booking, now time.Time) error {
	unlock, err := m.locker.Lock(ctx, booking.ScheduleID, booking.SeatIDs)
	if err != nil {
		return err
	}
	defer unlock()

	_, err = m.bookings.ExpireIfPending(ctx, booking.Reference, now)
	return err
}

func (m *Manager) publish(ctx context.Context, queue string, booking *domain.Booking, now time.Time) {
	e := event.BookingEvent{
		Reference:   booking.Reference,
		ScheduleID:  booking.ScheduleID,
		UserID:      booking.UserID,
		SeatIDs:     booking.SeatIDs,
		TotalAmount: booking.TotalAmount.String(),
		OccurredAt:  now,
	}

	var err error
	switch queue {
	case event.QueueBookingConfirmed:
		err = m.events.BookingConfirmed(ctx, e)
	case event.QueueBookingCancelled:
		err = m.events.BookingCancelled(ctx, e)
	}

	if err != nil && m.logger != nil {
		m.logger.Error("failed to publish booking event", "queue", queue, "reference", booking.Reference, "error", err)
	}
}

func normalizeSeatIDs(seatIDs []string) []string {
	seen := make(map[string]struct{}, len(seatIDs))
	out := make([]string, 0, len(seatIDs))

	for _, id := range seatIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Strings(out)

	return out
}

func groupBySchedule(holds []domain.SeatHold) map[int64][]domain.SeatHold {
	groups := make(map[int64][]domain.SeatHold)
	for _, hold := range holds {
		groups[hold.ScheduleID] = append(groups[hold.ScheduleID], hold)
	}
	return groups
}
