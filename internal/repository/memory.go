package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
)

func seatKey(scheduleID int64, seatID string) string {
	return fmt.Sprintf("%d:%s", scheduleID, seatID)
}

// MemoryStore implements HoldRepository and BookingRepository on process
// memory. It honors the same atomicity contract as the Postgres store: holds
// are created all-or-nothing, promotion consumes holds and writes the booking
// in one step, and status updates are compare-and-swap. Used by tests and as
// a substrate for running the service without a database.
type MemoryStore struct {
	mu         sync.Mutex
	holds      map[int64]domain.SeatHold
	bookings   map[string]*domain.Booking
	nextHoldID int64
	nextBookID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		holds:    make(map[int64]domain.SeatHold),
		bookings: make(map[string]*domain.Booking),
	}
}

func (s *MemoryStore) CreateAll(ctx context.Context, holds []domain.SeatHold, now time.Time) ([]domain.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Expired holds on the target seats no longer block; purge them first,
	// mirroring the conditional insert of the Postgres store.
	want := make(map[string]struct{}, len(holds))
	for _, h := range holds {
		want[seatKey(h.ScheduleID, h.SeatID)] = struct{}{}
	}

	for id, existing := range s.holds {
		if _, ok := want[seatKey(existing.ScheduleID, existing.SeatID)]; !ok {
			continue
		}
		if existing.Expired(now) {
			delete(s.holds, id)
		} else {
			return nil, domain.ErrEditConflict
		}
	}

	created := make([]domain.SeatHold, len(holds))
	for i, h := range holds {
		s.nextHoldID++
		h.ID = s.nextHoldID
		s.holds[h.ID] = h
		created[i] = h
	}

	return created, nil
}

func (s *MemoryStore) GetBySeats(ctx context.Context, scheduleID int64, seatIDs []string) ([]domain.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		want[id] = struct{}{}
	}

	var out []domain.SeatHold
	for _, h := range s.holds {
		if h.ScheduleID != scheduleID {
			continue
		}
		if _, ok := want[h.SeatID]; ok {
			out = append(out, h)
		}
	}

	return out, nil
}

func (s *MemoryStore) GetBySchedule(ctx context.Context, scheduleID int64) ([]domain.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.SeatHold
	for _, h := range s.holds {
		if h.ScheduleID == scheduleID {
			out = append(out, h)
		}
	}

	return out, nil
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.holds[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(s.holds, id)

	return nil
}

func (s *MemoryStore) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.SeatHold
	for _, h := range s.holds {
		if h.Expired(now) {
			out = append(out, h)
			if len(out) == limit {
				break
			}
		}
	}

	return out, nil
}

func (s *MemoryStore) DeleteIfExpired(ctx context.Context, ids []int64, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		h, ok := s.holds[id]
		if ok && h.Expired(now) {
			delete(s.holds, id)
			deleted++
		}
	}

	return deleted, nil
}

func (s *MemoryStore) CreateFromHolds(ctx context.Context, booking *domain.Booking, holdIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range holdIDs {
		if _, ok := s.holds[id]; !ok {
			return domain.ErrEditConflict
		}
	}

	for _, id := range holdIDs {
		delete(s.holds, id)
	}

	s.nextBookID++
	booking.ID = s.nextBookID

	copied := *booking
	copied.SeatIDs = append([]string(nil), booking.SeatIDs...)
	s.bookings[booking.Reference] = &copied

	return nil
}

func (s *MemoryStore) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[reference]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return cloneBooking(b), nil
}

func (s *MemoryStore) GetActiveBySchedule(ctx context.Context, scheduleID int64, now time.Time) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Booking
	for _, b := range s.bookings {
		if b.ScheduleID != scheduleID {
			continue
		}

		live := b.Status == domain.BookingStatusConfirmed ||
			(b.Status == domain.BookingStatusPending && b.ExpiresAt.After(now))

		if live {
			out = append(out, *cloneBooking(b))
		}
	}

	return out, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, reference string, from, to domain.BookingStatus, confirmedAt *time.Time) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[reference]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	if b.Status != from {
		return nil, domain.ErrEditConflict
	}

	b.Status = to
	if confirmedAt != nil {
		t := *confirmedAt
		b.ConfirmedAt = &t
	}

	return cloneBooking(b), nil
}

func (s *MemoryStore) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Booking
	for _, b := range s.bookings {
		if b.Expired(now) {
			out = append(out, *cloneBooking(b))
			if len(out) == limit {
				break
			}
		}
	}

	return out, nil
}

func (s *MemoryStore) ExpireIfPending(ctx context.Context, reference string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[reference]
	if !ok || !b.Expired(now) {
		return false, nil
	}

	b.Status = domain.BookingStatusExpired

	return true, nil
}

func (s *MemoryStore) GetPageByUser(ctx context.Context, userID int64, pagination domain.Pagination) ([]domain.Booking, *domain.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []domain.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			all = append(all, *cloneBooking(b))
		}
	}

	sortBookingsByCreatedAtDesc(all)

	total := len(all)
	start := pagination.Offset()
	if start > total {
		start = total
	}
	end := start + pagination.Limit()
	if end > total {
		end = total
	}

	return all[start:end], domain.NewMetadata(total, pagination.Page, pagination.PageSize), nil
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	copied := *b
	copied.SeatIDs = append([]string(nil), b.SeatIDs...)
	if b.ConfirmedAt != nil {
		t := *b.ConfirmedAt
		copied.ConfirmedAt = &t
	}
	return &copied
}

func sortBookingsByCreatedAtDesc(bookings []domain.Booking) {
	for i := 1; i < len(bookings); i++ {
		for j := i; j > 0 && bookings[j].CreatedAt.After(bookings[j-1].CreatedAt); j-- {
			bookings[j], bookings[j-1] = bookings[j-1], bookings[j]
		}
	}
}
