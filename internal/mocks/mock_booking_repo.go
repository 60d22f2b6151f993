package mocks

import (
	"context"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) CreateFromHolds(ctx context.Context, booking *domain.Booking, holdIDs []int64) error {
	args := m.Called(ctx, booking, holdIDs)
	return args.Error(0)
}

func (m *MockBookingRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetActiveBySchedule(ctx context.Context, scheduleID int64, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, scheduleID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) UpdateStatus(
	ctx context.Context,
	reference string,
	from, to domain.BookingStatus,
	confirmedAt *time.Time) (*domain.Booking, error) {

	args := m.Called(ctx, reference, from, to, confirmedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) ExpireIfPending(ctx context.Context, reference string, now time.Time) (bool, error) {
	args := m.Called(ctx, reference, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) GetPageByUser(
	ctx context.Context,
	userID int64,
	pagination domain.Pagination) ([]domain.Booking, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Booking), args.Get(1).(*domain.Metadata), args.Error(2)
}
