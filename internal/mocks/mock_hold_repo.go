package mocks

import (
	"context"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockHoldRepo struct {
	mock.Mock
	domain.HoldRepository
}

func (m *MockHoldRepo) CreateAll(ctx context.Context, holds []domain.SeatHold, now time.Time) ([]domain.SeatHold, error) {
	args := m.Called(ctx, holds, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatHold), args.Error(1)
}

func (m *MockHoldRepo) GetBySeats(ctx context.Context, scheduleID int64, seatIDs []string) ([]domain.SeatHold, error) {
	args := m.Called(ctx, scheduleID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatHold), args.Error(1)
}

func (m *MockHoldRepo) GetBySchedule(ctx context.Context, scheduleID int64) ([]domain.SeatHold, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatHold), args.Error(1)
}

func (m *MockHoldRepo) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHoldRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.SeatHold, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatHold), args.Error(1)
}

func (m *MockHoldRepo) DeleteIfExpired(ctx context.Context, ids []int64, now time.Time) (int, error) {
	args := m.Called(ctx, ids, now)
	return args.Int(0), args.Error(1)
}
