package mocks

import (
	"context"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
)

type MockScheduleRepo struct {
	domain.ScheduleRepository
	GetByIdFunc func(ctx context.Context, id int64) (*domain.Schedule, error)
	GetAllFunc  func(ctx context.Context, pagination domain.Pagination) ([]domain.Schedule, *domain.Metadata, error)
}

func (m *MockScheduleRepo) GetById(ctx context.Context, id int64) (*domain.Schedule, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockScheduleRepo) GetAll(ctx context.Context, pagination domain.Pagination) ([]domain.Schedule, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, pagination)
}
