package mocks

import (
	"context"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetByIdFunc   func(ctx context.Context, id int64) (*domain.Movie, error)
	GetAllFunc    func(ctx context.Context, pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error)
	GetGenresFunc func(ctx context.Context) ([]domain.Genre, error)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int64) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) GetAll(ctx context.Context, pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, pagination)
}

func (m *MockMovieRepo) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	return m.GetGenresFunc(ctx)
}
