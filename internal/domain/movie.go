package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Genre struct {
	ID   int64
	Name string
}

type Movie struct {
	ID              int64
	Title           string
	Description     string
	DurationMinutes int
	ReleaseDate     time.Time
	Rating          decimal.Decimal
	PosterUrl       string
	Genres          []Genre
}

type MovieRepository interface {
	GetById(ctx context.Context, id int64) (*Movie, error)
	GetAll(ctx context.Context, pagination Pagination) ([]Movie, *Metadata, error)
	GetGenres(ctx context.Context) ([]Genre, error)
}
