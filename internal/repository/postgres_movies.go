package repository

import (
	"context"
	"errors"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int64) (*domain.Movie, error) {
	query := `
		SELECT id, title, description, duration_minutes, release_date, rating, poster_url
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.DurationMinutes,
		&movie.ReleaseDate,
		&movie.Rating,
		&movie.PosterUrl,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	genres, err := p.retrieveGenres(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	movie.Genres = genres[id]

	return &movie, nil
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context, pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {
	query := `
		SELECT
			COUNT(*) OVER(),
			id, title, description, duration_minutes, release_date, rating, poster_url
		FROM movies
		ORDER BY release_date DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	totalRecords := 0

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.DurationMinutes,
			&movie.ReleaseDate,
			&movie.Rating,
			&movie.PosterUrl,
		)
		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(movies) > 0 {
		ids := make([]int64, len(movies))
		for i, m := range movies {
			ids[i] = m.ID
		}

		genres, err := p.retrieveGenres(ctx, ids)
		if err != nil {
			return nil, nil, err
		}

		for i := range movies {
			movies[i].Genres = genres[movies[i].ID]
		}
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	query := `
		SELECT id, name
		FROM genres
		ORDER BY name
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0)

	for rows.Next() {
		var genre domain.Genre

		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, err
		}

		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}

func (p *PostgresMovieRepository) retrieveGenres(ctx context.Context, movieIDs []int64) (map[int64][]domain.Genre, error) {
	query := `
		SELECT mg.movie_id, g.id, g.name
		FROM genres g
		JOIN movie_genres mg ON g.id = mg.genre_id
		WHERE mg.movie_id = ANY($1)
		ORDER BY g.name
	`

	rows, err := p.db.Query(ctx, query, movieIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make(map[int64][]domain.Genre)

	for rows.Next() {
		var movieID int64
		var genre domain.Genre

		if err := rows.Scan(&movieID, &genre.ID, &genre.Name); err != nil {
			return nil, err
		}

		genres[movieID] = append(genres[movieID], genre)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}
