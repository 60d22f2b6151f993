package repository

import (
	"context"
	"errors"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresScheduleRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScheduleRepository(db *pgxpool.Pool) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{
		db: db,
	}
}

func (p *PostgresScheduleRepository) GetById(ctx context.Context, id int64) (*domain.Schedule, error) {
	query := `
		SELECT s.id, s.movie_id, m.title, s.screen, s.start_time, s.end_time, s.base_price
		FROM schedules s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.id = $1
	`

	var schedule domain.Schedule

	err := p.db.QueryRow(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.MovieID,
		&schedule.MovieTitle,
		&schedule.Screen,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.BasePrice,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	seats, err := p.retrieveLayout(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule.Seats = seats

	return &schedule, nil
}

func (p *PostgresScheduleRepository) GetAll(ctx context.Context, pagination domain.Pagination) ([]domain.Schedule, *domain.Metadata, error) {
	query := `
		SELECT
			COUNT(*) OVER(),
			s.id, s.movie_id, m.title, s.screen, s.start_time, s.end_time, s.base_price
		FROM schedules s
		JOIN movies m ON s.movie_id = m.id
		ORDER BY s.start_time
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	schedules := make([]domain.Schedule, 0)
	totalRecords := 0

	for rows.Next() {
		var schedule domain.Schedule

		err := rows.Scan(
			&totalRecords,
			&schedule.ID,
			&schedule.MovieID,
			&schedule.MovieTitle,
			&schedule.Screen,
			&schedule.StartTime,
			&schedule.EndTime,
			&schedule.BasePrice,
		)
		if err != nil {
			return nil, nil, err
		}

		schedules = append(schedules, schedule)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return schedules, metadata, nil
}

func (p *PostgresScheduleRepository) retrieveLayout(ctx context.Context, scheduleID int64) ([]string, error) {
	query := `
		SELECT seat_id
		FROM schedule_seats
		WHERE schedule_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]string, 0)

	for rows.Next() {
		var seatID string

		if err := rows.Scan(&seatID); err != nil {
			return nil, err
		}

		seats = append(seats, seatID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
