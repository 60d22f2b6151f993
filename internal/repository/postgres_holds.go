package repository

import (
	"context"
	"errors"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresHoldRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHoldRepository(db *pgxpool.Pool) *PostgresHoldRepository {
	return &PostgresHoldRepository{
		db: db,
	}
}

// CreateAll inserts every hold or none. The unique index on
// (schedule_id, seat_id) is the storage-level half of the mutual-exclusion
// contract; expired rows still occupying target seats are purged inside the
// same transaction so they cannot block a fresh claim.
func (p *PostgresHoldRepository) CreateAll(ctx context.Context, holds []domain.SeatHold, now time.Time) ([]domain.SeatHold, error) {
	created := make([]domain.SeatHold, len(holds))

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		seatIDs := make([]string, len(holds))
		for i, h := range holds {
			seatIDs[i] = h.SeatID
		}

		_, err := tx.Exec(ctx, `
			DELETE FROM seat_holds
			WHERE schedule_id = $1 AND seat_id = ANY($2) AND expires_at <= $3
		`, holds[0].ScheduleID, seatIDs, now)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO seat_holds (schedule_id, seat_id, user_id, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		for i, h := range holds {
			err := tx.QueryRow(ctx, query, h.ScheduleID, h.SeatID, h.UserID, h.CreatedAt, h.ExpiresAt).Scan(&h.ID)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
					return domain.ErrEditConflict
				}
				return err
			}
			created[i] = h
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

func (p *PostgresHoldRepository) GetBySeats(ctx context.Context, scheduleID int64, seatIDs []string) ([]domain.SeatHold, error) {
	query := `
		SELECT id, schedule_id, seat_id, user_id, created_at, expires_at
		FROM seat_holds
		WHERE schedule_id = $1 AND seat_id = ANY($2)
	`

	rows, err := p.db.Query(ctx, query, scheduleID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHolds(rows)
}

func (p *PostgresHoldRepository) GetBySchedule(ctx context.Context, scheduleID int64) ([]domain.SeatHold, error) {
	query := `
		SELECT id, schedule_id, seat_id, user_id, created_at, expires_at
		FROM seat_holds
		WHERE schedule_id = $1
	`

	rows, err := p.db.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHolds(rows)
}

func (p *PostgresHoldRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM seat_holds WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresHoldRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.SeatHold, error) {
	query := `
		SELECT id, schedule_id, seat_id, user_id, created_at, expires_at
		FROM seat_holds
		WHERE expires_at <= $1
		ORDER BY expires_at
		LIMIT $2
	`

	rows, err := p.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHolds(rows)
}

func (p *PostgresHoldRepository) DeleteIfExpired(ctx context.Context, ids []int64, now time.Time) (int, error) {
	tag, err := p.db.Exec(ctx, `
		DELETE FROM seat_holds
		WHERE id = ANY($1) AND expires_at <= $2
	`, ids, now)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func scanHolds(rows pgx.Rows) ([]domain.SeatHold, error) {
	holds := make([]domain.SeatHold, 0)

	for rows.Next() {
		var h domain.SeatHold

		err := rows.Scan(&h.ID, &h.ScheduleID, &h.SeatID, &h.UserID, &h.CreatedAt, &h.ExpiresAt)
		if err != nil {
			return nil, err
		}

		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holds, nil
}
