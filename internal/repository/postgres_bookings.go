package repository

import (
	"context"
	"errors"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// CreateFromHolds writes the booking with its seats and deletes the consumed
// holds in one transaction. If any hold row is already gone the delete count
// won't match and the whole transaction rolls back with ErrEditConflict.
func (p *PostgresBookingRepository) CreateFromHolds(ctx context.Context, booking *domain.Booking, holdIDs []int64) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM seat_holds WHERE id = ANY($1)`, holdIDs)
		if err != nil {
			return err
		}

		if int(tag.RowsAffected()) != len(holdIDs) {
			return domain.ErrEditConflict
		}

		query := `
			INSERT INTO bookings (reference, user_id, schedule_id, status, total_amount, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.Reference,
			booking.UserID,
			booking.ScheduleID,
			booking.Status,
			booking.TotalAmount,
			booking.CreatedAt,
			booking.ExpiresAt).Scan(&booking.ID)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.SeatIDs))
		for _, seatID := range booking.SeatIDs {
			rows = append(rows, []any{
				booking.ID,
				booking.ScheduleID,
				seatID,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "schedule_id", "seat_id"},
			pgx.CopyFromRows(rows),
		)

		return err
	})
}

func (p *PostgresBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := `
		SELECT id, reference, user_id, schedule_id, status, total_amount, created_at, expires_at, confirmed_at
		FROM bookings
		WHERE reference = $1
	`

	var b domain.Booking

	err := p.db.QueryRow(ctx, query, reference).Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.ScheduleID,
		&b.Status,
		&b.TotalAmount,
		&b.CreatedAt,
		&b.ExpiresAt,
		&b.ConfirmedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	seats, err := p.retrieveSeats(ctx, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.SeatIDs = seats[b.ID]

	return &b, nil
}

func (p *PostgresBookingRepository) GetActiveBySchedule(ctx context.Context, scheduleID int64, now time.Time) ([]domain.Booking, error) {
	query := `
		SELECT id, reference, user_id, schedule_id, status, total_amount, created_at, expires_at, confirmed_at
		FROM bookings
		WHERE schedule_id = $1
		AND (status = 'CONFIRMED' OR (status = 'PENDING' AND expires_at > $2))
	`

	rows, err := p.db.Query(ctx, query, scheduleID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	return p.attachSeats(ctx, bookings)
}

func (p *PostgresBookingRepository) UpdateStatus(ctx context.Context, reference string, from, to domain.BookingStatus, confirmedAt *time.Time) (*domain.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, confirmed_at = COALESCE($2, confirmed_at)
		WHERE reference = $3 AND status = $4
		RETURNING id, reference, user_id, schedule_id, status, total_amount, created_at, expires_at, confirmed_at
	`

	var b domain.Booking

	err := p.db.QueryRow(ctx, query, to, confirmedAt, reference, from).Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.ScheduleID,
		&b.Status,
		&b.TotalAmount,
		&b.CreatedAt,
		&b.ExpiresAt,
		&b.ConfirmedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing booking from a lost compare-and-swap.
			var exists bool
			checkErr := p.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE reference = $1)`, reference).Scan(&exists)
			if checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, domain.ErrRecordNotFound
			}
			return nil, domain.ErrEditConflict
		}
		return nil, err
	}

	seats, err := p.retrieveSeats(ctx, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.SeatIDs = seats[b.ID]

	return &b, nil
}

func (p *PostgresBookingRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]domain.Booking, error) {
	query := `
		SELECT id, reference, user_id, schedule_id, status, total_amount, created_at, expires_at, confirmed_at
		FROM bookings
		WHERE status = 'PENDING' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2
	`

	rows, err := p.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	return p.attachSeats(ctx, bookings)
}

func (p *PostgresBookingRepository) ExpireIfPending(ctx context.Context, reference string, now time.Time) (bool, error) {
	tag, err := p.db.Exec(ctx, `
		UPDATE bookings
		SET status = 'EXPIRED'
		WHERE reference = $1 AND status = 'PENDING' AND expires_at <= $2
	`, reference, now)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (p *PostgresBookingRepository) GetPageByUser(ctx context.Context, userID int64, pagination domain.Pagination) ([]domain.Booking, *domain.Metadata, error) {
	query := `
		SELECT
			COUNT(*) OVER(),
			id, reference, user_id, schedule_id, status, total_amount, created_at, expires_at, confirmed_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	totalRecords := 0

	for rows.Next() {
		var b domain.Booking

		err := rows.Scan(
			&totalRecords,
			&b.ID,
			&b.Reference,
			&b.UserID,
			&b.ScheduleID,
			&b.Status,
			&b.TotalAmount,
			&b.CreatedAt,
			&b.ExpiresAt,
			&b.ConfirmedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	bookings, err = p.attachSeats(ctx, bookings)
	if err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}

func (p *PostgresBookingRepository) attachSeats(ctx context.Context, bookings []domain.Booking) ([]domain.Booking, error) {
	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]int64, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}

	seats, err := p.retrieveSeats(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		bookings[i].SeatIDs = seats[bookings[i].ID]
	}

	return bookings, nil
}

func (p *PostgresBookingRepository) retrieveSeats(ctx context.Context, bookingIDs []int64) (map[int64][]string, error) {
	query := `
		SELECT booking_id, seat_id
		FROM booking_seats
		WHERE booking_id = ANY($1)
		ORDER BY seat_id
	`

	rows, err := p.db.Query(ctx, query, bookingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make(map[int64][]string)

	for rows.Next() {
		var bookingID int64
		var seatID string

		if err := rows.Scan(&bookingID, &seatID); err != nil {
			return nil, err
		}

		seats[bookingID] = append(seats[bookingID], seatID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking

		err := rows.Scan(
			&b.ID,
			&b.Reference,
			&b.UserID,
			&b.ScheduleID,
			&b.Status,
			&b.TotalAmount,
			&b.CreatedAt,
			&b.ExpiresAt,
			&b.ConfirmedAt,
		)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
