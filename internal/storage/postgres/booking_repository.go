package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fugrusha/booking/internal/domain"
)

const bookingColumns = `id, unit_id, requester_id, start_date, end_date, total_price, status, created_at, updated_at, payment_deadline`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetUnitForUpdate locks the unit row for the rest of the transaction.
// Concurrent admissions for the same unit serialize here.
func (r *BookingRepository) GetUnitForUpdate(ctx context.Context, unitID string) (domain.Unit, error) {
	const query = `
SELECT id, number_of_rooms, accommodation_type, floor, base_cost, total_cost, description, created_at
FROM units
WHERE id = $1
FOR UPDATE`

	var u domain.Unit
	err := r.queryRow(ctx, query, unitID).Scan(
		&u.ID, &u.NumberOfRooms, &u.AccommodationType, &u.Floor,
		&u.BaseCost, &u.TotalCost, &u.Description, &u.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Unit{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Unit{}, domain.ErrUnitNotFound
		}
		return domain.Unit{}, fmt.Errorf("get unit for update: %w", err)
	}
	return u, nil
}

func (r *BookingRepository) FindActiveBookingsOverlapping(ctx context.Context, unitID string, start, end time.Time) ([]domain.Booking, error) {
	// Half-open interval overlap: [s1,e1) and [s2,e2) collide iff
	// s1 < e2 AND s2 < e1. Touching bookings never conflict.
	query := `
SELECT ` + bookingColumns + `
FROM bookings
WHERE unit_id = $1
  AND status IN (` + activeStatusList + `)
  AND start_date < $3
  AND end_date > $2`

	rows, err := r.query(ctx, query, unitID, start, end)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, unit_id, requester_id, start_date, end_date, total_price, status, created_at, updated_at, payment_deadline)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		b.ID, b.UnitID, b.RequesterID, b.StartDate, b.EndDate,
		b.TotalPrice, b.Status, b.CreatedAt, b.UpdatedAt, b.PaymentDeadline,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUnitNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.getBooking(ctx, query, id)
}

func (r *BookingRepository) GetBookingForUpdate(ctx context.Context, id string) (domain.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.getBooking(ctx, query, id)
}

func (r *BookingRepository) getBooking(ctx context.Context, query, id string) (domain.Booking, error) {
	var b domain.Booking
	err := r.queryRow(ctx, query, id).Scan(
		&b.ID, &b.UnitID, &b.RequesterID, &b.StartDate, &b.EndDate,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.PaymentDeadline,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus, updatedAt time.Time) error {
	const stmt = `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, status, updatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) FindExpiredPendingIDs(ctx context.Context, now time.Time) ([]string, error) {
	const query = `
SELECT id
FROM bookings
WHERE status = 'PENDING' AND payment_deadline < $1
ORDER BY payment_deadline`

	rows, err := r.query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("find expired bookings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired booking id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BookingRepository) ListBookingsByRequester(ctx context.Context, requesterID string, limit, offset int) ([]domain.Booking, error) {
	const query = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE requester_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	return r.listBookings(ctx, query, requesterID, limit, offset)
}

func (r *BookingRepository) ListBookingsByUnit(ctx context.Context, unitID string, limit, offset int) ([]domain.Booking, error) {
	const query = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE unit_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	return r.listBookings(ctx, query, unitID, limit, offset)
}

func (r *BookingRepository) listBookings(ctx context.Context, query, id string, limit, offset int) ([]domain.Booking, error) {
	rows, err := r.query(ctx, query, id, limit, offset)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.UnitID, &b.RequesterID, &b.StartDate, &b.EndDate,
			&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.PaymentDeadline,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *BookingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
