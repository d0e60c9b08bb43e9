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

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *PaymentRepository) GetBookingForUpdate(ctx context.Context, id string) (domain.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

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
		return domain.Booking{}, fmt.Errorf("get booking for update: %w", err)
	}
	return b, nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p domain.Payment) error {
	const stmt = `
INSERT INTO payments (id, booking_id, amount, status, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, p.ID, p.BookingID, p.Amount, p.Status, p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus, updatedAt time.Time) error {
	const stmt = `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *PaymentRepository) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	const query = `SELECT id, booking_id, amount, status, created_at FROM payments WHERE id = $1`

	var p domain.Payment
	err := r.queryRow(ctx, query, id).Scan(&p.ID, &p.BookingID, &p.Amount, &p.Status, &p.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Payment{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Payment{}, domain.ErrPaymentNotFound
		}
		return domain.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PaymentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
