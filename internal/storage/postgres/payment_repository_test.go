package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fugrusha/booking/internal/domain"
	"github.com/fugrusha/booking/internal/testutil"
)

func TestPaymentRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewPaymentRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	insertPendingBooking := func(t *testing.T, ctx context.Context) string {
		t.Helper()
		unitID := testutil.InsertUnit(t, ctx, pool, 11500)
		return testutil.InsertBooking(t, ctx, pool, domain.Booking{
			UnitID: unitID, RequesterID: uuid.NewString(),
			StartDate: start, EndDate: end,
			Status: domain.BookingStatusPending, PaymentDeadline: now.Add(15 * time.Minute),
		})
	}

	t.Run("payment within one transaction marks the booking paid", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		bookingID := insertPendingBooking(t, ctx)
		paymentID := uuid.NewString()

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			booking, err := repo.GetBookingForUpdate(txCtx, bookingID)
			if err != nil {
				return err
			}
			if booking.Status != domain.BookingStatusPending {
				t.Fatalf("expected PENDING booking, got %s", booking.Status)
			}

			if err := repo.CreatePayment(txCtx, domain.Payment{
				ID:        paymentID,
				BookingID: bookingID,
				Amount:    34500,
				Status:    domain.PaymentStatusCompleted,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			return repo.UpdateBookingStatus(txCtx, bookingID, domain.BookingStatusPaid, now)
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		if got := testutil.BookingStatus(t, context.Background(), pool, bookingID); got != domain.BookingStatusPaid {
			t.Fatalf("expected PAID, got %s", got)
		}

		payment, err := repo.GetPayment(ctx, paymentID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if payment.BookingID != bookingID || payment.Amount != 34500 {
			t.Fatalf("unexpected payment: %+v", payment)
		}
	})

	t.Run("failed transaction rolls back the payment", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		bookingID := insertPendingBooking(t, ctx)
		paymentID := uuid.NewString()

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := repo.CreatePayment(txCtx, domain.Payment{
				ID:        paymentID,
				BookingID: bookingID,
				Amount:    100,
				Status:    domain.PaymentStatusCompleted,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			return domain.ErrIllegalTransition
		})
		if err != domain.ErrIllegalTransition {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}

		if _, err := repo.GetPayment(ctx, paymentID); err != domain.ErrPaymentNotFound {
			t.Fatalf("expected rolled-back payment to be absent, got %v", err)
		}
		if got := testutil.BookingStatus(t, ctx, pool, bookingID); got != domain.BookingStatusPending {
			t.Fatalf("expected booking untouched, got %s", got)
		}
	})

	t.Run("CreatePayment maps missing booking to ErrBookingNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		err := repo.CreatePayment(ctx, domain.Payment{
			ID:        uuid.NewString(),
			BookingID: "00000000-0000-0000-0000-000000000001",
			Amount:    100,
			Status:    domain.PaymentStatusCompleted,
			CreatedAt: now,
		})
		if err != domain.ErrBookingNotFound {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("GetPayment missing and invalid ids", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		missing := "00000000-0000-0000-0000-000000000001"
		if _, err := repo.GetPayment(ctx, missing); err != domain.ErrPaymentNotFound {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
		if _, err := repo.GetPayment(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}
