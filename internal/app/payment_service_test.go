package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fugrusha/booking/internal/clock"
	"github.com/fugrusha/booking/internal/domain"
	"github.com/fugrusha/booking/internal/events"
)

func TestPaymentService_CreatePayment(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	makeSvc := func(bookings []domain.Booking) (*PaymentService, *fakePaymentRepo, *fakePublisher) {
		repo := newFakePaymentRepo(bookings)
		pub := &fakePublisher{}
		svc := NewPaymentService(repo, clock.NewFixed(now), WithPaymentPublisher(pub))
		return svc, repo, pub
	}

	t.Run("pays pending booking before deadline", func(t *testing.T) {
		svc, repo, pub := makeSvc([]domain.Booking{{
			ID:              "b-1",
			UnitID:          "unit-1",
			Status:          domain.BookingStatusPending,
			TotalPrice:      34500,
			PaymentDeadline: now.Add(10 * time.Minute),
		}})

		payment, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
			BookingID: "b-1",
			Amount:    34500,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if payment.Status != domain.PaymentStatusCompleted {
			t.Fatalf("expected payment COMPLETED, got %s", payment.Status)
		}
		if payment.Amount != 34500 {
			t.Fatalf("expected amount 34500, got %d", payment.Amount)
		}
		if got := repo.bookings["b-1"].Status; got != domain.BookingStatusPaid {
			t.Fatalf("expected booking PAID, got %s", got)
		}
		if len(repo.payments) != 1 {
			t.Fatalf("expected 1 payment stored, got %d", len(repo.payments))
		}
		if len(pub.published) != 1 || pub.published[0].Type != events.TypeBookingPaid {
			t.Fatalf("expected one booking.paid event, got %+v", pub.published)
		}
	})

	t.Run("deadline passed", func(t *testing.T) {
		svc, repo, _ := makeSvc([]domain.Booking{{
			ID:              "b-1",
			Status:          domain.BookingStatusPending,
			PaymentDeadline: now.Add(-time.Second),
		}})

		_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
			BookingID: "b-1",
			Amount:    100,
		})
		if !errors.Is(err, domain.ErrDeadlinePassed) {
			t.Fatalf("expected ErrDeadlinePassed, got %v", err)
		}
		if got := repo.bookings["b-1"].Status; got != domain.BookingStatusPending {
			t.Fatalf("expected booking unchanged, got %s", got)
		}
		if len(repo.payments) != 0 {
			t.Fatalf("expected no payment stored, got %d", len(repo.payments))
		}
	})

	t.Run("deadline boundary is still payable", func(t *testing.T) {
		svc, _, _ := makeSvc([]domain.Booking{{
			ID:              "b-1",
			Status:          domain.BookingStatusPending,
			PaymentDeadline: now,
		}})

		_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
			BookingID: "b-1",
			Amount:    100,
		})
		if err != nil {
			t.Fatalf("expected payment at the exact deadline to succeed, got %v", err)
		}
	})

	t.Run("non-pending booking", func(t *testing.T) {
		for _, status := range []domain.BookingStatus{
			domain.BookingStatusPaid,
			domain.BookingStatusCancelled,
			domain.BookingStatusExpired,
		} {
			svc, _, _ := makeSvc([]domain.Booking{{
				ID:              "b-1",
				Status:          status,
				PaymentDeadline: now.Add(10 * time.Minute),
			}})

			_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
				BookingID: "b-1",
				Amount:    100,
			})
			if !errors.Is(err, domain.ErrIllegalTransition) {
				t.Fatalf("expected ErrIllegalTransition for %s, got %v", status, err)
			}
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		svc, _, _ := makeSvc(nil)

		for _, amount := range []int64{0, -5} {
			_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
				BookingID: "b-1",
				Amount:    amount,
			})
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount for %d, got %v", amount, err)
			}
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, _, _ := makeSvc(nil)

		_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
			BookingID: "missing",
			Amount:    100,
		})
		if !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})
}

func TestPaymentService_GetPayment(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakePaymentRepo(nil)
	repo.payments["p-1"] = domain.Payment{ID: "p-1", BookingID: "b-1", Amount: 100, Status: domain.PaymentStatusCompleted}
	svc := NewPaymentService(repo, clock.NewFixed(now))

	payment, err := svc.GetPayment(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if payment.BookingID != "b-1" {
		t.Fatalf("expected booking b-1, got %s", payment.BookingID)
	}

	if _, err := svc.GetPayment(context.Background(), "missing"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

type fakePaymentRepo struct {
	bookings map[string]domain.Booking
	payments map[string]domain.Payment
}

func newFakePaymentRepo(bookings []domain.Booking) *fakePaymentRepo {
	f := &fakePaymentRepo{
		bookings: make(map[string]domain.Booking),
		payments: make(map[string]domain.Payment),
	}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakePaymentRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakePaymentRepo) GetBookingForUpdate(_ context.Context, id string) (domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakePaymentRepo) CreatePayment(_ context.Context, payment domain.Payment) error {
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) UpdateBookingStatus(_ context.Context, id string, status domain.BookingStatus, updatedAt time.Time) error {
	b, ok := f.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	f.bookings[id] = b
	return nil
}

func (f *fakePaymentRepo) GetPayment(_ context.Context, id string) (domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return p, nil
}
