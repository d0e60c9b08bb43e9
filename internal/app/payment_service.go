package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/clock"
	"github.com/fugrusha/booking/internal/domain"
	"github.com/fugrusha/booking/internal/events"
)

type PaymentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetBookingForUpdate(ctx context.Context, id string) (domain.Booking, error)
	CreatePayment(ctx context.Context, payment domain.Payment) error
	UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus, updatedAt time.Time) error
	GetPayment(ctx context.Context, id string) (domain.Payment, error)
}

type PaymentService struct {
	repo      PaymentRepository
	clock     clock.Clock
	publisher EventPublisher
	log       *zap.Logger
}

type PaymentServiceOption func(*PaymentService)

func WithPaymentPublisher(p EventPublisher) PaymentServiceOption {
	return func(s *PaymentService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithPaymentLogger(log *zap.Logger) PaymentServiceOption {
	return func(s *PaymentService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewPaymentService(repo PaymentRepository, clk clock.Clock, opts ...PaymentServiceOption) *PaymentService {
	svc := &PaymentService{
		repo:      repo,
		clock:     clk,
		publisher: events.NewNopPublisher(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreatePaymentInput struct {
	BookingID string
	Amount    int64
}

// CreatePayment captures payment for a PENDING booking before its
// deadline and marks it PAID. The counter is untouched: the unit was
// already reserved at admission, PAID does not free it.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (domain.Payment, error) {
	if in.BookingID == "" {
		return domain.Payment{}, domain.ErrInvalidID
	}
	if in.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	var result domain.Payment
	var booking domain.Booking

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		b, err := s.repo.GetBookingForUpdate(txCtx, in.BookingID)
		if err != nil {
			return err
		}
		if !b.CanPay() {
			return domain.ErrIllegalTransition
		}
		if b.PaymentDeadline.Before(now) {
			return domain.ErrDeadlinePassed
		}

		payment := domain.Payment{
			ID:        newID(),
			BookingID: in.BookingID,
			Amount:    in.Amount,
			Status:    domain.PaymentStatusCompleted,
			CreatedAt: now,
		}
		if err := s.repo.CreatePayment(txCtx, payment); err != nil {
			return err
		}
		if err := s.repo.UpdateBookingStatus(txCtx, in.BookingID, domain.BookingStatusPaid, now); err != nil {
			return err
		}

		b.Status = domain.BookingStatusPaid
		b.UpdatedAt = now
		booking = b
		result = payment
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	evt := events.BookingEvent{
		Type:        events.TypeBookingPaid,
		BookingID:   booking.ID,
		UnitID:      booking.UnitID,
		RequesterID: booking.RequesterID,
		Status:      string(booking.Status),
		OccurredAt:  now,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("publishing booking event failed",
			zap.String("booking_id", booking.ID), zap.Error(err))
	}

	return result, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	if id == "" {
		return domain.Payment{}, domain.ErrInvalidID
	}
	return s.repo.GetPayment(ctx, id)
}
