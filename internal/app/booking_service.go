package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/clock"
	"github.com/fugrusha/booking/internal/domain"
	"github.com/fugrusha/booking/internal/events"
)

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetUnitForUpdate(ctx context.Context, unitID string) (domain.Unit, error)
	FindActiveBookingsOverlapping(ctx context.Context, unitID string, start, end time.Time) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, booking domain.Booking) error
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	GetBookingForUpdate(ctx context.Context, id string) (domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus, updatedAt time.Time) error
	FindExpiredPendingIDs(ctx context.Context, now time.Time) ([]string, error)
	ListBookingsByRequester(ctx context.Context, requesterID string, limit, offset int) ([]domain.Booking, error)
	ListBookingsByUnit(ctx context.Context, unitID string, limit, offset int) ([]domain.Booking, error)
}

// Counter is the availability cache as seen by the services. Adjustment
// failures are logged, never propagated: the periodic rebuild heals drift.
type Counter interface {
	Get(ctx context.Context) (int64, error)
	Increment(ctx context.Context) error
	Decrement(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evt events.BookingEvent) error
}

type BookingService struct {
	repo         BookingRepository
	counter      Counter
	clock        clock.Clock
	publisher    EventPublisher
	log          *zap.Logger
	paymentGrace time.Duration
}

const defaultPaymentGrace = 15 * time.Minute

type BookingServiceOption func(*BookingService)

// WithPaymentGrace overrides how long a new booking stays payable.
func WithPaymentGrace(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.paymentGrace = d
		}
	}
}

func WithBookingPublisher(p EventPublisher) BookingServiceOption {
	return func(s *BookingService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithBookingLogger(log *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewBookingService(repo BookingRepository, counter Counter, clk clock.Clock, opts ...BookingServiceOption) *BookingService {
	svc := &BookingService{
		repo:         repo,
		counter:      counter,
		clock:        clk,
		publisher:    events.NewNopPublisher(),
		log:          zap.NewNop(),
		paymentGrace: defaultPaymentGrace,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateBookingInput struct {
	UnitID      string
	RequesterID string
	StartDate   time.Time
	EndDate     time.Time
}

// CreateBooking admits a booking for [StartDate, EndDate). The unit row
// lock, overlap check and insert share one transaction so two concurrent
// admissions for the same unit cannot both observe "no conflict".
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if in.UnitID == "" || in.RequesterID == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}
	if !in.StartDate.Before(in.EndDate) {
		return domain.Booking{}, domain.ErrInvalidInterval
	}

	now := s.clock.Now()
	var result domain.Booking

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		unit, err := s.repo.GetUnitForUpdate(txCtx, in.UnitID)
		if err != nil {
			return err
		}

		conflicts, err := s.repo.FindActiveBookingsOverlapping(txCtx, in.UnitID, in.StartDate, in.EndDate)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.ErrUnitUnavailable
		}

		booking := domain.Booking{
			ID:              newID(),
			UnitID:          in.UnitID,
			RequesterID:     in.RequesterID,
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			TotalPrice:      totalPrice(unit, in.StartDate, in.EndDate),
			Status:          domain.BookingStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
			PaymentDeadline: now.Add(s.paymentGrace),
		}

		if err := s.repo.CreateBooking(txCtx, booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if err := s.counter.Decrement(ctx); err != nil {
		s.log.Warn("counter decrement failed, next rebuild heals it", zap.Error(err))
	}
	s.publish(ctx, events.TypeBookingCreated, result)

	return result, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	if id == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}
	return s.repo.GetBooking(ctx, id)
}

// CancelBooking releases the unit. Bookings that already released it
// (CANCELLED, EXPIRED) cannot be cancelled again.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (domain.Booking, error) {
	if id == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Booking

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !booking.CanCancel() {
			return domain.ErrIllegalTransition
		}

		if err := s.repo.UpdateBookingStatus(txCtx, id, domain.BookingStatusCancelled, now); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCancelled
		booking.UpdatedAt = now
		result = booking
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if err := s.counter.Increment(ctx); err != nil {
		s.log.Warn("counter increment failed, next rebuild heals it", zap.Error(err))
	}
	s.publish(ctx, events.TypeBookingCancelled, result)

	return result, nil
}

// IsAvailable reports whether no active booking for the unit overlaps
// [start, end).
func (s *BookingService) IsAvailable(ctx context.Context, unitID string, start, end time.Time) (bool, error) {
	if unitID == "" {
		return false, domain.ErrInvalidID
	}
	if !start.Before(end) {
		return false, domain.ErrInvalidInterval
	}

	conflicts, err := s.repo.FindActiveBookingsOverlapping(ctx, unitID, start, end)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// SweepExpire transitions every PENDING booking whose payment deadline
// passed to EXPIRED. Each booking gets its own transaction; a failure on
// one is logged and the rest of the batch continues.
func (s *BookingService) SweepExpire(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.repo.FindExpiredPendingIDs(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		var transitioned bool
		var booking domain.Booking

		err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
			b, err := s.repo.GetBookingForUpdate(txCtx, id)
			if err != nil {
				return err
			}
			// Re-check under the lock: a concurrent payment or cancel
			// may have won the race since the batch query ran.
			if b.Status != domain.BookingStatusPending || !b.PaymentDeadline.Before(now) {
				return nil
			}
			if err := s.repo.UpdateBookingStatus(txCtx, id, domain.BookingStatusExpired, now); err != nil {
				return err
			}
			b.Status = domain.BookingStatusExpired
			b.UpdatedAt = now
			booking = b
			transitioned = true
			return nil
		})
		if err != nil {
			s.log.Warn("expiring booking failed, continuing sweep",
				zap.String("booking_id", id), zap.Error(err))
			continue
		}
		if transitioned {
			expired++
			s.publish(ctx, events.TypeBookingExpired, booking)
		}
	}
	return expired, nil
}

func (s *BookingService) ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]domain.Booking, error) {
	if requesterID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListBookingsByRequester(ctx, requesterID, normalizeLimit(limit), max(offset, 0))
}

func (s *BookingService) ListByUnit(ctx context.Context, unitID string, limit, offset int) ([]domain.Booking, error) {
	if unitID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListBookingsByUnit(ctx, unitID, normalizeLimit(limit), max(offset, 0))
}

func (s *BookingService) publish(ctx context.Context, typ events.Type, booking domain.Booking) {
	evt := events.BookingEvent{
		Type:        typ,
		BookingID:   booking.ID,
		UnitID:      booking.UnitID,
		RequesterID: booking.RequesterID,
		Status:      string(booking.Status),
		OccurredAt:  booking.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("publishing booking event failed",
			zap.String("type", string(typ)), zap.String("booking_id", booking.ID), zap.Error(err))
	}
}

// totalPrice charges the unit's nightly rate per whole day booked.
func totalPrice(unit domain.Unit, start, end time.Time) int64 {
	days := int64(end.Sub(start) / (24 * time.Hour))
	return unit.TotalCost * days
}

const defaultPageSize = 20

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return limit
}
