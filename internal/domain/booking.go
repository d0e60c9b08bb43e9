package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// ActiveStatuses are the statuses that occupy a unit. Bookings in any
// other status have released their dates.
var ActiveStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusPaid,
}

// IsActive reports whether a booking in this status occupies its unit.
func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusPaid:
		return true
	}
	return false
}

// Booking reserves a unit for the half-open interval [StartDate, EndDate).
type Booking struct {
	ID              string
	UnitID          string
	RequesterID     string
	StartDate       time.Time
	EndDate         time.Time
	TotalPrice      int64 // cents
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PaymentDeadline time.Time
}

// CanCancel reports whether the booking may still be cancelled. Statuses
// that already released the unit stay as they are.
func (b Booking) CanCancel() bool {
	return b.Status != BookingStatusCancelled && b.Status != BookingStatusExpired
}

// CanPay reports whether the booking is in a payable status. The payment
// deadline is checked separately by the payment service.
func (b Booking) CanPay() bool {
	return b.Status == BookingStatusPending
}
