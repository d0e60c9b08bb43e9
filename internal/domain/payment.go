package domain

import "time"

type PaymentStatus string

const PaymentStatusCompleted PaymentStatus = "COMPLETED"

// Payment records a completed capture against a booking.
type Payment struct {
	ID        string
	BookingID string
	Amount    int64 // cents
	Status    PaymentStatus
	CreatedAt time.Time
}
