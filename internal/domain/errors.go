package domain

import "errors"

var (
	ErrUnitNotFound      = errors.New("unit not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrUnitUnavailable   = errors.New("unit is not available for the selected dates")
	ErrIllegalTransition = errors.New("booking cannot change to the requested status")
	ErrDeadlinePassed    = errors.New("payment deadline has passed")
	ErrInvalidInterval   = errors.New("start date must be before end date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidID         = errors.New("invalid id")
)
