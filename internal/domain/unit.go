package domain

import "time"

type AccommodationType string

const (
	AccommodationHome      AccommodationType = "HOME"
	AccommodationFlat      AccommodationType = "FLAT"
	AccommodationApartment AccommodationType = "APARTMENTS"
)

// Unit is a reservable accommodation unit. TotalCost is the nightly rate
// charged to requesters: BaseCost plus the configured system markup.
type Unit struct {
	ID                string
	NumberOfRooms     int
	AccommodationType AccommodationType
	Floor             int
	BaseCost          int64 // cents
	TotalCost         int64 // cents
	Description       string
	CreatedAt         time.Time
}
