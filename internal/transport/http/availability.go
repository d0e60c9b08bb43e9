package http

import (
	"context"
	"net/http"
	"time"
)

// AvailabilityChecker answers whether a unit is free for an interval.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, unitID string, start, end time.Time) (bool, error)
}

// UnitCounter answers the cached available-units count.
type UnitCounter interface {
	AvailableUnitsCount(ctx context.Context) (int64, error)
}

// HandleAvailability serves GET /availability?unit_id=&start=&end=.
func HandleAvailability(svc AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		unitID := q.Get("unit_id")
		if unitID == "" {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "unit_id is required")
			return
		}
		start, err := time.Parse(time.RFC3339, q.Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start format")
			return
		}
		end, err := time.Parse(time.RFC3339, q.Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end format")
			return
		}

		available, err := svc.IsAvailable(r.Context(), unitID, start.UTC(), end.UTC())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, availabilityResponse{UnitID: unitID, Available: available})
	}
}

// HandleAvailableCount serves GET /availability/count.
func HandleAvailableCount(svc UnitCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		count, err := svc.AvailableUnitsCount(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, availableCountResponse{AvailableUnits: count})
	}
}

type availabilityResponse struct {
	UnitID    string `json:"unit_id"`
	Available bool   `json:"available"`
}

type availableCountResponse struct {
	AvailableUnits int64 `json:"available_units"`
}
