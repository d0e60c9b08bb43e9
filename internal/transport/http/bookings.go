package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fugrusha/booking/internal/app"
	"github.com/fugrusha/booking/internal/domain"
)

// BookingService is the minimal interface the booking endpoints need.
type BookingService interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error)
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (domain.Booking, error)
	ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]domain.Booking, error)
	ListByUnit(ctx context.Context, unitID string, limit, offset int) ([]domain.Booking, error)
}

// HandleBookings serves POST /bookings and GET /bookings.
func HandleBookings(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createBooking(w, r, svc)
		case http.MethodGet:
			listBookings(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleBookingByID serves GET /bookings/{id} and POST /bookings/{id}/cancel.
func HandleBookingByID(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseBookingPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			booking, err := svc.GetBooking(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponse(booking))
		case action == "cancel" && r.Method == http.MethodPost:
			booking, err := svc.CancelBooking(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponse(booking))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func createBooking(w http.ResponseWriter, r *http.Request, svc BookingService) {
	var req createBookingRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start_date format")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end_date format")
		return
	}

	booking, err := svc.CreateBooking(r.Context(), app.CreateBookingInput{
		UnitID:      req.UnitID,
		RequesterID: req.RequesterID,
		StartDate:   start.UTC(),
		EndDate:     end.UTC(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func listBookings(w http.ResponseWriter, r *http.Request, svc BookingService) {
	q := r.URL.Query()
	limit := queryInt(q.Get("limit"), 0)
	offset := queryInt(q.Get("offset"), 0)

	var (
		bookings []domain.Booking
		err      error
	)
	switch {
	case q.Get("requester_id") != "":
		bookings, err = svc.ListByRequester(r.Context(), q.Get("requester_id"), limit, offset)
	case q.Get("unit_id") != "":
		bookings, err = svc.ListByUnit(r.Context(), q.Get("unit_id"), limit, offset)
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed, "requester_id or unit_id is required")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseBookingPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "bookings" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		return parts[1], parts[2], true
	}
	return parts[1], "", true
}

type createBookingRequest struct {
	UnitID      string `json:"unit_id" validate:"required,uuid"`
	RequesterID string `json:"requester_id" validate:"required,uuid"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
}

type bookingResponse struct {
	ID              string    `json:"id"`
	UnitID          string    `json:"unit_id"`
	RequesterID     string    `json:"requester_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	TotalPrice      int64     `json:"total_price"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PaymentDeadline time.Time `json:"payment_deadline"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		UnitID:          b.UnitID,
		RequesterID:     b.RequesterID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		PaymentDeadline: b.PaymentDeadline,
	}
}
