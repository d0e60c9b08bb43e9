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

// PaymentService is the minimal interface the payment endpoints need.
type PaymentService interface {
	CreatePayment(ctx context.Context, in app.CreatePaymentInput) (domain.Payment, error)
	GetPayment(ctx context.Context, id string) (domain.Payment, error)
}

// HandlePayments serves POST /payments.
func HandlePayments(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createPaymentRequest
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

		payment, err := svc.CreatePayment(r.Context(), app.CreatePaymentInput{
			BookingID: req.BookingID,
			Amount:    req.Amount,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
	}
}

// HandlePaymentByID serves GET /payments/{id}.
func HandlePaymentByID(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "payments" || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		payment, err := svc.GetPayment(r.Context(), parts[1])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPaymentResponse(payment))
	}
}

type createPaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}

type paymentResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		BookingID: p.BookingID,
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}
