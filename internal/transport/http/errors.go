package http

import (
	"encoding/json"
	"net/http"

	"github.com/fugrusha/booking/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeValidationFailed   = "validation_failed"
	codeInvalidDate        = "invalid_date"
	codeInvalidID          = "invalid_id"
	codeInvalidInterval    = "invalid_interval"
	codeInvalidAmount      = "invalid_amount"
	codeUnitNotFound       = "unit_not_found"
	codeBookingNotFound    = "booking_not_found"
	codePaymentNotFound    = "payment_not_found"
	codeUnitUnavailable    = "unit_unavailable"
	codeIllegalTransition  = "illegal_transition"
	codeDeadlinePassed     = "deadline_passed"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps service-layer sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrInvalidInterval:
		writeError(w, http.StatusBadRequest, codeInvalidInterval, err.Error())
	case domain.ErrInvalidAmount:
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case domain.ErrUnitNotFound:
		writeError(w, http.StatusNotFound, codeUnitNotFound, err.Error())
	case domain.ErrBookingNotFound:
		writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
	case domain.ErrPaymentNotFound:
		writeError(w, http.StatusNotFound, codePaymentNotFound, err.Error())
	case domain.ErrUnitUnavailable:
		writeError(w, http.StatusConflict, codeUnitUnavailable, err.Error())
	case domain.ErrIllegalTransition:
		writeError(w, http.StatusConflict, codeIllegalTransition, err.Error())
	case domain.ErrDeadlinePassed:
		writeError(w, http.StatusConflict, codeDeadlinePassed, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
