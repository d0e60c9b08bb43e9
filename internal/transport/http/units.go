package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fugrusha/booking/internal/app"
	"github.com/fugrusha/booking/internal/domain"
)

// UnitService is the minimal interface the unit catalog endpoints need.
type UnitService interface {
	CreateUnit(ctx context.Context, in app.CreateUnitInput) (domain.Unit, error)
	GetUnit(ctx context.Context, id string) (domain.Unit, error)
	UpdateUnit(ctx context.Context, id string, in app.UpdateUnitInput) (domain.Unit, error)
	DeleteUnit(ctx context.Context, id string) error
	FindUnits(ctx context.Context, filter app.UnitFilter, limit, offset int) ([]domain.Unit, error)
}

// HandleUnits serves POST /units and GET /units.
func HandleUnits(svc UnitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createUnit(w, r, svc)
		case http.MethodGet:
			listUnits(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleUnitByID serves GET/PUT/DELETE /units/{id}.
func HandleUnitByID(svc UnitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "units" || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		id := parts[1]

		switch r.Method {
		case http.MethodGet:
			unit, err := svc.GetUnit(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toUnitResponse(unit))
		case http.MethodPut:
			updateUnit(w, r, svc, id)
		case http.MethodDelete:
			if err := svc.DeleteUnit(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func createUnit(w http.ResponseWriter, r *http.Request, svc UnitService) {
	var req unitRequest
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

	unit, err := svc.CreateUnit(r.Context(), app.CreateUnitInput{
		NumberOfRooms:     req.NumberOfRooms,
		AccommodationType: domain.AccommodationType(req.AccommodationType),
		Floor:             req.Floor,
		BaseCost:          req.BaseCost,
		Description:       req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUnitResponse(unit))
}

func updateUnit(w http.ResponseWriter, r *http.Request, svc UnitService, id string) {
	var req unitRequest
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

	unit, err := svc.UpdateUnit(r.Context(), id, app.UpdateUnitInput{
		NumberOfRooms:     req.NumberOfRooms,
		AccommodationType: domain.AccommodationType(req.AccommodationType),
		Floor:             req.Floor,
		BaseCost:          req.BaseCost,
		Description:       req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUnitResponse(unit))
}

func listUnits(w http.ResponseWriter, r *http.Request, svc UnitService) {
	q := r.URL.Query()

	var filter app.UnitFilter
	if raw := q.Get("rooms"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.NumberOfRooms = &v
		}
	}
	if raw := q.Get("type"); raw != "" {
		t := domain.AccommodationType(raw)
		filter.AccommodationType = &t
	}
	if raw := q.Get("floor"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Floor = &v
		}
	}
	if raw := q.Get("min_cost"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.MinTotalCost = &v
		}
	}
	if raw := q.Get("max_cost"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.MaxTotalCost = &v
		}
	}

	units, err := svc.FindUnits(r.Context(), filter, queryInt(q.Get("limit"), 0), queryInt(q.Get("offset"), 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]unitResponse, 0, len(units))
	for _, u := range units {
		resp = append(resp, toUnitResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

type unitRequest struct {
	NumberOfRooms     int    `json:"number_of_rooms" validate:"required,gt=0"`
	AccommodationType string `json:"accommodation_type" validate:"required,oneof=HOME FLAT APARTMENTS"`
	Floor             int    `json:"floor" validate:"gte=0"`
	BaseCost          int64  `json:"base_cost" validate:"required,gt=0"`
	Description       string `json:"description"`
}

type unitResponse struct {
	ID                string    `json:"id"`
	NumberOfRooms     int       `json:"number_of_rooms"`
	AccommodationType string    `json:"accommodation_type"`
	Floor             int       `json:"floor"`
	BaseCost          int64     `json:"base_cost"`
	TotalCost         int64     `json:"total_cost"`
	Description       string    `json:"description"`
	CreatedAt         time.Time `json:"created_at"`
}

func toUnitResponse(u domain.Unit) unitResponse {
	return unitResponse{
		ID:                u.ID,
		NumberOfRooms:     u.NumberOfRooms,
		AccommodationType: string(u.AccommodationType),
		Floor:             u.Floor,
		BaseCost:          u.BaseCost,
		TotalCost:         u.TotalCost,
		Description:       u.Description,
		CreatedAt:         u.CreatedAt,
	}
}
