package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fugrusha/booking/internal/app"
	"github.com/fugrusha/booking/internal/domain"
)

type stubUnitService struct {
	unit   domain.Unit
	units  []domain.Unit
	err    error
	filter app.UnitFilter

	deleted string
}

func (s *stubUnitService) CreateUnit(_ context.Context, _ app.CreateUnitInput) (domain.Unit, error) {
	return s.unit, s.err
}

func (s *stubUnitService) GetUnit(_ context.Context, _ string) (domain.Unit, error) {
	return s.unit, s.err
}

func (s *stubUnitService) UpdateUnit(_ context.Context, _ string, _ app.UpdateUnitInput) (domain.Unit, error) {
	return s.unit, s.err
}

func (s *stubUnitService) DeleteUnit(_ context.Context, id string) error {
	s.deleted = id
	return s.err
}

func (s *stubUnitService) FindUnits(_ context.Context, filter app.UnitFilter, _, _ int) ([]domain.Unit, error) {
	s.filter = filter
	return s.units, s.err
}

func TestHandleUnits_Create(t *testing.T) {
	t.Parallel()

	unit := domain.Unit{
		ID:                testUnitID,
		NumberOfRooms:     2,
		AccommodationType: domain.AccommodationFlat,
		BaseCost:          10000,
		TotalCost:         11500,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "created",
			body:           `{"number_of_rooms":2,"accommodation_type":"FLAT","floor":3,"base_cost":10000,"description":"near the station"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"total_cost":11500`,
		},
		{
			name:           "unknown accommodation type",
			body:           `{"number_of_rooms":2,"accommodation_type":"CASTLE","base_cost":10000}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "validation_failed",
		},
		{
			name:           "missing base cost",
			body:           `{"number_of_rooms":2,"accommodation_type":"FLAT"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubUnitService{unit: unit, err: tc.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/units", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			HandleUnits(svc)(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tc.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleUnits_List(t *testing.T) {
	t.Parallel()

	svc := &stubUnitService{units: []domain.Unit{{ID: testUnitID}}}

	req := httptest.NewRequest(http.MethodGet, "/units?rooms=2&type=FLAT&min_cost=5000&max_cost=20000", nil)
	rec := httptest.NewRecorder()

	HandleUnits(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.filter.NumberOfRooms == nil || *svc.filter.NumberOfRooms != 2 {
		t.Fatalf("expected rooms filter 2, got %+v", svc.filter.NumberOfRooms)
	}
	if svc.filter.AccommodationType == nil || *svc.filter.AccommodationType != domain.AccommodationFlat {
		t.Fatalf("expected type filter FLAT, got %+v", svc.filter.AccommodationType)
	}
	if svc.filter.MinTotalCost == nil || *svc.filter.MinTotalCost != 5000 {
		t.Fatalf("expected min cost 5000, got %+v", svc.filter.MinTotalCost)
	}
	if svc.filter.MaxTotalCost == nil || *svc.filter.MaxTotalCost != 20000 {
		t.Fatalf("expected max cost 20000, got %+v", svc.filter.MaxTotalCost)
	}
	if svc.filter.Floor != nil {
		t.Fatalf("expected floor filter unset, got %+v", svc.filter.Floor)
	}
}

func TestHandleUnitByID(t *testing.T) {
	t.Parallel()

	unit := domain.Unit{ID: testUnitID, BaseCost: 10000, TotalCost: 11500}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedDelete string
	}{
		{
			name:           "get unit",
			method:         http.MethodGet,
			path:           "/units/" + testUnitID,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "update unit",
			method:         http.MethodPut,
			path:           "/units/" + testUnitID,
			body:           `{"number_of_rooms":3,"accommodation_type":"HOME","base_cost":20000}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "delete unit",
			method:         http.MethodDelete,
			path:           "/units/" + testUnitID,
			expectedStatus: http.StatusNoContent,
			expectedDelete: testUnitID,
		},
		{
			name:           "unit not found",
			method:         http.MethodGet,
			path:           "/units/" + testUnitID,
			serviceErr:     domain.ErrUnitNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid path",
			method:         http.MethodGet,
			path:           "/units/" + testUnitID + "/extra",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "method not allowed",
			method:         http.MethodPatch,
			path:           "/units/" + testUnitID,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubUnitService{unit: unit, err: tc.serviceErr}
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			HandleUnitByID(svc)(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedDelete != "" && svc.deleted != tc.expectedDelete {
				t.Fatalf("expected delete of %s, got %q", tc.expectedDelete, svc.deleted)
			}
		})
	}
}
