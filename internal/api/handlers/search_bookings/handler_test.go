package search_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking/internal/api/handlers"
	"github.com/m04kA/consultation-booking/internal/service/bookings"
	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.SearchBookingsRequest
	err error
}

func (f *fakeService) Search(_ context.Context, req *models.SearchBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "b-1"}}, Total: 1, Page: 1, PageSize: 20}, nil
}

func TestHandle_ParsesQuery(t *testing.T) {
	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings?consultantId=c-1&status=confirmed&email=Ada@Example.com&dateFrom=2030-01-01&dateTo=2030-01-31&page=2&pageSize=10&sortBy=consultationDate&sortOrder=asc", nil)
	rec := httptest.NewRecorder()

	NewHandler(svc, nopLogger{}).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "c-1", *svc.got.ConsultantID)
	assert.Equal(t, "confirmed", *svc.got.Status)
	assert.Nil(t, svc.got.PaymentStatus)
	assert.Equal(t, "Ada@Example.com", *svc.got.Email)
	assert.Equal(t, "2030-01-01", svc.got.DateFrom.Format("2006-01-02"))
	assert.Equal(t, "2030-01-31", svc.got.DateTo.Format("2006-01-02"))
	assert.Equal(t, 2, svc.got.Page)
	assert.Equal(t, 10, svc.got.PageSize)
	assert.Equal(t, "consultationDate", *svc.got.SortBy)
	assert.Equal(t, "asc", *svc.got.SortOrder)

	var body models.BookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Bookings, 1)
}

func TestHandle_InvalidQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{"bad dateFrom", "?dateFrom=yesterday", "dateFrom"},
		{"bad dateTo", "?dateTo=2030-13-40", "dateTo"},
		{"bad page", "?page=two", "page"},
		{"bad pageSize", "?pageSize=1.5", "pageSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+tt.query, nil)
			rec := httptest.NewRecorder()

			NewHandler(svc, nopLogger{}).Handle(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantField, body.Field)
			assert.Nil(t, svc.got)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	for _, tt := range []struct {
		err  error
		want int
	}{
		{bookings.ErrInvalidInput, http.StatusBadRequest},
		{bookings.ErrInternal, http.StatusInternalServerError},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		rec := httptest.NewRecorder()
		NewHandler(&fakeService{err: tt.err}, nopLogger{}).Handle(rec, req)
		assert.Equal(t, tt.want, rec.Code)
	}
}
