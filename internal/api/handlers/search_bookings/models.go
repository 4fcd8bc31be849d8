package search_bookings

import (
	"net/http"

	"github.com/m04kA/consultation-booking/internal/api/handlers"
	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
)

// ToServiceRequest собирает параметры поиска из query
// Значения фильтров проверяет сервис, здесь только разбор типов
func ToServiceRequest(r *http.Request) (*models.SearchBookingsRequest, error) {
	req := &models.SearchBookingsRequest{
		ConsultantID:  handlers.QueryString(r, "consultantId"),
		Status:        handlers.QueryString(r, "status"),
		PaymentStatus: handlers.QueryString(r, "paymentStatus"),
		Email:         handlers.QueryString(r, "email"),
		SortBy:        handlers.QueryString(r, "sortBy"),
		SortOrder:     handlers.QueryString(r, "sortOrder"),
	}

	var err error
	if req.DateFrom, err = handlers.QueryDate(r, "dateFrom"); err != nil {
		return nil, domain.NewFieldError("dateFrom", "must be a date in YYYY-MM-DD format")
	}
	if req.DateTo, err = handlers.QueryDate(r, "dateTo"); err != nil {
		return nil, domain.NewFieldError("dateTo", "must be a date in YYYY-MM-DD format")
	}
	if req.Page, err = handlers.QueryInt(r, "page"); err != nil {
		return nil, domain.NewFieldError("page", "must be an integer")
	}
	if req.PageSize, err = handlers.QueryInt(r, "pageSize"); err != nil {
		return nil, domain.NewFieldError("pageSize", "must be an integer")
	}

	return req, nil
}
