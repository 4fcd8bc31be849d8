package bookings

import (
	"fmt"
	"strings"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
)

// toDomainQuery конвертирует параметры поиска в фильтр, пагинацию и сортировку
func toDomainQuery(req *models.SearchBookingsRequest) (domain.BookingsFilter, domain.Pagination, domain.Sort, error) {
	var filter domain.BookingsFilter
	sort := domain.DefaultSort

	if req.ConsultantID != nil && *req.ConsultantID != "" {
		filter.ConsultantID = req.ConsultantID
	}

	if req.Status != nil && *req.Status != "" {
		status := domain.BookingStatus(strings.ToUpper(*req.Status))
		if !status.IsValid() {
			return filter, domain.Pagination{}, sort, invalid("status", "unknown booking status")
		}
		filter.BookingStatus = &status
	}

	if req.PaymentStatus != nil && *req.PaymentStatus != "" {
		status := domain.PaymentStatus(strings.ToUpper(*req.PaymentStatus))
		if !status.IsValid() {
			return filter, domain.Pagination{}, sort, invalid("paymentStatus", "unknown payment status")
		}
		filter.PaymentStatus = &status
	}

	if req.Email != nil && *req.Email != "" {
		email := strings.TrimSpace(*req.Email)
		filter.Email = &email
	}

	if req.DateFrom != nil {
		from := domain.DateOnly(*req.DateFrom)
		filter.DateFrom = &from
	}
	if req.DateTo != nil {
		to := domain.DateOnly(*req.DateTo)
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, domain.Pagination{}, sort, invalid("dateTo", "must not be before dateFrom")
	}

	if req.Page < 0 {
		return filter, domain.Pagination{}, sort, invalid("page", "must be positive")
	}
	if req.Page > domain.MaxPage {
		return filter, domain.Pagination{}, sort, invalid("page", fmt.Sprintf("must be at most %d", domain.MaxPage))
	}
	if req.PageSize < 0 || req.PageSize > domain.MaxPageSize {
		return filter, domain.Pagination{}, sort, invalid("pageSize", fmt.Sprintf("must be between 1 and %d", domain.MaxPageSize))
	}
	page := domain.Pagination{Page: req.Page, PageSize: req.PageSize}.Normalize()

	if req.SortBy != nil && *req.SortBy != "" {
		field := domain.SortField(toSnakeCase(*req.SortBy))
		if !field.IsValid() {
			return filter, page, sort, invalid("sortBy", "must be one of: createdAt, consultationDate, amount")
		}
		sort.Field = field
	}
	if req.SortOrder != nil && *req.SortOrder != "" {
		order := domain.SortOrder(strings.ToLower(*req.SortOrder))
		if !order.IsValid() {
			return filter, page, sort, invalid("sortOrder", "must be asc or desc")
		}
		sort.Order = order
	}

	return filter, page, sort, nil
}

// toSnakeCase consultationDate -> consultation_date
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewFieldError(field, reason))
}
