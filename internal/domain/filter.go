package domain

import "time"

// SortField поле сортировки при поиске бронирований
type SortField string

const (
	SortByCreatedAt        SortField = "created_at"
	SortByConsultationDate SortField = "consultation_date"
	SortByAmount           SortField = "amount"
)

func (f SortField) IsValid() bool {
	return f == SortByCreatedAt || f == SortByConsultationDate || f == SortByAmount
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

type Sort struct {
	Field SortField
	Order SortOrder
}

// DefaultSort сначала новые
var DefaultSort = Sort{Field: SortByCreatedAt, Order: SortDesc}

type Pagination struct {
	Page     int // с 1
	PageSize int
}

// Normalize подставляет значения по умолчанию и ограничивает размер страницы
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// BookingsFilter фильтр поиска бронирований; nil-поля не ограничивают выборку
type BookingsFilter struct {
	ConsultantID  *string
	BookingStatus *BookingStatus
	PaymentStatus *PaymentStatus
	Email         *string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// BookingsPage страница результатов поиска
type BookingsPage struct {
	Bookings []*Booking
	Total    int
}
