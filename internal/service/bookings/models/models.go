package models

import (
	"strings"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// Request модели

// UpdateBillingRequest платежные реквизиты бронирования
type UpdateBillingRequest struct {
	FirstName    string  `json:"firstName" validate:"required,max=100"`
	LastName     string  `json:"lastName" validate:"required,max=100"`
	Company      *string `json:"company" validate:"omitempty,max=200"`
	VATID        *string `json:"vatId" validate:"omitempty,max=32"`
	AddressLine1 string  `json:"addressLine1" validate:"required,max=200"`
	AddressLine2 *string `json:"addressLine2" validate:"omitempty,max=200"`
	PostalCode   string  `json:"postalCode" validate:"required,max=16"`
	City         string  `json:"city" validate:"required,max=100"`
	Country      string  `json:"country" validate:"required,iso3166_1_alpha2"`
}

// ToDomain конвертирует запрос в domain.Billing
func (r *UpdateBillingRequest) ToDomain() *domain.Billing {
	return &domain.Billing{
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		Company:      r.Company,
		VATID:        r.VATID,
		AddressLine1: strings.TrimSpace(r.AddressLine1),
		AddressLine2: r.AddressLine2,
		PostalCode:   strings.TrimSpace(r.PostalCode),
		City:         strings.TrimSpace(r.City),
		Country:      strings.ToUpper(strings.TrimSpace(r.Country)),
	}
}

// CancelBookingRequest запрос на отмену бронирования
// Клиент подтверждает право на отмену email-адресом брони, оператор отменяет любую бронь
type CancelBookingRequest struct {
	Email    string `json:"email"`
	Reason   string `json:"reason"`
	Operator bool   `json:"-"`
}

// UpdateStatusRequest итог консультации (оператор)
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// SearchBookingsRequest параметры поиска бронирований
type SearchBookingsRequest struct {
	ConsultantID  *string
	Status        *string
	PaymentStatus *string
	Email         *string
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	PageSize      int
	SortBy        *string
	SortOrder     *string
}

// Response модели

// ContactResponse контактные данные клиента
type ContactResponse struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Company   *string `json:"company,omitempty"`
	Website   *string `json:"website,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               string            `json:"id"`
	ConsultantID     string            `json:"consultantId"`
	ConsultationDate string            `json:"consultationDate"` // "2025-10-15"
	TimeSlot         string            `json:"timeSlot"`         // "10:00"
	DurationMinutes  int               `json:"durationMinutes"`
	Contact          ContactResponse   `json:"contact"`
	Billing          *domain.Billing   `json:"billing,omitempty"`
	Amount           string            `json:"amount"` // "30.00"
	Currency         string            `json:"currency"`
	BookingStatus    string            `json:"bookingStatus"`
	PaymentStatus    string            `json:"paymentStatus"`
	PaymentReference *string           `json:"paymentReference,omitempty"`
	TermsAccepted    bool              `json:"termsAccepted"`
	Metadata         map[string]string `json:"metadata,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:               b.ID,
		ConsultantID:     b.ConsultantID,
		ConsultationDate: b.ConsultationDate.Format(domain.DateFormat),
		TimeSlot:         b.TimeSlot,
		DurationMinutes:  b.DurationMinutes,
		Contact: ContactResponse{
			FirstName: b.Contact.FirstName,
			LastName:  b.Contact.LastName,
			Email:     b.Contact.Email,
			Phone:     b.Contact.Phone,
			Company:   b.Contact.Company,
			Website:   b.Contact.Website,
		},
		Billing:            b.Billing,
		Amount:             b.Amount.StringFixed(2),
		Currency:           b.Currency,
		BookingStatus:      string(b.BookingStatus),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentReference:   b.PaymentReference,
		TermsAccepted:      b.TermsAccepted,
		Metadata:           b.Metadata,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		PaidAt:             b.PaidAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
	}
}

// FromDomainBookingsPage конвертирует страницу domain моделей в DTO
func FromDomainBookingsPage(page *domain.BookingsPage, p domain.Pagination) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: []BookingResponse{},
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if page == nil {
		return resp
	}

	resp.Total = page.Total
	resp.Bookings = make([]BookingResponse, 0, len(page.Bookings))
	for _, b := range page.Bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
