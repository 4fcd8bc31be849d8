package create_booking

import (
	"github.com/m04kA/consultation-booking/internal/api/handlers"
	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
	createBooking "github.com/m04kA/consultation-booking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ConsultantID     string            `json:"consultantId"`
	ConsultationDate string            `json:"consultationDate"` // "2025-10-15"
	TimeSlot         string            `json:"timeSlot"`         // "10:00"
	Contact          ContactRequest    `json:"contact"`
	TermsAccepted    bool              `json:"termsAccepted"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// ContactRequest контактные данные клиента
type ContactRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Company   *string `json:"company,omitempty"`
	Website   *string `json:"website,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	BookingID string                  `json:"bookingId"`
	Booking   *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	if r.ConsultationDate == "" {
		return nil, domain.NewFieldError("consultationDate", "is required")
	}
	date, err := handlers.ParseDate(r.ConsultationDate)
	if err != nil {
		return nil, domain.NewFieldError("consultationDate", "must be a date in YYYY-MM-DD format")
	}

	return &createBooking.Request{
		ConsultantID: r.ConsultantID,
		Date:         date,
		TimeSlot:     r.TimeSlot,
		Contact: createBooking.Contact{
			FirstName: r.Contact.FirstName,
			LastName:  r.Contact.LastName,
			Email:     r.Contact.Email,
			Phone:     r.Contact.Phone,
			Company:   r.Contact.Company,
			Website:   r.Contact.Website,
		},
		TermsAccepted: r.TermsAccepted,
		Metadata:      r.Metadata,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingID: resp.BookingID,
		Booking:   models.FromDomainBooking(resp.Booking),
	}
}
