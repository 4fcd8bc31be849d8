package create_booking

import (
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// Request модель запроса на создание бронирования
// json-теги задают имена полей в ошибках валидации
type Request struct {
	ConsultantID  string            `json:"consultantId" validate:"required,max=64"`
	Date          time.Time         `json:"consultationDate" validate:"required"`
	TimeSlot      string            `json:"timeSlot" validate:"required,timeslot"`
	Contact       Contact           `json:"contact"`
	TermsAccepted bool              `json:"termsAccepted"`
	Metadata      map[string]string `json:"metadata" validate:"omitempty,max=20,dive,keys,required,max=64,endkeys,max=500"`
}

// Contact контактные данные клиента
type Contact struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Phone     string  `json:"phone" validate:"required,phone"`
	Company   *string `json:"company" validate:"omitempty,max=200"`
	Website   *string `json:"website" validate:"omitempty,http_url,max=500"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID string
	Booking   *domain.Booking
}
