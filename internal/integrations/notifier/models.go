package notifier

import (
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// Ключи маршрутизации событий
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
)

// EmailMessage письмо для отправки
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}

// BookingEvent тело события о бронировании
type BookingEvent struct {
	Event            string    `json:"event"`
	BookingID        string    `json:"bookingId"`
	ConsultantID     string    `json:"consultantId"`
	ConsultationDate string    `json:"consultationDate"`
	TimeSlot         string    `json:"timeSlot"`
	DurationMinutes  int       `json:"durationMinutes"`
	Email            string    `json:"email"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	BookingStatus    string    `json:"bookingStatus"`
	PaymentStatus    string    `json:"paymentStatus"`
	OccurredAt       time.Time `json:"occurredAt"`
}

func newBookingEvent(event string, b *domain.Booking, now time.Time) BookingEvent {
	return BookingEvent{
		Event:            event,
		BookingID:        b.ID,
		ConsultantID:     b.ConsultantID,
		ConsultationDate: b.ConsultationDate.Format(domain.DateFormat),
		TimeSlot:         b.TimeSlot,
		DurationMinutes:  b.DurationMinutes,
		Email:            b.Contact.Email,
		Amount:           b.Amount.StringFixed(2),
		Currency:         b.Currency,
		BookingStatus:    string(b.BookingStatus),
		PaymentStatus:    string(b.PaymentStatus),
		OccurredAt:       now,
	}
}
