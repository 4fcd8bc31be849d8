package record_payment

import (
	"strings"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
	recordPayment "github.com/m04kA/consultation-booking/internal/usecase/record_payment"
)

// RecordPaymentRequest HTTP request model (вебхук платежного провайдера)
type RecordPaymentRequest struct {
	Outcome          string `json:"outcome"` // SUCCESS | FAILURE | PROCESSING
	PaymentReference string `json:"paymentReference"`
}

// RecordPaymentResponse HTTP response model
type RecordPaymentResponse struct {
	Booking  *models.BookingResponse `json:"booking"`
	Applied  bool                    `json:"applied"`
	Replayed bool                    `json:"replayed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RecordPaymentRequest) ToUseCaseRequest(bookingID string) *recordPayment.Request {
	return &recordPayment.Request{
		BookingID:        bookingID,
		Outcome:          domain.PaymentOutcome(strings.ToLower(strings.TrimSpace(r.Outcome))),
		PaymentReference: r.PaymentReference,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recordPayment.Response) *RecordPaymentResponse {
	return &RecordPaymentResponse{
		Booking:  models.FromDomainBooking(resp.Booking),
		Applied:  resp.Applied,
		Replayed: resp.Replayed,
	}
}
