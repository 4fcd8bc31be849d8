package record_payment

import "github.com/m04kA/consultation-booking/internal/domain"

// Request результат попытки оплаты от платежного провайдера
type Request struct {
	BookingID        string
	Outcome          domain.PaymentOutcome
	PaymentReference string
}

// Response текущее состояние брони после обработки
type Response struct {
	Booking  *domain.Booking
	Applied  bool // результат изменил состояние брони
	Replayed bool // такой результат уже обрабатывался ранее
}
