package cancel_booking

import "github.com/m04kA/consultation-booking/internal/service/bookings/models"

// CancelBookingRequest HTTP request model
// Клиент подтверждает бронь своим email, оператору достаточно токена
type CancelBookingRequest struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(operator bool) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Email:    r.Email,
		Reason:   r.Reason,
		Operator: operator,
	}
}
