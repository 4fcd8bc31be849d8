package update_billing

import (
	"context"

	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
)

type BookingService interface {
	UpdateBilling(ctx context.Context, id string, req *models.UpdateBillingRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
