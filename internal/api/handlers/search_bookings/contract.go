package search_bookings

import (
	"context"

	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
)

type BookingService interface {
	Search(ctx context.Context, req *models.SearchBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
