package bookings

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Search(ctx context.Context, filter domain.BookingsFilter, page domain.Pagination, sort domain.Sort) (*domain.BookingsPage, error)
	UpdateBilling(ctx context.Context, id string, billing *domain.Billing, updatedAt time.Time) error
	UpdateState(ctx context.Context, id string, change domain.StateChange) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик переходов жизненного цикла
type Metrics interface {
	IncBookingTransition(to string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
