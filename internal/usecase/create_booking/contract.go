package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetTakenSlots(ctx context.Context, consultantID string, date time.Time) ([]string, error)
}

// ConsultantDirectory интерфейс справочника консультантов
type ConsultantDirectory interface {
	GetConsultant(ctx context.Context, id string) (*domain.Consultant, error)
}

// Notifier уведомления о созданных бронированиях (асинхронно)
type Notifier interface {
	BookingCreated(booking *domain.Booking)
}

// Metrics счетчики бронирований
type Metrics interface {
	IncBookingCreated(result string)
}

// IDGenerator генератор идентификаторов бронирований
type IDGenerator func() string

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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
