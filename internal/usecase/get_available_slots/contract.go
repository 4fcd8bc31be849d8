package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetTakenSlots(ctx context.Context, consultantID string, date time.Time) ([]string, error)
}

// ConsultantDirectory интерфейс справочника консультантов
type ConsultantDirectory interface {
	GetConsultant(ctx context.Context, id string) (*domain.Consultant, error)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
