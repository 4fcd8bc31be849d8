package record_payment

import (
	"context"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateState(ctx context.Context, id string, change domain.StateChange) error
}

// PaymentEventRepository журнал обработанных результатов оплаты
type PaymentEventRepository interface {
	IsProcessed(ctx context.Context, bookingID, reference string) (bool, error)
	MarkProcessed(ctx context.Context, event domain.PaymentEvent) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier уведомления о подтвержденных бронированиях (асинхронно)
type Notifier interface {
	BookingConfirmed(booking *domain.Booking)
}

// Metrics счетчики результатов оплаты и переходов
type Metrics interface {
	IncPaymentResult(outcome string, applied bool)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
