package memory

import (
	"context"
	"sync"

	"github.com/m04kA/consultation-booking/internal/domain"
)

type eventKey struct {
	bookingID string
	reference string
}

// PaymentEventRepository журнал обработанных результатов оплаты в памяти
type PaymentEventRepository struct {
	mu     sync.Mutex
	events map[eventKey]domain.PaymentEvent
}

func NewPaymentEventRepository() *PaymentEventRepository {
	return &PaymentEventRepository{events: make(map[eventKey]domain.PaymentEvent)}
}

func (r *PaymentEventRepository) IsProcessed(_ context.Context, bookingID, reference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.events[eventKey{bookingID, reference}]
	return ok, nil
}

func (r *PaymentEventRepository) MarkProcessed(_ context.Context, event domain.PaymentEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := eventKey{event.BookingID, event.Reference}
	if _, ok := r.events[key]; ok {
		return false, nil
	}
	r.events[key] = event
	return true, nil
}
