package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Dispatcher рассылает уведомления о бронированиях в фоне
// Вызывающий код не ждёт доставки; ошибки только логируются
type Dispatcher struct {
	email   EmailSender
	events  EventPublisher
	timeout time.Duration
	log     Logger
	wg      sync.WaitGroup
}

// NewDispatcher любой из получателей может быть nil
func NewDispatcher(email EmailSender, events EventPublisher, timeout time.Duration, log Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{email: email, events: events, timeout: timeout, log: log}
}

// BookingCreated бронь создана и ждёт оплаты
func (d *Dispatcher) BookingCreated(b *domain.Booking) {
	d.dispatch(EventBookingCreated, b, bookingCreatedEmail)
}

// BookingConfirmed оплата прошла, бронь подтверждена
func (d *Dispatcher) BookingConfirmed(b *domain.Booking) {
	d.dispatch(EventBookingConfirmed, b, bookingConfirmedEmail)
}

// Wait дожидается завершения запущенных рассылок (graceful shutdown, тесты)
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(event string, b *domain.Booking, render func(*domain.Booking) EmailMessage) {
	if b == nil {
		return
	}
	snapshot := b.Clone()

	if d.email != nil {
		d.run(func(ctx context.Context) {
			if err := d.email.Send(ctx, render(snapshot)); err != nil {
				d.log.Error("Notifier: %s email for booking_id=%s failed: %v", event, snapshot.ID, err)
			}
		})
	}

	if d.events != nil {
		payload := newBookingEvent(event, snapshot, time.Now().UTC())
		d.run(func(ctx context.Context) {
			if err := d.events.PublishJSON(ctx, event, payload); err != nil {
				d.log.Error("Notifier: %s event for booking_id=%s failed: %v", event, snapshot.ID, err)
			}
		})
	}
}

func (d *Dispatcher) run(fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		fn(ctx)
	}()
}
