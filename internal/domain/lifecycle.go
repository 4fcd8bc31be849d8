package domain

import (
	"fmt"
	"time"
)

// bookingTransitions допустимые переходы booking_status
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPendingPayment: {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:      {BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow},
	BookingStatusCancelled:      {},
	BookingStatusCompleted:      {},
	BookingStatusNoShow:         {},
}

// pendingPaymentTransitions допустимые переходы payment_status, пока бронь ждёт оплаты
// Переход в COMPLETED возможен только вместе с подтверждением брони (см. Confirm)
var pendingPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusFailed},
	PaymentStatusProcessing: {PaymentStatusProcessing, PaymentStatusFailed},
	PaymentStatusFailed:     {PaymentStatusProcessing, PaymentStatusFailed},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPendingPayment || s == BookingStatusConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(bookingTransitions[s]) == 0
}

// CanTransitionTo проверяет допустимость перехода booking_status
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func canTransitionPayment(from, to PaymentStatus) bool {
	for _, allowed := range pendingPaymentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StateChange изменение состояния бронирования
// Expected* описывают состояние, из которого переход допустим: хранилище применяет
// изменение условной записью и отказывает, если строка уже изменилась
type StateChange struct {
	ExpectedBookingStatus BookingStatus
	ExpectedPaymentStatus PaymentStatus

	BookingStatus BookingStatus
	PaymentStatus PaymentStatus

	PaymentReference   *string
	CancellationReason *string
	PaidAt             *time.Time
	CancelledAt        *time.Time
	CompletedAt        *time.Time
	UpdatedAt          time.Time
}

func (b *Booking) newChange(now time.Time) StateChange {
	return StateChange{
		ExpectedBookingStatus: b.BookingStatus,
		ExpectedPaymentStatus: b.PaymentStatus,
		BookingStatus:         b.BookingStatus,
		PaymentStatus:         b.PaymentStatus,
		UpdatedAt:             now,
	}
}

func invalidTransition(b *Booking, to BookingStatus, payment PaymentStatus) error {
	return fmt.Errorf("%w: %s/%s -> %s/%s",
		ErrInvalidTransition, b.BookingStatus, b.PaymentStatus, to, payment)
}

// Confirm успешная оплата: PENDING_PAYMENT -> CONFIRMED вместе с payment_status -> COMPLETED
func (b *Booking) Confirm(now time.Time, paymentReference string) (StateChange, error) {
	if !b.BookingStatus.CanTransitionTo(BookingStatusConfirmed) {
		return StateChange{}, invalidTransition(b, BookingStatusConfirmed, PaymentStatusCompleted)
	}

	change := b.newChange(now)
	change.BookingStatus = BookingStatusConfirmed
	change.PaymentStatus = PaymentStatusCompleted
	change.PaymentReference = &paymentReference
	change.PaidAt = &now
	return change, nil
}

// FailPayment неуспешная оплата: бронь остаётся PENDING_PAYMENT и продолжает держать слот
func (b *Booking) FailPayment(now time.Time, paymentReference string) (StateChange, error) {
	return b.changePayment(now, paymentReference, PaymentStatusFailed)
}

// StartPaymentProcessing платеж принят провайдером в обработку
func (b *Booking) StartPaymentProcessing(now time.Time, paymentReference string) (StateChange, error) {
	return b.changePayment(now, paymentReference, PaymentStatusProcessing)
}

func (b *Booking) changePayment(now time.Time, paymentReference string, to PaymentStatus) (StateChange, error) {
	if b.BookingStatus != BookingStatusPendingPayment || !canTransitionPayment(b.PaymentStatus, to) {
		return StateChange{}, invalidTransition(b, b.BookingStatus, to)
	}

	change := b.newChange(now)
	change.PaymentStatus = to
	change.PaymentReference = &paymentReference
	return change, nil
}

// Cancel отмена активной брони; слот освобождается сразу
func (b *Booking) Cancel(now time.Time, reason string) (StateChange, error) {
	if !b.BookingStatus.CanTransitionTo(BookingStatusCancelled) {
		return StateChange{}, invalidTransition(b, BookingStatusCancelled, b.PaymentStatus)
	}

	change := b.newChange(now)
	change.BookingStatus = BookingStatusCancelled
	change.CancelledAt = &now
	if reason != "" {
		change.CancellationReason = &reason
	}
	return change, nil
}

// Complete консультация состоялась
func (b *Booking) Complete(now time.Time) (StateChange, error) {
	if !b.BookingStatus.CanTransitionTo(BookingStatusCompleted) {
		return StateChange{}, invalidTransition(b, BookingStatusCompleted, b.PaymentStatus)
	}

	change := b.newChange(now)
	change.BookingStatus = BookingStatusCompleted
	change.CompletedAt = &now
	return change, nil
}

// MarkNoShow клиент не пришёл на консультацию
func (b *Booking) MarkNoShow(now time.Time) (StateChange, error) {
	if !b.BookingStatus.CanTransitionTo(BookingStatusNoShow) {
		return StateChange{}, invalidTransition(b, BookingStatusNoShow, b.PaymentStatus)
	}

	change := b.newChange(now)
	change.BookingStatus = BookingStatusNoShow
	return change, nil
}

// Apply применяет изменение к бронированию в памяти
func (b *Booking) Apply(change StateChange) {
	b.BookingStatus = change.BookingStatus
	b.PaymentStatus = change.PaymentStatus
	b.UpdatedAt = change.UpdatedAt

	if change.PaymentReference != nil {
		b.PaymentReference = cloneString(change.PaymentReference)
	}
	if change.CancellationReason != nil {
		b.CancellationReason = cloneString(change.CancellationReason)
	}
	if change.PaidAt != nil {
		b.PaidAt = cloneTime(change.PaidAt)
	}
	if change.CancelledAt != nil {
		b.CancelledAt = cloneTime(change.CancelledAt)
	}
	if change.CompletedAt != nil {
		b.CompletedAt = cloneTime(change.CompletedAt)
	}
}

// PaymentOutcome результат попытки оплаты от внешнего платежного провайдера
type PaymentOutcome string

const (
	PaymentOutcomeSuccess    PaymentOutcome = "success"
	PaymentOutcomeFailure    PaymentOutcome = "failure"
	PaymentOutcomeProcessing PaymentOutcome = "processing"
)

func (o PaymentOutcome) IsValid() bool {
	switch o {
	case PaymentOutcomeSuccess, PaymentOutcomeFailure, PaymentOutcomeProcessing:
		return true
	}
	return false
}

// IsFinal промежуточный processing не фиксируется как обработанный: тот же reference еще придет с итогом
func (o PaymentOutcome) IsFinal() bool {
	return o == PaymentOutcomeSuccess || o == PaymentOutcomeFailure
}

// PaymentEvent обработанный результат оплаты; ключ идемпотентности (BookingID, Reference)
type PaymentEvent struct {
	BookingID  string
	Reference  string
	Outcome    PaymentOutcome
	Applied    bool // изменил ли результат состояние брони
	ReceivedAt time.Time
}
