package record_payment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/internal/infra/storage/memory"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []string
}

func (n *recordingNotifier) BookingConfirmed(b *domain.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b.ID)
}

type recordingMetrics struct {
	mu          sync.Mutex
	results     map[string]int
	transitions map[string]int
}

func (m *recordingMetrics) IncPaymentResult(outcome string, applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[fmt.Sprintf("%s/%t", outcome, applied)]++
}

func (m *recordingMetrics) IncBookingTransition(to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[to]++
}

var now = time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)

const bookingID = "5b0f7c1e-3f4a-4c8e-9d2b-7a1e6f0c9b31"

type fixture struct {
	uc       *UseCase
	repo     *memory.BookingRepository
	events   *memory.PaymentEventRepository
	notifier *recordingNotifier
	metrics  *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     memory.NewBookingRepository(),
		events:   memory.NewPaymentEventRepository(),
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{results: map[string]int{}, transitions: map[string]int{}},
	}
	f.uc = NewUseCase(f.repo, f.events, memory.NewTxManager(), f.notifier, f.metrics, nopLogger{})
	f.uc.timeProvider = fixedTime{now: now}

	_, err := f.repo.Create(context.Background(), &domain.Booking{
		ID:               bookingID,
		ConsultantID:     "c-1",
		ConsultationDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:         "10:00",
		Amount:           decimal.RequireFromString("30"),
		Currency:         "EUR",
		BookingStatus:    domain.BookingStatusPendingPayment,
		PaymentStatus:    domain.PaymentStatusPending,
		CreatedAt:        now.Add(-time.Hour),
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) record(t *testing.T, outcome domain.PaymentOutcome, ref string) *Response {
	t.Helper()
	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: bookingID, Outcome: outcome, PaymentReference: ref})
	require.NoError(t, err)
	return resp
}

func TestExecute_SuccessConfirmsAndReplayIsNoop(t *testing.T) {
	f := newFixture(t)

	first := f.record(t, domain.PaymentOutcomeSuccess, "ref-1")
	assert.True(t, first.Applied)
	assert.False(t, first.Replayed)
	assert.Equal(t, domain.BookingStatusConfirmed, first.Booking.BookingStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, first.Booking.PaymentStatus)
	require.NotNil(t, first.Booking.PaidAt)
	assert.Equal(t, now, *first.Booking.PaidAt)
	assert.Equal(t, "ref-1", *first.Booking.PaymentReference)

	second := f.record(t, domain.PaymentOutcomeSuccess, "ref-1")
	assert.False(t, second.Applied)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Booking.BookingStatus, second.Booking.BookingStatus)
	assert.Equal(t, first.Booking.PaymentStatus, second.Booking.PaymentStatus)
	assert.Equal(t, *first.Booking.PaidAt, *second.Booking.PaidAt)

	assert.Equal(t, []string{bookingID}, f.notifier.confirmed)
	assert.Equal(t, 1, f.metrics.transitions[string(domain.BookingStatusConfirmed)])
	assert.Equal(t, 1, f.metrics.results["success/true"])
	assert.Equal(t, 1, f.metrics.results["success/false"])
}

func TestExecute_FailureKeepsSlotHeld(t *testing.T) {
	f := newFixture(t)

	resp := f.record(t, domain.PaymentOutcomeFailure, "ref-1")
	assert.True(t, resp.Applied)
	assert.Equal(t, domain.BookingStatusPendingPayment, resp.Booking.BookingStatus)
	assert.Equal(t, domain.PaymentStatusFailed, resp.Booking.PaymentStatus)
	assert.Nil(t, resp.Booking.PaidAt)

	taken, err := f.repo.GetTakenSlots(context.Background(), "c-1", resp.Booking.ConsultationDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, taken)

	// Повторная попытка оплаты с новым reference
	retry := f.record(t, domain.PaymentOutcomeSuccess, "ref-2")
	assert.True(t, retry.Applied)
	assert.Equal(t, domain.BookingStatusConfirmed, retry.Booking.BookingStatus)
	assert.Equal(t, "ref-2", *retry.Booking.PaymentReference)
	assert.Equal(t, []string{bookingID}, f.notifier.confirmed)
}

func TestExecute_ProcessingThenSuccess(t *testing.T) {
	f := newFixture(t)

	processing := f.record(t, domain.PaymentOutcomeProcessing, "ref-1")
	assert.Equal(t, domain.PaymentStatusProcessing, processing.Booking.PaymentStatus)
	assert.Equal(t, domain.BookingStatusPendingPayment, processing.Booking.BookingStatus)

	done := f.record(t, domain.PaymentOutcomeSuccess, "ref-1-final")
	assert.Equal(t, domain.BookingStatusConfirmed, done.Booking.BookingStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, done.Booking.PaymentStatus)
}

func TestExecute_ProcessingThenSuccessSameReference(t *testing.T) {
	f := newFixture(t)

	processing := f.record(t, domain.PaymentOutcomeProcessing, "pi_123")
	assert.True(t, processing.Applied)
	assert.Equal(t, domain.PaymentStatusProcessing, processing.Booking.PaymentStatus)

	again := f.record(t, domain.PaymentOutcomeProcessing, "pi_123")
	assert.False(t, again.Replayed)
	assert.Equal(t, domain.PaymentStatusProcessing, again.Booking.PaymentStatus)

	done := f.record(t, domain.PaymentOutcomeSuccess, "pi_123")
	assert.True(t, done.Applied)
	assert.False(t, done.Replayed)
	assert.Equal(t, domain.BookingStatusConfirmed, done.Booking.BookingStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, done.Booking.PaymentStatus)
	assert.Equal(t, "pi_123", *done.Booking.PaymentReference)

	replay := f.record(t, domain.PaymentOutcomeSuccess, "pi_123")
	assert.True(t, replay.Replayed)
	assert.False(t, replay.Applied)
	assert.Equal(t, []string{bookingID}, f.notifier.confirmed)
}

func TestExecute_ConfirmedIgnoresNewOutcome(t *testing.T) {
	f := newFixture(t)
	f.record(t, domain.PaymentOutcomeSuccess, "ref-1")

	late := f.record(t, domain.PaymentOutcomeFailure, "ref-2")
	assert.False(t, late.Applied)
	assert.False(t, late.Replayed)
	assert.Equal(t, domain.BookingStatusConfirmed, late.Booking.BookingStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, late.Booking.PaymentStatus)
	assert.Len(t, f.notifier.confirmed, 1)
}

func TestExecute_CancelledIsNoop(t *testing.T) {
	f := newFixture(t)
	b, err := f.repo.GetByID(context.Background(), bookingID)
	require.NoError(t, err)
	change, err := b.Cancel(now, "customer request")
	require.NoError(t, err)
	require.NoError(t, f.repo.UpdateState(context.Background(), bookingID, change))

	resp := f.record(t, domain.PaymentOutcomeSuccess, "ref-1")
	assert.False(t, resp.Applied)
	assert.Equal(t, domain.BookingStatusCancelled, resp.Booking.BookingStatus)
	assert.Equal(t, domain.PaymentStatusPending, resp.Booking.PaymentStatus)
	assert.Empty(t, f.notifier.confirmed)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: "9d3c2a4b-1e5f-4a6b-8c7d-0e1f2a3b4c5d", Outcome: domain.PaymentOutcomeSuccess, PaymentReference: "r"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// Не-UUID идентификатор - это отсутствующая бронь, а не ошибка хранилища
	_, err = f.uc.Execute(context.Background(), &Request{BookingID: "not-a-uuid", Outcome: domain.PaymentOutcomeSuccess, PaymentReference: "r"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NotErrorIs(t, err, ErrInternal)

	tests := []struct {
		name  string
		req   *Request
		field string
	}{
		{name: "missing booking", req: &Request{Outcome: domain.PaymentOutcomeSuccess, PaymentReference: "r"}, field: "bookingId"},
		{name: "unknown outcome", req: &Request{BookingID: bookingID, Outcome: "refund", PaymentReference: "r"}, field: "outcome"},
		{name: "missing reference", req: &Request{BookingID: bookingID, Outcome: domain.PaymentOutcomeSuccess, PaymentReference: " "}, field: "paymentReference"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
			field, ok := domain.FieldOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestExecute_ConcurrentDeliveries(t *testing.T) {
	f := newFixture(t)

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// половина запросов повторяет один и тот же reference
			ref := "ref-dup"
			if i%2 == 1 {
				ref = fmt.Sprintf("ref-%d", i)
			}
			resp, err := f.uc.Execute(context.Background(), &Request{
				BookingID: bookingID, Outcome: domain.PaymentOutcomeSuccess, PaymentReference: ref,
			})
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if resp.Applied {
				applied++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Len(t, f.notifier.confirmed, 1)

	b, err := f.repo.GetByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, b.BookingStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, b.PaymentStatus)
}
