package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingBooking() *Booking {
	return &Booking{
		ID:            "b-1",
		BookingStatus: BookingStatusPendingPayment,
		PaymentStatus: PaymentStatusPending,
	}
}

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingStatusPendingPayment, BookingStatusConfirmed, true},
		{BookingStatusPendingPayment, BookingStatusCancelled, true},
		{BookingStatusPendingPayment, BookingStatusCompleted, false},
		{BookingStatusPendingPayment, BookingStatusNoShow, false},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusNoShow, true},
		{BookingStatusConfirmed, BookingStatusPendingPayment, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusNoShow, BookingStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_Classification(t *testing.T) {
	for _, s := range ActiveStatuses {
		assert.True(t, s.IsActive(), s)
		assert.False(t, s.IsTerminal(), s)
	}
	for _, s := range TerminalStatuses {
		assert.False(t, s.IsActive(), s)
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, BookingStatus("UNKNOWN").IsValid())
	assert.False(t, BookingStatus("UNKNOWN").IsTerminal())
}

func TestConfirm_PairsBookingAndPaymentStatus(t *testing.T) {
	b := newPendingBooking()
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

	change, err := b.Confirm(now, "ref-1")
	require.NoError(t, err)

	assert.Equal(t, BookingStatusPendingPayment, change.ExpectedBookingStatus)
	assert.Equal(t, PaymentStatusPending, change.ExpectedPaymentStatus)
	assert.Equal(t, BookingStatusConfirmed, change.BookingStatus)
	assert.Equal(t, PaymentStatusCompleted, change.PaymentStatus)
	require.NotNil(t, change.PaidAt)
	assert.Equal(t, now, *change.PaidAt)

	b.Apply(change)
	assert.Equal(t, BookingStatusConfirmed, b.BookingStatus)
	assert.Equal(t, PaymentStatusCompleted, b.PaymentStatus)
	assert.Equal(t, "ref-1", *b.PaymentReference)
}

func TestConfirm_AfterFailedPayment(t *testing.T) {
	b := newPendingBooking()
	now := time.Now()

	failed, err := b.FailPayment(now, "ref-1")
	require.NoError(t, err)
	b.Apply(failed)
	assert.Equal(t, BookingStatusPendingPayment, b.BookingStatus)
	assert.Equal(t, PaymentStatusFailed, b.PaymentStatus)

	confirmed, err := b.Confirm(now, "ref-2")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusFailed, confirmed.ExpectedPaymentStatus)
	assert.Equal(t, PaymentStatusCompleted, confirmed.PaymentStatus)
}

func TestTerminalStates_RejectTransitions(t *testing.T) {
	now := time.Now()

	for _, status := range TerminalStatuses {
		b := &Booking{BookingStatus: status, PaymentStatus: PaymentStatusCompleted}

		_, err := b.Confirm(now, "ref")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = b.Cancel(now, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = b.Complete(now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = b.MarkNoShow(now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = b.FailPayment(now, "ref")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestPaymentChanges_OnlyWhilePending(t *testing.T) {
	b := &Booking{BookingStatus: BookingStatusConfirmed, PaymentStatus: PaymentStatusCompleted}

	_, err := b.FailPayment(time.Now(), "ref")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = b.StartPaymentProcessing(time.Now(), "ref")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_SetsTimestampAndReason(t *testing.T) {
	b := newPendingBooking()
	now := time.Now()

	change, err := b.Cancel(now, "customer request")
	require.NoError(t, err)
	b.Apply(change)

	assert.Equal(t, BookingStatusCancelled, b.BookingStatus)
	assert.False(t, b.IsActive())
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, "customer request", *b.CancellationReason)
}

func TestComplete_RequiresConfirmed(t *testing.T) {
	b := newPendingBooking()

	_, err := b.Complete(time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	b.BookingStatus = BookingStatusConfirmed
	b.PaymentStatus = PaymentStatusCompleted
	change, err := b.Complete(time.Now())
	require.NoError(t, err)
	assert.Equal(t, BookingStatusCompleted, change.BookingStatus)
	assert.NotNil(t, change.CompletedAt)
}

func TestPaymentOutcome_IsValid(t *testing.T) {
	assert.True(t, PaymentOutcomeSuccess.IsValid())
	assert.True(t, PaymentOutcomeFailure.IsValid())
	assert.True(t, PaymentOutcomeProcessing.IsValid())
	assert.False(t, PaymentOutcome("refund").IsValid())
}

func TestPaymentOutcome_IsFinal(t *testing.T) {
	assert.True(t, PaymentOutcomeSuccess.IsFinal())
	assert.True(t, PaymentOutcomeFailure.IsFinal())
	assert.False(t, PaymentOutcomeProcessing.IsFinal())
}
