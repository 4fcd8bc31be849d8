package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking/internal/domain"
)

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Info(string, ...interface{}) {}
func (l *recordingLogger) Warn(string, ...interface{}) {}
func (l *recordingLogger) Error(format string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, format)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

type publishedEvent struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, payload: v})
	return nil
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:               "b-1",
		ConsultantID:     "c-1",
		ConsultationDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:         "10:00",
		DurationMinutes:  30,
		Contact:          domain.Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Amount:           decimal.RequireFromString("30"),
		Currency:         "EUR",
		BookingStatus:    domain.BookingStatusPendingPayment,
		PaymentStatus:    domain.PaymentStatusPending,
	}
}

func TestDispatcher_BookingCreated(t *testing.T) {
	sender := &recordingSender{}
	publisher := &recordingPublisher{}
	d := NewDispatcher(sender, publisher, time.Second, &recordingLogger{})

	d.BookingCreated(testBooking())
	d.Wait()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ada@example.com", sender.sent[0].To)
	assert.Equal(t, "Ada Lovelace", sender.sent[0].ToName)
	assert.Contains(t, sender.sent[0].Body, "30.00 EUR")
	assert.Contains(t, sender.sent[0].Body, "2025-10-15 at 10:00")

	require.Len(t, publisher.events, 1)
	assert.Equal(t, EventBookingCreated, publisher.events[0].key)
	event, ok := publisher.events[0].payload.(BookingEvent)
	require.True(t, ok)
	assert.Equal(t, "b-1", event.BookingID)
	assert.Equal(t, "30.00", event.Amount)
	assert.Equal(t, "PENDING_PAYMENT", event.BookingStatus)
}

func TestDispatcher_BookingConfirmed(t *testing.T) {
	sender := &recordingSender{}
	publisher := &recordingPublisher{}
	d := NewDispatcher(sender, publisher, time.Second, &recordingLogger{})

	b := testBooking()
	b.BookingStatus = domain.BookingStatusConfirmed
	b.PaymentStatus = domain.PaymentStatusCompleted
	d.BookingConfirmed(b)
	d.Wait()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Your consultation is confirmed", sender.sent[0].Subject)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, EventBookingConfirmed, publisher.events[0].key)
}

func TestDispatcher_SinkFailureIsLogged(t *testing.T) {
	log := &recordingLogger{}
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, nil, time.Second, log)

	d.BookingCreated(testBooking())
	d.Wait()

	assert.Len(t, log.errors, 1)
}

func TestDispatcher_NilSinksAndBooking(t *testing.T) {
	d := NewDispatcher(nil, nil, 0, &recordingLogger{})

	assert.NotPanics(t, func() {
		d.BookingCreated(testBooking())
		d.BookingConfirmed(nil)
		d.Wait()
	})
}

func TestDispatcher_UsesSnapshot(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, nil, time.Second, &recordingLogger{})

	b := testBooking()
	d.BookingCreated(b)
	b.Contact.Email = "changed@example.com"
	d.Wait()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ada@example.com", sender.sent[0].To)
}

func TestNewSendGridSender_RequiresConfig(t *testing.T) {
	_, err := NewSendGridSender(SendGridConfig{FromEmail: "noreply@example.com"}, &recordingLogger{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	sender, err := NewSendGridSender(SendGridConfig{APIKey: "key", FromEmail: "noreply@example.com"}, &recordingLogger{})
	require.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestStubEmailSender(t *testing.T) {
	s := NewStubEmailSender(&recordingLogger{})
	assert.NoError(t, s.Send(context.Background(), EmailMessage{To: "a@example.com"}))
}
