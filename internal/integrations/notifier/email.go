package notifier

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// SendGridConfig параметры отправки через SendGrid
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender отправляет письма через SendGrid API
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       Logger
}

// NewSendGridSender возвращает ErrNotConfigured без API-ключа или адреса отправителя
func NewSendGridSender(cfg SendGridConfig, log Logger) (*SendGridSender, error) {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil, ErrNotConfigured
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: to=%s: %v", ErrSendFailed, msg.To, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("%w: to=%s: status %d: %s", ErrSendFailed, msg.To, response.StatusCode, response.Body)
	}

	s.log.Info("Email sent via sendgrid to=%s subject=%q status=%d", msg.To, msg.Subject, response.StatusCode)
	return nil
}

// StubEmailSender пишет письмо в лог вместо отправки
type StubEmailSender struct {
	log Logger
}

func NewStubEmailSender(log Logger) *StubEmailSender {
	return &StubEmailSender{log: log}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.log.Info("Stub email sender: would send to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

func bookingCreatedEmail(b *domain.Booking) EmailMessage {
	return EmailMessage{
		To:      b.Contact.Email,
		ToName:  fullName(b),
		Subject: "Your consultation is reserved",
		Body: fmt.Sprintf(
			"Hello %s,\n\nyour consultation on %s at %s (%d min) is reserved.\n"+
				"Please complete the payment of %s %s to confirm it.\n\nBooking ID: %s\n",
			b.Contact.FirstName, b.ConsultationDate.Format(domain.DateFormat), b.TimeSlot,
			b.DurationMinutes, b.Amount.StringFixed(2), b.Currency, b.ID),
	}
}

func bookingConfirmedEmail(b *domain.Booking) EmailMessage {
	return EmailMessage{
		To:      b.Contact.Email,
		ToName:  fullName(b),
		Subject: "Your consultation is confirmed",
		Body: fmt.Sprintf(
			"Hello %s,\n\nwe received your payment. Your consultation on %s at %s is confirmed.\n\nBooking ID: %s\n",
			b.Contact.FirstName, b.ConsultationDate.Format(domain.DateFormat), b.TimeSlot, b.ID),
	}
}

func fullName(b *domain.Booking) string {
	if b.Contact.LastName == "" {
		return b.Contact.FirstName
	}
	return b.Contact.FirstName + " " + b.Contact.LastName
}
