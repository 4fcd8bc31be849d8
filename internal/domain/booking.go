package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
	BookingStatusCompleted      BookingStatus = "COMPLETED"
	BookingStatusNoShow         BookingStatus = "NO_SHOW"
)

// PaymentStatus статус оплаты бронирования
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

// Contact контактные данные клиента, зафиксированные в момент бронирования
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   *string
	Website   *string
}

// Billing платежные реквизиты, добавляются после создания бронирования
type Billing struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Company      *string `json:"company,omitempty"`
	VATID        *string `json:"vatId,omitempty"`
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	PostalCode   string  `json:"postalCode"`
	City         string  `json:"city"`
	Country      string  `json:"country"` // ISO 3166-1 alpha-2
}

// Booking бронирование консультации
type Booking struct {
	ID               string
	ConsultantID     string
	ConsultationDate time.Time // дата без времени, UTC
	TimeSlot         string    // элемент шаблона слотов, например "10:00"
	DurationMinutes  int

	Contact Contact
	Billing *Billing

	// Копируются из конфигурации при создании и больше не пересчитываются
	Amount   decimal.Decimal
	Currency string

	BookingStatus    BookingStatus
	PaymentStatus    PaymentStatus
	PaymentReference *string

	TermsAccepted      bool
	CancellationReason *string
	Metadata           map[string]string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time
}

// SlotKey идентичность слота, по которой действует правило "не больше одной активной брони"
type SlotKey struct {
	ConsultantID     string
	ConsultationDate time.Time
	TimeSlot         string
}

// Key возвращает ключ слота бронирования
func (b *Booking) Key() SlotKey {
	return SlotKey{
		ConsultantID:     b.ConsultantID,
		ConsultationDate: b.ConsultationDate,
		TimeSlot:         b.TimeSlot,
	}
}

// String формат "consultant/2025-10-15/10:00", удобный для логов и ключей кэша
func (k SlotKey) String() string {
	return k.ConsultantID + "/" + k.ConsultationDate.Format(DateFormat) + "/" + k.TimeSlot
}

// IsActive true, если бронирование занимает свой слот
func (b *Booking) IsActive() bool {
	return b.BookingStatus.IsActive()
}

// Clone глубокая копия бронирования
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}

	c := *b
	c.Contact.Company = cloneString(b.Contact.Company)
	c.Contact.Website = cloneString(b.Contact.Website)
	c.PaymentReference = cloneString(b.PaymentReference)
	c.CancellationReason = cloneString(b.CancellationReason)
	c.PaidAt = cloneTime(b.PaidAt)
	c.CancelledAt = cloneTime(b.CancelledAt)
	c.CompletedAt = cloneTime(b.CompletedAt)

	c.Billing = b.Billing.Clone()

	if b.Metadata != nil {
		c.Metadata = make(map[string]string, len(b.Metadata))
		for k, v := range b.Metadata {
			c.Metadata[k] = v
		}
	}

	return &c
}

// Clone копия реквизитов; nil остаётся nil
func (b *Billing) Clone() *Billing {
	if b == nil {
		return nil
	}
	c := *b
	c.Company = cloneString(b.Company)
	c.VATID = cloneString(b.VATID)
	c.AddressLine2 = cloneString(b.AddressLine2)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
