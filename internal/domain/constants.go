package domain

import "math"

// Значения шаблона слотов по умолчанию
var DefaultSlots = []string{"10:00", "14:00"}

const (
	DefaultDurationMinutes = 30
	DefaultAmount          = "30.00"
	DefaultCurrency        = "EUR"
	DefaultTimezone        = "UTC"
)

// Ограничения пагинации поиска
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = math.MaxInt32 / MaxPageSize // смещение (Page-1)*PageSize помещается в int32
)

// Ограничения длины полей
const (
	MaxNameLength               = 100
	MaxCompanyLength            = 200
	MaxCancellationReasonLength = 500
	MaxMetadataEntries          = 20
	MaxPaymentReferenceLength   = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, при которых бронирование занимает слот
var ActiveStatuses = []BookingStatus{
	BookingStatusPendingPayment,
	BookingStatusConfirmed,
}

// TerminalStatuses статусы, из которых переходы запрещены
var TerminalStatuses = []BookingStatus{
	BookingStatusCancelled,
	BookingStatusCompleted,
	BookingStatusNoShow,
}
