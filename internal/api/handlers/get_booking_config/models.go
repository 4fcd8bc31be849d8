package get_booking_config

import "github.com/m04kA/consultation-booking/internal/domain"

// BookingConfigResponse публичные параметры бронирования
type BookingConfigResponse struct {
	Slots           []string `json:"slots"`
	DurationMinutes int      `json:"durationMinutes"`
	Amount          string   `json:"amount"`
	Currency        string   `json:"currency"`
	Timezone        string   `json:"timezone"`
}

// FromSlotTemplate конвертирует шаблон слотов в HTTP response
func FromSlotTemplate(t domain.SlotTemplate) *BookingConfigResponse {
	tz := domain.DefaultTimezone
	if t.Location != nil {
		tz = t.Location.String()
	}
	return &BookingConfigResponse{
		Slots:           t.Defaults(),
		DurationMinutes: t.DurationMinutes,
		Amount:          t.Amount.StringFixed(2),
		Currency:        t.Currency,
		Timezone:        tz,
	}
}
