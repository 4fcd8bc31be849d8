package get_available_slots

import (
	"github.com/m04kA/consultation-booking/internal/domain"
	getAvailableSlots "github.com/m04kA/consultation-booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ConsultantID string   `json:"consultantId"`
	Date         string   `json:"date"`
	Slots        []string `json:"slots"`
	DefaultSlots []string `json:"defaultSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []string{}
	}
	return &AvailableSlotsResponse{
		ConsultantID: resp.ConsultantID,
		Date:         resp.Date.Format(domain.DateFormat),
		Slots:        slots,
		DefaultSlots: resp.DefaultSlots,
	}
}
