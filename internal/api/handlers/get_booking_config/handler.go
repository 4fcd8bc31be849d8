package get_booking_config

import (
	"net/http"

	"github.com/m04kA/consultation-booking/internal/api/handlers"
	"github.com/m04kA/consultation-booking/internal/domain"
)

type Handler struct {
	template domain.SlotTemplate
	logger   Logger
}

func NewHandler(template domain.SlotTemplate, logger Logger) *Handler {
	return &Handler{
		template: template,
		logger:   logger,
	}
}

// Handle GET /api/v1/booking-config
// Публичный endpoint: шаблон слотов, длительность и цена консультации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("GET /booking-config - Config retrieved: slots_count=%d", len(h.template.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromSlotTemplate(h.template))
}
