package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/consultation-booking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/consultation-booking/internal/usecase/get_available_slots"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/available-slots
// Query params: date (обязательный, YYYY-MM-DD), timezone (опционально, IANA)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID := mux.Vars(r)["consultantId"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /consultants/{id}/available-slots - Missing date: consultant_id=%s", consultantID)
		handlers.RespondFieldError(w, "date", "is required")
		return
	}

	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /consultants/{id}/available-slots - Invalid date %q: %v", dateStr, err)
		handlers.RespondFieldError(w, "date", "must be a date in YYYY-MM-DD format")
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		ConsultantID: consultantID,
		Date:         date,
		Timezone:     r.URL.Query().Get("timezone"),
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /consultants/{id}/available-slots - Invalid input: consultant_id=%s, error=%v",
				consultantID, err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("GET /consultants/{id}/available-slots - Failed to get slots: consultant_id=%s, error=%v",
				consultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consultants/{id}/available-slots - Slots retrieved: consultant_id=%s, date=%s, slots_count=%d",
		consultantID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
