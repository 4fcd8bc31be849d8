package search_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/consultation-booking/internal/api/handlers"
	"github.com/m04kA/consultation-booking/internal/service/bookings"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings
// Query params: consultantId, status, paymentStatus, email, dateFrom, dateTo,
// page, pageSize, sortBy, sortOrder (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToServiceRequest(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid parameters: %v", err)
		handlers.RespondValidationError(w, err)
		return
	}

	result, err := h.service.Search(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("GET /bookings - Failed to search bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: total=%d, page=%d, count=%d",
		result.Total, result.Page, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
