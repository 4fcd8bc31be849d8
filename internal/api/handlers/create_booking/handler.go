package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/consultation-booking/internal/api/handlers"
	createBooking "github.com/m04kA/consultation-booking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "invalid request body"
	msgSlotUnavailable       = "the selected time slot is no longer available"
	msgConsultantUnavailable = "the consultant is not available for booking"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid request: %v", err)
		handlers.RespondValidationError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: consultant_id=%s, error=%v", req.ConsultantID, err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: consultant_id=%s, date=%s, slot=%s",
				req.ConsultantID, req.ConsultationDate, req.TimeSlot)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrConsultantUnavailable):
			h.logger.Warn("POST /bookings - Consultant unavailable: consultant_id=%s", req.ConsultantID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgConsultantUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: consultant_id=%s, error=%v",
				req.ConsultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, consultant_id=%s",
		result.BookingID, req.ConsultantID)
	w.Header().Set("Location", "/api/v1/bookings/"+result.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
