package record_payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/consultation-booking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	req.BookingID = strings.TrimSpace(req.BookingID)
	req.PaymentReference = strings.TrimSpace(req.PaymentReference)

	if req.BookingID == "" {
		return invalid("bookingId", "is required")
	}

	if !req.Outcome.IsValid() {
		return invalid("outcome", fmt.Sprintf("must be one of: %s, %s, %s",
			domain.PaymentOutcomeSuccess, domain.PaymentOutcomeFailure, domain.PaymentOutcomeProcessing))
	}

	if req.PaymentReference == "" {
		return invalid("paymentReference", "is required")
	}
	if len(req.PaymentReference) > domain.MaxPaymentReferenceLength {
		return invalid("paymentReference", fmt.Sprintf("must be at most %d characters", domain.MaxPaymentReferenceLength))
	}

	// Идентификаторы броней - UUID; другой формат заведомо не найдется
	if _, err := uuid.Parse(req.BookingID); err != nil {
		return fmt.Errorf("%w: malformed id %q", ErrBookingNotFound, req.BookingID)
	}

	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewFieldError(field, reason))
}
