package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/pkg/validator"
)

var requestValidator = validator.NewValidator()

// normalizeRequest убирает лишние пробелы во входных строках
func normalizeRequest(req *Request) {
	req.ConsultantID = strings.TrimSpace(req.ConsultantID)
	req.TimeSlot = strings.TrimSpace(req.TimeSlot)
	req.Contact.FirstName = strings.TrimSpace(req.Contact.FirstName)
	req.Contact.LastName = strings.TrimSpace(req.Contact.LastName)
	req.Contact.Email = strings.TrimSpace(req.Contact.Email)
	req.Contact.Phone = strings.TrimSpace(req.Contact.Phone)
	req.Contact.Company = trimOptional(req.Contact.Company)
	req.Contact.Website = trimOptional(req.Contact.Website)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, template domain.SlotTemplate, now time.Time) error {
	if err := requestValidator.Validate(req); err != nil {
		if v, ok := validator.FirstViolation(err); ok {
			return invalid(v.Field, v.Reason)
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !template.Contains(req.TimeSlot) {
		return invalid("timeSlot", fmt.Sprintf("must be one of: %s", strings.Join(template.Slots, ", ")))
	}

	if domain.IsPastDate(req.Date, now, template.Location) {
		return invalid("consultationDate", "must not be in the past")
	}

	if !req.TermsAccepted {
		return invalid("termsAccepted", "must be accepted")
	}

	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewFieldError(field, reason))
}
