package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/pkg/validator"
)

var requestValidator = validator.NewValidator()

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	req.ConsultantID = strings.TrimSpace(req.ConsultantID)
	req.Timezone = strings.TrimSpace(req.Timezone)

	if err := requestValidator.Validate(req); err != nil {
		if v, ok := validator.FirstViolation(err); ok {
			return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewFieldError(v.Field, v.Reason))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

func businessLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// resolveLocation возвращает таймзону запроса или бизнес-таймзону по умолчанию
func resolveLocation(name string, fallback *time.Location) (*time.Location, error) {
	if name == "" {
		return fallback, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewFieldError("timezone", "must be a valid IANA timezone"))
	}
	return loc, nil
}
