package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation базовая ошибка валидации входных данных
	ErrValidation = errors.New("domain: validation failed")

	// ErrInvalidTransition недопустимый переход жизненного цикла бронирования
	ErrInvalidTransition = errors.New("domain: invalid booking status transition")
)

// FieldError ошибка валидации конкретного поля
type FieldError struct {
	Field  string
	Reason string
}

func NewFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// FieldOf возвращает имя поля из цепочки ошибок, если там есть FieldError
func FieldOf(err error) (string, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field, true
	}
	return "", false
}
