package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex    = regexp.MustCompile(`^\+?[0-9 ()\-]{6,24}$`)
	timeSlotRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// CustomValidator обёртка над go-playground/validator с правилами сервиса
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках берутся из json-тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("timeslot", validateTimeSlot)
	_ = v.RegisterValidation("timezone", validateTimezone)

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Violation первое нарушение правила валидации
type Violation struct {
	Field  string // путь поля без имени корневой структуры, например contact.email
	Reason string
}

// FirstViolation извлекает первое нарушение из ошибки Validate
func FirstViolation(err error) (Violation, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return Violation{}, false
	}

	e := validationErrors[0]
	field := e.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	return Violation{Field: field, Reason: reason(e)}, true
}

// FormatValidationErrors все нарушения в виде поле -> сообщение
func FormatValidationErrors(err error) map[string]string {
	result := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			result[e.Field()] = reason(e)
		}
	}
	return result
}

func reason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "phone":
		return "must be a valid phone number"
	case "timeslot":
		return "must be in HH:MM format"
	case "timezone":
		return "must be a valid IANA timezone"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if !phoneRegex.MatchString(phone) {
		return false
	}

	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 6 && digits <= 15
}

func validateTimeSlot(fl validator.FieldLevel) bool {
	return timeSlotRegex.MatchString(fl.Field().String())
}

func validateTimezone(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
