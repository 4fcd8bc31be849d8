package create_booking

import "errors"

var (
	// ErrConsultantUnavailable консультант не найден или к нему нельзя записаться
	ErrConsultantUnavailable = errors.New("create_booking: consultant is not available for booking")

	// ErrSlotUnavailable слот уже занят активной бронью; можно выбрать другой слот
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Значения метки result для метрики созданных бронирований
const (
	resultCreated             = "created"
	resultInvalid             = "invalid"
	resultConsultantInactive  = "consultant_unavailable"
	resultSlotTakenAdvisory   = "slot_taken_advisory"
	resultSlotTakenConstraint = "slot_taken_constraint"
	resultError               = "error"
)
