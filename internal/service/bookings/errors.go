package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrAccessDenied возвращается, когда у клиента нет прав на операцию
	ErrAccessDenied = errors.New("bookings: access denied")

	// ErrInvalidTransition бронирование в статусе, из которого операция недопустима
	ErrInvalidTransition = errors.New("bookings: invalid status transition")

	// ErrConcurrentUpdate состояние брони изменилось параллельно; запрос можно повторить
	ErrConcurrentUpdate = errors.New("bookings: booking was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
