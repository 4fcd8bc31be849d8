package record_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("record_payment: booking not found")

	// ErrConcurrentUpdate состояние брони изменилось параллельно; запрос можно повторить
	ErrConcurrentUpdate = errors.New("record_payment: booking was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("record_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("record_payment: internal error")

	// errAlreadyProcessed ключ идемпотентности записан параллельным запросом; транзакция откатывается
	errAlreadyProcessed = errors.New("record_payment: payment event already processed")
)
