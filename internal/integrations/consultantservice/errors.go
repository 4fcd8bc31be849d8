package consultantservice

import "errors"

var (
	// ErrConsultantNotFound консультант отсутствует в справочнике
	ErrConsultantNotFound = errors.New("consultantservice: consultant not found")

	// ErrInternal внутренняя ошибка клиента (запрос не выполнен)
	ErrInternal = errors.New("consultantservice client: internal error")

	// ErrInvalidResponse некорректный ответ справочника
	ErrInvalidResponse = errors.New("consultantservice client: invalid response")
)
