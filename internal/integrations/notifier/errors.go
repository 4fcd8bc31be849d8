package notifier

import "errors"

var (
	// ErrSendFailed письмо не отправлено
	ErrSendFailed = errors.New("notifier: email send failed")

	// ErrPublishFailed событие не опубликовано в брокер
	ErrPublishFailed = errors.New("notifier: event publish failed")

	// ErrNotConfigured отправитель создан без обязательных параметров
	ErrNotConfigured = errors.New("notifier: sender not configured")
)
