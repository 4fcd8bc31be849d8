package notifier

import "context"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// EmailSender отправка письма клиенту; реализации взаимозаменяемы
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EventPublisher публикация доменного события в брокер
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}
