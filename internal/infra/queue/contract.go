package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel подмножество методов *amqp.Channel, используемых публикацией
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer открывает соединение с брокером и канал на нем.
// Возвращаемая функция закрывает соединение.
type Dialer func(url string) (Channel, func() error, error)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
