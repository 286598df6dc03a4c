package queue

import "errors"

var (
	// ErrDisabled возвращается, когда публикация выключена в конфиге
	ErrDisabled = errors.New("queue: publisher disabled")

	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("queue: failed to connect to broker")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("queue: failed to publish message")
)
