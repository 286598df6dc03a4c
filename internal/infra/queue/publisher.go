package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// Publisher публикует события о бронированиях в RabbitMQ.
// Соединение открывается на каждую публикацию: события редкие.
type Publisher struct {
	url   string
	queue string
	dial  Dialer
	now   func() time.Time
	log   Logger
}

// Option настраивает publisher
type Option func(*Publisher)

// WithQueue задает имя очереди
func WithQueue(name string) Option {
	return func(p *Publisher) {
		if name != "" {
			p.queue = name
		}
	}
}

// WithDialer подменяет подключение к брокеру (используется в тестах)
func WithDialer(d Dialer) Option {
	return func(p *Publisher) {
		if d != nil {
			p.dial = d
		}
	}
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPublisher создает publisher. Пустой url выключает публикацию.
func NewPublisher(url string, log Logger, opts ...Option) *Publisher {
	p := &Publisher{
		url:   url,
		queue: ReservationCreatedQueue,
		dial:  dialAMQP,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishReservationCreated публикует событие о созданном бронировании
func (p *Publisher) PublishReservationCreated(ctx context.Context, reservation domain.Reservation) error {
	if p.url == "" {
		return ErrDisabled
	}

	event := NewReservationCreatedEvent(reservation, p.now())
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	ch, closeConn, err := p.dial(p.url)
	if err != nil {
		p.log.Error("Publisher: dial failed: %v", err)
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer func() { _ = closeConn() }()
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("%w: queue declare: %v", ErrPublish, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Type:         "reservation.created",
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("Publisher: published event=%s reservation=%s venue=%s",
		event.EventID, reservation.ID, reservation.VenueID)
	return nil
}

func dialAMQP(url string) (Channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn.Close, nil
}
