package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes booking events as persistent JSON messages on the
// default exchange, one durable queue per event kind.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	url     string
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url}

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	for _, queue := range []string{QueueBookingConfirmed, QueueBookingCancelled} {
		_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
		if err != nil {
			channel.Close()
			conn.Close()
			return fmt.Errorf("amqp declare %s: %w", queue, err)
		}
	}

	p.conn = conn
	p.channel = channel

	return nil
}

func (p *AMQPPublisher) BookingConfirmed(ctx context.Context, event BookingEvent) error {
	return p.publish(ctx, QueueBookingConfirmed, event)
}

func (p *AMQPPublisher) BookingCancelled(ctx context.Context, event BookingEvent) error {
	return p.publish(ctx, QueueBookingCancelled, event)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	return p.channel.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}
