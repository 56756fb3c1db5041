package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

const orderQueue = "order_events"

// Event types published to the order queue.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// Publisher pushes order lifecycle events to a durable RabbitMQ queue.
// A nil Publisher is valid and publishes nothing, so callers never need to
// check whether messaging is configured.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the order queue.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		orderQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", orderQueue, err)
	}

	logrus.Info("RabbitMQ publisher connected")
	return &Publisher{conn: conn, channel: ch}, nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ publisher: %v", errs)
	}
	return nil
}

// Publish sends one JSON event to the order queue. Publication is
// best-effort: failures are logged and the order mutation stands regardless.
func (p *Publisher) Publish(eventType string, payload map[string]interface{}) {
	if p == nil || p.channel == nil {
		return
	}

	payload["event"] = eventType
	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal order event")
		return
	}

	err = p.channel.Publish(
		"",         // default exchange
		orderQueue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		logrus.WithError(err).WithField("event", eventType).Warn("failed to publish order event")
	}
}
