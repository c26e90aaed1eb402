package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"tourdesk/logging"
)

const (
	EventExchange     = "site"
	EventExchangeKind = "topic"
)

// Routing keys of published domain events.
const (
	EventTourCreated        = "tour.created"
	EventTourUpdated        = "tour.updated"
	EventTourDeleted        = "tour.deleted"
	EventTourPublishToggled = "tour.published_toggled"
	EventReviewSubmitted    = "review.submitted"
	EventReviewModerated    = "review.moderated"
	EventReviewDeleted      = "review.deleted"
	EventContactReceived    = "contact.received"
)

// EventPublisher forwards domain events to downstream consumers (analytics,
// CRM sync). Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close()
}

// AMQPPublisher publishes JSON messages to a durable topic exchange.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(EventExchange, EventExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, EventExchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }
func (noopPublisher) Close() {}

// NewEventPublisher connects to RabbitMQ when url is set and otherwise, or on
// connection failure, returns a publisher that drops events.
func NewEventPublisher(url string) EventPublisher {
	if url == "" {
		return noopPublisher{}
	}
	p, err := NewAMQPPublisher(url)
	if err != nil {
		logging.Error().Err(err).Msg("event publishing disabled")
		return noopPublisher{}
	}
	return p
}

// PublishAsync sends an event in the background; failures are logged only.
func PublishAsync(p EventPublisher, routingKey string, payload any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, routingKey, payload); err != nil {
			logging.Warn().Err(err).Str("event", routingKey).Msg("failed to publish event")
		}
	}()
}
