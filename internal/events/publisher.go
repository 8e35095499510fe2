package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// CheckoutPublisher announces completed checkouts.
type CheckoutPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, meta EventMeta, payload CheckoutCompletedPayload) error
}

type EventMeta struct {
	CorrelationID string
	PartitionKey  string
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	mu       sync.Mutex
	ch       channel
	producer string
	now      func() time.Time
}

type PublisherOptions struct {
	Producer string
}

func NewPublisher(conn *amqp.Connection, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return newPublisher(ch, opts)
}

func newPublisher(ch channel, opts PublisherOptions) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = groceryServiceName
	}

	return &Publisher{
		ch:       ch,
		producer: producer,
		now:      time.Now,
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishCheckoutCompleted(ctx context.Context, meta EventMeta, payload CheckoutCompletedPayload) error {
	env := newCheckoutCompletedEvent(meta, p.producer, payload, p.now().UTC())
	if err := env.Validate(EventTypeCheckoutCompleted, 1); err != nil {
		return fmt.Errorf("invalid CheckoutCompleted envelope: %w", err)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal CheckoutCompleted envelope: %w", err)
	}
	return p.publishJSON(ctx, CheckoutCompletedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func newCheckoutCompletedEvent(meta EventMeta, producer string, payload CheckoutCompletedPayload, occurredAt time.Time) CheckoutCompletedEvent {
	partitionKey := meta.PartitionKey
	if partitionKey == "" {
		partitionKey = payload.ReceiptID
	}
	return CheckoutCompletedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypeCheckoutCompleted,
			EventVersion:  1,
			EventID:       uuid.NewString(),
			CorrelationID: meta.CorrelationID,
			Producer:      producer,
			PartitionKey:  partitionKey,
			OccurredAt:    occurredAt,
			Schema:        checkoutCompletedSchema,
		},
		Payload: payload,
	}
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct {
	Logger zerolog.Logger
}

func (n NopPublisher) PublishCheckoutCompleted(_ context.Context, meta EventMeta, payload CheckoutCompletedPayload) error {
	n.Logger.Debug().
		Str("receipt_id", payload.ReceiptID).
		Str("correlation_id", meta.CorrelationID).
		Msg("events disabled, checkout not published")
	return nil
}
