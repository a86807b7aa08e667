package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/funtech-labs/orders-backend/internal/dal/interfaces/ioutboxrepo"
	"github.com/funtech-labs/orders-backend/internal/dal/rabbitmq"
	"github.com/funtech-labs/orders-backend/internal/service/models/event"
	"github.com/funtech-labs/orders-backend/internal/service/models/outbox"
	"github.com/spf13/viper"
)

const contentTypeJSON = "application/json"

// Publisher sends new-order events to the event channel.
type Publisher interface {
	PublishNewOrder(ctx context.Context, evt event.NewOrder) error
}

// AMQPPublisher publishes events to a declared RabbitMQ queue.
type AMQPPublisher struct {
	client *rabbitmq.Client
	queue  string
}

// MustNewAMQPPublisher declares the new-order queue and returns a publisher
// bound to it.
func MustNewAMQPPublisher(client *rabbitmq.Client) *AMQPPublisher {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		queueName = "new_order"
	}

	if _, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	}); err != nil {
		panic(fmt.Sprintf("Failed to declare queue %s: %v", queueName, err))
	}

	return &AMQPPublisher{
		client: client,
		queue:  queueName,
	}
}

// PublishNewOrder sends the event and awaits broker acceptance of the write,
// not downstream processing.
func (p *AMQPPublisher) PublishNewOrder(ctx context.Context, evt event.NewOrder) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal new order event: %w", err)
	}

	if err := p.client.Publish(p.queue, contentTypeJSON, payload); err != nil {
		return fmt.Errorf("failed to publish new order event: %w", err)
	}

	return nil
}

// Queue returns the queue name the publisher is bound to.
func (p *AMQPPublisher) Queue() string {
	return p.queue
}

// FallbackPublisher wraps a publisher and stores failed events in the outbox
// table instead of failing the caller. The outbox worker republishes them.
type FallbackPublisher struct {
	direct     Publisher
	outboxRepo ioutboxrepo.IOutboxRepository
	queue      string
}

// NewFallbackPublisher creates a publisher with an outbox fallback.
func NewFallbackPublisher(
	direct Publisher,
	outboxRepo ioutboxrepo.IOutboxRepository,
	queue string,
) *FallbackPublisher {
	return &FallbackPublisher{
		direct:     direct,
		outboxRepo: outboxRepo,
		queue:      queue,
	}
}

// PublishNewOrder tries the broker first and falls back to the outbox on
// failure. It only returns an error when both the broker and the outbox
// insert fail.
func (p *FallbackPublisher) PublishNewOrder(ctx context.Context, evt event.NewOrder) error {
	err := p.direct.PublishNewOrder(ctx, evt)
	if err == nil {
		return nil
	}

	slog.Warn("Failed to publish new order event, storing in outbox",
		"order_id", evt.OrderID,
		"error", err,
	)

	payload, marshalErr := json.Marshal(evt)
	if marshalErr != nil {
		return fmt.Errorf("failed to marshal new order event: %w", marshalErr)
	}

	now := time.Now()
	msg := outbox.Message{
		QueueName:   p.queue,
		Payload:     payload,
		ContentType: contentTypeJSON,
		LastError:   err.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}

	if insertErr := p.outboxRepo.Insert(ctx, msg); insertErr != nil {
		return fmt.Errorf("failed to store event in outbox: %w", insertErr)
	}

	return nil
}
