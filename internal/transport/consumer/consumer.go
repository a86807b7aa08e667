package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/funtech-labs/orders-backend/internal/dal/rabbitmq"
	"github.com/funtech-labs/orders-backend/internal/service/models/event"
	"github.com/funtech-labs/orders-backend/internal/worker/tasks"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// taskQueue is the queue the consumer hands processing jobs to.
type taskQueue interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}

// Consumer represents the RabbitMQ consumer transport for new-order events.
type Consumer struct {
	client *rabbitmq.Client
	queue  amqp.Queue
	tasks  taskQueue
	stop   chan struct{}
	done   chan struct{}
}

// NewConsumer declares the new-order queue and creates a Consumer.
func NewConsumer(client *rabbitmq.Client, taskQueue taskQueue) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		queueName = "new_order"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	return &Consumer{
		client: client,
		queue:  queue,
		tasks:  taskQueue,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run starts consuming messages from RabbitMQ.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "order-worker"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue.Name,
		Consumer: consumerTag,
	})
	if err != nil {
		return err
	}

	slog.Info("Consumer started", "queue", c.queue.Name, "consumer_tag", consumerTag)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(50)

	go func() {
		for {
			select {
			case <-c.stop:
				slog.Info("Stopping consumer")
				close(c.done)

				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Info("Message channel closed")
					close(c.done)

					return
				}

				g.Go(func() error {
					return c.processMessage(gctx, msg)
				})
			}
		}
	}()

	<-c.done
	if err := g.Wait(); err != nil {
		slog.Error("Error processing messages", "error", err)
	}

	return nil
}

// processMessage handles a single delivery: parse the new-order event and
// enqueue a processing job for it. A payload that fails to parse is logged
// and dropped without requeue.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	slog.Info("Received message", "delivery_tag", msg.DeliveryTag)

	var evt event.NewOrder
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		slog.Error("Failed to unmarshal new order event, dropping", "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return nil
	}

	if err := c.tasks.Enqueue(ctx, tasks.Task{OrderID: evt.OrderID}); err != nil {
		slog.Error("Failed to enqueue processing task", "order_id", evt.OrderID, "error", err)
		// Requeue so the event is retried
		if err := msg.Nack(false, true); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return err
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return err
	}

	slog.Info("Enqueued processing task", "order_id", evt.OrderID)

	return nil
}

// Shutdown gracefully shuts down the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	// Wait for processing to finish with timeout
	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
