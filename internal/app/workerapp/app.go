package workerapp

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/funtech-labs/orders-backend/internal/dal/rabbitmq"
	redisclient "github.com/funtech-labs/orders-backend/internal/dal/redis"
	"github.com/funtech-labs/orders-backend/internal/otel"
	"github.com/funtech-labs/orders-backend/internal/transport/consumer"
	"github.com/funtech-labs/orders-backend/internal/worker/tasks"
)

// App represents the worker application: the broker consumer plus the task
// runners executing the processing jobs.
type App struct {
	consumerTransp *consumer.Consumer
	taskRunner     *tasks.Runner
	rabbitMqClient *rabbitmq.Client
	redisClient    *redisclient.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new worker application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel("orders-worker")
	rabbitMqClient := rabbitmq.MustNewClient()
	redisClient := redisclient.MustNewClient()

	taskQueue := tasks.NewQueue(redisClient)
	taskRunner := tasks.NewRunner(taskQueue)

	consumerTransp := consumer.NewConsumer(rabbitMqClient, taskQueue)

	return &App{
		consumerTransp: consumerTransp,
		taskRunner:     taskRunner,
		rabbitMqClient: rabbitMqClient,
		redisClient:    redisClient,
		otelController: otelController,
	}
}

// Run starts the worker application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting consumer")
		if err := a.consumerTransp.Run(ctx); err != nil {
			slog.Error("Consumer error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting task runner")
		a.taskRunner.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown shuts down components sequentially: task runner,
// consumer, RabbitMQ, Redis, and the tracer provider.
func (a *App) gracefulShutdown() {
	a.taskRunner.Stop()
	slog.Info("Task runner stopped gracefully")

	if err := a.consumerTransp.Shutdown(); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	} else {
		slog.Info("Consumer stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.redisClient.Close(); err != nil {
		slog.Error("Redis connection close error", "error", err)
	} else {
		slog.Info("Redis connection closed gracefully")
	}

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
