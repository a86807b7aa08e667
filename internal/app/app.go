package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/funtech-labs/orders-backend/internal/auth/token"
	"github.com/funtech-labs/orders-backend/internal/cache/ordercache"
	"github.com/funtech-labs/orders-backend/internal/dal/postgres"
	"github.com/funtech-labs/orders-backend/internal/dal/rabbitmq"
	redisclient "github.com/funtech-labs/orders-backend/internal/dal/redis"
	orderrepo "github.com/funtech-labs/orders-backend/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/funtech-labs/orders-backend/internal/dal/repositories/outbox/postgres"
	userrepo "github.com/funtech-labs/orders-backend/internal/dal/repositories/user/postgres"
	"github.com/funtech-labs/orders-backend/internal/events"
	"github.com/funtech-labs/orders-backend/internal/otel"
	"github.com/funtech-labs/orders-backend/internal/service/services/authsvc"
	"github.com/funtech-labs/orders-backend/internal/service/services/ordersvc"
	httptransport "github.com/funtech-labs/orders-backend/internal/transport/http"
	outboxworker "github.com/funtech-labs/orders-backend/internal/worker/outbox"
)

// App represents the API application.
type App struct {
	authSvc        *authsvc.AuthService
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	redisClient    *redisclient.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application. Client handles are constructed once
// here and injected; nothing is lazily initialized on first use.
func MustNewApp() *App {
	otelController := otel.MustInitOtel("orders-api")
	postgresClient := postgres.MustNewClient()
	redisClient := redisclient.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	userRepository := userrepo.NewUserRepository(postgresClient)
	orderRepository := orderrepo.NewOrderRepository(postgresClient)
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient)

	amqpPublisher := events.MustNewAMQPPublisher(rabbitMqClient)
	publisher := events.NewFallbackPublisher(amqpPublisher, outboxRepository, amqpPublisher.Queue())

	authSvc := authsvc.MustNewAuthService(
		authsvc.WithUserRepository(userRepository),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepository),
		ordersvc.WithCache(ordercache.NewCache(redisClient)),
		ordersvc.WithPublisher(publisher),
	)

	tokens := token.MustNewManagerFromConfig()

	transport := httptransport.NewHTTPTransport(authSvc, orderSvc, tokens, userRepository)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		authSvc:        authSvc,
		orderSvc:       orderSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		redisClient:    redisClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown shuts down components sequentially: outbox worker, HTTP
// server, RabbitMQ, Redis, PostgreSQL, and the tracer provider.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
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

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
