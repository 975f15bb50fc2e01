package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"guesthouse/internal/notifications/handler"
	"guesthouse/pkg/config"
	"guesthouse/pkg/kafka"
	kafka_config "guesthouse/pkg/kafka/config"
	kafka_middleware "guesthouse/pkg/kafka/middleware"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.ValidateWorker(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	notifications := handler.NewNotificationHandler(handler.NewLogSender(cfg.Log), cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		cfg.NotificationsGroupID,
		cfg.BookingEventsDLQTopic,
		notifications.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting Notifications worker",
		"topic", cfg.BookingEventsTopic,
		"group_id", cfg.NotificationsGroupID,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifications worker stopped")
}
