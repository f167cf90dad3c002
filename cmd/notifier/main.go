// Command notifier consumes order events and logs each booked order.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirinyoku/airport-go/internal/config"
	"github.com/kirinyoku/airport-go/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if !cfg.Kafka.Enabled() {
		logger.Error("KAFKA_BROKERS is not set")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("failed to close consumer", "error", err)
		}
	}()

	logger.Info("notifier started", "topic", cfg.Kafka.OrdersTopic, "group", cfg.Kafka.GroupID)

	err = consumer.ConsumeOrderCreated(ctx,
		func(ctx context.Context, ev kafka.OrderCreatedEvent) error {
			flights := make([]int64, 0, len(ev.Tickets))
			for _, t := range ev.Tickets {
				flights = append(flights, t.FlightID)
			}

			logger.Info("order created",
				"order_id", ev.OrderID,
				"user_id", ev.UserID,
				"tickets", len(ev.Tickets),
				"flights", flights,
				"created_at", ev.CreatedAt,
			)
			return nil
		},
		func(msg kafkago.Message, err error) {
			logger.Warn("skipping malformed event",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		},
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("notifier stopped")
}
