package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ErrMalformedEvent is reported to onMalformed for messages that cannot be
// decoded. Such messages are skipped.
var ErrMalformedEvent = errors.New("malformed event")

// ConsumeOrderCreated decodes order events and calls handler for each until
// ctx is cancelled or handler fails.
func (c *Consumer) ConsumeOrderCreated(
	ctx context.Context,
	handler func(ctx context.Context, ev OrderCreatedEvent) error,
	onMalformed func(msg kafka.Message, err error),
) error {
	const op = "kafka.Consumer.ConsumeOrderCreated"

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		ev, err := decodeOrderCreated(msg.Value)
		if err != nil {
			if onMalformed != nil {
				onMalformed(msg, err)
			}
			continue
		}

		if err := handler(ctx, ev); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
}

func decodeOrderCreated(b []byte) (OrderCreatedEvent, error) {
	var ev OrderCreatedEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		return OrderCreatedEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.Type != TypeOrderCreated {
		return OrderCreatedEvent{}, fmt.Errorf("%w: unexpected type %q", ErrMalformedEvent, ev.Type)
	}

	return ev, nil
}
