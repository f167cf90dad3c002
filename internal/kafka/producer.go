package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishOrderCreated writes an OrderCreatedEvent keyed by order id.
func (p *Producer) PublishOrderCreated(ctx context.Context, o domain.OrderWithTickets) error {
	const op = "kafka.Producer.PublishOrderCreated"

	data, err := json.Marshal(NewOrderCreatedEvent(o))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.Order.ID.String()),
		Value: data,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
