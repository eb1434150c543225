package client

import (
	"context"
	"encoding/json"
	"fmt"
	"food-marketplace/internal/config"
	"food-marketplace/internal/model"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventPublisher emits order lifecycle events after the state change has
// been committed. Failures are reported to the caller, never retried here.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

type kafkaPublisherImpl struct {
	writer *kafka.Writer
}

// NewEventPublisher returns a kafka backed publisher, or a no-op one when no
// brokers are configured.
func NewEventPublisher(cfg config.Kafka) EventPublisher {
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return NoopEventPublisher{}
	}

	return &kafkaPublisherImpl{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{}, // events of one order land on one partition
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
			// each request publishes a single event; do not wait for a batch
			BatchTimeout: 5 * time.Millisecond,
		},
	}
}

func (p *kafkaPublisherImpl) Publish(ctx context.Context, event model.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write order event %s: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisherImpl) Close() error {
	return p.writer.Close()
}

type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, model.OrderEvent) error { return nil }
func (NoopEventPublisher) Close() error                                    { return nil }

func parseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
