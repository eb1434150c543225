package client

import (
	"testing"
	"time"

	"food-marketplace/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, parseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, parseBrokers(""))
}

func TestNewEventPublisher_NoBrokers(t *testing.T) {
	p := NewEventPublisher(config.Kafka{Topic: "orders"})
	assert.IsType(t, NoopEventPublisher{}, p)
	assert.NoError(t, p.Close())
}

func TestNewEventPublisher_Kafka(t *testing.T) {
	p := NewEventPublisher(config.Kafka{Brokers: "localhost:9092", Topic: "orders"})
	impl, ok := p.(*kafkaPublisherImpl)
	if assert.True(t, ok) {
		assert.Equal(t, "orders", impl.writer.Topic)
		// a zero BatchTimeout makes every single-event write wait a full second
		assert.Positive(t, impl.writer.BatchTimeout)
		assert.LessOrEqual(t, impl.writer.BatchTimeout, 10*time.Millisecond)
	}
}
