package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

// KafkaProducerClient publishes domain events. Writes are async: a broker
// failure is logged and never reaches the caller.
type KafkaProducerClient struct {
	writers map[string]*kafka.Writer
	logger  logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

// NewEventPublisher returns a Kafka publisher, or a no-op one when no brokers are configured.
func NewEventPublisher(cfg config.Config, log logger.Logger) (service.EventPublisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("Kafka brokers not configured; events are discarded.")
		return service.NoopPublisher{}, func() {}
	}
	c := NewKafkaProducerClient(cfg.Kafka.Brokers, log)
	return c, c.Close
}

func NewKafkaProducerClient(brokers []string, log logger.Logger) *KafkaProducerClient {
	c := &KafkaProducerClient{writers: make(map[string]*kafka.Writer), logger: log}
	for _, topic := range []string{service.TopicPortfolioEvents, service.TopicSessionEvents} {
		c.writers[topic] = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			Async:        true,
			BatchTimeout: 50 * time.Millisecond,
			Completion:   c.completion(topic),
		}
	}
	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))
	return c
}

func (c *KafkaProducerClient) completion(topic string) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err != nil {
			c.logger.Warn("Failed to publish events", zap.String("topic", topic), zap.Int("count", len(msgs)), zap.Error(err))
		}
	}
}

// Publish keys messages by owner so one owner's events stay ordered within a partition.
func (c *KafkaProducerClient) Publish(ctx context.Context, topic string, evt service.Event) {
	w, ok := c.writers[topic]
	if !ok {
		c.logger.Warn("Unknown event topic", zap.String("topic", topic))
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		c.logger.Error("Failed to marshal event", err, zap.String("type", evt.Type))
		return
	}
	msg := kafka.Message{
		Key:   []byte(evt.OwnerID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		c.logger.Warn("Failed to enqueue event", zap.String("topic", topic), zap.Error(err))
	}
}

func (c *KafkaProducerClient) Close() {
	for topic, w := range c.writers {
		if err := w.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.String("topic", topic), zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
