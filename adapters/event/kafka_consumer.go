package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

const activityGroupID = "portfolio-activity-group"

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewActivityReader(brokers []string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     activityGroupID,
		GroupTopics: []string{service.TopicPortfolioEvents, service.TopicSessionEvents},
		MinBytes:    1,
		MaxBytes:    10e6,
	})
}

// ActivityConsumer writes one structured log line per domain event.
type ActivityConsumer struct {
	reader MessageReader
	logger logger.Logger
}

func NewActivityConsumer(reader MessageReader, log logger.Logger) *ActivityConsumer {
	return &ActivityConsumer{reader: reader, logger: log}
}

// Run consumes until ctx is cancelled. Malformed messages are logged and committed
// so they do not block the partition.
func (c *ActivityConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("Failed to read message from Kafka", zap.Error(err))
			continue
		}

		if err := c.Handle(msg); err != nil {
			c.logger.Warn("Skipping malformed event", zap.String("topic", msg.Topic), zap.Int64("offset", msg.Offset), zap.Error(err))
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("Failed to commit message", err, zap.String("topic", msg.Topic))
		}
	}
}

func (c *ActivityConsumer) Handle(msg kafka.Message) error {
	var evt service.Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if evt.Type == "" || evt.OwnerID == "" {
		return errors.New("event without type or owner")
	}

	fields := []zap.Field{
		zap.String("topic", msg.Topic),
		zap.String("type", evt.Type),
		zap.String("owner_id", evt.OwnerID),
		zap.Time("occurred_at", evt.OccurredAt),
	}
	keys := make([]string, 0, len(evt.Attributes))
	for k := range evt.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.String(k, evt.Attributes[k]))
	}
	c.logger.Info("Activity", fields...)
	return nil
}

func (c *ActivityConsumer) Close() error {
	return c.reader.Close()
}
