package kafka

import (
	"appointment-ivr/internal/observability"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Consumer reads events from a topic as part of a consumer group.
type Consumer struct {
	reader *kafka.Reader
	logger *observability.Logger
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
	// FromLatest starts a new group at the end of the topic instead of the
	// beginning.
	FromLatest bool
}

func NewConsumer(config ConsumerConfig, logger *observability.Logger) *Consumer {
	if config.MinBytes == 0 {
		config.MinBytes = 1
	}
	if config.MaxBytes == 0 {
		config.MaxBytes = 10e6
	}
	startOffset := kafka.FirstOffset
	if config.FromLatest {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.GroupID,
		MinBytes:    config.MinBytes,
		MaxBytes:    config.MaxBytes,
		StartOffset: startOffset,
		// Offsets are committed explicitly after the handler succeeds.
		CommitInterval: 0,
	})

	return &Consumer{
		reader: reader,
		logger: logger,
	}
}

func decodeMessage(msg kafka.Message) (EventMessage, error) {
	var event EventMessage
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return EventMessage{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" {
		for _, h := range msg.Headers {
			if h.Key == "event_type" {
				event.Type = string(h.Value)
			}
		}
	}
	return event, nil
}

// ConsumeEvents hands every event to handler until ctx is cancelled.
// Messages whose handler fails are left uncommitted and redelivered.
func (c *Consumer) ConsumeEvents(ctx context.Context, handler func(context.Context, EventMessage) error) error {
	c.logger.Info(ctx, "starting kafka consumer")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info(ctx, "stopping kafka consumer")
				return ctx.Err()
			}
			c.logger.Error(ctx, "failed to fetch message from kafka", err)
			continue
		}

		event, err := decodeMessage(msg)
		if err != nil {
			c.logger.Error(ctx, "skipping undecodable message", err)
			c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := observability.WithFields(extractTraceContext(ctx, msg),
			observability.Field{Key: "event_type", Value: event.Type},
			observability.Field{Key: "event_id", Value: event.ID},
			observability.Field{Key: "partition", Value: msg.Partition},
			observability.Field{Key: "offset", Value: msg.Offset},
		)

		if err := handler(msgCtx, event); err != nil {
			c.logger.Error(msgCtx, "failed to process event", err)
			continue
		}

		if err := c.reader.CommitMessages(msgCtx, msg); err != nil {
			c.logger.Error(msgCtx, "failed to commit message", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
