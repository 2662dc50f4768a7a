package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/internal/config"
	"github.com/temcen/pirex/internal/validation"
	"github.com/temcen/pirex/pkg/models"
)

const (
	ActionsTopic     = "actions"
	ActionsDLQTopic  = "actions-dlq"
	ActionsConsumer  = "action-trackers"
	kafkaMaxRetries  = 3
	kafkaRetryBase   = time.Second
)

// ActionConsumer reads raw action payloads off Kafka, validates them with
// the same ActionValidator the HTTP ingestion handler uses, and persists
// accepted actions via Insert. Grounded on the teacher's
// internal/messaging/kafka.go MessageBus consume loop (read -> handler ->
// retry-with-backoff -> DLQ), trimmed to a single topic and reader.
type ActionConsumer struct {
	reader    *kafka.Reader
	dlqWriter *kafka.Writer
	store     *PostgresTrackingService
	validator *validation.ActionValidator
	logger    *logrus.Logger
}

func NewActionConsumer(cfg *config.Config, store *PostgresTrackingService, validator *validation.ActionValidator, logger *logrus.Logger) *ActionConsumer {
	topic := cfg.Kafka.Topics.Actions
	if topic == "" {
		topic = ActionsTopic
	}
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = ActionsConsumer
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	dlqWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        ActionsDLQTopic,
		RequiredAcks: kafka.RequireOne,
	}

	return &ActionConsumer{reader: reader, dlqWriter: dlqWriter, store: store, validator: validator, logger: logger}
}

// Run consumes until ctx is cancelled. Each message is validated and
// inserted with retry-with-backoff; messages whose insert still fails after
// kafkaMaxRetries retries are forwarded to the DLQ rather than dropped.
// Messages that fail validation are logged and skipped, not sent to the DLQ.
func (c *ActionConsumer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.WithError(err).Error("failed to read action message from Kafka")
			continue
		}

		action, result := c.validator.ValidateRaw(msg.Value)
		if !result.Valid {
			c.logger.WithFields(logrus.Fields{"errors": result.Errors}).Warn("rejected invalid action from Kafka")
			continue
		}

		if err := c.processWithRetry(ctx, msg, *action); err != nil {
			c.logger.WithError(err).WithField("user_id", action.UserID).Error("failed to persist action after retries")
			if dlqErr := c.sendToDLQ(ctx, msg, err); dlqErr != nil {
				c.logger.WithError(dlqErr).Error("failed to send action message to DLQ")
			}
		}
	}
}

func (c *ActionConsumer) processWithRetry(ctx context.Context, msg kafka.Message, action models.Action) error {
	var lastErr error
	for attempt := 0; attempt <= kafkaMaxRetries; attempt++ {
		if attempt > 0 {
			delay := kafkaRetryBase * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.store.Insert(ctx, action); err != nil {
			lastErr = err
			c.logger.WithError(err).WithFields(logrus.Fields{
				"user_id": action.UserID, "attempt": attempt,
			}).Warn("action insert failed")
			continue
		}
		return nil
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *ActionConsumer) sendToDLQ(ctx context.Context, msg kafka.Message, cause error) error {
	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: []kafka.Header{
			{Key: "original_topic", Value: []byte(msg.Topic)},
			{Key: "error", Value: []byte(cause.Error())},
		},
	}
	return c.dlqWriter.WriteMessages(ctx, dlqMsg)
}

func (c *ActionConsumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return err
	}
	return c.dlqWriter.Close()
}
