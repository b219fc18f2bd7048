package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/config"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces analysis events to a Kafka topic.
// It implements analysis.EventPublisher.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates an asynchronous Kafka producer for the configured topic.
// Delivery failures are reported through the logger only; the analysis
// response never waits on the broker.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(msgs []kafkago.Message, err error) {
			if err != nil {
				logger.Warn("analysis events not delivered", "count", len(msgs), "topic", cfg.KafkaTopic, "error", err)
			}
		},
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes evt and hands it to the writer.
func (p *Publisher) Publish(ctx context.Context, evt domain.AnalysisEvent) error {
	msg, err := serializeToMessage(evt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write analysis event: %w", err)
	}
	p.logger.DebugContext(ctx, "analysis event queued", "event_id", evt.ID)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an AnalysisEvent into a Kafka message keyed by
// event ID.
func serializeToMessage(evt domain.AnalysisEvent) (kafkago.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize analysis event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(evt.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
			{Key: "rocket_type", Value: []byte(evt.RocketType)},
			{Key: "occurred_at", Value: []byte(evt.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
