package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes region summaries to a Kafka topic, one message per region.
type Writer struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSummaryTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes every region of rep and writes them in a single
// WriteMessages call. Messages are keyed by region code.
func (w *Writer) Publish(ctx context.Context, rep domain.Report) error {
	if len(rep.Regions) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rep.Regions))
	for i := range rep.Regions {
		msg, err := serializeToMessage(rep.Regions[i], rep.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.SummariesPublished.WithLabelValues("error").Add(float64(len(msgs)))
		return fmt.Errorf("publish region summaries: %w", err)
	}
	w.metrics.SummariesPublished.WithLabelValues("success").Add(float64(len(msgs)))
	w.logger.Info("region summaries published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RegionSummary into a Kafka message.
func serializeToMessage(summary domain.RegionSummary, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize region summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.Code),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region_code", Value: []byte(summary.Code)},
			{Key: "generated_at", Value: []byte(generatedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
