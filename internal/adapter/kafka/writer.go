package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/facility-map-service/internal/config"
	"github.com/couchcryptid/facility-map-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces map view models to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple view models to the sink topic
// in a single WriteMessages call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, views []domain.MapViewModel) error {
	if len(views) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(views))
	for i := range views {
		msg, err := serializeToMessage(views[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a MapViewModel into a Kafka message. The key
// is the update ID so consumers can deduplicate replays.
func serializeToMessage(view domain.MapViewModel) (kafkago.Message, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize map view: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(view.UpdateID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "scope", Value: []byte(view.Scope)},
			{Key: "generated_at", Value: []byte(view.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
