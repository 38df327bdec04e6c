package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/facility-map-service/internal/config"
	"github.com/couchcryptid/facility-map-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes table snapshots from the source topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaSourceTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Reader{reader: r, flushInterval: cfg.BatchFlushInterval, logger: logger}
}

// ExtractBatch blocks for the first message, then drains up to batchSize
// messages within the flush interval. A short batch is returned rather than
// waiting for a full one.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawSnapshot, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	batch := []domain.RawSnapshot{r.mapMessage(first)}

	deadline, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(deadline)
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
				r.logger.Warn("fetch during batch drain failed", "error", err)
			}
			break
		}
		batch = append(batch, r.mapMessage(msg))
	}

	return batch, nil
}

// Close shuts down the consumer-group reader.
func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessage converts a Kafka message into the domain envelope, carrying a
// commit closure so the pipeline controls offset progress per snapshot.
func (r *Reader) mapMessage(msg kafkago.Message) domain.RawSnapshot {
	raw := mapMessageToRawSnapshot(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

func mapMessageToRawSnapshot(msg kafkago.Message) domain.RawSnapshot {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawSnapshot{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
