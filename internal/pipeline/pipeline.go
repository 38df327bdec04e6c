package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/couchcryptid/facility-map-service/internal/observability"
	"github.com/couchcryptid/facility-map-service/internal/viewstore"
)

// BatchExtractor reads up to batchSize raw snapshots from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawSnapshot, error)
}

// Transformer converts a raw snapshot into a map view model.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawSnapshot) (domain.MapViewModel, error)
}

// BatchLoader writes multiple view models to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, views []domain.MapViewModel) error
}

// Pipeline orchestrates the extract-transform-load loop and mirrors every
// loaded view into the store serving HTTP reads.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	store       *viewstore.Store
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, store *viewstore.Store, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		store:       store,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has processed at least one
// snapshot, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any snapshots yet")
	}
	return nil
}

// Run executes the batch ETL loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.SnapshotsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad transforms each snapshot in the batch, loads the
// successes, installs them in the view store, and commits offsets. Returns
// the number of successfully loaded views and false if the pipeline should
// stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawSnapshot, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	views := make([]domain.MapViewModel, 0, len(rawBatch))
	successfulRaws := make([]domain.RawSnapshot, 0, len(rawBatch))

	for _, raw := range rawBatch {
		view, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping snapshot",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		views = append(views, view)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(views) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, views); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(views))
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	p.metrics.ViewsPublished.Add(float64(len(views)))

	for _, view := range views {
		if !p.store.Put(view) {
			p.metrics.StaleViewsRejected.Inc()
			p.logger.Warn("stale view rejected", "generation", view.Generation, "update_id", view.UpdateID)
		}
	}

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}

	return len(views), true
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should
// stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawSnapshot) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
