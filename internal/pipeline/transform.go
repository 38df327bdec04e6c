package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/couchcryptid/facility-map-service/internal/observability"
	"github.com/google/uuid"
)

// ViewTransformer implements Transformer: it decodes a table snapshot into
// facility records and builds the map view model for the configured mode.
// Each transformed view carries a fresh generation and update ID so stale
// cycles are detectable downstream.
type ViewTransformer struct {
	issuer     domain.SelectionIssuer
	opts       domain.ViewOptions
	logger     *slog.Logger
	metrics    *observability.Metrics
	generation atomic.Uint64
}

// NewTransformer creates a ViewTransformer.
func NewTransformer(issuer domain.SelectionIssuer, opts domain.ViewOptions, logger *slog.Logger, metrics *observability.Metrics) *ViewTransformer {
	return &ViewTransformer{
		issuer:  issuer,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ViewTransformer) Transform(_ context.Context, raw domain.RawSnapshot) (domain.MapViewModel, error) {
	snap, err := domain.ParseSnapshot(raw)
	if err != nil {
		return domain.MapViewModel{}, err
	}

	records := domain.DecodeSnapshot(snap, t.issuer)
	t.metrics.RowsDecoded.Add(float64(len(records)))

	view := domain.BuildMapView(records, t.opts)
	view.Generation = t.generation.Add(1)
	view.UpdateID = uuid.NewString()

	t.metrics.DistinctCohorts.Set(float64(len(view.Legend)))
	t.metrics.RecordsDropped.WithLabelValues("geo").Add(float64(view.Stats.DroppedGeo))
	t.metrics.RecordsDropped.WithLabelValues("color").Add(float64(view.Stats.DroppedColor))

	if view.Stats.DroppedGeo > 0 || view.Stats.DroppedColor > 0 {
		t.logger.Debug("records excluded from colored map",
			"table_id", snap.TableID,
			"dropped_geo", view.Stats.DroppedGeo,
			"dropped_color", view.Stats.DroppedColor,
		)
	}

	return view, nil
}
