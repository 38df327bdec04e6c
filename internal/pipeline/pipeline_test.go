package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/couchcryptid/facility-map-service/internal/observability"
	"github.com/couchcryptid/facility-map-service/internal/pipeline"
	"github.com/couchcryptid/facility-map-service/internal/viewstore"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawSnapshot
	index   atomic.Int64
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// Block until cancelled to simulate waiting for messages.
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err        error
	generation atomic.Uint64
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawSnapshot) (domain.MapViewModel, error) {
	if m.err != nil {
		return domain.MapViewModel{}, m.err
	}
	return domain.MapViewModel{
		Title:      string(raw.Key),
		Scope:      domain.ScopeWorld,
		Generation: m.generation.Add(1),
	}, nil
}

type mockLoader struct {
	loaded   []domain.MapViewModel
	failures int
}

func (m *mockLoader) LoadBatch(_ context.Context, views []domain.MapViewModel) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("sink unavailable")
	}
	m.loaded = append(m.loaded, views...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawSnapshot(t *testing.T, key string) domain.RawSnapshot {
	t.Helper()
	snap := domain.TableSnapshot{
		TableID: key,
		Columns: []domain.Column{{Name: "Country", Roles: []string{"Country"}}},
		Rows:    [][]any{{"France"}},
	}
	payload, err := json.Marshal(snap)
	require.NoError(t, err)
	return domain.RawSnapshot{Key: []byte(key), Value: payload}
}

func runPipeline(t *testing.T, p *pipeline.Pipeline, timeout time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawSnapshot{{rawSnapshot(t, "tbl-1")}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	store := viewstore.New()

	p := pipeline.New(ext, tfm, ldr, store, discardLogger(), observability.NewMetricsForTesting(), 10)
	runPipeline(t, p, 500*time.Millisecond)

	require.Len(t, ldr.loaded, 1)

	expected := domain.MapViewModel{Title: "tbl-1", Scope: domain.ScopeWorld, Generation: 1}
	if diff := cmp.Diff(expected, ldr.loaded[0], cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("loaded view mismatch (-want +got):\n%s", diff)
	}

	view, ok := store.Latest()
	require.True(t, ok, "store mirrors the loaded view")
	assert.Equal(t, uint64(1), view.Generation)
}

func TestPipeline_Run_TransformErrorSkipsAndCommits(t *testing.T) {
	committed := atomic.Int64{}
	raw := rawSnapshot(t, "tbl-1")
	raw.Commit = func(context.Context) error {
		committed.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawSnapshot{{raw}}}
	tfm := &mockTransformer{err: errors.New("bad snapshot")}
	ldr := &mockLoader{}
	store := viewstore.New()

	p := pipeline.New(ext, tfm, ldr, store, discardLogger(), observability.NewMetricsForTesting(), 10)
	runPipeline(t, p, 500*time.Millisecond)

	assert.Empty(t, ldr.loaded, "failed transforms are not loaded")
	assert.Equal(t, int64(1), committed.Load(), "failed snapshots still commit")
	_, ok := store.Latest()
	assert.False(t, ok)
}

func TestPipeline_Run_LoadRetriesAfterBackoff(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawSnapshot{
		{rawSnapshot(t, "tbl-1")},
		{rawSnapshot(t, "tbl-1")},
	}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{failures: 1}
	store := viewstore.New()

	p := pipeline.New(ext, tfm, ldr, store, discardLogger(), observability.NewMetricsForTesting(), 10)
	runPipeline(t, p, 2*time.Second)

	require.Len(t, ldr.loaded, 1, "second batch loads after the failed first attempt")
}

func TestPipeline_CheckReadiness(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawSnapshot{{rawSnapshot(t, "tbl-1")}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	store := viewstore.New()

	p := pipeline.New(ext, tfm, ldr, store, discardLogger(), observability.NewMetricsForTesting(), 10)

	require.Error(t, p.CheckReadiness(context.Background()), "not ready before first batch")

	runPipeline(t, p, 500*time.Millisecond)

	assert.NoError(t, p.CheckReadiness(context.Background()))
}
