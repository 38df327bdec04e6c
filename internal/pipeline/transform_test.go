package pipeline_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/couchcryptid/facility-map-service/internal/observability"
	"github.com/couchcryptid/facility-map-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facilitySnapshot(t *testing.T) domain.RawSnapshot {
	t.Helper()
	snap := domain.TableSnapshot{
		TableID: "facilities",
		Columns: []domain.Column{
			{Name: "Company", Roles: []string{"Company"}},
			{Name: "Country", Roles: []string{"Country"}},
			{Name: "Launch", Roles: []string{"Launch"}},
			{Name: "Color", Roles: []string{"Color"}},
		},
		Rows: [][]any{
			{"Acme", "France", "2023", "#ff0000"},
			{"Globex", "Germany", "2024", "#00ff00"},
			{"Phantom", "Atlantis", "2024", "#00ff00"},
		},
	}
	payload, err := json.Marshal(snap)
	require.NoError(t, err)
	return domain.RawSnapshot{Value: payload}
}

func TestViewTransformer_Transform(t *testing.T) {
	frozen := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	defer domain.SetClock(nil)

	tfm := pipeline.NewTransformer(
		domain.HashSelectionIssuer{},
		domain.ViewOptions{Title: "Facility Map"},
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	view, err := tfm.Transform(context.Background(), facilitySnapshot(t))
	require.NoError(t, err)

	assert.Equal(t, "Facility Map", view.Title)
	assert.Equal(t, frozen, view.GeneratedAt)
	assert.Equal(t, uint64(1), view.Generation)
	assert.NotEmpty(t, view.UpdateID)

	require.Len(t, view.Data, 2)
	assert.Equal(t, "#ff0000", view.Data["FRA"].FillKey)
	assert.Equal(t, "#00ff00", view.Data["DEU"].FillKey)

	assert.Equal(t, 3, view.Stats.Records)
	assert.Equal(t, 1, view.Stats.DroppedGeo, "Atlantis fails the country join")
	assert.Equal(t, 0, view.Stats.DroppedColor)
}

func TestViewTransformer_GenerationsIncrease(t *testing.T) {
	tfm := pipeline.NewTransformer(
		domain.HashSelectionIssuer{},
		domain.ViewOptions{},
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	first, err := tfm.Transform(context.Background(), facilitySnapshot(t))
	require.NoError(t, err)
	second, err := tfm.Transform(context.Background(), facilitySnapshot(t))
	require.NoError(t, err)

	assert.Greater(t, second.Generation, first.Generation)
	assert.NotEqual(t, first.UpdateID, second.UpdateID)
}

func TestViewTransformer_InvalidPayload(t *testing.T) {
	tfm := pipeline.NewTransformer(
		domain.HashSelectionIssuer{},
		domain.ViewOptions{},
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	_, err := tfm.Transform(context.Background(), domain.RawSnapshot{Value: []byte("{broken")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse snapshot")
}
