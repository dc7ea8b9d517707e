// Package storetest holds behaviour tests shared by SurfaceStore
// implementations.
package storetest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/surface3d/internal/adapter/store"
	"go.ngs.io/surface3d/internal/domain"
)

func record(id string, created time.Time) store.Record {
	p := domain.DefaultProperties()
	p.NLat, p.NLon = 2, 2
	p.Lons = domain.FloatList{0, 1, 0, 1}
	p.Lats = domain.FloatList{0, 0, 1, 1}
	p.Values = domain.FloatList{1, math.NaN(), 3, 4}
	vmax := 10.0
	p.VMax = &vmax
	p.Palette = "viridis"
	return store.Record{
		ID:         id,
		Name:       "surface " + id,
		Properties: p,
		Version:    1,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

// Run exercises s against the SurfaceStore contract. s must be empty.
func Run(t *testing.T, s store.SurfaceStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing"), store.ErrNotFound)

	a := record("a", base.Add(time.Second))
	b := record("b", base)
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	if diff := cmp.Diff(a, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.Properties.VMin)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "ordered by creation time")
	assert.Equal(t, "a", list[1].ID)

	// Save replaces.
	a.Version = 2
	a.Properties.Values = domain.FloatList{9, 9, 9, 9}
	a.UpdatedAt = base.Add(time.Minute)
	require.NoError(t, s.Save(ctx, a))
	got, err = s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Version)
	assert.Equal(t, domain.FloatList{9, 9, 9, 9}, got.Properties.Values)
	assert.True(t, a.UpdatedAt.Equal(got.UpdatedAt))

	// Loaded records are independent of the store.
	got.Properties.Values[0] = -1
	again, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 9.0, again.Properties.Values[0])

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Error(t, s.Save(ctx, store.Record{}))
}
