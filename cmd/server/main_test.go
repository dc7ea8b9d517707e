package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/surface3d/internal/adapter/store"
	"go.ngs.io/surface3d/internal/adapter/store/memory"
	"go.ngs.io/surface3d/internal/adapter/store/sqlite"
	"go.ngs.io/surface3d/internal/config"
)

func TestOpenStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surfaces.db")

	st, err := openStore(config.StoreConfig{Driver: config.StoreSQLite, Path: path})
	require.NoError(t, err)
	require.IsType(t, &sqlite.Store{}, st)

	version, dirty, err := st.(*sqlite.Store).MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	_, err = st.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, st.Close())

	// A second open of a migrated database succeeds.
	st, err = openStore(config.StoreConfig{Driver: config.StoreSQLite, Path: path})
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestOpenStore_Memory(t *testing.T) {
	st, err := openStore(config.StoreConfig{Driver: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, st)
}
