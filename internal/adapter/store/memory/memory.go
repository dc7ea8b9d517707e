// Package memory provides an in-process surface store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.ngs.io/surface3d/internal/adapter/store"
)

// Store keeps surface records in a map. Records are cloned on the way in
// and out so callers cannot mutate stored grids.
type Store struct {
	mu      sync.RWMutex
	records map[string]store.Record
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]store.Record)}
}

// Save implements store.SurfaceStore.
func (s *Store) Save(_ context.Context, rec store.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record has no ID")
	}
	rec.Properties = rec.Properties.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Load implements store.SurfaceStore.
func (s *Store) Load(_ context.Context, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return store.Record{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	rec.Properties = rec.Properties.Clone()
	return rec, nil
}

// List implements store.SurfaceStore.
func (s *Store) List(_ context.Context) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Record, 0, len(s.records))
	for _, rec := range s.records {
		rec.Properties = rec.Properties.Clone()
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete implements store.SurfaceStore.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	delete(s.records, id)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
