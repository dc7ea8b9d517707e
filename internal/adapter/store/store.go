// Package store defines persistence for surface models.
package store

import (
	"context"
	"errors"
	"time"

	"go.ngs.io/surface3d/internal/domain"
)

// ErrNotFound is returned when no surface exists for an ID.
var ErrNotFound = errors.New("surface not found")

// Record is a persisted surface model.
type Record struct {
	ID         string
	Name       string
	Properties domain.Properties
	Version    uint64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SurfaceStore persists surface records.
type SurfaceStore interface {
	// Save inserts or replaces the record with rec.ID.
	Save(ctx context.Context, rec Record) error

	// Load returns the record for id, or ErrNotFound.
	Load(ctx context.Context, id string) (Record, error)

	// List returns all records ordered by creation time.
	List(ctx context.Context) ([]Record, error)

	// Delete removes the record for id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
