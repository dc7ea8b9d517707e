package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.ngs.io/surface3d/internal/adapter/store"
	"go.ngs.io/surface3d/internal/domain"
	"go.ngs.io/surface3d/internal/render"
)

// DefaultName is given to surfaces created without a name.
const DefaultName = "surface"

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// Surface is a surface model with its bookkeeping fields.
type Surface struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Version    uint64            `json:"version"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Properties domain.Properties `json:"properties"`
}

// Summary describes a surface without its grid data.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NLat      int       `json:"n_lat"`
	NLon      int       `json:"n_lon"`
	Palette   string    `json:"palette"`
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// entry is a live surface model.
type entry struct {
	surface   *domain.Surface
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// SurfaceUseCase owns the live surface models, keyed by ID, and keeps the
// store in step with them.
type SurfaceUseCase struct {
	store    store.SurfaceStore
	registry *render.Registry
	sources  Sources

	// mu guards live. Mutations also hold it for writing so that store
	// writes happen in version order.
	mu   sync.RWMutex
	live map[string]*entry

	cache *renderCache

	now   func() time.Time
	newID func() string
}

// NewSurfaceUseCase creates a new surface use case.
func NewSurfaceUseCase(st store.SurfaceStore, registry *render.Registry, sources Sources) *SurfaceUseCase {
	return &SurfaceUseCase{
		store:    st,
		registry: registry,
		sources:  sources,
		live:     make(map[string]*entry),
		cache:    newRenderCache(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Create stores a new surface built from p. The grid must satisfy the shape
// contract.
func (uc *SurfaceUseCase) Create(ctx context.Context, name string, p domain.Properties) (*Surface, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkDimension("width", p.Width); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := checkDimension("height", p.Height); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if name == "" {
		name = DefaultName
	}

	now := uc.now()
	e := &entry{
		surface:   domain.New(p),
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
	id := uc.newID()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.persist(ctx, id, e); err != nil {
		return nil, err
	}
	uc.live[id] = e

	slog.Info("surface created", "id", id, "name", name, "n_lat", p.NLat, "n_lon", p.NLon)
	return e.view(id), nil
}

// Get returns the surface with id.
func (uc *SurfaceUseCase) Get(ctx context.Context, id string) (*Surface, error) {
	e, err := uc.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.view(id), nil
}

// List returns summaries of every stored surface in creation order.
func (uc *SurfaceUseCase) List(ctx context.Context) ([]Summary, error) {
	recs, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list surfaces: %w", err)
	}

	out := make([]Summary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Summary{
			ID:        rec.ID,
			Name:      rec.Name,
			NLat:      rec.Properties.NLat,
			NLon:      rec.Properties.NLon,
			Palette:   rec.Properties.Palette,
			Version:   rec.Version,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	return out, nil
}

// ReplaceGrid swaps the grid of surface id as one update. A grid that
// violates the shape contract is rejected and the surface is unchanged.
func (uc *SurfaceUseCase) ReplaceGrid(ctx context.Context, id string, g domain.Grid) (*Surface, error) {
	return uc.mutate(ctx, id, func(e *entry) error {
		return e.surface.ReplaceGrid(g)
	})
}

// UpdateView applies patch to the non-grid fields of surface id.
func (uc *SurfaceUseCase) UpdateView(ctx context.Context, id string, patch ViewPatch) (*Surface, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return uc.mutate(ctx, id, func(e *entry) error {
		if patch.Name != nil {
			e.name = *patch.Name
		}
		e.surface.Update(patch.Apply)
		return nil
	})
}

// Delete removes surface id.
func (uc *SurfaceUseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete surface %s: %w", id, err)
	}
	delete(uc.live, id)
	uc.cache.purge(id)

	slog.Info("surface deleted", "id", id)
	return nil
}

// mutate runs fn on a copy of the live entry, persists the copy and only
// then publishes it. A failed fn or store write leaves the live surface
// untouched.
func (uc *SurfaceUseCase) mutate(ctx context.Context, id string, fn func(e *entry) error) (*Surface, error) {
	if _, err := uc.lookup(ctx, id); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	cur, ok := uc.live[id]
	if !ok {
		return nil, fmt.Errorf("surface %s: %w", id, store.ErrNotFound)
	}
	next := cur.clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.updatedAt = uc.now()
	if err := uc.persist(ctx, id, next); err != nil {
		return nil, err
	}
	uc.live[id] = next
	return next.view(id), nil
}

// lookup returns the live entry for id, restoring it from the store on
// first use.
func (uc *SurfaceUseCase) lookup(ctx context.Context, id string) (*entry, error) {
	uc.mu.RLock()
	e, ok := uc.live[id]
	uc.mu.RUnlock()
	if ok {
		return e, nil
	}

	rec, err := uc.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load surface %s: %w", id, err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if e, ok := uc.live[id]; ok {
		return e, nil
	}
	e = &entry{
		surface:   domain.Restore(rec.Properties, rec.Version),
		name:      rec.Name,
		createdAt: rec.CreatedAt,
		updatedAt: rec.UpdatedAt,
	}
	uc.live[id] = e
	return e, nil
}

// persist saves e. The caller holds uc.mu.
func (uc *SurfaceUseCase) persist(ctx context.Context, id string, e *entry) error {
	rec := store.Record{
		ID:         id,
		Name:       e.name,
		Properties: e.surface.Snapshot(),
		Version:    e.surface.Version(),
		CreatedAt:  e.createdAt,
		UpdatedAt:  e.updatedAt,
	}
	if err := uc.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save surface %s: %w", id, err)
	}
	return nil
}

// clone copies e with its own surface at the same version.
func (e *entry) clone() *entry {
	c := *e
	c.surface = domain.Restore(e.surface.Snapshot(), e.surface.Version())
	return &c
}

func (e *entry) view(id string) *Surface {
	return &Surface{
		ID:         id,
		Name:       e.name,
		Version:    e.surface.Version(),
		CreatedAt:  e.createdAt,
		UpdatedAt:  e.updatedAt,
		Properties: e.surface.Snapshot(),
	}
}
