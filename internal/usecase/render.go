package usecase

import (
	"bytes"
	"context"
	"sync"
)

// Rendered is one renderer's output for a surface version.
type Rendered struct {
	ContentType string
	Body        []byte
	Version     uint64
}

type cacheKey struct {
	id     string
	format string
}

// renderCache keeps the latest rendering per surface and format. An entry
// is only served while its version matches the surface.
type renderCache struct {
	mu      sync.Mutex
	entries map[cacheKey]Rendered
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[cacheKey]Rendered)}
}

func (c *renderCache) get(key cacheKey, version uint64) (Rendered, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	if !ok || r.Version != version {
		return Rendered{}, false
	}
	return r, true
}

func (c *renderCache) put(key cacheKey, r Rendered) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[key]; ok && cur.Version > r.Version {
		return
	}
	c.entries[key] = r
}

func (c *renderCache) purge(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.id == id {
			delete(c.entries, key)
		}
	}
}

// Render produces surface id in the given format. The grid is validated
// first and a malformed grid is never rendered.
func (uc *SurfaceUseCase) Render(ctx context.Context, id, format string) (Rendered, error) {
	e, err := uc.lookup(ctx, id)
	if err != nil {
		return Rendered{}, err
	}
	r, err := uc.registry.Lookup(format)
	if err != nil {
		return Rendered{}, err
	}

	// Version is read before the snapshot, so a cached body is never older
	// than the version it is stored under.
	version := e.surface.Version()
	key := cacheKey{id: id, format: format}
	if out, ok := uc.cache.get(key, version); ok {
		return out, nil
	}
	p := e.surface.Snapshot()

	var buf bytes.Buffer
	if err := uc.registry.Render(&buf, format, p); err != nil {
		return Rendered{}, err
	}
	out := Rendered{ContentType: r.ContentType(), Body: buf.Bytes(), Version: version}
	uc.cache.put(key, out)
	return out, nil
}

// Formats returns the formats Render accepts.
func (uc *SurfaceUseCase) Formats() []string {
	return uc.registry.Formats()
}
