// Package render turns surface properties into viewable output: an
// interactive HTML page, PNG previews and a colorbar, or the raw property
// object for an external client-side renderer.
package render

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"go.ngs.io/surface3d/internal/domain"
)

var (
	// ErrUnknownFormat is returned for a format no renderer is registered for.
	ErrUnknownFormat = errors.New("unknown render format")
	// ErrNothingToRender is returned when the properties ask for the output
	// to be hidden, e.g. a colorbar with show_colorbar=false.
	ErrNothingToRender = errors.New("nothing to render")
)

// Formats served by the default registry.
const (
	FormatHTML     = "html"
	FormatPNG      = "png"
	FormatColorbar = "colorbar"
	FormatJSON     = "json"
	FormatCSV      = "csv"
)

// Renderer writes one output format.
type Renderer interface {
	Format() string
	ContentType() string
	Render(w io.Writer, p domain.Properties) error
}

// Registry looks renderers up by format.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates a registry holding rs. A later renderer replaces an
// earlier one with the same format.
func NewRegistry(rs ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer, len(rs))}
	for _, rr := range rs {
		r.renderers[rr.Format()] = rr
	}
	return r
}

// Options configures the default registry.
type Options struct {
	// AssetsHost overrides the go-echarts script host. Empty keeps the
	// library default CDN.
	AssetsHost string
}

// DefaultRegistry returns a registry with every built-in format.
func DefaultRegistry(opts Options) *Registry {
	return NewRegistry(
		&EChartsRenderer{AssetsHost: opts.AssetsHost},
		&HeatmapRenderer{},
		&ColorbarRenderer{},
		JSONRenderer{},
		CSVRenderer{},
	)
}

// Lookup returns the renderer for format.
func (r *Registry) Lookup(format string) (Renderer, error) {
	rr, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return rr, nil
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Render validates p and writes it in format. A malformed grid is never
// handed to a renderer.
func (r *Registry) Render(w io.Writer, format string, p domain.Properties) error {
	rr, err := r.Lookup(format)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return rr.Render(w, p)
}

// colorRange returns the range the palette is stretched over. A missing
// range maps to [0, 1], an inverted one is swapped and an empty one is
// widened to unit width around its value.
func colorRange(p domain.Properties) (lo, hi float64) {
	lo, hi, ok := p.Range()
	if !ok {
		return 0, 1
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}
