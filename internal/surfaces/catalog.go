// Package surfaces generates ready-made surface models: analytic z = f(x, y)
// functions over a square extent and parametric shapes.
package surfaces

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"go.ngs.io/surface3d/internal/domain"
)

var (
	// ErrUnknownPreset is returned for a preset name not in the catalog.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidSize is returned for grid dimensions outside [MinSize, MaxSize].
	ErrInvalidSize = errors.New("invalid grid size")
)

// Grid dimension limits for generated surfaces.
const (
	MinSize = 2
	MaxSize = 1000
)

// Kind distinguishes preset families.
type Kind string

const (
	KindFunction   Kind = "function"
	KindParametric Kind = "parametric"
)

// Preset describes one generator.
type Preset struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Kind  Kind   `json:"kind"`
	NLat  int    `json:"n_lat"`
	NLon  int    `json:"n_lon"`

	// style sets the non-grid properties the preset is shown with.
	style func(p *domain.Properties)
	// mesh fills row-major lons, lats and values for an nLat x nLon grid.
	mesh func(nLat, nLon int) (lons, lats, values []float64)
}

var catalog = map[string]Preset{}

func register(p Preset) {
	if _, dup := catalog[p.Name]; dup {
		panic("surfaces: duplicate preset " + p.Name)
	}
	catalog[p.Name] = p
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all presets sorted by name.
func List() []Preset {
	out := make([]Preset, 0, len(catalog))
	for _, name := range Names() {
		out = append(out, catalog[name])
	}
	return out
}

// Lookup returns the preset called name.
func Lookup(name string) (Preset, bool) {
	p, ok := catalog[name]
	return p, ok
}

// Generate builds the properties of preset name on an nLat x nLon grid.
// Zero dimensions select the preset's defaults.
func Generate(name string, nLat, nLon int) (domain.Properties, error) {
	preset, ok := catalog[name]
	if !ok {
		return domain.Properties{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	if nLat == 0 {
		nLat = preset.NLat
	}
	if nLon == 0 {
		nLon = preset.NLon
	}
	for _, n := range []int{nLat, nLon} {
		if n < MinSize || n > MaxSize {
			return domain.Properties{}, fmt.Errorf("%w: %dx%d, each dimension must be in [%d, %d]",
				ErrInvalidSize, nLat, nLon, MinSize, MaxSize)
		}
	}

	p := domain.DefaultProperties()
	if preset.style != nil {
		preset.style(&p)
	}
	lons, lats, values := preset.mesh(nLat, nLon)
	p.Lons, p.Lats, p.Values = lons, lats, values
	p.NLat, p.NLon = nLat, nLon
	return p, nil
}

// linspace returns n evenly spaced values over [lo, hi]. n must be >= 2.
func linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}
