// Package domain defines the surface grid data contract shared with renderers.
package domain

import (
	"math"
	"slices"
	"sync"
)

// Default property values. They match the defaults of the browser-side
// Surface3D widget so that an omitted field renders identically on both sides.
const (
	DefaultNLat              = 30
	DefaultNLon              = 60
	DefaultPalette           = "Turbo256"
	DefaultNaNColor          = "#808080"
	DefaultAzimuth           = 45.0
	DefaultElevation         = -30.0
	DefaultZoom              = 1.0
	DefaultRotationSpeed     = 1.0
	DefaultColorbarTitle     = "Value"
	DefaultBackgroundColor   = "#0a0a0a"
	DefaultColorbarTextColor = "#ffffff"
	DefaultWidth             = 800
	DefaultHeight            = 800

	// MaxDimension bounds width and height. Renderers allocate a raster of
	// width*height pixels.
	MaxDimension = 4096
)

// Properties is the flat property object handed to a renderer.
//
// Lons, Lats and Values are row-major flattenings of an NLat × NLon grid:
// index k = i*NLon + j holds row i, column j. The JSON names are shared with
// existing renderers and must not change.
type Properties struct {
	// Grid data.
	Lons   FloatList `json:"lons"`
	Lats   FloatList `json:"lats"`
	Values FloatList `json:"values"` // NaN marks a missing sample.
	NLat   int       `json:"n_lat"`
	NLon   int       `json:"n_lon"`

	// Color mapping.
	Palette  string   `json:"palette"`  // Resolved by the renderer's palette registry.
	VMin     *float64 `json:"vmin"`     // Nil means computed from the finite values.
	VMax     *float64 `json:"vmax"`     // Nil means computed from the finite values.
	NaNColor string   `json:"nan_color"` // Fill for missing samples.

	// View.
	Azimuth       float64 `json:"azimuth"`   // Degrees, logically [0, 360).
	Elevation     float64 `json:"elevation"` // Degrees, logically [-90, 90].
	Zoom          float64 `json:"zoom"`      // Logically [0.5, 8.0].
	Autorotate    bool    `json:"autorotate"`
	RotationSpeed float64 `json:"rotation_speed"`
	EnableHover   bool    `json:"enable_hover"`

	// Colorbar and appearance.
	ShowColorbar      bool   `json:"show_colorbar"`
	ColorbarTitle     string `json:"colorbar_title"`
	BackgroundColor   string `json:"background_color"`
	ColorbarTextColor string `json:"colorbar_text_color"`

	// Layout hints, passed through untouched.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultProperties returns a property set with every documented default and
// an empty grid. Decoding JSON into the returned value leaves omitted fields
// at their defaults.
func DefaultProperties() Properties {
	return Properties{
		Lons:              FloatList{},
		Lats:              FloatList{},
		Values:            FloatList{},
		NLat:              DefaultNLat,
		NLon:              DefaultNLon,
		Palette:           DefaultPalette,
		NaNColor:          DefaultNaNColor,
		Azimuth:           DefaultAzimuth,
		Elevation:         DefaultElevation,
		Zoom:              DefaultZoom,
		Autorotate:        false,
		RotationSpeed:     DefaultRotationSpeed,
		EnableHover:       true,
		ShowColorbar:      true,
		ColorbarTitle:     DefaultColorbarTitle,
		BackgroundColor:   DefaultBackgroundColor,
		ColorbarTextColor: DefaultColorbarTextColor,
		Width:             DefaultWidth,
		Height:            DefaultHeight,
	}
}

// Validate checks the grid shape contract: n_lat and n_lon are positive and
// lons, lats and values all hold exactly n_lat*n_lon samples.
// It never truncates or pads.
func (p Properties) Validate() error {
	if p.NLat < 1 {
		return &ShapeMismatchError{Field: "n_lat", NLat: p.NLat, NLon: p.NLon, Expected: 1, Actual: p.NLat}
	}
	if p.NLon < 1 {
		return &ShapeMismatchError{Field: "n_lon", NLat: p.NLat, NLon: p.NLon, Expected: 1, Actual: p.NLon}
	}

	// n_lat*n_lon must not wrap around.
	if p.NLat > math.MaxInt/p.NLon {
		return &ShapeMismatchError{Field: "n_lat", NLat: p.NLat, NLon: p.NLon, Expected: math.MaxInt / p.NLon, Actual: p.NLat}
	}

	expected := p.NLat * p.NLon
	fields := []struct {
		name string
		n    int
	}{
		{"lons", len(p.Lons)},
		{"lats", len(p.Lats)},
		{"values", len(p.Values)},
	}
	for _, f := range fields {
		if f.n != expected {
			return &ShapeMismatchError{Field: f.name, NLat: p.NLat, NLon: p.NLon, Expected: expected, Actual: f.n}
		}
	}

	return nil
}

// Clone returns a deep copy of p.
func (p Properties) Clone() Properties {
	c := p
	c.Lons = slices.Clone(p.Lons)
	c.Lats = slices.Clone(p.Lats)
	c.Values = slices.Clone(p.Values)
	if p.VMin != nil {
		v := *p.VMin
		c.VMin = &v
	}
	if p.VMax != nil {
		v := *p.VMax
		c.VMax = &v
	}
	return c
}

// Grid is a complete replacement for the data fields of a surface.
// A zero NLat or NLon keeps the current dimension.
type Grid struct {
	Lons   []float64
	Lats   []float64
	Values []float64
	NLat   int
	NLon   int
}

// Surface is a single-owner holder of Properties. Readers always observe a
// consistent snapshot: the grid fields and their dimensions change together.
type Surface struct {
	mu      sync.RWMutex
	props   Properties
	version uint64
}

// New creates a surface from p. The input is copied; construction does not
// validate the grid shape.
func New(p Properties) *Surface {
	return &Surface{
		props:   p.Clone(),
		version: 1,
	}
}

// Restore recreates a persisted surface at a known version.
func Restore(p Properties, version uint64) *Surface {
	s := New(p)
	if version > 0 {
		s.version = version
	}
	return s
}

// Snapshot returns the current properties. The slices are shared with the
// surface and must be treated as read-only; they are never written in place.
func (s *Surface) Snapshot() Properties {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props
}

// Version increases by one on every successful mutation.
func (s *Surface) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Validate validates the current snapshot.
func (s *Surface) Validate() error {
	return s.Snapshot().Validate()
}

// ReplaceGrid swaps lons, lats, values and optionally the grid dimensions as
// one update. A replacement that violates the shape contract is rejected and
// the previous grid stays in place.
func (s *Surface) ReplaceGrid(g Grid) error {
	next := Grid{
		Lons:   slices.Clone(g.Lons),
		Lats:   slices.Clone(g.Lats),
		Values: slices.Clone(g.Values),
		NLat:   g.NLat,
		NLon:   g.NLon,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.props
	p.Lons = FloatList(next.Lons)
	p.Lats = FloatList(next.Lats)
	p.Values = FloatList(next.Values)
	if next.NLat != 0 {
		p.NLat = next.NLat
	}
	if next.NLon != 0 {
		p.NLon = next.NLon
	}
	if err := p.Validate(); err != nil {
		return err
	}

	s.props = p
	s.version++
	return nil
}

// Update applies fn to a copy of the non-grid fields and publishes the result.
// Changes fn makes to the grid fields are discarded; use ReplaceGrid for those.
func (s *Surface) Update(fn func(p *Properties)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.props
	fn(&p)
	p.Lons, p.Lats, p.Values = s.props.Lons, s.props.Lats, s.props.Values
	p.NLat, p.NLon = s.props.NLat, s.props.NLon

	s.props = p
	s.version++
}
