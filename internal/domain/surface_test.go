package domain

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeros(n int) FloatList {
	return make(FloatList, n)
}

func TestDefaultConstruction(t *testing.T) {
	p := DefaultProperties()
	p.Lons, p.Lats, p.Values = zeros(12), zeros(12), zeros(12)
	p.NLat, p.NLon = 3, 4

	s := New(p)
	got := s.Snapshot()

	assert.Equal(t, "Turbo256", got.Palette)
	assert.Equal(t, 45.0, got.Azimuth)
	assert.Equal(t, -30.0, got.Elevation)
	assert.Equal(t, 1.0, got.Zoom)
	assert.True(t, got.ShowColorbar)
	assert.True(t, got.EnableHover)
	assert.False(t, got.Autorotate)
	assert.Equal(t, "Value", got.ColorbarTitle)
	assert.Equal(t, "#0a0a0a", got.BackgroundColor)
	assert.Equal(t, "#ffffff", got.ColorbarTextColor)
	assert.Equal(t, "#808080", got.NaNColor)
	assert.Nil(t, got.VMin)
	assert.Nil(t, got.VMax)
	require.NoError(t, s.Validate())
}

func TestDefaultDimensions(t *testing.T) {
	p := DefaultProperties()
	assert.Equal(t, 30, p.NLat)
	assert.Equal(t, 60, p.NLon)
}

func TestValidate_ValidShapes(t *testing.T) {
	for nLat := 1; nLat <= 5; nLat++ {
		for nLon := 1; nLon <= 5; nLon++ {
			p := DefaultProperties()
			p.NLat, p.NLon = nLat, nLon
			n := nLat * nLon
			p.Lons, p.Lats, p.Values = zeros(n), zeros(n), zeros(n)
			assert.NoError(t, p.Validate(), "n_lat=%d n_lon=%d", nLat, nLon)
		}
	}
}

func TestValidate_ShapeMismatch(t *testing.T) {
	p := DefaultProperties()
	p.NLat, p.NLon = 3, 4
	p.Lons, p.Lats, p.Values = zeros(11), zeros(12), zeros(12)

	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	var mismatch *ShapeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "lons", mismatch.Field)
	assert.Equal(t, 12, mismatch.Expected)
	assert.Equal(t, 11, mismatch.Actual)
	assert.Contains(t, err.Error(), "expected 12")
}

func TestValidate_EachField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(p *Properties)
	}{
		{"short lats", "lats", func(p *Properties) { p.Lats = zeros(3) }},
		{"long values", "values", func(p *Properties) { p.Values = zeros(5) }},
		{"zero n_lat", "n_lat", func(p *Properties) { p.NLat = 0 }},
		{"negative n_lon", "n_lon", func(p *Properties) { p.NLon = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProperties()
			p.NLat, p.NLon = 2, 2
			p.Lons, p.Lats, p.Values = zeros(4), zeros(4), zeros(4)
			tt.edit(&p)

			var mismatch *ShapeMismatchError
			require.ErrorAs(t, p.Validate(), &mismatch)
			assert.Equal(t, tt.field, mismatch.Field)
		})
	}
}

func TestValidate_DimensionOverflow(t *testing.T) {
	tests := []struct {
		name       string
		nLat, nLon int
	}{
		{"product wraps to zero", 1 << 32, 1 << 32},
		{"product wraps past max", math.MaxInt/2 + 1, 2},
		{"single column at max", math.MaxInt, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProperties()
			p.NLat, p.NLon = tt.nLat, tt.nLon
			p.Lons, p.Lats, p.Values = nil, nil, nil

			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}

	p := DefaultProperties()
	p.NLat, p.NLon = 1<<32, 1<<32
	var mismatch *ShapeMismatchError
	require.ErrorAs(t, p.Validate(), &mismatch)
	assert.Equal(t, "n_lat", mismatch.Field)
	assert.Contains(t, mismatch.Error(), "at most")
}

func TestRowMajorMapping(t *testing.T) {
	p := DefaultProperties()
	p.NLat, p.NLon = 2, 2
	p.Lons = FloatList{0, 1, 0, 1}
	p.Lats = FloatList{0, 0, 1, 1}
	p.Values = FloatList{0.0, 1.0, 2.0, 3.0}
	require.NoError(t, p.Validate())

	k := p.Index(1, 0)
	assert.Equal(t, 2, k)
	assert.Equal(t, 1.0, p.Lats[k])
	assert.Equal(t, 2.0, p.Values[k])

	lon, lat, v, err := p.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lon)
	assert.Equal(t, 1.0, lat)
	assert.Equal(t, 2.0, v)

	_, _, _, err = p.At(2, 0)
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	vmin := -1.5
	p := DefaultProperties()
	p.NLat, p.NLon = 2, 3
	p.Lons = FloatList{-5, 0, 5, -5, 0, 5}
	p.Lats = FloatList{-1, -1, -1, 1, 1, 1}
	p.Values = FloatList{0.1, math.NaN(), 2.5e-7, 3, 4, 1e9}
	p.Palette = "gist_earth"
	p.VMin = &vmin
	p.Autorotate = true
	p.RotationSpeed = 2.5
	p.ColorbarTitle = "Elevation"
	p.Width, p.Height = 900, 700

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got Properties
	require.NoError(t, json.Unmarshal(data, &got))

	if diff := cmp.Diff(p, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultProperties())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	want := []string{
		"lons", "lats", "values", "n_lat", "n_lon", "palette", "vmin", "vmax",
		"nan_color", "azimuth", "elevation", "zoom", "autorotate", "rotation_speed",
		"enable_hover", "show_colorbar", "colorbar_title", "background_color",
		"colorbar_text_color", "width", "height",
	}
	assert.Len(t, raw, len(want))
	for _, k := range want {
		assert.Contains(t, raw, k)
	}
	assert.Nil(t, raw["vmin"])
}

func TestJSONDecodeKeepsDefaults(t *testing.T) {
	p := DefaultProperties()
	body := `{"lons":[0,1],"lats":[0,0],"values":[1,null],"n_lat":1,"n_lon":2,"palette":"viridis"}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "viridis", p.Palette)
	assert.Equal(t, 45.0, p.Azimuth)
	assert.True(t, p.ShowColorbar)
	assert.True(t, math.IsNaN(p.Values[1]))
	assert.NoError(t, p.Validate())
}

func TestReplaceGrid(t *testing.T) {
	p := DefaultProperties()
	p.NLat, p.NLon = 1, 2
	p.Lons, p.Lats, p.Values = zeros(2), zeros(2), zeros(2)
	s := New(p)
	v0 := s.Version()

	err := s.ReplaceGrid(Grid{
		Lons:   []float64{0, 1, 2, 0, 1, 2},
		Lats:   []float64{0, 0, 0, 1, 1, 1},
		Values: []float64{1, 2, 3, 4, 5, 6},
		NLat:   2,
		NLon:   3,
	})
	require.NoError(t, err)

	got := s.Snapshot()
	assert.Equal(t, 2, got.NLat)
	assert.Equal(t, 3, got.NLon)
	assert.Equal(t, FloatList{1, 2, 3, 4, 5, 6}, got.Values)
	assert.Greater(t, s.Version(), v0)
}

func TestReplaceGrid_KeepsDimensions(t *testing.T) {
	p := DefaultProperties()
	p.NLat, p.NLon = 2, 2
	p.Lons, p.Lats, p.Values = zeros(4), zeros(4), zeros(4)
	s := New(p)

	require.NoError(t, s.ReplaceGrid(Grid{
		Lons:   []float64{1, 2, 3, 4},
		Lats:   []float64{1, 2, 3, 4},
		Values: []float64{1, 2, 3, 4},
	}))
	got := s.Snapshot()
	assert.Equal(t, 2, got.NLat)
	assert.Equal(t, 2, got.NLon)
}

func TestReplaceGrid_RejectsMismatch(t *testing.T) {
	p := DefaultProperties()
	p.NLat, p.NLon = 2, 2
	p.Lons, p.Lats, p.Values = zeros(4), zeros(4), FloatList{1, 2, 3, 4}
	s := New(p)
	v0 := s.Version()

	err := s.ReplaceGrid(Grid{
		Lons:   []float64{0, 1, 2},
		Lats:   []float64{0, 1, 2},
		Values: []float64{0, 1, 2},
		NLat:   3,
		NLon:   3,
	})
	require.ErrorIs(t, err, ErrShapeMismatch)

	got := s.Snapshot()
	assert.Equal(t, 2, got.NLat)
	assert.Equal(t, FloatList{1, 2, 3, 4}, got.Values)
	assert.Equal(t, v0, s.Version())
}

func TestReplaceGrid_CopiesInput(t *testing.T) {
	p := DefaultProperties()
	p.NLat, p.NLon = 1, 1
	p.Lons, p.Lats, p.Values = zeros(1), zeros(1), zeros(1)
	s := New(p)

	values := []float64{7}
	require.NoError(t, s.ReplaceGrid(Grid{Lons: []float64{0}, Lats: []float64{0}, Values: values}))
	values[0] = 99

	assert.Equal(t, 7.0, s.Snapshot().Values[0])
}

func TestReplaceGrid_ObserversSeeConsistentSnapshots(t *testing.T) {
	small := Grid{Lons: make([]float64, 4), Lats: make([]float64, 4), Values: make([]float64, 4), NLat: 2, NLon: 2}
	large := Grid{Lons: make([]float64, 12), Lats: make([]float64, 12), Values: make([]float64, 12), NLat: 3, NLon: 4}

	p := DefaultProperties()
	p.NLat, p.NLon = 2, 2
	p.Lons, p.Lats, p.Values = zeros(4), zeros(4), zeros(4)
	s := New(p)

	const iterations = 2000
	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < iterations; i++ {
			g := small
			if i%2 == 0 {
				g = large
			}
			if err := s.ReplaceGrid(g); err != nil {
				t.Errorf("ReplaceGrid: %v", err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := s.Snapshot()
				n := snap.NLat * snap.NLon
				if len(snap.Values) != n || len(snap.Lons) != n || len(snap.Lats) != n {
					t.Errorf("torn snapshot: n_lat=%d n_lon=%d values=%d", snap.NLat, snap.NLon, len(snap.Values))
					return
				}
			}
		}()
	}

	wg.Wait()
}

func TestUpdate_PreservesGrid(t *testing.T) {
	p := DefaultProperties()
	p.NLat, p.NLon = 1, 2
	p.Lons, p.Lats, p.Values = zeros(2), zeros(2), FloatList{1, 2}
	s := New(p)

	s.Update(func(p *Properties) {
		p.Palette = "terrain"
		p.Azimuth = 400
		p.Values = nil
		p.NLat = 9
	})

	got := s.Snapshot()
	assert.Equal(t, "terrain", got.Palette)
	assert.Equal(t, 400.0, got.Azimuth, "the model does not clamp view fields")
	assert.Equal(t, FloatList{1, 2}, got.Values)
	assert.Equal(t, 1, got.NLat)
}

func TestNew_DoesNotValidate(t *testing.T) {
	p := DefaultProperties()
	p.Values = zeros(3)
	s := New(p)
	assert.ErrorIs(t, s.Validate(), ErrShapeMismatch)
}

func TestMeshgrid(t *testing.T) {
	x, y := Meshgrid([]float64{0, 1, 2}, []float64{10, 20})
	assert.Equal(t, []float64{0, 1, 2, 0, 1, 2}, x)
	assert.Equal(t, []float64{10, 10, 10, 20, 20, 20}, y)
}
