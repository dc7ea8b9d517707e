package surfaces

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 17)
	assert.IsIncreasing(t, names)
	for _, want := range []string{"wave-hills", "mexican-hat", "monkey-saddle", "rose", "vine", "ripples", "lotus", "heart"} {
		assert.Contains(t, names, want)
	}
	assert.Len(t, List(), len(names))
}

func TestGenerate_EveryPresetValidates(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			preset, ok := Lookup(name)
			require.True(t, ok)

			p, err := Generate(name, 0, 0)
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.Equal(t, preset.NLat, p.NLat)
			assert.Equal(t, preset.NLon, p.NLon)

			for k, v := range p.Values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("value %d is not finite: %v", k, v)
				}
			}
		})
	}
}

func TestGenerate_FunctionGridIsRowMajor(t *testing.T) {
	p, err := Generate("saddle", 3, 4)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	// Row i runs along latitude, column j along longitude.
	assert.Equal(t, []float64{-3, -1, 1, 3}, []float64(p.Lons[0:4]))
	assert.Equal(t, []float64{-3, -3, -3, -3}, []float64(p.Lats[0:4]))
	assert.InDelta(t, 0.0, p.Lats[p.Index(1, 2)], 1e-12)

	k := p.Index(2, 1)
	assert.InDelta(t, p.Lons[k]*p.Lons[k]-p.Lats[k]*p.Lats[k], p.Values[k], 1e-12)
}

func TestGenerate_Style(t *testing.T) {
	p, err := Generate("heart", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Reds_r", p.Palette)
	assert.False(t, p.ShowColorbar)
	assert.Equal(t, 60.0, p.Elevation)
	assert.Equal(t, -30.0, p.Azimuth)
	assert.Equal(t, 0.8, p.Zoom)
	assert.True(t, p.Autorotate)

	p, err = Generate("rose", 20, 30)
	require.NoError(t, err)
	assert.Equal(t, "Surface Value", p.ColorbarTitle)
	assert.Equal(t, 600, len(p.Values))
}

func TestGenerate_Errors(t *testing.T) {
	_, err := Generate("teapot", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownPreset)

	_, err = Generate("saddle", 1, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Generate("saddle", 10, MaxSize+1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestPositiveMod(t *testing.T) {
	assert.Equal(t, 1.0, positiveMod(5, 2))
	assert.Equal(t, 2.0, positiveMod(4, 2))
	assert.Equal(t, 1.0, positiveMod(-1, 2))
}
