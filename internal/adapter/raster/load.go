package raster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go.ngs.io/surface3d/internal/adapter/interp"
	"go.ngs.io/surface3d/internal/domain"
)

// Normalization selects how raster values are rescaled before display.
type Normalization string

const (
	NormalizeNone   Normalization = "none"
	NormalizeMinMax Normalization = "minmax"
	NormalizeZScore Normalization = "zscore"
)

// Defaults for LoadOptions.
const (
	DefaultCoarsen = 5
	DefaultScale   = 80.0
	// DefaultPalette and DefaultColorbarTitle label elevation rasters.
	DefaultPalette       = "terrain"
	DefaultColorbarTitle = "Elevation"
)

// LoadOptions controls the raster to surface pipeline.
type LoadOptions struct {
	Options
	// Coarsen is the block size for block-mean downsampling. 1 disables it.
	Coarsen int
	// Normalize selects the value rescaling.
	Normalize Normalization
	// Scale is the upper bound of minmax normalization.
	Scale float64
	// NLat and NLon, when both positive, bilinearly resample the coarsened
	// grid to that many rows and columns.
	NLat, NLon int
}

// DefaultLoadOptions returns the options used for elevation rasters.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Coarsen:   DefaultCoarsen,
		Normalize: NormalizeMinMax,
		Scale:     DefaultScale,
	}
}

// Load reads a raster, coarsens and normalizes it, and returns surface
// properties with a row-major flattened grid.
func Load(r Reader, path string, opts LoadOptions) (domain.Properties, error) {
	grid, err := r.ReadGrid(path, opts.Options)
	if err != nil {
		return domain.Properties{}, fmt.Errorf("failed to read raster %s: %w", path, err)
	}
	return FromGrid(grid, opts)
}

// FromGrid runs the coarsen, normalize and flatten steps on a grid.
func FromGrid(grid *interp.Grid2D, opts LoadOptions) (domain.Properties, error) {
	if opts.Coarsen > 1 {
		coarse, err := interp.Coarsen(grid, opts.Coarsen)
		if err != nil {
			return domain.Properties{}, err
		}
		grid = coarse
	}
	if opts.NLat > 0 && opts.NLon > 0 {
		resampled, err := interp.Resample(grid, opts.NLon, opts.NLat)
		if err != nil {
			return domain.Properties{}, err
		}
		grid = resampled
	}

	lons, lats, values, err := interp.Flatten(grid)
	if err != nil {
		return domain.Properties{}, err
	}

	if err := Normalize(values, opts.Normalize, opts.Scale); err != nil {
		return domain.Properties{}, err
	}

	p := domain.DefaultProperties()
	p.Lons = lons
	p.Lats = lats
	p.Values = values
	p.NLat = grid.Rows()
	p.NLon = grid.Cols()
	p.Palette = DefaultPalette
	p.ColorbarTitle = DefaultColorbarTitle

	if err := p.Validate(); err != nil {
		return domain.Properties{}, err
	}
	return p, nil
}

// Normalize rescales values in place. Non-finite values are left as they
// are and do not contribute to the statistics. A constant field maps to 0.
func Normalize(values []float64, mode Normalization, scale float64) error {
	switch mode {
	case NormalizeNone, "":
		return nil
	case NormalizeMinMax, NormalizeZScore:
	default:
		return fmt.Errorf("unknown normalization %q", mode)
	}

	finite := domain.FiniteValues(values)
	if len(finite) == 0 {
		return nil
	}

	var shift, div float64
	switch mode {
	case NormalizeMinMax:
		lo, hi := floats.Min(finite), floats.Max(finite)
		shift, div = lo, (hi-lo)/scale
	case NormalizeZScore:
		mean, std := stat.MeanStdDev(finite, nil)
		shift, div = mean, std
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if div == 0 || math.IsNaN(div) {
			values[i] = 0
			continue
		}
		values[i] = (v - shift) / div
	}
	return nil
}
