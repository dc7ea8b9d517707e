// Package raster reads gridded elevation-style data from NetCDF files and
// turns it into surface grids.
package raster

import (
	"errors"
	"fmt"
	"math"

	"go.ngs.io/surface3d/internal/adapter/interp"
)

// Driver names accepted by NewReader.
const (
	DriverNetCDF = "netcdf"
	DriverNative = "native"
)

var (
	// ErrUnknownDriver is returned by NewReader for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown raster driver")
	// ErrEmptyWindow is returned when a bounding box selects no samples.
	ErrEmptyWindow = errors.New("bounding box selects no grid points")
)

// Default variable name candidates, tried in order after Options.Variable.
var (
	latNames  = []string{"lat", "latitude", "y"}
	lonNames  = []string{"lon", "longitude", "x"}
	dataNames = []string{"elevation", "z", "data", "height", "Band1"}
)

// BBox is a geographic bounding box in degrees. Longitudes may be given in
// [-180, 180] even when the file uses a 0-360 axis.
type BBox struct {
	MinLon, MaxLon float64
	MinLat, MaxLat float64
}

// BBoxAround returns the box spanning ±margin degrees around (lat, lon).
func BBoxAround(lat, lon, margin float64) *BBox {
	return &BBox{
		MinLon: lon - margin,
		MaxLon: lon + margin,
		MinLat: lat - margin,
		MaxLat: lat + margin,
	}
}

// Options controls how a raster variable is read.
type Options struct {
	// Variable is the preferred data variable name. When empty or missing,
	// common elevation names are tried.
	Variable string
	// BBox limits the read to a window. Nil reads the whole grid.
	BBox *BBox
}

func (o Options) dataCandidates() []string {
	if o.Variable == "" {
		return dataNames
	}
	return append([]string{o.Variable}, dataNames...)
}

// Reader reads a 2D grid from a raster file. The returned grid has
// ascending latitude rows and longitude columns.
type Reader interface {
	ReadGrid(path string, opts Options) (*interp.Grid2D, error)
}

// NewReader returns the reader for the given driver name.
func NewReader(driver string) (Reader, error) {
	switch driver {
	case DriverNetCDF:
		return &NetCDFReader{}, nil
	case DriverNative, "":
		return &NativeReader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// window is a half-open index range into the lat and lon axes.
type window struct {
	latStart, latEnd int
	lonStart, lonEnd int
}

func (w window) rows() int { return w.latEnd - w.latStart }
func (w window) cols() int { return w.lonEnd - w.lonStart }

func computeWindow(lats, lons []float64, bbox *BBox) (window, error) {
	if bbox == nil {
		return window{0, len(lats), 0, len(lons)}, nil
	}

	minLon, maxLon := bbox.MinLon, bbox.MaxLon
	if lonAxisRequiresWrap(lons) {
		minLon = normalizeLon360(minLon)
		maxLon = normalizeLon360(maxLon)
		if minLon > maxLon {
			return window{}, fmt.Errorf("bounding box [%g, %g] crosses the 0/360 longitude seam", bbox.MinLon, bbox.MaxLon)
		}
	}

	latStart, latEnd, ok := indexRange(lats, bbox.MinLat, bbox.MaxLat)
	if !ok {
		return window{}, fmt.Errorf("%w: latitude [%g, %g]", ErrEmptyWindow, bbox.MinLat, bbox.MaxLat)
	}
	lonStart, lonEnd, ok := indexRange(lons, minLon, maxLon)
	if !ok {
		return window{}, fmt.Errorf("%w: longitude [%g, %g]", ErrEmptyWindow, minLon, maxLon)
	}
	return window{latStart, latEnd, lonStart, lonEnd}, nil
}

// indexRange returns the half-open range of a monotonic axis whose values
// fall within [lo, hi].
func indexRange(axis []float64, lo, hi float64) (start, end int, ok bool) {
	if lo > hi {
		lo, hi = hi, lo
	}
	start = -1
	for i, v := range axis {
		if v < lo || v > hi {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i + 1
	}
	return start, end, start >= 0
}

func lonAxisRequiresWrap(lons []float64) bool {
	if len(lons) == 0 {
		return false
	}
	minVal := lons[0]
	maxVal := lons[len(lons)-1]
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	return minVal >= 0 && maxVal > 180
}

func normalizeLon360(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// encoding holds the CF packing attributes of a data variable.
type encoding struct {
	fill       float64
	hasFill    bool
	scale      float64
	offset     float64
	hasScaling bool
}

// decode replaces fill values with NaN and applies scale_factor and
// add_offset in place.
func (e encoding) decode(data []float64) {
	for i, v := range data {
		if e.hasFill && v == e.fill {
			data[i] = math.NaN()
			continue
		}
		if e.hasScaling {
			data[i] = v*e.scale + e.offset
		}
	}
}

// assemble builds an ascending grid from flat samples. When lonMajor is
// set the samples are stored [lon][lat] and are transposed.
func assemble(lats, lons, flat []float64, lonMajor bool) (*interp.Grid2D, error) {
	nLat, nLon := len(lats), len(lons)
	if len(flat) != nLat*nLon {
		return nil, fmt.Errorf("read %d samples, expected %d (%d x %d)", len(flat), nLat*nLon, nLat, nLon)
	}

	values := make([][]float64, nLat)
	for i := range values {
		row := make([]float64, nLon)
		for j := range row {
			if lonMajor {
				row[j] = flat[j*nLat+i]
			} else {
				row[j] = flat[i*nLon+j]
			}
		}
		values[i] = row
	}

	grid := &interp.Grid2D{
		X:      append([]float64(nil), lons...),
		Y:      append([]float64(nil), lats...),
		Values: values,
	}
	interp.EnsureAscendingY(grid)
	return grid, nil
}
