package raster

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/surface3d/internal/adapter/interp"
)

// NetCDFReader reads rasters through the netCDF C library. Bounding boxes
// are read as hyperslabs, so only the window is loaded from disk.
type NetCDFReader struct{}

// ReadGrid implements Reader.
//
//nolint:gocyclo // NetCDF loading covers several layouts.
func (r *NetCDFReader) ReadGrid(path string, opts Options) (*interp.Grid2D, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	latData, err := readAxis(nc, latNames)
	if err != nil {
		return nil, fmt.Errorf("latitude variable not found (tried: %v): %w", latNames, err)
	}
	lonData, err := readAxis(nc, lonNames)
	if err != nil {
		return nil, fmt.Errorf("longitude variable not found (tried: %v): %w", lonNames, err)
	}

	w, err := computeWindow(latData, lonData, opts.BBox)
	if err != nil {
		return nil, err
	}

	candidates := opts.dataCandidates()
	var dataVar netcdf.Var
	var dataFound bool
	for _, name := range candidates {
		if v, err := nc.Var(name); err == nil {
			dataVar = v
			dataFound = true
			break
		}
	}
	if !dataFound {
		return nil, fmt.Errorf("data variable not found (tried: %v)", candidates)
	}

	dims, err := dataVar.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D data, got %dD", len(dims))
	}
	dim0Len, err := dims[0].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim0 length: %w", err)
	}
	dim1Len, err := dims[1].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim1 length: %w", err)
	}

	nLat, nLon := uint64(len(latData)), uint64(len(lonData))
	//nolint:gosec // G115: window indices are non-negative.
	latStart, latCount := uint64(w.latStart), uint64(w.rows())
	//nolint:gosec // G115: window indices are non-negative.
	lonStart, lonCount := uint64(w.lonStart), uint64(w.cols())

	var start, count []uint64
	var lonMajor bool
	switch {
	case dim0Len == nLat && dim1Len == nLon:
		start = []uint64{latStart, lonStart}
		count = []uint64{latCount, lonCount}
	case dim0Len == nLon && dim1Len == nLat:
		start = []uint64{lonStart, latStart}
		count = []uint64{lonCount, latCount}
		lonMajor = true
	default:
		return nil, fmt.Errorf("dimension mismatch: data is [%d, %d], expected [%d, %d] or [%d, %d]",
			dim0Len, dim1Len, nLat, nLon, nLon, nLat)
	}

	flat, err := readSlice(dataVar, start, count)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	readEncoding(dataVar).decode(flat)

	return assemble(latData[w.latStart:w.latEnd], lonData[w.lonStart:w.lonEnd], flat, lonMajor)
}

// readAxis reads the first 1D coordinate variable found among names.
func readAxis(nc netcdf.Dataset, names []string) ([]float64, error) {
	var lastErr error
	for _, name := range names {
		v, err := nc.Var(name)
		if err != nil {
			lastErr = err
			continue
		}
		dims, err := v.Dims()
		if err != nil {
			return nil, fmt.Errorf("failed to get dimensions: %w", err)
		}
		if len(dims) != 1 {
			return nil, fmt.Errorf("expected 1D variable %q, got %dD", name, len(dims))
		}
		length, err := dims[0].Len()
		if err != nil {
			return nil, err
		}
		return readSlice(v, []uint64{0}, []uint64{length})
	}
	return nil, lastErr
}

// readSlice reads a hyperslab as float64.
// Supports float64, float32, int32, and int16 types.
func readSlice(v netcdf.Var, start, count []uint64) ([]float64, error) {
	varType, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get variable type: %w", err)
	}

	total := uint64(1)
	for _, c := range count {
		total *= c
	}
	out := make([]float64, total)

	switch varType {
	case netcdf.DOUBLE:
		if err := v.ReadFloat64Slice(out, start, count); err != nil {
			return nil, fmt.Errorf("failed to read float64 subset: %w", err)
		}
	case netcdf.FLOAT:
		buf := make([]float32, total)
		if err := v.ReadFloat32Slice(buf, start, count); err != nil {
			return nil, fmt.Errorf("failed to read float32 subset: %w", err)
		}
		for i, val := range buf {
			out[i] = float64(val)
		}
	case netcdf.SHORT:
		buf := make([]int16, total)
		if err := v.ReadInt16Slice(buf, start, count); err != nil {
			return nil, fmt.Errorf("failed to read int16 subset: %w", err)
		}
		for i, val := range buf {
			out[i] = float64(val)
		}
	case netcdf.INT:
		buf := make([]int32, total)
		if err := v.ReadInt32Slice(buf, start, count); err != nil {
			return nil, fmt.Errorf("failed to read int32 subset: %w", err)
		}
		for i, val := range buf {
			out[i] = float64(val)
		}
	case netcdf.BYTE, netcdf.UBYTE, netcdf.CHAR, netcdf.USHORT, netcdf.UINT, netcdf.INT64, netcdf.UINT64, netcdf.STRING:
		return nil, fmt.Errorf("unsupported data type: %v (expected DOUBLE, FLOAT, INT, or SHORT)", varType)
	}

	return out, nil
}

func readEncoding(v netcdf.Var) encoding {
	var e encoding
	for _, name := range []string{"_FillValue", "missing_value"} {
		if fill, ok := attrFloat(v, name); ok {
			e.fill, e.hasFill = fill, true
			break
		}
	}
	e.scale = 1
	if scale, ok := attrFloat(v, "scale_factor"); ok && scale != 0 {
		e.scale, e.hasScaling = scale, true
	}
	if offset, ok := attrFloat(v, "add_offset"); ok {
		e.offset, e.hasScaling = offset, true
	}
	return e
}

// attrFloat returns the first value of a numeric attribute as float64.
func attrFloat(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if n, err := a.Len(); err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, 1)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, 1)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, 1)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	bufs := make([]int16, 1)
	if err := a.ReadInt16s(bufs); err == nil {
		return float64(bufs[0]), true
	}
	return 0, false
}
