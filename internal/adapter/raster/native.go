package raster

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"go.ngs.io/surface3d/internal/adapter/interp"
)

// NativeReader reads rasters with a pure Go NetCDF/HDF5 decoder. It needs no
// C library. Only the rows of a bounding box are decoded, the column window
// is cut in memory.
type NativeReader struct{}

// ReadGrid implements Reader.
func (r *NativeReader) ReadGrid(path string, opts Options) (*interp.Grid2D, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer nc.Close()

	latName, latData, err := nativeAxis(nc, latNames)
	if err != nil {
		return nil, fmt.Errorf("latitude variable not found (tried: %v): %w", latNames, err)
	}
	lonName, lonData, err := nativeAxis(nc, lonNames)
	if err != nil {
		return nil, fmt.Errorf("longitude variable not found (tried: %v): %w", lonNames, err)
	}

	w, err := computeWindow(latData, lonData, opts.BBox)
	if err != nil {
		return nil, err
	}

	candidates := opts.dataCandidates()
	var vg api.VarGetter
	for _, name := range candidates {
		if v, err := nc.GetVarGetter(name); err == nil {
			vg = v
			break
		}
	}
	if vg == nil {
		return nil, fmt.Errorf("data variable not found (tried: %v)", candidates)
	}

	dims := vg.Dimensions()
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D data, got %dD", len(dims))
	}

	var lonMajor bool
	var rowStart, rowEnd, colStart, colEnd int
	switch {
	case dims[0] == lonName || dims[1] == latName:
		lonMajor = true
		rowStart, rowEnd, colStart, colEnd = w.lonStart, w.lonEnd, w.latStart, w.latEnd
	default:
		rowStart, rowEnd, colStart, colEnd = w.latStart, w.latEnd, w.lonStart, w.lonEnd
	}

	raw, err := vg.GetSlice(int64(rowStart), int64(rowEnd))
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	rows, err := toFloat64Matrix(raw)
	if err != nil {
		return nil, err
	}

	flat := make([]float64, 0, (rowEnd-rowStart)*(colEnd-colStart))
	for i, row := range rows {
		if len(row) < colEnd {
			return nil, fmt.Errorf("row %d has %d values, expected at least %d", rowStart+i, len(row), colEnd)
		}
		flat = append(flat, row[colStart:colEnd]...)
	}
	nativeEncoding(vg.Attributes()).decode(flat)

	return assemble(latData[w.latStart:w.latEnd], lonData[w.lonStart:w.lonEnd], flat, lonMajor)
}

func nativeAxis(nc api.Group, names []string) (string, []float64, error) {
	var lastErr error
	for _, name := range names {
		vg, err := nc.GetVarGetter(name)
		if err != nil {
			lastErr = err
			continue
		}
		raw, err := vg.Values()
		if err != nil {
			return "", nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		data, err := toFloat64Slice(raw)
		if err != nil {
			return "", nil, fmt.Errorf("variable %q: %w", name, err)
		}
		return name, data, nil
	}
	return "", nil, lastErr
}

func toFloat64Slice(raw any) ([]float64, error) {
	switch v := raw.(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case []float32:
		return convert(v), nil
	case []int32:
		return convert(v), nil
	case []int16:
		return convert(v), nil
	default:
		return nil, fmt.Errorf("unsupported 1D type %T", raw)
	}
}

func toFloat64Matrix(raw any) ([][]float64, error) {
	switch v := raw.(type) {
	case [][]float64:
		return v, nil
	case [][]float32:
		return convertRows(v), nil
	case [][]int32:
		return convertRows(v), nil
	case [][]int16:
		return convertRows(v), nil
	default:
		return nil, fmt.Errorf("unsupported 2D type %T", raw)
	}
}

type number interface {
	~float32 | ~int32 | ~int16
}

func convert[T number](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func convertRows[T number](in [][]T) [][]float64 {
	out := make([][]float64, len(in))
	for i, row := range in {
		out[i] = convert(row)
	}
	return out
}

func nativeEncoding(attrs api.AttributeMap) encoding {
	var e encoding
	if attrs == nil {
		return e
	}
	for _, name := range []string{"_FillValue", "missing_value"} {
		if fill, ok := nativeAttrFloat(attrs, name); ok {
			e.fill, e.hasFill = fill, true
			break
		}
	}
	e.scale = 1
	if scale, ok := nativeAttrFloat(attrs, "scale_factor"); ok && scale != 0 {
		e.scale, e.hasScaling = scale, true
	}
	if offset, ok := nativeAttrFloat(attrs, "add_offset"); ok {
		e.offset, e.hasScaling = offset, true
	}
	return e
}

// nativeAttrFloat accepts scalar or single-element slice attributes.
func nativeAttrFloat(attrs api.AttributeMap, name string) (float64, bool) {
	raw, ok := attrs.Get(name)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int32:
		return float64(v), true
	case int16:
		return float64(v), true
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	}
	return 0, false
}
