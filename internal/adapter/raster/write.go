package raster

import (
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/surface3d/internal/adapter/interp"
)

// fillValue marks missing samples in written rasters.
const fillValue = float32(-32767)

// WriteNetCDF writes grid as a classic-format lat/lon NetCDF file with one
// float data variable. NaN samples are stored as _FillValue.
func WriteNetCDF(path string, grid *interp.Grid2D, varName, units string) error {
	if err := grid.Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	if varName == "" {
		varName = dataNames[0]
	}

	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = ds.Close() }()

	// Create dimensions
	latDim, err := ds.AddDim("lat", uint64(grid.Rows()))
	if err != nil {
		return err
	}
	lonDim, err := ds.AddDim("lon", uint64(grid.Cols()))
	if err != nil {
		return err
	}

	// Create coordinate variables
	latVar, err := ds.AddVar("lat", netcdf.DOUBLE, []netcdf.Dim{latDim})
	if err != nil {
		return err
	}
	if err := latVar.Attr("units").WriteBytes([]byte("degrees_north")); err != nil {
		return err
	}
	lonVar, err := ds.AddVar("lon", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	if err != nil {
		return err
	}
	if err := lonVar.Attr("units").WriteBytes([]byte("degrees_east")); err != nil {
		return err
	}

	// Create data variable
	dataVar, err := ds.AddVar(varName, netcdf.FLOAT, []netcdf.Dim{latDim, lonDim})
	if err != nil {
		return err
	}
	if err := dataVar.Attr("_FillValue").WriteFloat32s([]float32{fillValue}); err != nil {
		return err
	}
	if units != "" {
		if err := dataVar.Attr("units").WriteBytes([]byte(units)); err != nil {
			return err
		}
	}

	if err := ds.EndDef(); err != nil {
		return err
	}
	if err := latVar.WriteFloat64s(grid.Y); err != nil {
		return fmt.Errorf("failed to write lat: %w", err)
	}
	if err := lonVar.WriteFloat64s(grid.X); err != nil {
		return fmt.Errorf("failed to write lon: %w", err)
	}

	flat := make([]float32, 0, grid.Rows()*grid.Cols())
	for _, row := range grid.Values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				flat = append(flat, fillValue)
				continue
			}
			flat = append(flat, float32(v))
		}
	}
	if err := dataVar.WriteFloat32s(flat); err != nil {
		return fmt.Errorf("failed to write %s: %w", varName, err)
	}
	return nil
}
