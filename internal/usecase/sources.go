package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.ngs.io/surface3d/internal/adapter/raster"
	gridcsv "go.ngs.io/surface3d/internal/adapter/store/csv"
	"go.ngs.io/surface3d/internal/domain"
	"go.ngs.io/surface3d/internal/surfaces"
)

// rasterExt is the file extension of rasters served by name.
const rasterExt = ".nc"

// Sources locates the files surfaces can be built from.
type Sources struct {
	// RasterDir holds <name>.nc elevation rasters.
	RasterDir string
	// Raster reads the files in RasterDir.
	Raster raster.Reader
	// Grids holds <name>.csv grids.
	Grids *gridcsv.GridStore
}

// CreateFromPreset generates a catalog surface. Zero dimensions select the
// preset's defaults.
func (uc *SurfaceUseCase) CreateFromPreset(ctx context.Context, name string, nLat, nLon int) (*Surface, error) {
	p, err := surfaces.Generate(name, nLat, nLon)
	if err != nil {
		return nil, err
	}
	return uc.Create(ctx, name, p)
}

// RasterRequest selects a raster file and how to turn it into a surface.
type RasterRequest struct {
	// Name is the raster file name without extension.
	Name     string
	Variable string
	BBox     *raster.BBox
	Coarsen  int
	// Normalize defaults to minmax.
	Normalize raster.Normalization
	Scale     float64
	// NLat and NLon resample the raster when both are positive.
	NLat, NLon int
}

// Validate checks the request parameters.
func (r RasterRequest) Validate() error {
	if !validFileName(r.Name) {
		return fmt.Errorf("invalid raster name %q", r.Name)
	}
	if r.Coarsen < 0 {
		return fmt.Errorf("coarsen must be >= 1, got %d", r.Coarsen)
	}
	if r.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %g", r.Scale)
	}
	if (r.NLat > 0) != (r.NLon > 0) {
		return errors.New("n_lat and n_lon must be given together")
	}
	for _, n := range []int{r.NLat, r.NLon} {
		if n != 0 && (n < surfaces.MinSize || n > surfaces.MaxSize) {
			return fmt.Errorf("grid dimension %d out of range [%d, %d]", n, surfaces.MinSize, surfaces.MaxSize)
		}
	}
	switch r.Normalize {
	case "", raster.NormalizeNone, raster.NormalizeMinMax, raster.NormalizeZScore:
	default:
		return fmt.Errorf("unknown normalization %q", r.Normalize)
	}
	return nil
}

func (r RasterRequest) loadOptions() raster.LoadOptions {
	opts := raster.DefaultLoadOptions()
	opts.Variable = r.Variable
	opts.BBox = r.BBox
	if r.Coarsen > 0 {
		opts.Coarsen = r.Coarsen
	}
	if r.Normalize != "" {
		opts.Normalize = r.Normalize
	}
	if r.Scale > 0 {
		opts.Scale = r.Scale
	}
	opts.NLat, opts.NLon = r.NLat, r.NLon
	return opts
}

// CreateFromRaster loads <RasterDir>/<req.Name>.nc as an elevation surface.
// A missing file is reported with os.ErrNotExist.
func (uc *SurfaceUseCase) CreateFromRaster(ctx context.Context, req RasterRequest) (*Surface, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if uc.sources.Raster == nil {
		return nil, errors.New("no raster reader configured")
	}

	path := filepath.Join(uc.sources.RasterDir, req.Name+rasterExt)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("raster %s: %w", req.Name, err)
	}

	p, err := raster.Load(uc.sources.Raster, path, req.loadOptions())
	if err != nil {
		return nil, err
	}
	return uc.Create(ctx, req.Name, p)
}

// CreateFromGrid builds a surface with default styling from the CSV grid
// stored under name.
func (uc *SurfaceUseCase) CreateFromGrid(ctx context.Context, name string) (*Surface, error) {
	if uc.sources.Grids == nil {
		return nil, errors.New("no grid directory configured")
	}
	if !validFileName(name) {
		return nil, fmt.Errorf("%w: invalid grid name %q", ErrInvalidRequest, name)
	}
	g, err := uc.sources.Grids.Load(name)
	if err != nil {
		return nil, err
	}

	p := domain.DefaultProperties()
	p.Lons, p.Lats, p.Values = g.Lons, g.Lats, g.Values
	p.NLat, p.NLon = g.NLat, g.NLon
	return uc.Create(ctx, name, p)
}

// ListRasters returns the raster names available to CreateFromRaster.
func (uc *SurfaceUseCase) ListRasters() ([]string, error) {
	entries, err := os.ReadDir(uc.sources.RasterDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read raster directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), rasterExt); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// ListGrids returns the CSV grid names available to CreateFromGrid.
func (uc *SurfaceUseCase) ListGrids() ([]string, error) {
	if uc.sources.Grids == nil {
		return []string{}, nil
	}
	names, err := uc.sources.Grids.List()
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	return names, err
}

// validFileName reports whether name can be joined to a data directory
// without leaving it.
func validFileName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
