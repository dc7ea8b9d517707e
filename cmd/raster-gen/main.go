// Command raster-gen writes synthetic elevation rasters for trying out the
// raster endpoints without downloading real terrain data.
package main

import (
	"flag"
	"log"
	"math"
	"os"
	"path/filepath"

	"go.ngs.io/surface3d/internal/adapter/interp"
	"go.ngs.io/surface3d/internal/adapter/raster"
)

// RegionalGrid defines the geographic bounds and resolution
type RegionalGrid struct {
	LatMin     float64
	LatMax     float64
	LonMin     float64
	LonMax     float64
	Resolution float64 // degrees
}

// hill is one Gaussian bump of the synthetic terrain.
type hill struct {
	lat, lon float64
	height   float64 // meters
	radius   float64 // degrees
}

func main() {
	// Command line flags
	outDir := flag.String("out", "./data/rasters", "Output directory for NetCDF files")
	name := flag.String("name", "synthetic", "Raster name (file is <out>/<name>.nc)")
	region := flag.String("region", "japan", "Region: japan, global, or custom")
	latMin := flag.Float64("lat-min", 20.0, "Minimum latitude (custom region)")
	latMax := flag.Float64("lat-max", 50.0, "Maximum latitude (custom region)")
	lonMin := flag.Float64("lon-min", 120.0, "Minimum longitude (custom region)")
	lonMax := flag.Float64("lon-max", 150.0, "Maximum longitude (custom region)")
	resolution := flag.Float64("resolution", 0.1, "Grid resolution in degrees")
	seaLevel := flag.Float64("sea-level", 0, "Elevations below this are written as missing (-1 keeps all)")

	flag.Parse()

	// Define grid based on region
	var grid RegionalGrid
	switch *region {
	case "japan":
		grid = RegionalGrid{LatMin: 20.0, LatMax: 50.0, LonMin: 120.0, LonMax: 150.0, Resolution: *resolution}
	case "global":
		grid = RegionalGrid{LatMin: -90.0, LatMax: 90.0, LonMin: -180.0, LonMax: 180.0, Resolution: 0.5}
	case "custom":
		grid = RegionalGrid{LatMin: *latMin, LatMax: *latMax, LonMin: *lonMin, LonMax: *lonMax, Resolution: *resolution}
	default:
		log.Fatalf("Unknown region: %s (use japan, global, or custom)", *region)
	}
	if grid.Resolution <= 0 || grid.LatMax <= grid.LatMin || grid.LonMax <= grid.LonMin {
		log.Fatalf("Invalid grid: %+v", grid)
	}

	log.Printf("Generating synthetic elevation for region: %s", *region)
	log.Printf("Grid: %.1f°-%.1f°N, %.1f°-%.1f°E, resolution: %.2f°",
		grid.LatMin, grid.LatMax, grid.LonMin, grid.LonMax, grid.Resolution)

	g := generate(grid, *seaLevel)

	// Create output directory
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	path := filepath.Join(*outDir, *name+".nc")
	if err := raster.WriteNetCDF(path, g, "elevation", "m"); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}

	// Print summary
	log.Printf("=== Generation Complete ===")
	log.Printf("File: %s", path)
	log.Printf("Grid size: %d × %d points", g.Rows(), g.Cols())
	log.Printf("Size: ~%.1f MB", float64(g.Rows()*g.Cols()*4)/1024/1024)
}

// generate builds a terrain of Gaussian hills placed relative to the region,
// with smooth sinusoidal variation on top.
func generate(grid RegionalGrid, seaLevel float64) *interp.Grid2D {
	nLat := int((grid.LatMax-grid.LatMin)/grid.Resolution) + 1
	nLon := int((grid.LonMax-grid.LonMin)/grid.Resolution) + 1

	lat := make([]float64, nLat)
	for i := range lat {
		lat[i] = grid.LatMin + float64(i)*grid.Resolution
	}
	lon := make([]float64, nLon)
	for j := range lon {
		lon[j] = grid.LonMin + float64(j)*grid.Resolution
	}

	spanLat := grid.LatMax - grid.LatMin
	spanLon := grid.LonMax - grid.LonMin
	hills := []hill{
		{grid.LatMin + 0.55*spanLat, grid.LonMin + 0.6*spanLon, 3000, 0.08 * spanLat},
		{grid.LatMin + 0.35*spanLat, grid.LonMin + 0.4*spanLon, 1800, 0.12 * spanLat},
		{grid.LatMin + 0.7*spanLat, grid.LonMin + 0.3*spanLon, 1200, 0.06 * spanLat},
	}

	values := make([][]float64, nLat)
	for i := range values {
		values[i] = make([]float64, nLon)
		for j := range values[i] {
			h := -200.0
			for _, hl := range hills {
				dLat := lat[i] - hl.lat
				dLon := lon[j] - hl.lon
				h += hl.height * math.Exp(-(dLat*dLat+dLon*dLon)/(2*hl.radius*hl.radius))
			}

			// Add smooth spatial variation (sinusoidal patterns)
			h += 150*math.Sin(lat[i]*math.Pi/15.0) +
				100*math.Cos(lon[j]*math.Pi/20.0) +
				50*math.Sin((lat[i]+lon[j])*math.Pi/25.0)

			if seaLevel >= 0 && h < seaLevel {
				h = math.NaN()
			}
			values[i][j] = h
		}
	}

	return &interp.Grid2D{X: lon, Y: lat, Values: values}
}
