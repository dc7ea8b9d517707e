// Command raster-surface turns an elevation raster into a surface file.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.ngs.io/surface3d/internal/adapter/raster"
	"go.ngs.io/surface3d/internal/render"
)

func main() {
	// Command line flags
	file := flag.String("file", "", "Path to the NetCDF raster (required)")
	variable := flag.String("var", "", "Data variable (default: first of elevation, z, data, height, Band1)")
	driver := flag.String("driver", raster.DriverNative, "Raster driver: native or netcdf")
	coarsen := flag.Int("coarsen", raster.DefaultCoarsen, "Block size for block-mean downsampling (1 disables)")
	normalize := flag.String("normalize", string(raster.NormalizeMinMax), "Value rescaling: none, minmax, zscore")
	scale := flag.Float64("scale", raster.DefaultScale, "Upper bound of minmax normalization")
	nLat := flag.Int("n-lat", 0, "Resample to this many rows (with -n-lon)")
	nLon := flag.Int("n-lon", 0, "Resample to this many columns (with -n-lat)")
	lat := flag.Float64("lat", 0, "Center latitude of the window (with -margin)")
	lon := flag.Float64("lon", 0, "Center longitude of the window (with -margin)")
	margin := flag.Float64("margin", 0, "Half-width of the window in degrees (0 reads the whole raster)")
	paletteName := flag.String("palette", raster.DefaultPalette, "Palette name")
	format := flag.String("format", render.FormatHTML, "Output format: html, png, colorbar, json, csv")
	out := flag.String("out", "", "Output file (default: <raster name> with the format's suffix)")

	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	reader, err := raster.NewReader(*driver)
	if err != nil {
		log.Fatalf("%v", err)
	}

	opts := raster.DefaultLoadOptions()
	opts.Variable = *variable
	opts.Coarsen = *coarsen
	opts.Normalize = raster.Normalization(*normalize)
	opts.Scale = *scale
	opts.NLat, opts.NLon = *nLat, *nLon
	if *margin > 0 {
		opts.BBox = raster.BBoxAround(*lat, *lon, *margin)
	}

	log.Printf("Loading %s (driver: %s)", *file, *driver)
	p, err := raster.Load(reader, *file, opts)
	if err != nil {
		log.Fatalf("Failed to load raster: %v", err)
	}
	p.Palette = *paletteName
	log.Printf("Grid: %d × %d points", p.NLat, p.NLon)

	path := *out
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
		path = render.FileName(base, *format)
	}

	reg := render.DefaultRegistry(render.Options{})
	if err := reg.RenderFile(path, *format, p); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	log.Printf("✓ Wrote %s", path)
}
