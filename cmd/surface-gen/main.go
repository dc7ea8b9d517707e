// Command surface-gen renders catalog surfaces to files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.ngs.io/surface3d/internal/render"
	"go.ngs.io/surface3d/internal/surfaces"
)

func main() {
	// Command line flags
	preset := flag.String("preset", "all", "Preset name, or all")
	nLat := flag.Int("n-lat", 0, "Grid rows (0 keeps the preset default)")
	nLon := flag.Int("n-lon", 0, "Grid columns (0 keeps the preset default)")
	formats := flag.String("format", "html", "Comma-separated output formats: html, png, colorbar, json, csv")
	paletteName := flag.String("palette", "", "Palette override")
	outDir := flag.String("out", "./out", "Output directory")
	assetsHost := flag.String("assets-host", "", "Script host for HTML output (default: library CDN)")
	list := flag.Bool("list", false, "List presets and exit")

	flag.Parse()

	if *list {
		for _, p := range surfaces.List() {
			fmt.Printf("%-20s %-11s %3dx%-3d %s\n", p.Name, p.Kind, p.NLat, p.NLon, p.Title)
		}
		return
	}

	names := []string{*preset}
	if *preset == "all" {
		names = surfaces.Names()
	}

	// Create output directory
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	reg := render.DefaultRegistry(render.Options{AssetsHost: *assetsHost})
	wanted := splitList(*formats)
	for _, f := range wanted {
		if _, err := reg.Lookup(f); err != nil {
			log.Fatalf("%v (available: %s)", err, strings.Join(reg.Formats(), ", "))
		}
	}

	failed := 0
	for _, name := range names {
		p, err := surfaces.Generate(name, *nLat, *nLon)
		if err != nil {
			log.Fatalf("Failed to generate %s: %v", name, err)
		}
		if *paletteName != "" {
			p.Palette = *paletteName
		}

		for _, f := range wanted {
			path := filepath.Join(*outDir, render.FileName(name, f))
			if err := reg.RenderFile(path, f, p); err != nil {
				log.Printf("Warning: Failed to render %s as %s: %v", name, f, err)
				failed++
				continue
			}
			log.Printf("✓ Generated %s (%dx%d, %s)", path, p.NLat, p.NLon, p.Palette)
		}
	}

	log.Printf("=== Generation Complete ===")
	log.Printf("Files created in: %s", *outDir)
	if failed > 0 {
		log.Fatalf("%d outputs failed", failed)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
