package render

import (
	"bytes"
	"fmt"
	"os"

	"go.ngs.io/surface3d/internal/domain"
)

// suffixes maps each built-in format to its output file suffix.
var suffixes = map[string]string{
	FormatHTML:     ".html",
	FormatPNG:      ".png",
	FormatColorbar: "_colorbar.png",
	FormatJSON:     ".json",
	FormatCSV:      ".csv",
}

// FileName returns the output file name for base in format.
func FileName(base, format string) string {
	if s, ok := suffixes[format]; ok {
		return base + s
	}
	return base + "." + format
}

// RenderFile renders p in format to path. Nothing is written when rendering
// fails.
func (r *Registry) RenderFile(path, format string, p domain.Properties) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, format, p); err != nil {
		return err
	}
	//nolint:gosec // G306: output files are meant to be world readable.
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
