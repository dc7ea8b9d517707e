package render

import (
	"encoding/json"
	"io"

	gridcsv "go.ngs.io/surface3d/internal/adapter/store/csv"
	"go.ngs.io/surface3d/internal/domain"
)

// JSONRenderer writes the flat property object consumed by client-side
// Surface3D widgets. Missing samples encode as null.
type JSONRenderer struct{}

func (JSONRenderer) Format() string      { return FormatJSON }
func (JSONRenderer) ContentType() string { return "application/json" }

// Render implements Renderer.
func (JSONRenderer) Render(w io.Writer, p domain.Properties) error {
	return json.NewEncoder(w).Encode(p)
}

// CSVRenderer writes the grid as lon,lat,value rows in row-major order.
type CSVRenderer struct{}

func (CSVRenderer) Format() string      { return FormatCSV }
func (CSVRenderer) ContentType() string { return "text/csv" }

// Render implements Renderer.
func (CSVRenderer) Render(w io.Writer, p domain.Properties) error {
	return gridcsv.WriteGrid(w, p)
}
