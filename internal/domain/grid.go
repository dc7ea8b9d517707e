package domain

import "fmt"

// Index returns the flat index of grid cell (row i, column j).
func (p Properties) Index(i, j int) int {
	return i*p.NLon + j
}

// At returns the position and value of grid cell (row i, column j).
func (p Properties) At(i, j int) (lon, lat, value float64, err error) {
	if i < 0 || i >= p.NLat {
		return 0, 0, 0, fmt.Errorf("row %d out of range [0, %d)", i, p.NLat)
	}
	if j < 0 || j >= p.NLon {
		return 0, 0, 0, fmt.Errorf("column %d out of range [0, %d)", j, p.NLon)
	}
	k := p.Index(i, j)
	if k >= len(p.Lons) || k >= len(p.Lats) || k >= len(p.Values) {
		return 0, 0, 0, fmt.Errorf("cell (%d, %d): %w", i, j, p.Validate())
	}
	return p.Lons[k], p.Lats[k], p.Values[k], nil
}

// Meshgrid expands column coordinates xs and row coordinates ys into
// row-major flattened coordinate arrays of length len(ys)*len(xs).
func Meshgrid(xs, ys []float64) (gridX, gridY []float64) {
	n := len(xs) * len(ys)
	gridX = make([]float64, 0, n)
	gridY = make([]float64, 0, n)
	for _, y := range ys {
		for _, x := range xs {
			gridX = append(gridX, x)
			gridY = append(gridY, y)
		}
	}
	return gridX, gridY
}
