package interp

import (
	"fmt"
	"math"

	"go.ngs.io/surface3d/internal/domain"
)

// Flatten expands the grid into row-major lon, lat and value arrays, so
// element k = i*Cols()+j holds (X[j], Y[i], Values[i][j]).
func Flatten(g *Grid2D) (lons, lats, values []float64, err error) {
	if err := g.checkShape(1); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to flatten grid: %w", err)
	}

	lons, lats = domain.Meshgrid(g.X, g.Y)
	values = make([]float64, 0, len(lons))
	for _, row := range g.Values {
		values = append(values, row...)
	}
	return lons, lats, values, nil
}

// Coarsen reduces the grid by averaging factor x factor blocks. Rows and
// columns that do not fill a whole block are dropped. Non-finite samples
// are skipped; a block with no finite samples becomes NaN. Block
// coordinates are the mean of the member coordinates.
func Coarsen(g *Grid2D, factor int) (*Grid2D, error) {
	if factor < 1 {
		return nil, fmt.Errorf("coarsen factor must be >= 1, got %d", factor)
	}
	if err := g.checkShape(1); err != nil {
		return nil, fmt.Errorf("failed to coarsen grid: %w", err)
	}

	nY := g.Rows() / factor
	nX := g.Cols() / factor
	if nX == 0 || nY == 0 {
		return nil, fmt.Errorf("grid %dx%d is smaller than coarsen factor %d", g.Rows(), g.Cols(), factor)
	}

	out := &Grid2D{
		X:      blockMeans(g.X, nX, factor),
		Y:      blockMeans(g.Y, nY, factor),
		Values: make([][]float64, nY),
	}

	for bi := 0; bi < nY; bi++ {
		row := make([]float64, nX)
		for bj := 0; bj < nX; bj++ {
			var sum float64
			var count int
			for i := bi * factor; i < (bi+1)*factor; i++ {
				for j := bj * factor; j < (bj+1)*factor; j++ {
					v := g.Values[i][j]
					if math.IsNaN(v) || math.IsInf(v, 0) {
						continue
					}
					sum += v
					count++
				}
			}
			if count == 0 {
				row[bj] = math.NaN()
			} else {
				row[bj] = sum / float64(count)
			}
		}
		out.Values[bi] = row
	}

	return out, nil
}

func blockMeans(axis []float64, n, factor int) []float64 {
	out := make([]float64, n)
	for b := 0; b < n; b++ {
		var sum float64
		for k := b * factor; k < (b+1)*factor; k++ {
			sum += axis[k]
		}
		out[b] = sum / float64(factor)
	}
	return out
}

// Resample bilinearly interpolates the grid onto nX x nY evenly spaced
// coordinates spanning the same extent.
func Resample(g *Grid2D, nX, nY int) (*Grid2D, error) {
	if nX < 2 || nY < 2 {
		return nil, fmt.Errorf("resample target must be at least 2x2, got %dx%d", nY, nX)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	out := &Grid2D{
		X:      linspace(g.X[0], g.X[len(g.X)-1], nX),
		Y:      linspace(g.Y[0], g.Y[len(g.Y)-1], nY),
		Values: make([][]float64, nY),
	}
	for i, y := range out.Y {
		row := make([]float64, nX)
		for j, x := range out.X {
			v, err := g.InterpolateAt(x, y)
			if err != nil {
				return nil, fmt.Errorf("failed to resample at (%.6f, %.6f): %w", x, y, err)
			}
			row[j] = v
		}
		out.Values[i] = row
	}
	return out, nil
}

// linspace returns n evenly spaced values from start to end inclusive.
// The last element is exactly end.
func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}

// FlipY reverses the row order in place. Rasters stored north-up have
// descending Y; flipping makes Y ascending.
func FlipY(g *Grid2D) {
	for i, j := 0, len(g.Y)-1; i < j; i, j = i+1, j-1 {
		g.Y[i], g.Y[j] = g.Y[j], g.Y[i]
	}
	for i, j := 0, len(g.Values)-1; i < j; i, j = i+1, j-1 {
		g.Values[i], g.Values[j] = g.Values[j], g.Values[i]
	}
}

// EnsureAscendingY flips the grid when its Y axis is descending.
func EnsureAscendingY(g *Grid2D) {
	if len(g.Y) >= 2 && g.Y[0] > g.Y[len(g.Y)-1] {
		FlipY(g)
	}
}
