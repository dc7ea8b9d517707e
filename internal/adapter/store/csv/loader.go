// Package csv provides CSV-based surface grid loading.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.ngs.io/surface3d/internal/domain"
)

// ErrNotFound is returned when no CSV file exists for a grid name.
var ErrNotFound = errors.New("csv grid not found")

var expectedHeaders = []string{"lon", "lat", "value"}

// GridStore loads surface grids from <dataDir>/<name>.csv files.
type GridStore struct {
	dataDir string
}

// NewGridStore creates a new CSV-based grid store.
func NewGridStore(dataDir string) *GridStore {
	return &GridStore{
		dataDir: dataDir,
	}
}

// Load loads the grid stored under name.
func (s *GridStore) Load(name string) (domain.Grid, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return domain.Grid{}, fmt.Errorf("invalid grid name %q", name)
	}
	filename := filepath.Join(s.dataDir, name+".csv")

	//nolint:gosec // G304: File path constructed from dataDir (config) and a validated name.
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Grid{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return domain.Grid{}, fmt.Errorf("failed to open CSV file for grid %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	g, err := ReadGrid(file)
	if err != nil {
		return domain.Grid{}, fmt.Errorf("grid %s: %w", name, err)
	}
	return g, nil
}

// List returns the available grid names, sorted.
func (s *GridStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	names := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".csv"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadGrid parses a lon,lat,value CSV whose rows are in row-major order.
// The number of columns is the length of the leading run of rows that
// share the first latitude. Empty or NaN values become NaN.
func ReadGrid(r io.Reader) (domain.Grid, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = len(expectedHeaders)

	// Read header.
	header, err := reader.Read()
	if err != nil {
		return domain.Grid{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		if strings.TrimSpace(strings.ToLower(h)) != expectedHeaders[i] {
			return domain.Grid{}, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s", i, expectedHeaders[i], h)
		}
	}

	var g domain.Grid
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return domain.Grid{}, fmt.Errorf("failed to read CSV record: %w", err)
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return domain.Grid{}, fmt.Errorf("line %d: invalid lon: %w", line, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return domain.Grid{}, fmt.Errorf("line %d: invalid lat: %w", line, err)
		}
		value := math.NaN()
		if s := strings.TrimSpace(record[2]); s != "" {
			value, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return domain.Grid{}, fmt.Errorf("line %d: invalid value: %w", line, err)
			}
		}

		g.Lons = append(g.Lons, lon)
		g.Lats = append(g.Lats, lat)
		g.Values = append(g.Values, value)
	}

	if len(g.Values) == 0 {
		return domain.Grid{}, fmt.Errorf("no grid rows found in CSV")
	}

	g.NLon = 1
	for g.NLon < len(g.Lats) && g.Lats[g.NLon] == g.Lats[0] {
		g.NLon++
	}
	if len(g.Values)%g.NLon != 0 {
		return domain.Grid{}, fmt.Errorf("%d rows do not form whole rows of %d longitudes", len(g.Values), g.NLon)
	}
	g.NLat = len(g.Values) / g.NLon

	return g, nil
}

// WriteGrid writes p's grid as lon,lat,value rows.
func WriteGrid(w io.Writer, p domain.Properties) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(expectedHeaders); err != nil {
		return err
	}
	for k := range p.Values {
		value := ""
		if v := p.Values[k]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			value = strconv.FormatFloat(v, 'g', -1, 64)
		}
		record := []string{
			strconv.FormatFloat(p.Lons[k], 'g', -1, 64),
			strconv.FormatFloat(p.Lats[k], 'g', -1, 64),
			value,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
