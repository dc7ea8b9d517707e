package domain

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is matched by every *ShapeMismatchError.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeMismatchError reports a grid whose flattened data does not match its
// declared dimensions.
type ShapeMismatchError struct {
	Field    string // "lons", "lats", "values", or "n_lat"/"n_lon" for an out-of-range dimension.
	NLat     int
	NLon     int
	Expected int // n_lat*n_lon, or the bound a dimension violates.
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	if e.Field == "n_lat" || e.Field == "n_lon" {
		if e.Actual > e.Expected {
			return fmt.Sprintf("shape mismatch: %s must be at most %d for n_lon=%d, got %d", e.Field, e.Expected, e.NLon, e.Actual)
		}
		return fmt.Sprintf("shape mismatch: %s must be at least %d, got %d", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("shape mismatch: %s has %d values, expected %d (n_lat=%d, n_lon=%d)",
		e.Field, e.Actual, e.Expected, e.NLat, e.NLon)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
