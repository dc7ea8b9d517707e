package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ValueRange returns the color-scale range for values.
//
// A non-nil, finite vmin or vmax is used as given. An unset bound is computed
// from the finite subset of values; NaN and ±Inf samples are ignored.
// ok is false when a bound had to be computed and no finite sample exists.
// When both bounds are set, vmin < vmax is not enforced.
func ValueRange(values []float64, vmin, vmax *float64) (lo, hi float64, ok bool) {
	loSet := vmin != nil && isFinite(*vmin)
	hiSet := vmax != nil && isFinite(*vmax)
	if loSet && hiSet {
		return *vmin, *vmax, true
	}

	finite := FiniteValues(values)
	if len(finite) == 0 {
		return 0, 0, false
	}

	lo = floats.Min(finite)
	hi = floats.Max(finite)
	if loSet {
		lo = *vmin
	}
	if hiSet {
		hi = *vmax
	}
	return lo, hi, true
}

// Range returns the color-scale range of p. See ValueRange.
func (p Properties) Range() (lo, hi float64, ok bool) {
	return ValueRange(p.Values, p.VMin, p.VMax)
}

// FiniteValues returns the finite elements of values in their original order.
func FiniteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
