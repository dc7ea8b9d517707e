package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// FloatList is a float64 sequence whose JSON form encodes non-finite samples
// as null. encoding/json rejects NaN, and missing values are common in
// elevation rasters.
type FloatList []float64

// MarshalJSON implements json.Marshaler.
func (l FloatList) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(l)*8)
	buf = append(buf, '[')
	for i, v := range l {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	buf = append(buf, ']')
	return buf, nil
}

// UnmarshalJSON implements json.Unmarshaler. A null element decodes to NaN.
func (l *FloatList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}

	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(FloatList, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*l = out
	return nil
}
