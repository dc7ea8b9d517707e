package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"go.ngs.io/surface3d/internal/domain"
)

// NullableFloat is a patch field that distinguishes absent, null and a value.
type NullableFloat struct {
	Set   bool
	Value *float64
}

// UnmarshalJSON records that the field was present. null clears the value.
func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// ViewPatch changes the non-grid fields of a surface. Nil fields are left
// alone. Values are stored as given; clamping is left to renderers.
type ViewPatch struct {
	Name *string `json:"name"`

	Palette  *string       `json:"palette"`
	VMin     NullableFloat `json:"vmin"`
	VMax     NullableFloat `json:"vmax"`
	NaNColor *string       `json:"nan_color"`

	Azimuth       *float64 `json:"azimuth"`
	Elevation     *float64 `json:"elevation"`
	Zoom          *float64 `json:"zoom"`
	Autorotate    *bool    `json:"autorotate"`
	RotationSpeed *float64 `json:"rotation_speed"`
	EnableHover   *bool    `json:"enable_hover"`

	ShowColorbar      *bool   `json:"show_colorbar"`
	ColorbarTitle     *string `json:"colorbar_title"`
	BackgroundColor   *string `json:"background_color"`
	ColorbarTextColor *string `json:"colorbar_text_color"`

	Width  *int `json:"width"`
	Height *int `json:"height"`
}

// Validate rejects values no renderer can use.
func (v ViewPatch) Validate() error {
	if v.Name != nil && *v.Name == "" {
		return errors.New("name must not be empty")
	}
	floats := map[string]*float64{
		"azimuth":        v.Azimuth,
		"elevation":      v.Elevation,
		"zoom":           v.Zoom,
		"rotation_speed": v.RotationSpeed,
		"vmin":           v.VMin.Value,
		"vmax":           v.VMax.Value,
	}
	for name, f := range floats {
		if f != nil && (math.IsNaN(*f) || math.IsInf(*f, 0)) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	if v.Width != nil {
		if err := checkDimension("width", *v.Width); err != nil {
			return err
		}
	}
	if v.Height != nil {
		if err := checkDimension("height", *v.Height); err != nil {
			return err
		}
	}
	return nil
}

// checkDimension accepts 0 (renderer default) up to domain.MaxDimension.
func checkDimension(name string, v int) error {
	if v < 0 || v > domain.MaxDimension {
		return fmt.Errorf("%s must be between 0 and %d, got %d", name, domain.MaxDimension, v)
	}
	return nil
}

// Apply copies the set fields onto p.
func (v ViewPatch) Apply(p *domain.Properties) {
	set(&p.Palette, v.Palette)
	if v.VMin.Set {
		p.VMin = v.VMin.Value
	}
	if v.VMax.Set {
		p.VMax = v.VMax.Value
	}
	set(&p.NaNColor, v.NaNColor)

	set(&p.Azimuth, v.Azimuth)
	set(&p.Elevation, v.Elevation)
	set(&p.Zoom, v.Zoom)
	set(&p.Autorotate, v.Autorotate)
	set(&p.RotationSpeed, v.RotationSpeed)
	set(&p.EnableHover, v.EnableHover)

	set(&p.ShowColorbar, v.ShowColorbar)
	set(&p.ColorbarTitle, v.ColorbarTitle)
	set(&p.BackgroundColor, v.BackgroundColor)
	set(&p.ColorbarTextColor, v.ColorbarTextColor)

	set(&p.Width, v.Width)
	set(&p.Height, v.Height)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
