package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"go.ngs.io/surface3d/internal/domain"
)

const (
	chartID = "surface3d"
	// defaultCameraDistance is the echarts-gl view distance at zoom 1.
	defaultCameraDistance = 200.0
	// visualMapColors is the number of palette samples handed to the page.
	visualMapColors = 16
	// missing is the echarts placeholder for an absent sample.
	missing = "-"
	// missingSeries names the layer marking absent samples.
	missingSeries     = "missing"
	missingSymbolSize = 4
)

// EChartsRenderer writes a standalone HTML page drawing the grid as an
// echarts-gl surface. Missing samples leave gaps in the surface and are
// marked by a scatter layer in nan_color at the bottom of the color range.
type EChartsRenderer struct {
	// AssetsHost overrides the script host; empty uses the go-echarts CDN.
	AssetsHost string
}

func (*EChartsRenderer) Format() string      { return FormatHTML }
func (*EChartsRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements Renderer.
func (r *EChartsRenderer) Render(w io.Writer, p domain.Properties) error {
	return r.Chart(p).Render(w)
}

// Chart builds the echarts surface for p without rendering it.
func (r *EChartsRenderer) Chart(p domain.Properties) *charts.Surface3D {
	lo, hi := colorRange(p)

	theme := "white"
	if isDark(colorOr(p.BackgroundColor, mustHex(domain.DefaultBackgroundColor))) {
		theme = "dark"
	}

	surface := charts.NewSurface3D()
	surface.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       p.ColorbarTitle,
			Theme:           theme,
			Width:           fmt.Sprintf("%dpx", dimension(p.Width, domain.DefaultWidth)),
			Height:          fmt.Sprintf("%dpx", dimension(p.Height, domain.DefaultHeight)),
			BackgroundColor: p.BackgroundColor,
			ChartID:         chartID,
			AssetsHost:      r.AssetsHost,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(p.EnableHover)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(p.ShowColorbar),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Dimension:  "2",
			Text:       []string{p.ColorbarTitle},
			Right:      "10",
			Top:        "center",
			InRange:    &opts.VisualMapInRange{Color: HexColors(p.Palette, visualMapColors)},
			TextStyle:  &opts.TextStyle{Color: p.ColorbarTextColor},
		}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "lon", Show: opts.Bool(true)}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "lat", Show: opts.Bool(true)}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: p.ColorbarTitle, Show: opts.Bool(true)}),
		charts.WithGrid3DOpts(opts.Grid3D{
			Show: opts.Bool(true),
			ViewControl: &opts.ViewControl{
				AutoRotate:      opts.Bool(p.Autorotate),
				AutoRotateSpeed: float32(domain.AutorotateRate(p.RotationSpeed)),
			},
		}),
	)

	surface.AddSeries("surface", surfaceData(p), func(s *charts.SingleSeries) {
		s.Type = types.ChartSurface3D
	})

	// The view angles have no typed option; apply them once the chart exists.
	surface.AddJSFuncStrs(opts.FuncOpts(viewControlJS(p)))

	if gaps := missingData(p, lo); len(gaps) > 0 {
		nanColor := Hex(colorOr(p.NaNColor, mustHex(domain.DefaultNaNColor)))
		surface.AddSeries(missingSeries, gaps, func(s *charts.SingleSeries) {
			s.Type = types.ChartScatter3D
			s.SymbolSize = missingSymbolSize
			s.ItemStyle = &opts.ItemStyle{Color: nanColor}
		})
		// Keep the palette off the missing-value layer.
		surface.AddJSFuncStrs(opts.FuncOpts("%MY_ECHARTS%.setOption({visualMap: {seriesIndex: 0}});"))
	}
	return surface
}

// missingData places a marker at floor for every sample whose value is not
// finite but whose position is.
func missingData(p domain.Properties, floor float64) []opts.Chart3DData {
	var data []opts.Chart3DData
	for k, v := range p.Values {
		if isFiniteSample(v) || !isFiniteSample(p.Lons[k]) || !isFiniteSample(p.Lats[k]) {
			continue
		}
		data = append(data, opts.Chart3DData{Value: []interface{}{p.Lons[k], p.Lats[k], floor}})
	}
	return data
}

func isFiniteSample(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// surfaceData converts the row-major grid to [lon, lat, value] points.
func surfaceData(p domain.Properties) []opts.Chart3DData {
	data := make([]opts.Chart3DData, len(p.Values))
	for k := range p.Values {
		data[k] = opts.Chart3DData{Value: []interface{}{
			finiteOr(p.Lons[k]), finiteOr(p.Lats[k]), finiteOr(p.Values[k]),
		}}
	}
	return data
}

// viewControlJS sets the camera from azimuth, elevation and zoom. Negative
// elevations look down onto the surface, matching the Surface3D widget.
func viewControlJS(p domain.Properties) string {
	alpha := -domain.ClampElevation(p.Elevation)
	beta := domain.NormalizeAzimuth(p.Azimuth)
	distance := defaultCameraDistance / domain.ClampZoom(p.Zoom)
	return fmt.Sprintf("%%MY_ECHARTS%%.setOption({grid3D: {viewControl: {alpha: %g, beta: %g, distance: %g}}});",
		alpha, beta, distance)
}

func finiteOr(v float64) interface{} {
	if !isFiniteSample(v) {
		return missing
	}
	return v
}

// dimension returns v bounded to (0, domain.MaxDimension], or def when v is
// unset.
func dimension(v, def int) int {
	if v <= 0 {
		return def
	}
	return min(v, domain.MaxDimension)
}

// isDark reports whether c has a relative luminance below one half.
func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	return lum < 0.5*0xffff
}
