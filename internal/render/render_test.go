package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/surface3d/internal/domain"
)

// testSurface returns a 2x3 grid with one missing sample.
func testSurface() domain.Properties {
	p := domain.DefaultProperties()
	p.NLat, p.NLon = 2, 3
	p.Lons = domain.FloatList{0, 1, 2, 0, 1, 2}
	p.Lats = domain.FloatList{10, 10, 10, 11, 11, 11}
	p.Values = domain.FloatList{1, 2, 3, 4, math.NaN(), 6}
	p.Width, p.Height = 90, 60
	return p
}

func ptr(v float64) *float64 { return &v }

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry(Options{})
	assert.Equal(t, []string{"colorbar", "csv", "html", "json", "png"}, reg.Formats())

	for _, format := range reg.Formats() {
		r, err := reg.Lookup(format)
		require.NoError(t, err)
		assert.Equal(t, format, r.Format())
		assert.NotEmpty(t, r.ContentType())
	}

	_, err := reg.Lookup("svg")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistry_RenderRejectsMalformedGrid(t *testing.T) {
	reg := DefaultRegistry(Options{})
	p := testSurface()
	p.Values = p.Values[:5]

	for _, format := range reg.Formats() {
		var buf bytes.Buffer
		err := reg.Render(&buf, format, p)
		assert.ErrorIs(t, err, domain.ErrShapeMismatch, format)
		assert.Zero(t, buf.Len(), format)
	}

	var buf bytes.Buffer
	assert.ErrorIs(t, reg.Render(&buf, "svg", testSurface()), ErrUnknownFormat)
}

func TestColorRange(t *testing.T) {
	tests := []struct {
		name       string
		values     domain.FloatList
		vmin, vmax *float64
		lo, hi     float64
	}{
		{"computed", domain.FloatList{2, math.NaN(), 5}, nil, nil, 2, 5},
		{"explicit", domain.FloatList{2, 5}, ptr(0), ptr(10), 0, 10},
		{"no finite values", domain.FloatList{math.NaN(), math.Inf(1)}, nil, nil, 0, 1},
		{"inverted", domain.FloatList{1}, ptr(4), ptr(-4), -4, 4},
		{"constant", domain.FloatList{3, 3}, nil, nil, 2.5, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.DefaultProperties()
			p.Values, p.VMin, p.VMax = tt.values, tt.vmin, tt.vmax
			lo, hi := colorRange(p)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, testSurface()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0, nil, 6.0}, got["values"])
	assert.Equal(t, 2.0, got["n_lat"])
	assert.Equal(t, "Turbo256", got["palette"])
	assert.Nil(t, got["vmin"])
}

func TestCSVRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVRenderer{}.Render(&buf, testSurface()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"lon", "lat", "value"}, rows[0])
	assert.Equal(t, "", rows[5][2])
}

func TestEChartsRenderer(t *testing.T) {
	r := &EChartsRenderer{}
	assert.Equal(t, "text/html; charset=utf-8", r.ContentType())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testSurface()))
	html := buf.String()

	assert.Contains(t, html, "echarts-gl")
	assert.Contains(t, html, `"type":"surface"`)
	assert.Contains(t, html, `"-"`)
	assert.Contains(t, html, "goecharts_surface3d.setOption({grid3D: {viewControl: {alpha: 30, beta: 45, distance: 200}}});")
	assert.Contains(t, html, "90px")
	assert.NotContains(t, html, "%MY_ECHARTS%")
}

func TestEChartsRenderer_Options(t *testing.T) {
	p := testSurface()
	p.ShowColorbar = false
	p.Autorotate = true
	p.RotationSpeed = 2
	p.BackgroundColor = "#ffffff"

	chart := (&EChartsRenderer{AssetsHost: "http://localhost/assets/"}).Chart(p)
	assert.False(t, bool(*chart.VisualMapList[0].Show))
	assert.Equal(t, float32(1), chart.VisualMapList[0].Min)
	assert.Equal(t, float32(6), chart.VisualMapList[0].Max)
	assert.Len(t, chart.VisualMapList[0].InRange.Color, visualMapColors)
	assert.True(t, bool(*chart.Grid3D.ViewControl.AutoRotate))
	assert.Equal(t, float32(60), chart.Grid3D.ViewControl.AutoRotateSpeed)
	assert.Equal(t, "white", chart.Initialization.Theme)
	assert.Equal(t, "http://localhost/assets/", chart.Initialization.AssetsHost)

	data := surfaceData(p)
	require.Len(t, data, 6)
	assert.Equal(t, []any{2.0, 10.0, 3.0}, data[2].Value)
	assert.Equal(t, []any{1.0, 11.0, "-"}, data[4].Value)
}

func TestEChartsRenderer_MissingSamples(t *testing.T) {
	p := testSurface()
	p.NaNColor = "#ff00ff"

	chart := (&EChartsRenderer{}).Chart(p)
	require.Len(t, chart.MultiSeries, 2)
	gaps := chart.MultiSeries[1]
	assert.Equal(t, "scatter3D", gaps.Type)
	require.NotNil(t, gaps.ItemStyle)
	assert.Equal(t, "#ff00ff", gaps.ItemStyle.Color)
	assert.Equal(t, []opts.Chart3DData{{Value: []any{1.0, 11.0, 1.0}}}, gaps.Data)

	var buf bytes.Buffer
	require.NoError(t, chart.Render(&buf))
	assert.Contains(t, buf.String(), "setOption({visualMap: {seriesIndex: 0}});")

	// A complete grid has no missing-value layer.
	p.Values = domain.FloatList{1, 2, 3, 4, 5, 6}
	chart = (&EChartsRenderer{}).Chart(p)
	assert.Len(t, chart.MultiSeries, 1)
}

func TestViewControlJS(t *testing.T) {
	p := domain.DefaultProperties()
	p.Azimuth, p.Elevation, p.Zoom = -30, 120, 4
	assert.Equal(t,
		"%MY_ECHARTS%.setOption({grid3D: {viewControl: {alpha: -90, beta: 330, distance: 50}}});",
		viewControlJS(p))
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "not a PNG")
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestHeatmapRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&HeatmapRenderer{}).Render(&buf, testSurface()))

	img := decodePNG(t, buf.Bytes())
	assert.Equal(t, image.Rect(0, 0, 90, 60), img.Bounds())
}

func TestHeatmapRenderer_AllMissing(t *testing.T) {
	p := testSurface()
	for k := range p.Values {
		p.Values[k] = math.NaN()
	}
	p.Width, p.Height = 0, 0

	var buf bytes.Buffer
	require.NoError(t, (&HeatmapRenderer{}).Render(&buf, p))
	img := decodePNG(t, buf.Bytes())
	assert.Equal(t, domain.DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, domain.DefaultHeight, img.Bounds().Dy())
}

func TestColorbarRenderer(t *testing.T) {
	p := testSurface()
	p.Height = 200
	p.Palette = "greys"

	var buf bytes.Buffer
	require.NoError(t, (&ColorbarRenderer{}).Render(&buf, p))
	img := decodePNG(t, buf.Bytes())
	assert.Equal(t, image.Rect(0, 0, colorbarWidth, 200), img.Bounds())

	assertNear(t, color.NRGBA{R: 10, G: 10, B: 10, A: 255}, img.At(2, 2))
	// Greys runs white to black, so black sits at the top of the bar and
	// white at the bottom.
	assertNear(t, color.NRGBA{A: 255}, img.At(colorbarBarX+colorbarBarW/2, 31))
	assertNear(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.At(colorbarBarX+colorbarBarW/2, 168))
}

func TestColorbarRenderer_Hidden(t *testing.T) {
	p := testSurface()
	p.ShowColorbar = false

	var buf bytes.Buffer
	assert.ErrorIs(t, (&ColorbarRenderer{}).Render(&buf, p), ErrNothingToRender)
	assert.Zero(t, buf.Len())
}

func assertNear(t *testing.T, want color.NRGBA, got color.Color) {
	t.Helper()
	g := color.NRGBAModel.Convert(got).(color.NRGBA)
	for _, d := range [][2]uint8{{want.R, g.R}, {want.G, g.G}, {want.B, g.B}, {want.A, g.A}} {
		if math.Abs(float64(d[0])-float64(d[1])) > 6 {
			t.Errorf("color = %v, want %v", g, want)
			return
		}
	}
}

func TestDimension(t *testing.T) {
	assert.Equal(t, domain.DefaultWidth, dimension(0, domain.DefaultWidth))
	assert.Equal(t, domain.DefaultWidth, dimension(-5, domain.DefaultWidth))
	assert.Equal(t, 320, dimension(320, domain.DefaultWidth))
	assert.Equal(t, domain.MaxDimension, dimension(200000, domain.DefaultWidth))
}

func TestIsDark(t *testing.T) {
	assert.True(t, isDark(mustHex("#0a0a0a")))
	assert.False(t, isDark(mustHex("#ffffff")))
	assert.Equal(t, "#0a0a0a", Hex(mustHex("#0A0A0A")))
}

func TestRenderFile(t *testing.T) {
	reg := DefaultRegistry(Options{})
	dir := t.TempDir()

	assert.Equal(t, "wave.html", FileName("wave", FormatHTML))
	assert.Equal(t, "wave_colorbar.png", FileName("wave", FormatColorbar))
	assert.Equal(t, "wave.svg", FileName("wave", "svg"))

	path := filepath.Join(dir, FileName("surface", FormatJSON))
	require.NoError(t, reg.RenderFile(path, FormatJSON, testSurface()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"n_lon":3`)

	bad := testSurface()
	bad.Lons = bad.Lons[:1]
	missing := filepath.Join(dir, "bad.json")
	assert.ErrorIs(t, reg.RenderFile(missing, FormatJSON, bad), domain.ErrShapeMismatch)
	assert.NoFileExists(t, missing)
}
