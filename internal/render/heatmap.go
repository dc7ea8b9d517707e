package render

import (
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"go.ngs.io/surface3d/internal/domain"
)

// heatmapColors is the palette resolution of PNG previews.
const heatmapColors = 256

// HeatmapRenderer draws the grid top-down in index space as a PNG: column j
// runs left to right and row 0 sits at the bottom.
type HeatmapRenderer struct{}

func (*HeatmapRenderer) Format() string      { return FormatPNG }
func (*HeatmapRenderer) ContentType() string { return "image/png" }

// Render implements Renderer.
func (*HeatmapRenderer) Render(w io.Writer, p domain.Properties) error {
	lo, hi := colorRange(p)
	colors := Colors(p.Palette, heatmapColors)

	hm := plotter.NewHeatMap(gridXYZ{p}, sampled(colors))
	hm.Min, hm.Max = lo, hi
	hm.Underflow = colors[0]
	hm.Overflow = colors[len(colors)-1]
	hm.NaN = colorOr(p.NaNColor, mustHex(domain.DefaultNaNColor))
	hm.Rasterized = true

	plt := plot.New()
	plt.BackgroundColor = colorOr(p.BackgroundColor, mustHex(domain.DefaultBackgroundColor))
	plt.HideAxes()
	plt.Add(hm)

	// At 72 dpi one point is one pixel.
	width := vg.Length(dimension(p.Width, domain.DefaultWidth))
	height := vg.Length(dimension(p.Height, domain.DefaultHeight))
	canvas := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(72))
	plt.Draw(draw.New(canvas))

	_, err := vgimg.PngCanvas{Canvas: canvas}.WriteTo(w)
	return err
}

// gridXYZ exposes the row-major grid to gonum/plot. Non-finite samples read
// as NaN so they take the missing-value color.
type gridXYZ struct {
	p domain.Properties
}

func (g gridXYZ) Dims() (c, r int) { return g.p.NLon, g.p.NLat }

func (g gridXYZ) Z(c, r int) float64 {
	v := g.p.Values[g.p.Index(r, c)]
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func (g gridXYZ) X(c int) float64 { return float64(c) }
func (g gridXYZ) Y(r int) float64 { return float64(r) }
