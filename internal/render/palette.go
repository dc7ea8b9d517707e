package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// FallbackPalette is used for palette names the registry does not know.
const FallbackPalette = "turbo"

// stop is one anchor of a piecewise linear color ramp.
type stop struct {
	pos float64
	c   color.NRGBA
}

// ramp is a palette.ColorMap interpolating linearly between stops in sRGB.
type ramp struct {
	stops    []stop
	min, max float64
	alpha    float64
}

// evenRamp places the hex colors at equal spacing over [0, 1].
func evenRamp(hexes ...string) *ramp {
	stops := make([]stop, len(hexes))
	for i, h := range hexes {
		stops[i] = stop{pos: float64(i) / float64(len(hexes)-1), c: mustHex(h)}
	}
	return &ramp{stops: stops, max: 1, alpha: 1}
}

// colorRamp builds a ramp from the colors of a gonum palette.
func colorRamp(p palette.Palette) *ramp {
	colors := p.Colors()
	stops := make([]stop, len(colors))
	for i, c := range colors {
		stops[i] = stop{pos: float64(i) / float64(len(colors)-1), c: color.NRGBAModel.Convert(c).(color.NRGBA)}
	}
	return &ramp{stops: stops, max: 1, alpha: 1}
}

// At implements palette.ColorMap.
func (r *ramp) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < r.min:
		return nil, palette.ErrUnderflow
	case v > r.max:
		return nil, palette.ErrOverflow
	}

	t := 0.0
	if r.max > r.min {
		t = (v - r.min) / (r.max - r.min)
	}
	i := sort.Search(len(r.stops), func(i int) bool { return r.stops[i].pos >= t })
	if i == 0 {
		return r.withAlpha(r.stops[0].c), nil
	}
	if i == len(r.stops) {
		return r.withAlpha(r.stops[i-1].c), nil
	}
	a, b := r.stops[i-1], r.stops[i]
	f := (t - a.pos) / (b.pos - a.pos)
	return r.withAlpha(color.NRGBA{
		R: lerp8(a.c.R, b.c.R, f),
		G: lerp8(a.c.G, b.c.G, f),
		B: lerp8(a.c.B, b.c.B, f),
		A: 255,
	}), nil
}

func (r *ramp) withAlpha(c color.NRGBA) color.NRGBA {
	c.A = uint8(math.Round(255 * r.alpha))
	return c
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func (r *ramp) Max() float64 { return r.max }
func (r *ramp) SetMax(v float64) { r.max = v }
func (r *ramp) Min() float64 { return r.min }
func (r *ramp) SetMin(v float64) { r.min = v }
func (r *ramp) Alpha() float64 { return r.alpha }
func (r *ramp) SetAlpha(alpha float64) { r.alpha = alpha }

// Palette implements palette.ColorMap.
func (r *ramp) Palette(n int) palette.Palette {
	return sampled(sample(r, n))
}

type sampled []color.Color

func (s sampled) Colors() []color.Color { return s }

// palettes maps normalized names to constructors. Color maps are stateful
// (min, max, alpha), so every lookup gets a fresh one.
var palettes = map[string]func() palette.ColorMap{
	"viridis": func() palette.ColorMap {
		return evenRamp("#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725")
	},
	"plasma": func() palette.ColorMap {
		return evenRamp("#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921")
	},
	"inferno": func() palette.ColorMap {
		return evenRamp("#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4")
	},
	"magma": func() palette.ColorMap {
		return evenRamp("#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf")
	},
	"cividis": func() palette.ColorMap {
		return evenRamp("#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838")
	},
	"turbo": func() palette.ColorMap {
		return evenRamp("#30123b", "#4145ab", "#4675ed", "#39a2fc", "#1bcfd4", "#24eca6", "#61fc6c", "#a4fc3b",
			"#d1e834", "#f3c63a", "#fe9b2d", "#f36315", "#d93806", "#b11901", "#7a0403")
	},
	"terrain": func() palette.ColorMap {
		return &ramp{stops: []stop{
			{0, mustHex("#333399")},
			{0.15, mustHex("#0099ff")},
			{0.25, mustHex("#00cc66")},
			{0.5, mustHex("#ffff99")},
			{0.75, mustHex("#805c54")},
			{1, mustHex("#ffffff")},
		}, max: 1, alpha: 1}
	},
	"gist_earth": func() palette.ColorMap {
		return &ramp{stops: []stop{
			{0, mustHex("#000000")},
			{0.15, mustHex("#1c3f78")},
			{0.3, mustHex("#2e7a77")},
			{0.45, mustHex("#4a9a4a")},
			{0.6, mustHex("#8aa64f")},
			{0.75, mustHex("#b9a85e")},
			{0.9, mustHex("#d9b8a0")},
			{1, mustHex("#fdfbfb")},
		}, max: 1, alpha: 1}
	},
	"cool":   func() palette.ColorMap { return evenRamp("#00ffff", "#ff00ff") },
	"winter": func() palette.ColorMap { return evenRamp("#0000ff", "#00ff80") },
	"bwr":    func() palette.ColorMap { return evenRamp("#0000ff", "#ffffff", "#ff0000") },
	"greys":  func() palette.ColorMap { return evenRamp("#ffffff", "#000000") },
	"afmhot": func() palette.ColorMap { return evenRamp("#000000", "#800000", "#ff8000", "#ffff80", "#ffffff") },
	"gnuplot": func() palette.ColorMap {
		return evenRamp("#000000", "#5a01b4", "#8004ff", "#9c0db4", "#b42000", "#c93e00", "#dd6b00", "#eeab00", "#ffff00")
	},
	"reds": func() palette.ColorMap {
		return evenRamp("#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d")
	},
	"ylorbr": func() palette.ColorMap {
		return evenRamp("#ffffe5", "#fff7bc", "#fee391", "#fec44f", "#fe9929", "#ec7014", "#cc4c02", "#993404", "#662506")
	},
	"spectral": func() palette.ColorMap {
		return evenRamp("#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2")
	},
	"rdylgn": func() palette.ColorMap {
		return evenRamp("#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b", "#ffffbf", "#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837")
	},

	"heat":    func() palette.ColorMap { return colorRamp(palette.Heat(64, 1)) },
	"rainbow": func() palette.ColorMap { return colorRamp(palette.Rainbow(64, palette.Blue, palette.Red, 1, 1, 1)) },

	"coolwarm":           func() palette.ColorMap { return moreland.SmoothBlueRed() },
	"purple_orange":      func() palette.ColorMap { return moreland.SmoothPurpleOrange() },
	"green_purple":       func() palette.ColorMap { return moreland.SmoothGreenPurple() },
	"blue_tan":           func() palette.ColorMap { return moreland.SmoothBlueTan() },
	"green_red":          func() palette.ColorMap { return moreland.SmoothGreenRed() },
	"blackbody":          moreland.BlackBody,
	"extended_blackbody": moreland.ExtendedBlackBody,
	"kindlmann":          moreland.Kindlmann,
	"extended_kindlmann": moreland.ExtendedKindlmann,
}

// PaletteNames returns the normalized palette names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalizePalette lowercases name, strips a size suffix ("Turbo256") and
// reports a "_r" reversal suffix.
func normalizePalette(name string) (base string, reversed bool) {
	base = strings.ToLower(strings.TrimSpace(name))
	if strings.HasSuffix(base, "_r") {
		base, reversed = strings.TrimSuffix(base, "_r"), true
	}
	base = strings.TrimRight(base, "0123456789")
	base = strings.ReplaceAll(base, "-", "_")
	return base, reversed
}

// LookupPalette resolves name to a color map over [0, 1]. ok is false for
// names the registry does not know.
func LookupPalette(name string) (cmap palette.ColorMap, ok bool) {
	base, reversed := normalizePalette(name)
	build, ok := palettes[base]
	if !ok {
		return nil, false
	}
	cmap = build()
	cmap.SetMin(0)
	cmap.SetMax(1)
	if reversed {
		cmap = palette.Reverse(cmap)
	}
	return cmap, true
}

// ColorMap resolves name like LookupPalette and falls back to
// FallbackPalette with a warning for unknown names.
func ColorMap(name string) palette.ColorMap {
	if cmap, ok := LookupPalette(name); ok {
		return cmap
	}
	slog.Warn("unknown palette, using fallback", "palette", name, "fallback", FallbackPalette)
	cmap, _ := LookupPalette(FallbackPalette)
	return cmap
}

// Colors samples n evenly spaced colors of the named palette, low to high.
func Colors(name string, n int) []color.Color {
	return sample(ColorMap(name), n)
}

// HexColors is Colors formatted as "#rrggbb" strings.
func HexColors(name string, n int) []string {
	colors := Colors(name, n)
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = Hex(c)
	}
	return out
}

// sample evaluates cmap at n points spanning [Min, Max].
func sample(cmap palette.ColorMap, n int) []color.Color {
	if n < 1 {
		return nil
	}
	lo, hi := cmap.Min(), cmap.Max()
	out := make([]color.Color, n)
	for i := range out {
		v := hi
		if n > 1 && i < n-1 {
			v = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		c, err := cmap.At(v)
		if err != nil {
			// Only reachable for degenerate maps; keep the slot opaque black.
			c = color.Black
		}
		out[i] = c
	}
	return out
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func mustHex(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
