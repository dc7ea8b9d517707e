package surfaces

import (
	"math"

	"go.ngs.io/surface3d/internal/domain"
)

// funcSurface is a height field z = f(x, y).
type funcSurface struct {
	name, title string
	extent      float64 // x and y span [-extent, extent]
	n           int
	palette     string
	f           func(x, y float64) float64
}

// gallery styles match the "best surfaces" set: spinning, slightly zoomed out.
func gallery(palette string) func(p *domain.Properties) {
	return func(p *domain.Properties) {
		p.Palette = palette
		p.Autorotate = true
		p.Zoom = 0.8
	}
}

func init() {
	best := []funcSurface{
		{"wave-hills", "Smooth Wave Hills", 5, 100, "Spectral", func(x, y float64) float64 {
			return math.Sin(2*x) * math.Cos(2*y)
		}},
		{"circular-ripple", "Circular Ripple", 5, 100, "gist_earth", func(x, y float64) float64 {
			r := math.Sqrt(x*x + y*y + 1e-6)
			return math.Sin(3*math.Sqrt(x*x+y*y)) / r
		}},
		{"mexican-hat", "Mexican Hat", 5, 100, "Spectral", func(x, y float64) float64 {
			r2 := x*x + y*y
			return (1 - r2) * math.Exp(-r2/2)
		}},
		{"sin-cos", "sin(X)*cos(Y)", 5, 100, "Spectral", func(x, y float64) float64 {
			return math.Sin(x) * math.Cos(y)
		}},
		{"radial-sine", "sin(sqrt(X^2+Y^2))", 5, 50, "viridis", func(x, y float64) float64 {
			return math.Sin(math.Sqrt(x*x + y*y))
		}},
		{"damped-sine-cosine", "Damped Sine-Cosine", 5, 100, "Spectral", func(x, y float64) float64 {
			return math.Exp(-0.1*(x*x+y*y)) * math.Sin(2*x) * math.Cos(2*y)
		}},
		{"tanh-tanh", "tanh(X)*tanh(Y)", 5, 100, "Spectral", func(x, y float64) float64 {
			return math.Tanh(x) * math.Tanh(y)
		}},
		{"sin-sin-cos", "sin(X)*sin(Y)+cos(X*Y)", 5, 100, "Spectral", func(x, y float64) float64 {
			return math.Sin(x)*math.Sin(y) + math.Cos(x*y)
		}},
	}
	for _, s := range best {
		registerFunc(s, gallery(s.palette))
	}

	// Interactive plotter presets: smaller extent, terrain palette.
	plotter := []funcSurface{
		{"saddle", "X^2 - Y^2", 3, 50, "terrain", func(x, y float64) float64 {
			return x*x - y*y
		}},
		{"gaussian-ridge", "sin(X)*exp(-Y^2)", 3, 50, "terrain", func(x, y float64) float64 {
			return math.Sin(x) * math.Exp(-y*y)
		}},
		{"cos-r2", "cos(X^2+Y^2)", 3, 50, "terrain", func(x, y float64) float64 {
			return math.Cos(x*x + y*y)
		}},
		{"monkey-saddle", "X^3 - 3*X*Y^2", 3, 50, "terrain", func(x, y float64) float64 {
			return x*x*x - 3*x*y*y
		}},
	}
	for _, s := range plotter {
		palette := s.palette
		registerFunc(s, func(p *domain.Properties) { p.Palette = palette })
	}
}

func registerFunc(s funcSurface, style func(p *domain.Properties)) {
	f, extent := s.f, s.extent
	register(Preset{
		Name:  s.name,
		Title: s.title,
		Kind:  KindFunction,
		NLat:  s.n,
		NLon:  s.n,
		style: style,
		mesh: func(nLat, nLon int) (lons, lats, values []float64) {
			lons, lats = domain.Meshgrid(linspace(-extent, extent, nLon), linspace(-extent, extent, nLat))
			values = make([]float64, len(lons))
			for k := range values {
				values[k] = f(lons[k], lats[k])
			}
			return lons, lats, values
		},
	})
}
