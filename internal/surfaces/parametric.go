package surfaces

import (
	"math"

	"go.ngs.io/surface3d/internal/domain"
)

// parametric maps grid parameters (u along columns, v along rows) to a point.
// The third coordinate is the value.
type parametric struct {
	name, title string
	n           int
	uLo, uHi    float64
	vLo, vHi    float64
	style       func(p *domain.Properties)
	point       func(u, v float64) (x, y, z float64)
}

func init() {
	shapes := []parametric{
		{
			name: "rose", title: "Parametric Rose", n: 100,
			uLo: 0, uHi: 1,
			vLo: -(20.0 / 9) * math.Pi, vHi: 15 * math.Pi,
			style: func(p *domain.Properties) {
				p.Palette = "Reds"
				p.Elevation = -40
				p.Autorotate = true
				p.ColorbarTitle = "Surface Value"
			},
			point: rose,
		},
		{
			name: "vine", title: "Vine Helix", n: 100,
			uLo: 0, uHi: 2 * math.Pi,
			vLo: 0, vHi: 1,
			style: spinning("cool", 1),
			point: func(u, v float64) (x, y, z float64) {
				r := 1 + 0.3*math.Sin(5*v*math.Pi)
				return r * math.Cos(4*math.Pi*v), r * math.Sin(4*math.Pi*v), 5*v + 0.2*math.Sin(10*u)
			},
		},
		{
			name: "ripples", title: "Radial Ripples", n: 100,
			uLo: 0, uHi: 2 * math.Pi,
			vLo: 0, vHi: 1,
			style: spinning("gnuplot", 1),
			point: func(u, v float64) (x, y, z float64) {
				return 5 * v * math.Cos(u), 5 * v * math.Sin(u), math.Sin(3*u+10*v) * math.Exp(-3*v)
			},
		},
		{
			name: "lotus", title: "Lotus Flower", n: 100,
			uLo: 0, uHi: 2 * math.Pi,
			vLo: 0, vHi: 1,
			style: spinning("winter", 1),
			point: func(u, v float64) (x, y, z float64) {
				const k, radius = 5, 2
				r := radius * math.Sin(k*u) * v
				return r * math.Cos(u), r * math.Sin(u), 3 * v * v
			},
		},
		{
			name: "heart", title: "Heart", n: 70,
			uLo: 0, uHi: 2 * math.Pi,
			vLo: 0, vHi: math.Pi,
			style: func(p *domain.Properties) {
				spinning("Reds_r", 0.8)(p)
				p.ShowColorbar = false
				p.Elevation = 60
				p.Azimuth = -30
			},
			point: heart,
		},
	}

	for _, s := range shapes {
		point := s.point
		uLo, uHi, vLo, vHi := s.uLo, s.uHi, s.vLo, s.vHi
		register(Preset{
			Name:  s.name,
			Title: s.title,
			Kind:  KindParametric,
			NLat:  s.n,
			NLon:  s.n,
			style: s.style,
			mesh: func(nLat, nLon int) (lons, lats, values []float64) {
				us := linspace(uLo, uHi, nLon)
				vs := linspace(vLo, vHi, nLat)
				n := nLat * nLon
				lons = make([]float64, 0, n)
				lats = make([]float64, 0, n)
				values = make([]float64, 0, n)
				for _, v := range vs {
					for _, u := range us {
						x, y, z := point(u, v)
						lons = append(lons, x)
						lats = append(lats, y)
						values = append(values, z)
					}
				}
				return lons, lats, values
			},
		})
	}
}

func spinning(palette string, zoom float64) func(p *domain.Properties) {
	return func(p *domain.Properties) {
		p.Palette = palette
		p.Autorotate = true
		p.Zoom = zoom
	}
}

// rose is the parametric rose: u is the radial parameter in [0, 1] and v
// the winding angle.
func rose(u, theta float64) (x, y, z float64) {
	phi := (math.Pi / 2) * math.Exp(-theta/(8*math.Pi))
	y1 := 1.9565284531299512 * u * u * square(1.2768869870150188*u-1) * math.Sin(phi)
	petal := 1 - square(1.25*square(1-positiveMod(3.6*theta, 2*math.Pi)/math.Pi)-0.25)/2
	r := petal * (u*math.Sin(phi) + y1*math.Cos(phi))
	return r * math.Sin(theta), r * math.Cos(theta), petal * (u*math.Cos(phi) - y1*math.Sin(phi))
}

// heart puts the vertical axis in the value so the shape spins upright.
func heart(u, v float64) (x, y, z float64) {
	sv := math.Sin(v)
	x = sv * (15*math.Sin(u) - 4*math.Sin(3*u))
	depth := sv * (15*math.Cos(u) - 5*math.Cos(2*u) - 2*math.Cos(3*u) - math.Cos(4*u))
	height := 8 * math.Cos(v)
	return x, depth, height
}

func square(x float64) float64 { return x * x }

// positiveMod returns a mod b in (0, b].
func positiveMod(a, b float64) float64 {
	c := math.Mod(a, b)
	if c <= 0 {
		c += b
	}
	return c
}
