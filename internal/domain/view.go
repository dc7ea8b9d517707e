package domain

import "math"

// Logical view ranges used by interactive renderers. The model stores
// whatever it is given; these helpers are for renderers that choose to
// normalize.
const (
	MinElevation = -90.0
	MaxElevation = 90.0
	MinZoom      = 0.5
	MaxZoom      = 8.0

	// autorotateDegPerFrame is the azimuth step per animation frame at
	// rotation_speed 1.
	autorotateDegPerFrame = 0.5
	// nominalFrameRate is the animation rate autorotation steps assume.
	nominalFrameRate = 60
)

// NormalizeAzimuth wraps deg into [0, 360).
func NormalizeAzimuth(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// Tiny negative inputs round up to exactly 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// ClampElevation limits deg to [-90, 90].
func ClampElevation(deg float64) float64 {
	return math.Max(MinElevation, math.Min(MaxElevation, deg))
}

// ClampZoom limits z to [0.5, 8].
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// AutorotateStep returns the azimuth after one animation frame.
func AutorotateStep(azimuth, rotationSpeed float64) float64 {
	return NormalizeAzimuth(azimuth + rotationSpeed*autorotateDegPerFrame)
}

// AutorotateRate returns the autorotation speed in degrees per second at the
// nominal frame rate.
func AutorotateRate(rotationSpeed float64) float64 {
	return rotationSpeed * autorotateDegPerFrame * nominalFrameRate
}
