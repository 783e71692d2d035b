// Package chipgrid implements the chip-grid geometry: meter/degree
// conversion, snapping arbitrary points to the fixed chip lattice,
// building chip footprint polygons, and resolving which grid chips cover
// a user-drawn polygon. All functions are pure; a Grid carries only the
// immutable chip spec and scan limits, so it is safe to share across
// goroutines without locking.
package chipgrid

import "math"

// metersPerDegree is the ground length of one degree of latitude.
// Meridians are near-uniformly spaced, so the ratio is treated as exact.
const metersPerDegree = 111320.0

// MetersToDegreesLat converts a ground distance to degrees of latitude.
func MetersToDegreesLat(meters float64) float64 {
	return meters / metersPerDegree
}

// MetersToDegreesLng converts a ground distance to degrees of longitude
// at the given latitude. Parallels shrink toward the poles, so the result
// grows with |lat| and diverges at ±90; callers guard the latitude range
// before converting.
func MetersToDegreesLng(meters, latDeg float64) float64 {
	return meters / (metersPerDegree * math.Cos(toRad(latDeg)))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
