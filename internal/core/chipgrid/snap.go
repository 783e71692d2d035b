package chipgrid

import (
	"math"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// Snap maps an arbitrary point to the nearest grid-aligned chip center.
//
// Latitude is snapped first; the longitude step is then derived at the
// snapped latitude, so the longitude lattice is a function of the grid
// row. Deriving it at the raw input latitude would break idempotence
// whenever snapping moves a point across rows. Repeated snapping is a
// fixed point: Snap(Snap(p)) == Snap(p).
func (g *Grid) Snap(p domain.GeoPoint) (domain.GeoPoint, error) {
	if err := g.checkLat(p.Lat); err != nil {
		return domain.GeoPoint{}, err
	}
	stepLat := MetersToDegreesLat(g.spec.SizeMeters)
	lat := math.Round(p.Lat/stepLat) * stepLat

	stepLng := MetersToDegreesLng(g.spec.SizeMeters, lat)
	lng := math.Round(p.Lng/stepLng) * stepLng

	return domain.GeoPoint{Lng: lng, Lat: lat}, nil
}
