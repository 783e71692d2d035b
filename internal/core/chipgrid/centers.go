package chipgrid

import (
	"fmt"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// Centers enumerates chip centers covering a bounding box.
//
// The scan starts half a step inside the southwest corner and advances by
// full steps while strictly below the far bound, so a trailing partial
// chip-width of the box is left uncovered rather than wrapped. The
// latitude step is constant; the longitude step is re-derived at each
// row's latitude, because a single global step would under- or over-cover
// a tall box as parallels tighten toward the poles. Output is row-major:
// increasing latitude, increasing longitude within a row.
func (g *Grid) Centers(bbox domain.BoundingBox) ([]domain.GeoPoint, error) {
	if !bbox.Valid() {
		return nil, fmt.Errorf("bounds %+v: %w", bbox, domain.ErrInvalidBounds)
	}
	if err := g.checkLat(bbox.MinLat); err != nil {
		return nil, err
	}
	if err := g.checkLat(bbox.MaxLat); err != nil {
		return nil, err
	}

	stepLat := MetersToDegreesLat(g.spec.SizeMeters)

	var centers []domain.GeoPoint
	for lat := bbox.MinLat + stepLat/2; lat < bbox.MaxLat; lat += stepLat {
		stepLng := MetersToDegreesLng(g.spec.SizeMeters, lat)
		for lng := bbox.MinLng + stepLng/2; lng < bbox.MaxLng; lng += stepLng {
			if len(centers) >= g.maxChips {
				return nil, fmt.Errorf("scan over %+v passed %d candidates: %w",
					bbox, g.maxChips, domain.ErrTooManyChips)
			}
			centers = append(centers, domain.GeoPoint{Lng: lng, Lat: lat})
		}
	}
	return centers, nil
}
