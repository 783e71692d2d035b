package chipgrid

import "github.com/geolabel/geolabel/internal/core/domain"

// CoveredChip is one grid chip overlapping a user polygon: its footprint
// and the grid center it was built from.
type CoveredChip struct {
	Center   domain.GeoPoint `json:"center"`
	Geometry domain.Polygon  `json:"geometry"`
}

// Coverage returns the grid chips whose footprint intersects the given
// polygon, in scan order.
//
// The polygon's tight bounding box is expanded by one full chip footprint
// per side (converted at the box's vertical midpoint) before scanning, so
// chips whose centers fall just outside the tight box but whose area
// still overlaps the polygon are not missed. Candidates that merely touch
// the polygon at a single point are dropped.
func (g *Grid) Coverage(poly domain.Polygon) ([]CoveredChip, error) {
	if err := ValidatePolygon(poly); err != nil {
		return nil, err
	}

	bbox := poly.BoundingBox()
	midLat := (bbox.MinLat + bbox.MaxLat) / 2
	padLat := MetersToDegreesLat(g.spec.SizeMeters)
	padLng := MetersToDegreesLng(g.spec.SizeMeters, midLat)

	scan := domain.BoundingBox{
		MinLng: bbox.MinLng - padLng,
		MinLat: bbox.MinLat - padLat,
		MaxLng: bbox.MaxLng + padLng,
		MaxLat: bbox.MaxLat + padLat,
	}

	centers, err := g.Centers(scan)
	if err != nil {
		return nil, err
	}

	var out []CoveredChip
	for _, c := range centers {
		chip, err := g.ChipPolygon(c)
		if err != nil {
			return nil, err
		}
		if polygonsIntersect(chip, poly) {
			out = append(out, CoveredChip{Center: c, Geometry: chip})
		}
	}
	return out, nil
}
