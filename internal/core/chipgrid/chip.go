package chipgrid

import "github.com/geolabel/geolabel/internal/core/domain"

// ChipPolygon builds the square ground footprint of a chip centered on the
// given point. The ring is counter-clockwise starting at the southwest
// corner (SW → SE → NE → NW → SW) with the first vertex repeated last;
// both properties are part of the GeoJSON wire contract and must not
// change.
func (g *Grid) ChipPolygon(center domain.GeoPoint) (domain.Polygon, error) {
	if err := g.checkLat(center.Lat); err != nil {
		return domain.Polygon{}, err
	}
	half := g.spec.SizeMeters / 2
	halfLat := MetersToDegreesLat(half)
	halfLng := MetersToDegreesLng(half, center.Lat)

	sw := domain.GeoPoint{Lng: center.Lng - halfLng, Lat: center.Lat - halfLat}
	se := domain.GeoPoint{Lng: center.Lng + halfLng, Lat: center.Lat - halfLat}
	ne := domain.GeoPoint{Lng: center.Lng + halfLng, Lat: center.Lat + halfLat}
	nw := domain.GeoPoint{Lng: center.Lng - halfLng, Lat: center.Lat + halfLat}

	return domain.Polygon{Ring: []domain.GeoPoint{sw, se, ne, nw, sw}}, nil
}
