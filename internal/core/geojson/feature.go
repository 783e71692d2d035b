// Package geojson carries the wire format shared with the map layer and
// the label persistence collaborators: GeoJSON Polygon geometries in
// [longitude, latitude] order with closed exterior rings and no holes.
package geojson

import (
	"fmt"
	"time"

	"github.com/geolabel/geolabel/internal/core/chipgrid"
	"github.com/geolabel/geolabel/internal/core/domain"
)

const (
	TypePolygon           = "Polygon"
	TypeFeature           = "Feature"
	TypeFeatureCollection = "FeatureCollection"
)

// Geometry is a GeoJSON Polygon geometry object.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Feature pairs a geometry with identifying properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is the render payload consumed by the map layer.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// FromPolygon encodes a domain polygon as a GeoJSON Polygon geometry.
func FromPolygon(p domain.Polygon) Geometry {
	coords := make([][2]float64, len(p.Ring))
	for i, v := range p.Ring {
		coords[i] = [2]float64{v.Lng, v.Lat}
	}
	return Geometry{Type: TypePolygon, Coordinates: [][][2]float64{coords}}
}

// ToPolygon decodes a GeoJSON Polygon geometry into a domain polygon. An
// unclosed ring is closed; holes and non-Polygon types are rejected.
func ToPolygon(g Geometry) (domain.Polygon, error) {
	if g.Type != TypePolygon {
		return domain.Polygon{}, fmt.Errorf("geometry type %q, want %q: %w",
			g.Type, TypePolygon, domain.ErrInvalidPolygon)
	}
	if len(g.Coordinates) == 0 {
		return domain.Polygon{}, fmt.Errorf("geometry has no rings: %w", domain.ErrInvalidPolygon)
	}
	if len(g.Coordinates) > 1 {
		return domain.Polygon{}, fmt.Errorf("geometry has %d rings, holes are not supported: %w",
			len(g.Coordinates), domain.ErrInvalidPolygon)
	}

	raw := g.Coordinates[0]
	ring := make([]domain.GeoPoint, len(raw))
	for i, c := range raw {
		ring[i] = domain.GeoPoint{Lng: c[0], Lat: c[1]}
	}
	if n := len(ring); n >= 3 && ring[0] != ring[n-1] {
		ring = append(ring, ring[0])
	}
	return domain.Polygon{Ring: ring}, nil
}

// ChipCollection converts chips to a render FeatureCollection. Properties
// carry the chip id and its positive/negative type.
func ChipCollection(chips []domain.Chip) FeatureCollection {
	features := make([]Feature, 0, len(chips))
	for _, c := range chips {
		features = append(features, Feature{
			Type:     TypeFeature,
			Geometry: FromPolygon(c.Geometry),
			Properties: map[string]any{
				"id":        c.ID,
				"type":      string(c.Type),
				"createdAt": c.CreatedAt.UTC().Format(time.RFC3339),
			},
		})
	}
	return FeatureCollection{Type: TypeFeatureCollection, Features: features}
}

// AnnotationCollection converts annotation polygons to a render
// FeatureCollection. Properties carry the polygon id and its owning chip.
func AnnotationCollection(polys []domain.AnnotationPolygon) FeatureCollection {
	features := make([]Feature, 0, len(polys))
	for _, p := range polys {
		features = append(features, Feature{
			Type:     TypeFeature,
			Geometry: FromPolygon(p.Geometry),
			Properties: map[string]any{
				"id":        p.ID,
				"chipId":    p.ChipID,
				"createdAt": p.CreatedAt.UTC().Format(time.RFC3339),
			},
		})
	}
	return FeatureCollection{Type: TypeFeatureCollection, Features: features}
}

// CoverageCollection converts resolved grid chips to a FeatureCollection.
// These chips are unsaved candidates so they carry only their center.
func CoverageCollection(chips []chipgrid.CoveredChip) FeatureCollection {
	features := make([]Feature, 0, len(chips))
	for _, c := range chips {
		features = append(features, Feature{
			Type:     TypeFeature,
			Geometry: FromPolygon(c.Geometry),
			Properties: map[string]any{
				"center_lng": c.Center.Lng,
				"center_lat": c.Center.Lat,
			},
		})
	}
	return FeatureCollection{Type: TypeFeatureCollection, Features: features}
}
