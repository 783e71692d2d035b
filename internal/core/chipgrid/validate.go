package chipgrid

import (
	"fmt"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// ValidatePolygon rejects degenerate rings before they reach a grid scan:
// unclosed or too-short rings, rings with fewer than three distinct
// vertices, zero-area rings, and self-intersecting rings. A degenerate
// input must fail fast rather than silently produce zero or garbage
// chips.
func ValidatePolygon(p domain.Polygon) error {
	if !p.Closed() {
		return fmt.Errorf("ring must be closed with at least 4 vertices, got %d: %w",
			len(p.Ring), domain.ErrInvalidPolygon)
	}

	distinct := distinctVertices(p.Ring)
	if distinct < 3 {
		return fmt.Errorf("ring has %d distinct vertices, need 3: %w",
			distinct, domain.ErrInvalidPolygon)
	}

	if ringArea(p.Ring) == 0 {
		return fmt.Errorf("ring has zero area: %w", domain.ErrInvalidPolygon)
	}

	if selfIntersects(p.Ring) {
		return fmt.Errorf("ring self-intersects: %w", domain.ErrInvalidPolygon)
	}

	return nil
}

func distinctVertices(ring []domain.GeoPoint) int {
	seen := make(map[domain.GeoPoint]struct{}, len(ring))
	for _, v := range ring[:len(ring)-1] {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// ringArea is the signed shoelace area in square degrees. Positive for
// counter-clockwise rings.
func ringArea(ring []domain.GeoPoint) float64 {
	var sum float64
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		sum += a.Lng*b.Lat - b.Lng*a.Lat
	}
	return sum / 2
}

// selfIntersects reports whether any two non-adjacent edges of the ring
// properly cross. Adjacent edges share a vertex and are skipped.
func selfIntersects(ring []domain.GeoPoint) bool {
	n := len(ring) - 1 // edges
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // first and last edge are adjacent
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}
