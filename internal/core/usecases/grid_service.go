package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/geolabel/geolabel/internal/core/chipgrid"
	"github.com/geolabel/geolabel/internal/core/domain"
	"github.com/geolabel/geolabel/internal/core/ports"
)

// GridService exposes chip-grid geometry operations, with optional
// caching of coverage resolutions.
type GridService struct {
	grid  *chipgrid.Grid
	cache ports.CacheService
}

// NewGridService creates a new GridService.
func NewGridService(grid *chipgrid.Grid, cache ports.CacheService) *GridService {
	return &GridService{grid: grid, cache: cache}
}

// Spec returns the chip specification the grid is built on.
func (s *GridService) Spec() domain.ChipSpec {
	return s.grid.Spec()
}

// Snap aligns a point to the nearest chip-center lattice position.
func (s *GridService) Snap(p domain.GeoPoint) (domain.GeoPoint, error) {
	return s.grid.Snap(p)
}

// SnappedChip snaps a point and returns the chip footprint at the
// snapped center.
func (s *GridService) SnappedChip(p domain.GeoPoint) (chipgrid.CoveredChip, error) {
	center, err := s.grid.Snap(p)
	if err != nil {
		return chipgrid.CoveredChip{}, err
	}
	geom, err := s.grid.ChipPolygon(center)
	if err != nil {
		return chipgrid.CoveredChip{}, err
	}
	return chipgrid.CoveredChip{Center: center, Geometry: geom}, nil
}

// Centers enumerates chip centers within a bounding box.
func (s *GridService) Centers(bbox domain.BoundingBox) ([]domain.GeoPoint, error) {
	return s.grid.Centers(bbox)
}

// Coverage resolves the chips intersecting a polygon. Results are
// cached: coverage is deterministic for a given spec and ring.
func (s *GridService) Coverage(ctx context.Context, poly domain.Polygon) ([]chipgrid.CoveredChip, error) {
	cacheKey := s.coverageKey(poly)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var chips []chipgrid.CoveredChip
			if err := json.Unmarshal(data, &chips); err == nil {
				return chips, nil
			}
		}
	}

	chips, err := s.grid.Coverage(poly)
	if err != nil {
		return nil, err
	}

	// Cache for an hour (grid geometry never changes at runtime)
	if s.cache != nil {
		if data, err := json.Marshal(chips); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return chips, nil
}

func (s *GridService) coverageKey(poly domain.Polygon) string {
	h := fnv.New64a()
	spec := s.grid.Spec()
	fmt.Fprintf(h, "%g:%d:%g", spec.SizeMeters, spec.SizePixels, spec.ResolutionMeters)
	for _, p := range poly.Ring {
		fmt.Fprintf(h, ":%.12f,%.12f", p.Lng, p.Lat)
	}
	return fmt.Sprintf("grid:coverage:%x", h.Sum64())
}
