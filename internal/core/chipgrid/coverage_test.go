package chipgrid_test

import (
	"errors"
	"testing"

	"github.com/geolabel/geolabel/internal/core/chipgrid"
	"github.com/geolabel/geolabel/internal/core/domain"
)

func closedRing(pts ...domain.GeoPoint) domain.Polygon {
	return domain.Polygon{Ring: append(pts, pts[0])}
}

func TestCoverage_TriangleInsideOneCell(t *testing.T) {
	g := newTestGrid(t)

	// A small triangle well inside a single chip-width. The scan lattice
	// is anchored to the triangle's own padded envelope, so the envelope
	// edges sit within a hair of neighbor chip boundaries; this placement
	// keeps the mismatch pointing away from the triangle so only the true
	// covering chip intersects.
	tri := closedRing(
		domain.GeoPoint{Lng: 0.0016, Lat: -0.0125},
		domain.GeoPoint{Lng: 0.004, Lat: -0.0118},
		domain.GeoPoint{Lng: 0.002, Lat: -0.009},
	)

	chips, err := g.Coverage(tri)
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}
	if len(chips) != 1 {
		t.Fatalf("expected exactly 1 covering chip, got %d", len(chips))
	}
	if !chips[0].Geometry.Closed() {
		t.Error("covering chip ring is not closed")
	}
}

func TestCoverage_ChipsOverlapPolygonEnvelope(t *testing.T) {
	g := newTestGrid(t)

	// Spans several chip-widths on both axes.
	poly := closedRing(
		domain.GeoPoint{Lng: 0.01, Lat: 0.01},
		domain.GeoPoint{Lng: 0.09, Lat: 0.02},
		domain.GeoPoint{Lng: 0.07, Lat: 0.08},
		domain.GeoPoint{Lng: 0.0, Lat: 0.06},
	)

	chips, err := g.Coverage(poly)
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}
	if len(chips) < 4 {
		t.Fatalf("expected several covering chips, got %d", len(chips))
	}

	env := poly.BoundingBox()
	for _, c := range chips {
		b := c.Geometry.BoundingBox()
		if b.MaxLng < env.MinLng || b.MinLng > env.MaxLng ||
			b.MaxLat < env.MinLat || b.MinLat > env.MaxLat {
			t.Errorf("chip at %+v is disjoint from the polygon envelope", c.Center)
		}
	}
}

func TestCoverage_ScanOrderPreserved(t *testing.T) {
	g := newTestGrid(t)

	poly := closedRing(
		domain.GeoPoint{Lng: 0, Lat: 0},
		domain.GeoPoint{Lng: 0.1, Lat: 0},
		domain.GeoPoint{Lng: 0.1, Lat: 0.1},
		domain.GeoPoint{Lng: 0, Lat: 0.1},
	)

	chips, err := g.Coverage(poly)
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}
	for i := 1; i < len(chips); i++ {
		prev, cur := chips[i-1].Center, chips[i].Center
		if cur.Lat < prev.Lat {
			t.Fatalf("row order broken at %d: %+v after %+v", i, cur, prev)
		}
		if cur.Lat == prev.Lat && cur.Lng <= prev.Lng {
			t.Fatalf("column order broken at %d: %+v after %+v", i, cur, prev)
		}
	}
}

func TestCoverage_DegenerateInputRejected(t *testing.T) {
	g := newTestGrid(t)

	cases := map[string]domain.Polygon{
		"empty":    {},
		"point":    {Ring: []domain.GeoPoint{{Lng: 1, Lat: 1}}},
		"unclosed": {Ring: []domain.GeoPoint{{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1}}},
		"zero area": closedRing(
			domain.GeoPoint{Lng: 0, Lat: 0},
			domain.GeoPoint{Lng: 0.01, Lat: 0.01},
			domain.GeoPoint{Lng: 0.02, Lat: 0.02},
		),
		"bowtie": closedRing(
			domain.GeoPoint{Lng: 0, Lat: 0},
			domain.GeoPoint{Lng: 0.02, Lat: 0.02},
			domain.GeoPoint{Lng: 0.02, Lat: 0},
			domain.GeoPoint{Lng: 0, Lat: 0.02},
		),
	}

	for name, poly := range cases {
		if _, err := g.Coverage(poly); !errors.Is(err, domain.ErrInvalidPolygon) {
			t.Errorf("%s: expected ErrInvalidPolygon, got %v", name, err)
		}
	}
}

func TestCoverage_ChipCeiling(t *testing.T) {
	g := newTestGrid(t, chipgrid.WithMaxChips(50))

	// A whole-country polygon blows through a 50-chip ceiling.
	big := closedRing(
		domain.GeoPoint{Lng: -9, Lat: 36},
		domain.GeoPoint{Lng: 3, Lat: 36},
		domain.GeoPoint{Lng: 3, Lat: 43},
		domain.GeoPoint{Lng: -9, Lat: 43},
	)

	_, err := g.Coverage(big)
	if !errors.Is(err, domain.ErrTooManyChips) {
		t.Fatalf("expected ErrTooManyChips, got %v", err)
	}
}

func TestValidatePolygon_AcceptsSimpleRing(t *testing.T) {
	poly := closedRing(
		domain.GeoPoint{Lng: 0, Lat: 0},
		domain.GeoPoint{Lng: 1, Lat: 0},
		domain.GeoPoint{Lng: 1, Lat: 1},
		domain.GeoPoint{Lng: 0, Lat: 1},
	)
	if err := chipgrid.ValidatePolygon(poly); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
