package chipgrid_test

import (
	"math"
	"testing"

	"github.com/geolabel/geolabel/internal/core/domain"
)

func TestChipPolygon_ClosedSquareAtOrigin(t *testing.T) {
	g := newTestGrid(t)

	poly, err := g.ChipPolygon(domain.GeoPoint{Lng: 0, Lat: 0})
	if err != nil {
		t.Fatalf("chip polygon: %v", err)
	}

	if len(poly.Ring) != 5 {
		t.Fatalf("expected 5 ring vertices, got %d", len(poly.Ring))
	}
	if poly.Ring[0] != poly.Ring[4] {
		t.Fatalf("ring not closed: first %+v last %+v", poly.Ring[0], poly.Ring[4])
	}

	// 2560 m at the equator is 2560/111320 degrees on both axes.
	wantWidth := 2560.0 / 111320.0
	width := poly.Ring[1].Lng - poly.Ring[0].Lng
	height := poly.Ring[2].Lat - poly.Ring[1].Lat
	if math.Abs(width-wantWidth) > 1e-12 {
		t.Errorf("width = %v, want %v", width, wantWidth)
	}
	if math.Abs(height-wantWidth) > 1e-12 {
		t.Errorf("height = %v, want %v", height, wantWidth)
	}
}

func TestChipPolygon_VertexOrderSWFirstCCW(t *testing.T) {
	g := newTestGrid(t)

	c := domain.GeoPoint{Lng: -2.9, Lat: 43.2}
	poly, err := g.ChipPolygon(c)
	if err != nil {
		t.Fatalf("chip polygon: %v", err)
	}

	sw, se, ne, nw := poly.Ring[0], poly.Ring[1], poly.Ring[2], poly.Ring[3]
	if !(sw.Lng < c.Lng && sw.Lat < c.Lat) {
		t.Errorf("first vertex %+v is not southwest of %+v", sw, c)
	}
	if !(se.Lng > c.Lng && se.Lat < c.Lat) {
		t.Errorf("second vertex %+v is not southeast of %+v", se, c)
	}
	if !(ne.Lng > c.Lng && ne.Lat > c.Lat) {
		t.Errorf("third vertex %+v is not northeast of %+v", ne, c)
	}
	if !(nw.Lng < c.Lng && nw.Lat > c.Lat) {
		t.Errorf("fourth vertex %+v is not northwest of %+v", nw, c)
	}
}

func TestChipPolygon_CentroidRoundTrip(t *testing.T) {
	g := newTestGrid(t)

	for _, p := range []domain.GeoPoint{
		{Lng: 0.01, Lat: 0.04},
		{Lng: -2.935, Lat: 43.263},
		{Lng: 151.2, Lat: -33.87},
	} {
		center, err := g.Snap(p)
		if err != nil {
			t.Fatalf("snap %+v: %v", p, err)
		}
		poly, err := g.ChipPolygon(center)
		if err != nil {
			t.Fatalf("chip polygon %+v: %v", center, err)
		}

		var lng, lat float64
		for _, v := range poly.Ring[:4] {
			lng += v.Lng
			lat += v.Lat
		}
		lng /= 4
		lat /= 4

		if math.Abs(lng-center.Lng) > 1e-9 || math.Abs(lat-center.Lat) > 1e-9 {
			t.Errorf("centroid (%v, %v) drifted from center %+v", lng, lat, center)
		}
	}
}

func TestChipPolygon_WiderInDegreesAtHighLatitude(t *testing.T) {
	g := newTestGrid(t)

	equator, err := g.ChipPolygon(domain.GeoPoint{Lng: 0, Lat: 0})
	if err != nil {
		t.Fatalf("chip polygon: %v", err)
	}
	north, err := g.ChipPolygon(domain.GeoPoint{Lng: 0, Lat: 64})
	if err != nil {
		t.Fatalf("chip polygon: %v", err)
	}

	wEq := equator.Ring[1].Lng - equator.Ring[0].Lng
	wNorth := north.Ring[1].Lng - north.Ring[0].Lng
	if wNorth <= wEq {
		t.Fatalf("chip at 64N should span more longitude degrees: %v <= %v", wNorth, wEq)
	}

	// Latitude extent stays constant regardless of latitude.
	hEq := equator.Ring[2].Lat - equator.Ring[1].Lat
	hNorth := north.Ring[2].Lat - north.Ring[1].Lat
	if math.Abs(hEq-hNorth) > 1e-12 {
		t.Fatalf("latitude extent should be constant: %v vs %v", hEq, hNorth)
	}
}
