package chipgrid_test

import (
	"math"
	"testing"

	"github.com/geolabel/geolabel/internal/core/chipgrid"
)

func TestMetersToDegreesLat_ZeroAndMonotonic(t *testing.T) {
	if got := chipgrid.MetersToDegreesLat(0); got != 0 {
		t.Fatalf("expected 0 degrees for 0 meters, got %v", got)
	}

	prev := 0.0
	for _, m := range []float64{1, 10, 111320, 2560000} {
		got := chipgrid.MetersToDegreesLat(m)
		if got <= prev {
			t.Errorf("not monotonic: %v meters -> %v degrees (prev %v)", m, got, prev)
		}
		prev = got
	}
}

func TestMetersToDegreesLat_OneDegree(t *testing.T) {
	got := chipgrid.MetersToDegreesLat(111320)
	if math.Abs(got-1) > 1e-12 {
		t.Fatalf("111320 m should be exactly one degree of latitude, got %v", got)
	}
}

func TestMetersToDegreesLng_GrowsAwayFromEquator(t *testing.T) {
	atEquator := chipgrid.MetersToDegreesLng(2560, 0)

	for _, lat := range []float64{-88, -60, -45, -10, 10, 45, 60, 88} {
		got := chipgrid.MetersToDegreesLng(2560, lat)
		if got <= atEquator {
			t.Errorf("at latitude %v degrees-per-meter should exceed the equator value: got %v <= %v",
				lat, got, atEquator)
		}
	}
}

func TestMetersToDegreesLng_EqualsLatAtEquator(t *testing.T) {
	lat := chipgrid.MetersToDegreesLat(2560)
	lng := chipgrid.MetersToDegreesLng(2560, 0)
	if math.Abs(lat-lng) > 1e-12 {
		t.Fatalf("at the equator the steps should match: lat %v lng %v", lat, lng)
	}
}

func TestMetersToDegreesLng_Symmetric(t *testing.T) {
	north := chipgrid.MetersToDegreesLng(2560, 51.5)
	south := chipgrid.MetersToDegreesLng(2560, -51.5)
	if math.Abs(north-south) > 1e-15 {
		t.Fatalf("conversion should be symmetric in latitude: %v vs %v", north, south)
	}
}
