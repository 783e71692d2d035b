package chipgrid

import (
	"math"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// polygonsIntersect is the "intersects" predicate used by Coverage: true
// when the rings share interior or boundary, false when disjoint or
// touching only at a single point. It holds when any edge pair properly
// crosses or overlaps collinearly, or when either ring contains a vertex
// of the other.
func polygonsIntersect(a, b domain.Polygon) bool {
	na, nb := len(a.Ring)-1, len(b.Ring)-1
	for i := 0; i < na; i++ {
		for j := 0; j < nb; j++ {
			if segmentsCross(a.Ring[i], a.Ring[i+1], b.Ring[j], b.Ring[j+1]) {
				return true
			}
			if segmentsOverlap(a.Ring[i], a.Ring[i+1], b.Ring[j], b.Ring[j+1]) {
				return true
			}
		}
	}
	for _, v := range a.Ring[:na] {
		if pointInRing(v, b.Ring) {
			return true
		}
	}
	for _, v := range b.Ring[:nb] {
		if pointInRing(v, a.Ring) {
			return true
		}
	}
	return false
}

// orient is the cross product (q-p) × (r-p): positive when r lies left of
// pq, zero when collinear.
func orient(p, q, r domain.GeoPoint) float64 {
	return (q.Lng-p.Lng)*(r.Lat-p.Lat) - (q.Lat-p.Lat)*(r.Lng-p.Lng)
}

// segmentsCross reports a proper crossing: the segments intersect at a
// point interior to both. Endpoint touches and collinear overlaps return
// false here.
func segmentsCross(p1, p2, q1, q2 domain.GeoPoint) bool {
	o1 := orient(p1, p2, q1)
	o2 := orient(p1, p2, q2)
	o3 := orient(q1, q2, p1)
	o4 := orient(q1, q2, p2)
	return o1*o2 < 0 && o3*o4 < 0
}

// segmentsOverlap reports whether two collinear segments share more than
// a single point. Needed for shared-boundary cases: a chip edge lying
// exactly along a polygon edge counts as intersecting.
func segmentsOverlap(p1, p2, q1, q2 domain.GeoPoint) bool {
	if orient(p1, p2, q1) != 0 || orient(p1, p2, q2) != 0 {
		return false
	}
	// Project onto the dominant axis and require 1D overlap of nonzero
	// length.
	if math.Abs(p2.Lng-p1.Lng) >= math.Abs(p2.Lat-p1.Lat) {
		lo := math.Max(math.Min(p1.Lng, p2.Lng), math.Min(q1.Lng, q2.Lng))
		hi := math.Min(math.Max(p1.Lng, p2.Lng), math.Max(q1.Lng, q2.Lng))
		return lo < hi
	}
	lo := math.Max(math.Min(p1.Lat, p2.Lat), math.Min(q1.Lat, q2.Lat))
	hi := math.Min(math.Max(p1.Lat, p2.Lat), math.Max(q1.Lat, q2.Lat))
	return lo < hi
}

// pointInRing is the even-odd ray-casting test. A tiny epsilon keeps the
// slope finite on horizontal edges.
func pointInRing(pt domain.GeoPoint, ring []domain.GeoPoint) bool {
	n := len(ring)
	if n < 4 {
		return false
	}
	inside := false
	x, y := pt.Lng, pt.Lat
	for i, j := 0, n-2; i < n-1; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi {
			inside = !inside
		}
	}
	return inside
}
