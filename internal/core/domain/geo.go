package domain

// GeoPoint is a geographic coordinate in decimal degrees (WGS 84).
type GeoPoint struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// BoundingBox is an axis-aligned lng/lat rectangle used as the scan
// envelope for grid generation.
type BoundingBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Valid reports whether the box has non-negative extent on both axes.
func (b BoundingBox) Valid() bool {
	return b.MinLng <= b.MaxLng && b.MinLat <= b.MaxLat
}

// Polygon is a single exterior ring. The ring is closed: the first vertex
// is repeated as the last. Holes are never carried.
type Polygon struct {
	Ring []GeoPoint `json:"ring"`
}

// Closed reports whether the ring has at least four vertices and the first
// vertex is repeated as the last.
func (p Polygon) Closed() bool {
	n := len(p.Ring)
	return n >= 4 && p.Ring[0] == p.Ring[n-1]
}

// BoundingBox returns the tight axis-aligned box around the ring.
func (p Polygon) BoundingBox() BoundingBox {
	if len(p.Ring) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{
		MinLng: p.Ring[0].Lng, MaxLng: p.Ring[0].Lng,
		MinLat: p.Ring[0].Lat, MaxLat: p.Ring[0].Lat,
	}
	for _, v := range p.Ring[1:] {
		if v.Lng < b.MinLng {
			b.MinLng = v.Lng
		}
		if v.Lng > b.MaxLng {
			b.MaxLng = v.Lng
		}
		if v.Lat < b.MinLat {
			b.MinLat = v.Lat
		}
		if v.Lat > b.MaxLat {
			b.MaxLat = v.Lat
		}
	}
	return b
}
