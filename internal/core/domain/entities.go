package domain

import (
	"fmt"
	"time"
)

// ChipSpec defines the fixed ground footprint of every chip. It is
// immutable for the process lifetime.
type ChipSpec struct {
	SizeMeters       float64 `json:"size_meters"`
	SizePixels       int     `json:"size_pixels"`
	ResolutionMeters float64 `json:"resolution_meters"`
}

// DefaultChipSpec is the reference configuration: 2.56 km chips rendered
// as 256 px tiles at 10 m/px (Sentinel-2 ground resolution).
var DefaultChipSpec = ChipSpec{SizeMeters: 2560, SizePixels: 256, ResolutionMeters: 10}

// Validate checks the size/pixels/resolution consistency invariant.
func (s ChipSpec) Validate() error {
	if s.SizeMeters <= 0 || s.SizePixels <= 0 || s.ResolutionMeters <= 0 {
		return fmt.Errorf("chip spec fields must be positive: %+v", s)
	}
	if s.SizeMeters != float64(s.SizePixels)*s.ResolutionMeters {
		return fmt.Errorf("chip spec inconsistent: %.0fm != %dpx * %.1fm/px",
			s.SizeMeters, s.SizePixels, s.ResolutionMeters)
	}
	return nil
}

// ChipType marks a chip as containing or not containing the feature of
// interest.
type ChipType string

const (
	ChipPositive ChipType = "positive"
	ChipNegative ChipType = "negative"
)

// Valid reports whether t is one of the two known chip types.
func (t ChipType) Valid() bool {
	return t == ChipPositive || t == ChipNegative
}

// Chip is a fixed-size square ground sample, the atomic labeling and
// imagery unit. Geometry is always a closed 4-vertex square ring computed
// from Center under the process ChipSpec.
type Chip struct {
	ID        string    `json:"id"`
	Geometry  Polygon   `json:"geometry"`
	Center    GeoPoint  `json:"center"`
	Type      ChipType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnotationPolygon is a user-drawn polygon owned by a positive chip.
// It has no lifecycle of its own: deleting the chip deletes it.
type AnnotationPolygon struct {
	ID        string    `json:"id"`
	ChipID    string    `json:"chip_id"`
	Geometry  Polygon   `json:"geometry"`
	CreatedAt time.Time `json:"created_at"`
}

// LabelSet is the full labeling state of one project: every chip and every
// annotation polygon.
type LabelSet struct {
	Chips    []Chip              `json:"chips"`
	Polygons []AnnotationPolygon `json:"polygons"`
}
