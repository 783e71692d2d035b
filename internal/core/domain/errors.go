package domain

import "errors"

// Sentinel errors shared across the core and its adapters. Callers match
// with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound means the requested chip, polygon, or label set does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPolygon means an input ring is degenerate: too few
	// distinct vertices, zero area, or self-intersecting.
	ErrInvalidPolygon = errors.New("invalid polygon")

	// ErrInvalidBounds means a bounding box has negative extent.
	ErrInvalidBounds = errors.New("invalid bounding box")

	// ErrLatitudeRange means a coordinate lies beyond the supported
	// latitude band, where the longitude step degenerates.
	ErrLatitudeRange = errors.New("latitude out of supported range")

	// ErrTooManyChips means a scan would exceed the configured chip
	// ceiling.
	ErrTooManyChips = errors.New("bounding box exceeds chip limit")

	// ErrChipExists means a chip already occupies the snapped grid cell.
	ErrChipExists = errors.New("chip already exists at this grid cell")

	// ErrChipType means an operation requires a positive chip.
	ErrChipType = errors.New("operation requires a positive chip")
)
