package chipgrid

import (
	"fmt"
	"math"

	"github.com/geolabel/geolabel/internal/core/domain"
)

const (
	// DefaultMaxChips bounds how many candidate centers a single scan may
	// produce before it is rejected as a resource-exhaustion risk.
	DefaultMaxChips = 10000

	// DefaultMaxLatitude is the widest supported latitude band. Web
	// mercator map layers cut off around ±85.05°, and the longitude step
	// degenerates beyond that anyway.
	DefaultMaxLatitude = 85.0
)

// Grid is the infinite regular lattice of possible chip centers anchored
// at the geographic origin, parameterised by an immutable chip spec.
type Grid struct {
	spec     domain.ChipSpec
	maxChips int
	maxLat   float64
}

// Option tunes Grid limits.
type Option func(*Grid)

// WithMaxChips overrides the candidate ceiling for grid scans.
func WithMaxChips(n int) Option {
	return func(g *Grid) { g.maxChips = n }
}

// WithMaxLatitude overrides the supported latitude band.
func WithMaxLatitude(deg float64) Option {
	return func(g *Grid) { g.maxLat = deg }
}

// New builds a Grid from a chip spec. The spec is validated once here so
// every later operation can trust it.
func New(spec domain.ChipSpec, opts ...Option) (*Grid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	g := &Grid{spec: spec, maxChips: DefaultMaxChips, maxLat: DefaultMaxLatitude}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxChips <= 0 {
		return nil, fmt.Errorf("max chips must be positive, got %d", g.maxChips)
	}
	if g.maxLat <= 0 || g.maxLat >= 90 {
		return nil, fmt.Errorf("max latitude must be in (0, 90), got %.2f", g.maxLat)
	}
	return g, nil
}

// Spec returns the chip spec the grid was built with.
func (g *Grid) Spec() domain.ChipSpec { return g.spec }

// MaxChips returns the candidate ceiling for grid scans.
func (g *Grid) MaxChips() int { return g.maxChips }

func (g *Grid) checkLat(lat float64) error {
	if math.Abs(lat) > g.maxLat {
		return fmt.Errorf("latitude %.4f beyond ±%.2f: %w", lat, g.maxLat, domain.ErrLatitudeRange)
	}
	return nil
}
