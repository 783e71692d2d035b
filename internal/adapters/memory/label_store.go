// Package memory provides the in-process LabelStore. Labeling sessions
// are ephemeral working state; durable persistence lives behind the same
// port and can be swapped in without touching the core.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/geolabel/geolabel/internal/core/domain"
)

type project struct {
	chips    []domain.Chip
	polygons []domain.AnnotationPolygon
}

// LabelStore is a mutex-guarded in-memory label store keyed by project.
type LabelStore struct {
	mu       sync.RWMutex
	projects map[int]*project
}

// NewLabelStore creates an empty LabelStore.
func NewLabelStore() *LabelStore {
	return &LabelStore{projects: make(map[int]*project)}
}

// GetLabels returns a deep copy of the project's label set. Unknown
// projects yield an empty set.
func (s *LabelStore) GetLabels(_ context.Context, projectID int) (*domain.LabelSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[projectID]
	if !ok {
		return &domain.LabelSet{Chips: []domain.Chip{}, Polygons: []domain.AnnotationPolygon{}}, nil
	}

	set := &domain.LabelSet{
		Chips:    make([]domain.Chip, len(p.chips)),
		Polygons: make([]domain.AnnotationPolygon, len(p.polygons)),
	}
	for i, c := range p.chips {
		set.Chips[i] = copyChip(c)
	}
	for i, ap := range p.polygons {
		set.Polygons[i] = copyPolygon(ap)
	}
	return set, nil
}

// ReplaceLabels swaps the project's entire label set.
func (s *LabelStore) ReplaceLabels(_ context.Context, projectID int, set *domain.LabelSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &project{
		chips:    make([]domain.Chip, len(set.Chips)),
		polygons: make([]domain.AnnotationPolygon, len(set.Polygons)),
	}
	for i, c := range set.Chips {
		p.chips[i] = copyChip(c)
	}
	for i, ap := range set.Polygons {
		p.polygons[i] = copyPolygon(ap)
	}
	s.projects[projectID] = p
	return nil
}

// ClearLabels drops the project's chips and, with them, its polygons.
func (s *LabelStore) ClearLabels(_ context.Context, projectID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.projects, projectID)
	return nil
}

// GetChip returns a copy of one chip, or ErrNotFound.
func (s *LabelStore) GetChip(_ context.Context, projectID int, chipID string) (*domain.Chip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("chip %q: %w", chipID, domain.ErrNotFound)
	}
	for i := range p.chips {
		if p.chips[i].ID == chipID {
			c := copyChip(p.chips[i])
			return &c, nil
		}
	}
	return nil, fmt.Errorf("chip %q: %w", chipID, domain.ErrNotFound)
}

// PutChip appends a chip to the project, creating the project bucket on
// first use.
func (s *LabelStore) PutChip(_ context.Context, projectID int, chip *domain.Chip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		p = &project{}
		s.projects[projectID] = p
	}
	for i := range p.chips {
		if p.chips[i].ID == chip.ID {
			return fmt.Errorf("chip %q: %w", chip.ID, domain.ErrChipExists)
		}
	}
	p.chips = append(p.chips, copyChip(*chip))
	return nil
}

// DeleteChip removes a chip and cascades to every polygon it owns.
func (s *LabelStore) DeleteChip(_ context.Context, projectID int, chipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("chip %q: %w", chipID, domain.ErrNotFound)
	}

	idx := -1
	for i := range p.chips {
		if p.chips[i].ID == chipID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("chip %q: %w", chipID, domain.ErrNotFound)
	}
	p.chips = append(p.chips[:idx], p.chips[idx+1:]...)

	kept := p.polygons[:0]
	for _, ap := range p.polygons {
		if ap.ChipID != chipID {
			kept = append(kept, ap)
		}
	}
	p.polygons = kept
	return nil
}

// PutPolygon appends an annotation polygon. The owning chip must exist.
func (s *LabelStore) PutPolygon(_ context.Context, projectID int, poly *domain.AnnotationPolygon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("chip %q: %w", poly.ChipID, domain.ErrNotFound)
	}
	found := false
	for i := range p.chips {
		if p.chips[i].ID == poly.ChipID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("chip %q: %w", poly.ChipID, domain.ErrNotFound)
	}
	p.polygons = append(p.polygons, copyPolygon(*poly))
	return nil
}

// DeletePolygon removes a single polygon, or returns ErrNotFound.
func (s *LabelStore) DeletePolygon(_ context.Context, projectID int, polygonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("polygon %q: %w", polygonID, domain.ErrNotFound)
	}
	for i := range p.polygons {
		if p.polygons[i].ID == polygonID {
			p.polygons = append(p.polygons[:i], p.polygons[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("polygon %q: %w", polygonID, domain.ErrNotFound)
}

func copyChip(c domain.Chip) domain.Chip {
	out := c
	out.Geometry.Ring = append([]domain.GeoPoint(nil), c.Geometry.Ring...)
	return out
}

func copyPolygon(p domain.AnnotationPolygon) domain.AnnotationPolygon {
	out := p
	out.Geometry.Ring = append([]domain.GeoPoint(nil), p.Geometry.Ring...)
	return out
}
