package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geolabel/geolabel/internal/core/chipgrid"
	"github.com/geolabel/geolabel/internal/core/domain"
	"github.com/geolabel/geolabel/internal/core/ident"
	"github.com/geolabel/geolabel/internal/core/ports"
)

// LabelService handles the labeling session of each project: placing and
// removing chips, drawing annotation polygons, and bulk save/load.
type LabelService struct {
	store   ports.LabelStore
	grid    *chipgrid.Grid
	events  ports.EventPublisher
	chipIDs *ident.Sequence
	polyIDs *ident.Sequence
}

// NewLabelService creates a new LabelService. events may be nil.
func NewLabelService(store ports.LabelStore, grid *chipgrid.Grid, events ports.EventPublisher) *LabelService {
	return &LabelService{
		store:   store,
		grid:    grid,
		events:  events,
		chipIDs: ident.NewSequence("chip"),
		polyIDs: ident.NewSequence("polygon"),
	}
}

// GetLabels returns a project's full label set. Unknown projects yield an
// empty set. ID sequences advance past any loaded IDs so that subsequent
// placements never collide with saved labels.
func (s *LabelService) GetLabels(ctx context.Context, projectID int) (*domain.LabelSet, error) {
	set, err := s.store.GetLabels(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.syncSequences(set)
	return set, nil
}

// SaveLabels replaces a project's entire label set. The incoming set is
// validated in full before any mutation: an invalid chip or polygon leaves
// the stored state untouched.
func (s *LabelService) SaveLabels(ctx context.Context, projectID int, set *domain.LabelSet) error {
	if set == nil {
		set = &domain.LabelSet{}
	}

	positives := make(map[string]bool, len(set.Chips))
	seen := make(map[string]bool, len(set.Chips))
	for i := range set.Chips {
		c := &set.Chips[i]
		if c.ID == "" {
			return fmt.Errorf("chip %d: %w: missing id", i, domain.ErrInvalidPolygon)
		}
		if seen[c.ID] {
			return fmt.Errorf("chip %q: %w", c.ID, domain.ErrChipExists)
		}
		seen[c.ID] = true
		if !c.Type.Valid() {
			return fmt.Errorf("chip %q: %w: %q", c.ID, domain.ErrChipType, c.Type)
		}
		if !c.Geometry.Closed() {
			return fmt.Errorf("chip %q: %w: ring not closed", c.ID, domain.ErrInvalidPolygon)
		}
		if c.Type == domain.ChipPositive {
			positives[c.ID] = true
		}
	}
	for i := range set.Polygons {
		p := &set.Polygons[i]
		if err := chipgrid.ValidatePolygon(p.Geometry); err != nil {
			return fmt.Errorf("polygon %q: %w", p.ID, err)
		}
		if !positives[p.ChipID] {
			if seen[p.ChipID] {
				return fmt.Errorf("polygon %q: %w: chip %q is not positive", p.ID, domain.ErrChipType, p.ChipID)
			}
			return fmt.Errorf("polygon %q: chip %q: %w", p.ID, p.ChipID, domain.ErrNotFound)
		}
	}

	if err := s.store.ReplaceLabels(ctx, projectID, set); err != nil {
		return err
	}
	s.syncSequences(set)
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishLabelsUpdated(ctx, projectID, len(set.Chips), len(set.Polygons))
	})
	return nil
}

// ClearLabels removes every chip and polygon of a project.
func (s *LabelService) ClearLabels(ctx context.Context, projectID int) error {
	if err := s.store.ClearLabels(ctx, projectID); err != nil {
		return err
	}
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishLabelsCleared(ctx, projectID)
	})
	return nil
}

// PlaceChip snaps a point to the grid and creates a chip of the given type
// at the snapped center. Placing on an already-occupied center returns
// ErrChipExists.
func (s *LabelService) PlaceChip(ctx context.Context, projectID int, p domain.GeoPoint, chipType domain.ChipType) (*domain.Chip, error) {
	if !chipType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrChipType, chipType)
	}

	center, err := s.grid.Snap(p)
	if err != nil {
		return nil, err
	}
	geom, err := s.grid.ChipPolygon(center)
	if err != nil {
		return nil, err
	}

	set, err := s.store.GetLabels(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.syncSequences(set)
	for i := range set.Chips {
		if set.Chips[i].Center == center {
			return nil, fmt.Errorf("center (%g, %g): %w", center.Lng, center.Lat, domain.ErrChipExists)
		}
	}

	chip := &domain.Chip{
		ID:        s.chipIDs.Next(),
		Geometry:  geom,
		Center:    center,
		Type:      chipType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.PutChip(ctx, projectID, chip); err != nil {
		return nil, err
	}
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishChipCreated(ctx, projectID, chip)
	})
	return chip, nil
}

// DeleteChip removes a chip and, through the store's cascade, every
// polygon it owns.
func (s *LabelService) DeleteChip(ctx context.Context, projectID int, chipID string) error {
	if err := s.store.DeleteChip(ctx, projectID, chipID); err != nil {
		return err
	}
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishChipDeleted(ctx, projectID, chipID)
	})
	return nil
}

// AddPolygon attaches an annotation polygon to a positive chip. Negative
// chips cannot own polygons.
func (s *LabelService) AddPolygon(ctx context.Context, projectID int, chipID string, geom domain.Polygon) (*domain.AnnotationPolygon, error) {
	if err := chipgrid.ValidatePolygon(geom); err != nil {
		return nil, err
	}

	chip, err := s.store.GetChip(ctx, projectID, chipID)
	if err != nil {
		return nil, err
	}
	if chip.Type != domain.ChipPositive {
		return nil, fmt.Errorf("chip %q: %w: polygons require a positive chip", chipID, domain.ErrChipType)
	}

	poly := &domain.AnnotationPolygon{
		ID:        s.polyIDs.Next(),
		ChipID:    chipID,
		Geometry:  geom,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.PutPolygon(ctx, projectID, poly); err != nil {
		return nil, err
	}
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishPolygonCreated(ctx, projectID, poly)
	})
	return poly, nil
}

// DeletePolygon removes a single annotation polygon.
func (s *LabelService) DeletePolygon(ctx context.Context, projectID int, polygonID string) error {
	if err := s.store.DeletePolygon(ctx, projectID, polygonID); err != nil {
		return err
	}
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishPolygonDeleted(ctx, projectID, polygonID)
	})
	return nil
}

func (s *LabelService) syncSequences(set *domain.LabelSet) {
	chipIDs := make([]string, 0, len(set.Chips))
	for i := range set.Chips {
		chipIDs = append(chipIDs, set.Chips[i].ID)
	}
	s.chipIDs.SyncTo(chipIDs)

	polyIDs := make([]string, 0, len(set.Polygons))
	for i := range set.Polygons {
		polyIDs = append(polyIDs, set.Polygons[i].ID)
	}
	s.polyIDs.SyncTo(polyIDs)
}

// publish fires an event best-effort: failures are logged, never returned.
func (s *LabelService) publish(ctx context.Context, fn func(context.Context) error) {
	if s.events == nil {
		return
	}
	if err := fn(ctx); err != nil {
		slog.Warn("event publish failed", "error", err)
	}
}
