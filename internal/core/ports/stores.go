package ports

import (
	"context"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// LabelStore holds the labeling session of each project: its chips and
// their annotation polygons. A store must uphold the cascade invariant:
// deleting a chip deletes every polygon it owns.
type LabelStore interface {
	// GetLabels returns the full label set of a project. Unknown
	// projects yield an empty set, mirroring a fresh session.
	GetLabels(ctx context.Context, projectID int) (*domain.LabelSet, error)

	// ReplaceLabels swaps the project's entire label set.
	ReplaceLabels(ctx context.Context, projectID int, set *domain.LabelSet) error

	// ClearLabels removes every chip and, through the cascade, every
	// polygon of a project.
	ClearLabels(ctx context.Context, projectID int) error

	GetChip(ctx context.Context, projectID int, chipID string) (*domain.Chip, error)
	PutChip(ctx context.Context, projectID int, chip *domain.Chip) error

	// DeleteChip removes a chip and cascades to its polygons.
	DeleteChip(ctx context.Context, projectID int, chipID string) error

	PutPolygon(ctx context.Context, projectID int, poly *domain.AnnotationPolygon) error
	DeletePolygon(ctx context.Context, projectID int, polygonID string) error
}
