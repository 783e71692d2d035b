package ports

import (
	"context"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// CacheService is a byte-oriented cache with TTLs. Implementations are
// optional at runtime; callers treat a nil cache as a permanent miss.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher announces label mutations to the external collaborators
// (imagery export, training) that react to labeling activity. Publishing
// is best-effort: a nil or failing publisher never blocks a mutation.
type EventPublisher interface {
	PublishLabelsUpdated(ctx context.Context, projectID, chipCount, polygonCount int) error
	PublishLabelsCleared(ctx context.Context, projectID int) error
	PublishChipCreated(ctx context.Context, projectID int, chip *domain.Chip) error
	PublishChipDeleted(ctx context.Context, projectID int, chipID string) error
	PublishPolygonCreated(ctx context.Context, projectID int, poly *domain.AnnotationPolygon) error
	PublishPolygonDeleted(ctx context.Context, projectID int, polygonID string) error
}
