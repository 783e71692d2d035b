package usecases_test

import (
	"context"
	"testing"

	"github.com/geolabel/geolabel/internal/core/domain"
	"github.com/geolabel/geolabel/internal/core/usecases"
)

// --- Mock CacheService ---

type mockCache struct {
	data   map[string][]byte
	hits   int
	misses int
	sets   int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		m.hits++
		return v, nil
	}
	m.misses++
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// --- Tests ---

func TestGridService_SnappedChip(t *testing.T) {
	svc := usecases.NewGridService(newGrid(t), nil)

	chip, err := svc.SnappedChip(domain.GeoPoint{Lng: 0.005, Lat: 0.005})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chip.Center.Lng != 0 || chip.Center.Lat != 0 {
		t.Errorf("expected center (0, 0), got (%g, %g)", chip.Center.Lng, chip.Center.Lat)
	}
	if !chip.Geometry.Closed() {
		t.Error("chip geometry must be a closed ring")
	}
	if len(chip.Geometry.Ring) != 5 {
		t.Errorf("expected 5 ring vertices, got %d", len(chip.Geometry.Ring))
	}
}

func TestGridService_Coverage_UsesCache(t *testing.T) {
	cache := newMockCache()
	svc := usecases.NewGridService(newGrid(t), cache)

	poly := triangle()

	first, err := svc.Coverage(context.Background(), poly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache set, got %d", cache.sets)
	}

	second, err := svc.Coverage(context.Background(), poly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("expected a cache hit on the second call, got %d", cache.hits)
	}
	if cache.sets != 1 {
		t.Errorf("cached result must not be re-set, got %d sets", cache.sets)
	}
	if len(first) != len(second) {
		t.Errorf("cached coverage differs: %d vs %d chips", len(first), len(second))
	}
	for i := range first {
		if first[i].Center != second[i].Center {
			t.Errorf("chip %d: cached center %v differs from computed %v", i, second[i].Center, first[i].Center)
		}
	}
}

func TestGridService_Coverage_NilCache(t *testing.T) {
	svc := usecases.NewGridService(newGrid(t), nil)

	chips, err := svc.Coverage(context.Background(), triangle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chips) == 0 {
		t.Fatal("expected at least one covering chip")
	}
}

func TestGridService_Coverage_InvalidPolygonNotCached(t *testing.T) {
	cache := newMockCache()
	svc := usecases.NewGridService(newGrid(t), cache)

	open := domain.Polygon{Ring: []domain.GeoPoint{{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1}}}
	if _, err := svc.Coverage(context.Background(), open); err == nil {
		t.Fatal("expected error for unclosed ring")
	}
	if cache.sets != 0 {
		t.Errorf("invalid input must not be cached, got %d sets", cache.sets)
	}
}

func TestGridService_Spec(t *testing.T) {
	svc := usecases.NewGridService(newGrid(t), nil)

	if got := svc.Spec(); got != domain.DefaultChipSpec {
		t.Errorf("expected default spec, got %+v", got)
	}
}
