package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/geolabel/geolabel/internal/adapters/memory"
	"github.com/geolabel/geolabel/internal/core/domain"
)

func chip(id string, chipType domain.ChipType) *domain.Chip {
	return &domain.Chip{
		ID:   id,
		Type: chipType,
		Geometry: domain.Polygon{Ring: []domain.GeoPoint{
			{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1}, {Lng: 0, Lat: 1}, {Lng: 0, Lat: 0},
		}},
	}
}

func polygon(id, chipID string) *domain.AnnotationPolygon {
	return &domain.AnnotationPolygon{
		ID:     id,
		ChipID: chipID,
		Geometry: domain.Polygon{Ring: []domain.GeoPoint{
			{Lng: 0.1, Lat: 0.1}, {Lng: 0.3, Lat: 0.1}, {Lng: 0.2, Lat: 0.3}, {Lng: 0.1, Lat: 0.1},
		}},
	}
}

func TestLabelStore_UnknownProjectYieldsEmptySet(t *testing.T) {
	store := memory.NewLabelStore()

	set, err := store.GetLabels(context.Background(), 404)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Chips) != 0 || len(set.Polygons) != 0 {
		t.Errorf("expected empty set, got %d chips, %d polygons", len(set.Chips), len(set.Polygons))
	}
	if set.Chips == nil || set.Polygons == nil {
		t.Error("slices must be non-nil so they serialize as [] not null")
	}
}

func TestLabelStore_PutAndGetChip(t *testing.T) {
	store := memory.NewLabelStore()
	ctx := context.Background()

	if err := store.PutChip(ctx, 1, chip("chip-1", domain.ChipPositive)); err != nil {
		t.Fatalf("PutChip: %v", err)
	}

	got, err := store.GetChip(ctx, 1, "chip-1")
	if err != nil {
		t.Fatalf("GetChip: %v", err)
	}
	if got.ID != "chip-1" || got.Type != domain.ChipPositive {
		t.Errorf("unexpected chip: %+v", got)
	}

	if _, err := store.GetChip(ctx, 1, "chip-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetChip(ctx, 2, "chip-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("projects must be isolated, got %v", err)
	}
}

func TestLabelStore_PutChip_DuplicateID(t *testing.T) {
	store := memory.NewLabelStore()
	ctx := context.Background()

	if err := store.PutChip(ctx, 1, chip("chip-1", domain.ChipPositive)); err != nil {
		t.Fatalf("PutChip: %v", err)
	}
	if err := store.PutChip(ctx, 1, chip("chip-1", domain.ChipNegative)); !errors.Is(err, domain.ErrChipExists) {
		t.Errorf("expected ErrChipExists, got %v", err)
	}
}

func TestLabelStore_DeleteChipCascades(t *testing.T) {
	store := memory.NewLabelStore()
	ctx := context.Background()

	for _, c := range []*domain.Chip{chip("chip-1", domain.ChipPositive), chip("chip-2", domain.ChipPositive)} {
		if err := store.PutChip(ctx, 1, c); err != nil {
			t.Fatalf("PutChip: %v", err)
		}
	}
	for _, p := range []*domain.AnnotationPolygon{polygon("polygon-1", "chip-1"), polygon("polygon-2", "chip-1"), polygon("polygon-3", "chip-2")} {
		if err := store.PutPolygon(ctx, 1, p); err != nil {
			t.Fatalf("PutPolygon: %v", err)
		}
	}

	if err := store.DeleteChip(ctx, 1, "chip-1"); err != nil {
		t.Fatalf("DeleteChip: %v", err)
	}

	set, err := store.GetLabels(ctx, 1)
	if err != nil {
		t.Fatalf("GetLabels: %v", err)
	}
	if len(set.Chips) != 1 || set.Chips[0].ID != "chip-2" {
		t.Errorf("expected only chip-2 to remain, got %+v", set.Chips)
	}
	if len(set.Polygons) != 1 || set.Polygons[0].ID != "polygon-3" {
		t.Errorf("expected only polygon-3 to survive the cascade, got %+v", set.Polygons)
	}
}

func TestLabelStore_PutPolygon_RequiresChip(t *testing.T) {
	store := memory.NewLabelStore()

	err := store.PutPolygon(context.Background(), 1, polygon("polygon-1", "chip-404"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLabelStore_ReplaceAndClear(t *testing.T) {
	store := memory.NewLabelStore()
	ctx := context.Background()

	set := &domain.LabelSet{
		Chips:    []domain.Chip{*chip("chip-1", domain.ChipPositive)},
		Polygons: []domain.AnnotationPolygon{*polygon("polygon-1", "chip-1")},
	}
	if err := store.ReplaceLabels(ctx, 1, set); err != nil {
		t.Fatalf("ReplaceLabels: %v", err)
	}

	got, err := store.GetLabels(ctx, 1)
	if err != nil {
		t.Fatalf("GetLabels: %v", err)
	}
	if len(got.Chips) != 1 || len(got.Polygons) != 1 {
		t.Fatalf("expected 1 chip and 1 polygon, got %d and %d", len(got.Chips), len(got.Polygons))
	}

	if err := store.ClearLabels(ctx, 1); err != nil {
		t.Fatalf("ClearLabels: %v", err)
	}
	got, err = store.GetLabels(ctx, 1)
	if err != nil {
		t.Fatalf("GetLabels: %v", err)
	}
	if len(got.Chips) != 0 || len(got.Polygons) != 0 {
		t.Errorf("expected empty set after clear, got %d chips, %d polygons", len(got.Chips), len(got.Polygons))
	}
}

func TestLabelStore_GetLabelsReturnsCopies(t *testing.T) {
	store := memory.NewLabelStore()
	ctx := context.Background()

	if err := store.PutChip(ctx, 1, chip("chip-1", domain.ChipPositive)); err != nil {
		t.Fatalf("PutChip: %v", err)
	}

	set, _ := store.GetLabels(ctx, 1)
	set.Chips[0].Geometry.Ring[0] = domain.GeoPoint{Lng: 99, Lat: 99}
	set.Chips[0].Type = domain.ChipNegative

	fresh, _ := store.GetLabels(ctx, 1)
	if fresh.Chips[0].Geometry.Ring[0].Lng == 99 {
		t.Error("mutating a returned ring must not affect stored state")
	}
	if fresh.Chips[0].Type != domain.ChipPositive {
		t.Error("mutating a returned chip must not affect stored state")
	}
}

func TestLabelStore_DeletePolygon(t *testing.T) {
	store := memory.NewLabelStore()
	ctx := context.Background()

	if err := store.PutChip(ctx, 1, chip("chip-1", domain.ChipPositive)); err != nil {
		t.Fatalf("PutChip: %v", err)
	}
	if err := store.PutPolygon(ctx, 1, polygon("polygon-1", "chip-1")); err != nil {
		t.Fatalf("PutPolygon: %v", err)
	}

	if err := store.DeletePolygon(ctx, 1, "polygon-1"); err != nil {
		t.Fatalf("DeletePolygon: %v", err)
	}
	if err := store.DeletePolygon(ctx, 1, "polygon-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
