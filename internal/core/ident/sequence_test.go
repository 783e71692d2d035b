package ident_test

import (
	"sync"
	"testing"

	"github.com/geolabel/geolabel/internal/core/ident"
)

func TestSequence_Next(t *testing.T) {
	s := ident.NewSequence("chip")
	if got := s.Next(); got != "chip-1" {
		t.Fatalf("first id = %q, want chip-1", got)
	}
	if got := s.Next(); got != "chip-2" {
		t.Fatalf("second id = %q, want chip-2", got)
	}
}

func TestSequence_SyncTo(t *testing.T) {
	s := ident.NewSequence("chip")
	s.SyncTo([]string{"chip-3", "chip-17", "chip-9", "polygon-99", "chip-x", "stray"})

	if got := s.Next(); got != "chip-18" {
		t.Fatalf("after sync, next id = %q, want chip-18", got)
	}
}

func TestSequence_SyncToNeverMovesBackwards(t *testing.T) {
	s := ident.NewSequence("polygon")
	s.SyncTo([]string{"polygon-10"})
	s.SyncTo([]string{"polygon-4"})

	if got := s.Next(); got != "polygon-11" {
		t.Fatalf("next id = %q, want polygon-11", got)
	}
}

func TestSequence_ConcurrentNext(t *testing.T) {
	s := ident.NewSequence("chip")

	const workers, each = 8, 100
	ids := make(chan string, workers*each)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				ids <- s.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id issued: %s", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*each {
		t.Fatalf("expected %d unique ids, got %d", workers*each, len(seen))
	}
}
