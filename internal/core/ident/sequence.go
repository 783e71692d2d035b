// Package ident owns the sequential id generators for chips and
// annotation polygons. The geometry core stays pure; id state lives here
// so it can be re-synchronized from whatever labels a project already
// holds.
package ident

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Sequence issues ids of the form "<prefix>-<n>" with n starting at 1.
// Safe for concurrent use.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence creates a sequence for the given prefix ("chip",
// "polygon").
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next returns the next id in the sequence.
func (s *Sequence) Next() string {
	return s.prefix + "-" + strconv.FormatUint(s.n.Add(1), 10)
}

// SyncTo advances the sequence past the highest matching id in ids, so
// ids issued after a load never collide with loaded ones. Ids with other
// prefixes or malformed suffixes are ignored. The sequence never moves
// backwards.
func (s *Sequence) SyncTo(ids []string) {
	var max uint64
	for _, id := range ids {
		rest, ok := strings.CutPrefix(id, s.prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	for {
		cur := s.n.Load()
		if max <= cur || s.n.CompareAndSwap(cur, max) {
			return
		}
	}
}
