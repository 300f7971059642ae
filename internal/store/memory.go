// Package store holds the live chunk set. Readers always see one complete
// set; replacement swaps the whole set at once.
package store

import (
	"sync/atomic"
	"time"

	"prospectus/internal/domain"
)

// Snapshot is an immutable chunk set. Callers must not modify Chunks.
type Snapshot struct {
	Generation uint64
	Chunks     []domain.Chunk
	Source     string
	LoadedAt   time.Time
}

// Len returns the number of chunks in the snapshot; nil snapshots are empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Chunks)
}

// Storage is the in-memory home of the current chunk set.
type Storage struct {
	current atomic.Pointer[Snapshot]
	gen     atomic.Uint64
	now     func() time.Time
}

func NewStorage() *Storage { return &Storage{now: time.Now} }

// Replace installs chunks as the new current set and returns its snapshot.
// The slice is copied so later changes by the caller are not observed.
func (s *Storage) Replace(chunks []domain.Chunk, source string) *Snapshot {
	cp := make([]domain.Chunk, len(chunks))
	copy(cp, chunks)
	snap := &Snapshot{
		Generation: s.gen.Add(1),
		Chunks:     cp,
		Source:     source,
		LoadedAt:   s.now(),
	}
	s.current.Store(snap)
	return snap
}

// Snapshot returns the current set, or nil when nothing is loaded.
func (s *Storage) Snapshot() *Snapshot {
	return s.current.Load()
}

// Clear removes the current set.
func (s *Storage) Clear() {
	s.current.Store(nil)
}
