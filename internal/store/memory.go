package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps the last saved snapshot in memory. SaveErr, when set,
// is returned by every Save.
type MemoryBackend struct {
	mu      sync.Mutex
	snap    Snapshot
	saves   int
	SaveErr error
}

func NewMemoryBackend(initial *Snapshot) *MemoryBackend {
	b := &MemoryBackend{}
	if initial != nil {
		b.snap = copySnapshot(initial)
	}
	return b
}

func (b *MemoryBackend) Load(ctx context.Context) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := copySnapshot(&b.snap)
	return &snap, nil
}

func (b *MemoryBackend) Save(ctx context.Context, snap *Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SaveErr != nil {
		return b.SaveErr
	}
	b.snap = copySnapshot(snap)
	b.saves++
	return nil
}

// Saves returns how many snapshots were written.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

func copySnapshot(s *Snapshot) Snapshot {
	out := Snapshot{
		Listings: slices.Clone(s.Listings),
		Reports:  slices.Clone(s.Reports),
	}
	for i := range out.Listings {
		out.Listings[i] = out.Listings[i].Clone()
	}
	return out
}
