// Package statestore persists ledger snapshots. The engine treats every
// implementation as best-effort: a failed Save is logged and the ledger
// keeps running, a failed Load falls back to seed data.
package statestore

import (
	"context"
	"sync"

	"puntoventa/backend/internal/domain"
)

// SnapshotStore saves and restores the serialized ledger state.
// Load returns (nil, nil) when no snapshot exists yet.
type SnapshotStore interface {
	Save(ctx context.Context, snap domain.Snapshot) error
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// Noop discards snapshots. Used when no durable backend is configured.
type Noop struct{}

func (Noop) Save(context.Context, domain.Snapshot) error    { return nil }
func (Noop) Load(context.Context) (*domain.Snapshot, error) { return nil, nil }

// Memory keeps the latest snapshot in process. Handy for tests.
type Memory struct {
	mu   sync.Mutex
	snap *domain.Snapshot
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &snap
	return nil
}

func (m *Memory) Load(context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, nil
	}
	dup := *m.snap
	return &dup, nil
}
