package persistence

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps snapshots in process. Loads and saves copy the slices so
// callers never share storage with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	m.snapshots[snap.Name] = cloneSnapshot(snap)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, name string) (Snapshot, error) {
	m.mu.RLock()
	snap, ok := m.snapshots[name]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, notFound(name)
	}
	return cloneSnapshot(snap), nil
}

func (m *MemoryStore) Names(_ context.Context) ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.snapshots))
	for name := range m.snapshots {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.snapshots, name)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func cloneSnapshot(snap Snapshot) Snapshot {
	dup := snap
	dup.Cells = append(dup.Cells[:0:0], snap.Cells...)
	dup.Instances = append(dup.Instances[:0:0], snap.Instances...)
	return dup
}
