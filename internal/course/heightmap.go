package course

import (
	"context"
	"sync"
)

// HeightmapSink owns terrain storage and mesh rebuilds. Generation only
// writes cells through it.
type HeightmapSink interface {
	GridWidth() int
	GridDepth() int
	CellSize() float64
	SetData(col, row int, height float64, zone Zone)
	UpdateMesh()
}

// Readier is implemented by collaborators that finish their own setup after
// construction. Ready is closed once they accept writes.
type Readier interface {
	Ready() <-chan struct{}
}

// Readiness is a one-shot barrier between collaborator initialisation and
// generation.
type Readiness struct {
	once sync.Once
	ch   chan struct{}
}

func NewReadiness() *Readiness {
	return &Readiness{ch: make(chan struct{})}
}

// MarkReady releases every waiter. Repeated calls are no-ops.
func (r *Readiness) MarkReady() {
	r.once.Do(func() { close(r.ch) })
}

func (r *Readiness) Ready() <-chan struct{} {
	return r.ch
}

// Wait blocks until the barrier opens or ctx ends.
func (r *Readiness) Wait(ctx context.Context) error {
	select {
	case <-r.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
