package persistence

import (
	"context"
	"fmt"
	"log"
	"sync"

	"coursegen/internal/course"
)

// Gateway fronts a Store for the generator. A load requested before
// generation preempts the procedural path.
type Gateway struct {
	store Store

	mu      sync.Mutex
	pending string
}

func NewGateway(store Store) *Gateway {
	return &Gateway{store: store}
}

// RequestLoad marks name to be restored on the next generation run.
func (g *Gateway) RequestLoad(name string) {
	g.mu.Lock()
	g.pending = name
	g.mu.Unlock()
}

func (g *Gateway) PendingLoad() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending, g.pending != ""
}

// LoadCourse restores name into sink and scene. The pending request is
// consumed whether or not the load succeeds. Nothing is written when the
// snapshot cannot be read or does not fit the sink.
func (g *Gateway) LoadCourse(ctx context.Context, name string, sink course.HeightmapSink, scene *course.Scene) error {
	g.mu.Lock()
	if g.pending == name {
		g.pending = ""
	}
	g.mu.Unlock()

	snap, err := g.store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("load course %q: %w", name, err)
	}
	if err := Restore(snap, sink, scene); err != nil {
		return fmt.Errorf("restore course %q: %w", name, err)
	}
	log.Printf("restored course %q (%d cells, %d instances)", name, len(snap.Cells), len(snap.Instances))
	return nil
}

// SaveCourse captures grid and scene under name.
func (g *Gateway) SaveCourse(ctx context.Context, name string, grid Heightmap, scene *course.Scene, seed int64) error {
	snap := Capture(name, grid, scene, seed)
	if err := g.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save course %q: %w", name, err)
	}
	log.Printf("saved course %q (%d cells, %d instances)", name, len(snap.Cells), len(snap.Instances))
	return nil
}

func (g *Gateway) Names(ctx context.Context) ([]string, error) {
	return g.store.Names(ctx)
}
