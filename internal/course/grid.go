package course

import (
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Cell is the stored state of one grid vertex.
type Cell struct {
	Height float64
	Zone   Zone
}

// Grid is the in-process HeightmapSink. Indices are inclusive on both ends, so
// a grid of width W and depth D stores (W+1)*(D+1) cells.
type Grid struct {
	width    int
	depth    int
	cellSize float64

	mu       sync.RWMutex
	cells    []Cell
	mesh     *Mesh
	rebuilds int

	ready *Readiness
}

// NewGrid allocates storage. The grid does not report ready until Init runs.
func NewGrid(width, depth int, cellSize float64) *Grid {
	if width < 0 {
		width = 0
	}
	if depth < 0 {
		depth = 0
	}
	return &Grid{
		width:    width,
		depth:    depth,
		cellSize: cellSize,
		ready:    NewReadiness(),
	}
}

// Init resets every cell to flat heavy rough and opens the readiness barrier.
func (g *Grid) Init() {
	g.mu.Lock()
	g.cells = make([]Cell, (g.width+1)*(g.depth+1))
	for i := range g.cells {
		g.cells[i] = Cell{Zone: ZoneHeavyRough}
	}
	g.mesh = nil
	g.mu.Unlock()
	g.ready.MarkReady()
}

func (g *Grid) Ready() <-chan struct{} {
	return g.ready.Ready()
}

func (g *Grid) GridWidth() int {
	return g.width
}

func (g *Grid) GridDepth() int {
	return g.depth
}

func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) index(col, row int) (int, bool) {
	if col < 0 || row < 0 || col > g.width || row > g.depth {
		return 0, false
	}
	return row*(g.width+1) + col, true
}

func (g *Grid) SetData(col, row int, height float64, zone Zone) {
	idx, ok := g.index(col, row)
	if !ok {
		log.Printf("grid write outside bounds (%d,%d) ignored", col, row)
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cells == nil {
		log.Printf("grid write before init (%d,%d) ignored", col, row)
		return
	}
	g.cells[idx] = Cell{Height: height, Zone: zone}
}

// Cell returns the stored cell, or false when the index is outside the grid.
func (g *Grid) Cell(col, row int) (Cell, bool) {
	idx, ok := g.index(col, row)
	if !ok {
		return Cell{}, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.cells == nil {
		return Cell{}, false
	}
	return g.cells[idx], true
}

// ForEachCell visits cells row by row until fn returns false.
func (g *Grid) ForEachCell(fn func(col, row int, cell Cell) bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for row := 0; row <= g.depth && g.cells != nil; row++ {
		for col := 0; col <= g.width; col++ {
			if !fn(col, row, g.cells[row*(g.width+1)+col]) {
				return
			}
		}
	}
}

// Snapshot copies the cells in row-major order.
func (g *Grid) Snapshot() []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	dup := make([]Cell, len(g.cells))
	copy(dup, g.cells)
	return dup
}

// WorldPosition converts a grid index to horizontal world coordinates.
func (g *Grid) WorldPosition(col, row int) mgl64.Vec2 {
	return mgl64.Vec2{float64(col) * g.cellSize, float64(row) * g.cellSize}
}

// Extent is the world size covered by the grid along x and z.
func (g *Grid) Extent() mgl64.Vec2 {
	return g.WorldPosition(g.width, g.depth)
}

// UpdateMesh rebuilds the render mesh from the current cells.
func (g *Grid) UpdateMesh() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cells == nil {
		log.Printf("grid mesh rebuild skipped: grid not initialised")
		return
	}
	g.mesh = buildMesh(g.cells, g.width, g.depth, g.cellSize)
	g.rebuilds++
}

// Mesh returns the last built mesh, or nil before the first rebuild.
func (g *Grid) Mesh() *Mesh {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mesh
}

func (g *Grid) MeshRebuilds() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rebuilds
}
