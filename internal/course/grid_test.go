package course

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestGridIndicesAreInclusive(t *testing.T) {
	grid := NewGrid(4, 3, 2.5)
	grid.Init()

	grid.SetData(4, 3, 7.5, ZoneGreen)
	cell, ok := grid.Cell(4, 3)
	if !ok {
		t.Fatalf("expected far corner (4,3) to be addressable")
	}
	if cell.Height != 7.5 || cell.Zone != ZoneGreen {
		t.Fatalf("unexpected far corner cell: %+v", cell)
	}

	if _, ok := grid.Cell(5, 0); ok {
		t.Fatalf("expected column 5 to be outside a width 4 grid")
	}
	if _, ok := grid.Cell(0, -1); ok {
		t.Fatalf("expected negative row to be rejected")
	}

	visited := 0
	grid.ForEachCell(func(col, row int, cell Cell) bool {
		visited++
		return true
	})
	if visited != 5*4 {
		t.Fatalf("visited %d cells, want %d", visited, 5*4)
	}

	if got := grid.WorldPosition(4, 3); got[0] != 10 || got[1] != 7.5 {
		t.Fatalf("world position = %v, want (10, 7.5)", got)
	}
}

func TestGridIgnoresWritesBeforeInitAndOutOfBounds(t *testing.T) {
	grid := NewGrid(2, 2, 1)
	grid.SetData(0, 0, 3, ZoneTee)
	if _, ok := grid.Cell(0, 0); ok {
		t.Fatalf("expected no cells before init")
	}

	grid.Init()
	grid.SetData(9, 9, 3, ZoneTee)
	for _, cell := range grid.Snapshot() {
		if cell.Zone != ZoneHeavyRough || cell.Height != 0 {
			t.Fatalf("out of bounds write leaked into grid: %+v", cell)
		}
	}
}

func TestGridReadyClosesAfterInit(t *testing.T) {
	grid := NewGrid(1, 1, 1)
	select {
	case <-grid.Ready():
		t.Fatalf("grid reported ready before init")
	default:
	}

	grid.Init()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := grid.ready.Wait(ctx); err != nil {
		t.Fatalf("wait for ready: %v", err)
	}
}

func TestReadinessWaitHonoursContext(t *testing.T) {
	r := NewReadiness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Wait(ctx); err == nil {
		t.Fatalf("expected cancelled wait to fail")
	}
	r.MarkReady()
	r.MarkReady()
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("wait after ready: %v", err)
	}
}

func TestUpdateMeshBuildsFlatNormalsUp(t *testing.T) {
	grid := NewGrid(3, 2, 1)
	grid.Init()
	if grid.Mesh() != nil {
		t.Fatalf("mesh should not exist before the first rebuild")
	}

	grid.UpdateMesh()

	mesh := grid.Mesh()
	if mesh == nil {
		t.Fatalf("expected mesh after rebuild")
	}
	if grid.MeshRebuilds() != 1 {
		t.Fatalf("rebuilds = %d, want 1", grid.MeshRebuilds())
	}
	if got, want := len(mesh.Vertices), 4*3; got != want {
		t.Fatalf("vertices = %d, want %d", got, want)
	}
	if got, want := mesh.TriangleCount(), 3*2*2; got != want {
		t.Fatalf("triangles = %d, want %d", got, want)
	}
	for i, n := range mesh.Normals {
		if math.Abs(n[1]-1) > 1e-9 {
			t.Fatalf("normal %d = %v, want +Y", i, n)
		}
	}
}

func TestUpdateMeshPaintsGreenAsFairway(t *testing.T) {
	grid := NewGrid(1, 1, 1)
	grid.Init()
	grid.SetData(0, 0, 1, ZoneGreen)
	grid.SetData(1, 0, 1, ZoneTee)
	grid.SetData(0, 1, 1, ZoneBunker)
	grid.UpdateMesh()

	mesh := grid.Mesh()
	want := []Zone{ZoneFairway, ZoneFairway, ZoneBunker, ZoneHeavyRough}
	for i, zone := range want {
		if mesh.Surfaces[i] != zone {
			t.Fatalf("surface %d = %v, want %v", i, mesh.Surfaces[i], zone)
		}
	}
}

func TestZoneNamesRoundTrip(t *testing.T) {
	for _, zone := range Zones() {
		parsed, err := ParseZone(zone.String())
		if err != nil {
			t.Fatalf("ParseZone(%q): %v", zone.String(), err)
		}
		if parsed != zone {
			t.Fatalf("ParseZone(%q) = %v, want %v", zone.String(), parsed, zone)
		}
	}
	if _, err := ParseZone("water"); err == nil {
		t.Fatalf("expected unknown zone to fail")
	}
}
