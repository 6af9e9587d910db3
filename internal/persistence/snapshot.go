package persistence

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"coursegen/internal/course"
)

// Snapshot is a saved course: every grid cell plus the placed instances.
type Snapshot struct {
	ID        uuid.UUID
	Name      string
	GridWidth int
	GridDepth int
	CellSize  float64
	Seed      int64
	SavedAt   time.Time
	Cells     []course.Cell // row-major, inclusive bounds
	Instances []InstanceRecord
}

// InstanceRecord flattens the instance tree. Children follow their parent and
// point back to it through ParentID; roots carry uuid.Nil.
type InstanceRecord struct {
	ID       uuid.UUID
	ParentID uuid.UUID
	Template string
	Kind     string
	Key      string
	Position mgl64.Vec3
	Yaw      float64
	Scale    float64
}

// Heightmap is the read side of a grid that can be captured.
type Heightmap interface {
	GridWidth() int
	GridDepth() int
	CellSize() float64
	Snapshot() []course.Cell
}

// Capture copies grid and scene into a new snapshot.
func Capture(name string, grid Heightmap, scene *course.Scene, seed int64) Snapshot {
	snap := Snapshot{
		ID:        uuid.New(),
		Name:      name,
		GridWidth: grid.GridWidth(),
		GridDepth: grid.GridDepth(),
		CellSize:  grid.CellSize(),
		Seed:      seed,
		SavedAt:   time.Now().UTC(),
		Cells:     grid.Snapshot(),
	}
	if scene != nil {
		for _, inst := range scene.Instances() {
			snap.Instances = appendInstance(snap.Instances, inst, uuid.Nil)
		}
	}
	return snap
}

func appendInstance(records []InstanceRecord, inst *course.Instance, parent uuid.UUID) []InstanceRecord {
	records = append(records, InstanceRecord{
		ID:       inst.ID,
		ParentID: parent,
		Template: inst.Template,
		Kind:     inst.Kind,
		Key:      inst.Key,
		Position: inst.Position,
		Yaw:      inst.Yaw,
		Scale:    inst.Scale,
	})
	for _, child := range inst.Children {
		records = appendInstance(records, child, inst.ID)
	}
	return records
}

// Validate checks the snapshot is internally consistent before anything is
// written from it.
func (s Snapshot) Validate() error {
	if s.GridWidth < 0 || s.GridDepth < 0 {
		return fmt.Errorf("snapshot %q has negative grid dimensions", s.Name)
	}
	if want := (s.GridWidth + 1) * (s.GridDepth + 1); len(s.Cells) != want {
		return fmt.Errorf("snapshot %q has %d cells, want %d", s.Name, len(s.Cells), want)
	}
	seen := make(map[uuid.UUID]bool, len(s.Instances))
	for i, rec := range s.Instances {
		if rec.ParentID != uuid.Nil && !seen[rec.ParentID] {
			return fmt.Errorf("snapshot %q instance %d references unknown parent %s", s.Name, i, rec.ParentID)
		}
		seen[rec.ID] = true
	}
	return nil
}

// Restore writes the snapshot into sink and replaces the scene contents. The
// sink must have the same dimensions the snapshot was taken with.
func Restore(snap Snapshot, sink course.HeightmapSink, scene *course.Scene) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if sink.GridWidth() != snap.GridWidth || sink.GridDepth() != snap.GridDepth {
		return fmt.Errorf("snapshot %q is %dx%d, heightmap is %dx%d",
			snap.Name, snap.GridWidth, snap.GridDepth, sink.GridWidth(), sink.GridDepth())
	}

	stride := snap.GridWidth + 1
	for i, cell := range snap.Cells {
		sink.SetData(i%stride, i/stride, cell.Height, cell.Zone)
	}
	sink.UpdateMesh()

	if scene == nil {
		return nil
	}
	scene.Reset()
	byID := make(map[uuid.UUID]*course.Instance, len(snap.Instances))
	for _, rec := range snap.Instances {
		inst := &course.Instance{
			ID:       rec.ID,
			Template: rec.Template,
			Kind:     rec.Kind,
			Key:      rec.Key,
			Position: rec.Position,
			Yaw:      rec.Yaw,
			Scale:    rec.Scale,
		}
		byID[rec.ID] = inst
		if rec.ParentID == uuid.Nil {
			scene.Add(inst)
			continue
		}
		parent := byID[rec.ParentID]
		parent.Children = append(parent.Children, inst)
		scene.Register(inst.Key, inst)
	}
	return nil
}
