package course

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestInstantiateRotatesNestedTargets(t *testing.T) {
	templates := NewTemplates(Template{
		ID:      "green_complex",
		Kind:    "green",
		Targets: []Target{{Key: HoleTargetKey, Offset: mgl64.Vec3{0, 0, 2}}},
	})

	inst, err := templates.Instantiate("green_complex", mgl64.Vec3{10, 1, 10}, 90, 1)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if len(inst.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(inst.Children))
	}
	child := inst.Children[0]
	if child.Key != HoleTargetKey {
		t.Fatalf("child key = %q, want %q", child.Key, HoleTargetKey)
	}
	// +Z rotated 90 degrees about +Y lands on +X.
	want := mgl64.Vec3{12, 1, 10}
	if !child.Position.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("child position = %v, want %v", child.Position, want)
	}
	if child.ID == inst.ID {
		t.Fatalf("nested target must have its own identifier")
	}
}

func TestResolveMissingTemplate(t *testing.T) {
	templates := NewTemplates()
	_, err := templates.Resolve("tree_palm")
	if !errors.Is(err, ErrMissingTemplate) {
		t.Fatalf("expected ErrMissingTemplate, got %v", err)
	}
	if _, err := (*Templates)(nil).Resolve("x"); !errors.Is(err, ErrMissingTemplate) {
		t.Fatalf("nil registry should report missing templates, got %v", err)
	}
}

func TestSceneRegisterAndReset(t *testing.T) {
	scene := NewScene()
	root := &Instance{Kind: "green"}
	target := &Instance{Key: HoleTargetKey}
	scene.Add(root)
	scene.Add(nil)
	scene.Register(HoleTargetKey, target)

	if scene.Len() != 1 {
		t.Fatalf("len = %d, want 1", scene.Len())
	}
	if got, ok := scene.Lookup(HoleTargetKey); !ok || got != target {
		t.Fatalf("lookup returned %v, %v", got, ok)
	}
	if scene.CountKind("green") != 1 || scene.CountKind("tree") != 0 {
		t.Fatalf("unexpected kind counts")
	}

	scene.Reset()
	if scene.Len() != 0 {
		t.Fatalf("expected empty scene after reset")
	}
	if _, ok := scene.Lookup(HoleTargetKey); ok {
		t.Fatalf("expected lookup keys cleared after reset")
	}
}

func TestInstanceRotationMatchesYaw(t *testing.T) {
	inst := &Instance{Yaw: 180}
	forward := inst.Rotation().Rotate(mgl64.Vec3{0, 0, 1})
	if math.Abs(forward[2]+1) > 1e-9 || math.Abs(forward[0]) > 1e-9 {
		t.Fatalf("180 degree yaw should face -Z, got %v", forward)
	}
}
