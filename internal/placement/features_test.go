package placement

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"coursegen/internal/config"
	"coursegen/internal/course"
	"coursegen/internal/terrain"
)

func defaultTemplates(skip ...string) *course.Templates {
	skipped := make(map[string]bool, len(skip))
	for _, id := range skip {
		skipped[id] = true
	}
	var templates []course.Template
	for _, def := range config.DefaultTemplates() {
		if skipped[def.ID] {
			continue
		}
		tpl := course.Template{ID: def.ID, Kind: def.Kind, Color: def.Color}
		for _, target := range def.Targets {
			tpl.Targets = append(tpl.Targets, course.Target{
				Key:    target.Key,
				Offset: mgl64.Vec3{target.Offset.X, target.Offset.Y, target.Offset.Z},
			})
		}
		templates = append(templates, tpl)
	}
	return course.NewTemplates(templates...)
}

func scenarioCurve() terrain.Curve {
	return terrain.NewCurve(mgl64.Vec2{100, 20}, mgl64.Vec2{80, 150}, mgl64.Vec2{60, 310})
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	originalFlags := log.Flags()
	originalWriter := log.Writer()
	log.SetFlags(0)
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(originalWriter)
		log.SetFlags(originalFlags)
	})
	return &buf
}

func TestPlaceFeaturesAnchorsAndRotations(t *testing.T) {
	scene := course.NewScene()
	placer := NewFeaturePlacer(config.Default().Features, defaultTemplates(), scene)

	report := placer.PlaceFeatures(scenarioCurve(), mgl64.Vec3{})
	if len(report.Placed) != 3 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	byKind := make(map[string]*course.Instance)
	for _, inst := range scene.Instances() {
		byKind[inst.Kind] = inst
	}

	tee := byKind[config.KindMarker]
	if tee == nil || tee.Position != (mgl64.Vec3{100, 0.5, 20}) || tee.Yaw != 0 {
		t.Fatalf("tee marker misplaced: %+v", tee)
	}

	green := byKind[config.KindGreen]
	if green == nil || green.Position != (mgl64.Vec3{60, 1, 310}) {
		t.Fatalf("green complex misplaced: %+v", green)
	}
	dir := mgl64.Vec2{60 - 80, 310 - 150}.Normalize()
	wantYaw := math.Atan2(dir[0], dir[1]) * 180 / math.Pi
	if math.Abs(green.Yaw-wantYaw) > 1e-9 {
		t.Fatalf("green yaw = %v, want %v", green.Yaw, wantYaw)
	}

	sign := byKind[config.KindSign]
	if sign == nil || sign.Position != (mgl64.Vec3{103, 0, 18}) || sign.Yaw != 180 {
		t.Fatalf("sign misplaced: %+v", sign)
	}

	target, ok := scene.Lookup(course.HoleTargetKey)
	if !ok {
		t.Fatalf("hole target not registered")
	}
	if !target.Position.ApproxEqualThreshold(green.Position, 1e-9) {
		t.Fatalf("hole target at %v, want %v", target.Position, green.Position)
	}
}

func TestPlaceFeaturesAppliesTerrainOrigin(t *testing.T) {
	scene := course.NewScene()
	placer := NewFeaturePlacer(config.Default().Features, defaultTemplates(), scene)
	origin := mgl64.Vec3{-50, 3, 10}

	placer.PlaceFeatures(scenarioCurve(), origin)

	for _, inst := range scene.Instances() {
		if inst.Kind == config.KindMarker && inst.Position != (mgl64.Vec3{50, 3.5, 30}) {
			t.Fatalf("tee marker ignored origin: %v", inst.Position)
		}
	}
}

func TestPlaceFeaturesSkipsMissingTemplateOnly(t *testing.T) {
	logs := captureLogs(t)
	scene := course.NewScene()
	placer := NewFeaturePlacer(config.Default().Features, defaultTemplates("green_complex"), scene)

	report := placer.PlaceFeatures(scenarioCurve(), mgl64.Vec3{})

	if want := []string{"tee marker", "sign"}; strings.Join(report.Placed, ",") != strings.Join(want, ",") {
		t.Fatalf("placed = %v, want %v", report.Placed, want)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != "green complex" {
		t.Fatalf("skipped = %v, want [green complex]", report.Skipped)
	}
	if scene.Len() != 2 {
		t.Fatalf("scene has %d instances, want 2", scene.Len())
	}
	if _, ok := scene.Lookup(course.HoleTargetKey); ok {
		t.Fatalf("hole target should not exist without a green")
	}
	if !strings.Contains(logs.String(), "feature green complex skipped") {
		t.Fatalf("expected skip to be logged, got: %s", logs.String())
	}
}

func TestPlaceFeaturesDegenerateApproachFacesForward(t *testing.T) {
	scene := course.NewScene()
	placer := NewFeaturePlacer(config.Default().Features, defaultTemplates(), scene)
	curve := terrain.NewCurve(mgl64.Vec2{0, 0}, mgl64.Vec2{10, 10}, mgl64.Vec2{10, 10})

	placer.PlaceFeatures(curve, mgl64.Vec3{})
	for _, inst := range scene.Instances() {
		if inst.Kind == config.KindGreen && inst.Yaw != 0 {
			t.Fatalf("green yaw = %v, want 0 when P1 == P2", inst.Yaw)
		}
	}
}
