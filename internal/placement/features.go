package placement

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"coursegen/internal/config"
	"coursegen/internal/course"
	"coursegen/internal/terrain"
)

// Feature anchor offsets relative to the tee (P0) and green (P2).
var (
	teeMarkerOffset = mgl64.Vec3{0, 0.5, 0}
	greenOffset     = mgl64.Vec3{0, 1.0, 0}
	signOffset      = mgl64.Vec3{3, 0, -2}
)

const signYaw = 180.0

// Templates builds placeable instances from template identifiers.
type Templates interface {
	Instantiate(id string, position mgl64.Vec3, yaw, scale float64) (*course.Instance, error)
}

// FeatureReport lists feature names that were placed and skipped.
type FeatureReport struct {
	Placed  []string
	Skipped []string
}

// FeaturePlacer positions the tee marker, green complex and sign.
type FeaturePlacer struct {
	cfg       config.FeatureConfig
	templates Templates
	scene     *course.Scene
}

func NewFeaturePlacer(cfg config.FeatureConfig, templates Templates, scene *course.Scene) *FeaturePlacer {
	return &FeaturePlacer{cfg: cfg, templates: templates, scene: scene}
}

// PlaceFeatures places each feature independently. A feature whose template
// does not resolve is logged and skipped; earlier placements stay.
func (p *FeaturePlacer) PlaceFeatures(curve terrain.Curve, origin mgl64.Vec3) FeatureReport {
	var report FeatureReport

	tee := origin.Add(ground(curve.P0)).Add(teeMarkerOffset)
	p.place(&report, "tee marker", p.cfg.TeeTemplate, tee, 0)

	dir := curve.Direction()
	greenYaw := mgl64.RadToDeg(math.Atan2(dir[0], dir[1]))
	green := origin.Add(ground(curve.P2)).Add(greenOffset)
	p.place(&report, "green complex", p.cfg.GreenTemplate, green, greenYaw)

	sign := origin.Add(ground(curve.P0)).Add(signOffset)
	p.place(&report, "sign", p.cfg.SignTemplate, sign, signYaw)

	return report
}

func (p *FeaturePlacer) place(report *FeatureReport, name, templateID string, position mgl64.Vec3, yaw float64) {
	inst, err := p.templates.Instantiate(templateID, position, yaw, 1)
	if err != nil {
		log.Printf("feature %s skipped: %v", name, err)
		report.Skipped = append(report.Skipped, name)
		return
	}
	p.scene.Add(inst)
	for _, child := range inst.Children {
		p.scene.Register(child.Key, child)
	}
	report.Placed = append(report.Placed, name)
}

// ground lifts a horizontal (x, z) point onto the y=0 plane.
func ground(p mgl64.Vec2) mgl64.Vec3 {
	return mgl64.Vec3{p[0], 0, p[1]}
}
