package placement

import (
	"log"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"coursegen/internal/config"
	"coursegen/internal/course"
	"coursegen/internal/terrain"
)

// Layout is the hole geometry the scatter band is derived from.
type Layout struct {
	Curve          terrain.Curve
	HoleLength     float64
	RoughHalfWidth float64
	Extent         mgl64.Vec2 // world size of the grid along x and z
	Origin         mgl64.Vec3
}

// ScatterReport tallies what happened to every attempt.
type ScatterReport struct {
	Attempts        int
	Placed          int
	OutOfBounds     int
	NearGreen       int
	MissingTemplate int
}

// ScatterPlacer rejection-samples decoration in a band outside the corridor.
type ScatterPlacer struct {
	cfg       config.ScatterConfig
	layout    Layout
	templates Templates
	scene     *course.Scene
	rng       *rand.Rand
}

func NewScatterPlacer(cfg config.ScatterConfig, layout Layout, templates Templates, scene *course.Scene, rng *rand.Rand) *ScatterPlacer {
	return &ScatterPlacer{
		cfg:       cfg,
		layout:    layout,
		templates: templates,
		scene:     scene,
		rng:       rng,
	}
}

// ScatterTrees makes count independent attempts. Rejected attempts are not
// retried, so fewer than count trees are usually placed.
func (s *ScatterPlacer) ScatterTrees(count int) ScatterReport {
	var report ScatterReport
	holeLength := s.layout.HoleLength
	inner := s.layout.RoughHalfWidth + s.cfg.InnerMargin
	outer := s.layout.RoughHalfWidth + s.cfg.OuterMargin

	for i := 0; i < count; i++ {
		report.Attempts++

		wz := uniform(s.rng, 0, holeLength+s.cfg.Overshoot)
		corridorX := s.layout.Curve.Evaluate(terrain.Progress(wz, holeLength))[0]

		side := 1.0
		if s.rng.Intn(2) == 0 {
			side = -1.0
		}
		wx := corridorX + side*uniform(s.rng, inner, outer)

		if wx < 0 || wx > s.layout.Extent[0] || wz > s.layout.Extent[1] {
			report.OutOfBounds++
			continue
		}
		point := mgl64.Vec2{wx, wz}
		if point.Sub(s.layout.Curve.P2).Len() < s.cfg.GreenExclusion {
			report.NearGreen++
			continue
		}

		species := s.pickSpecies()
		scale := uniform(s.rng, s.cfg.MinScale, s.cfg.MaxScale)
		yaw := uniform(s.rng, 0, 360)

		position := s.layout.Origin.Add(mgl64.Vec3{wx, 0, wz})
		inst, err := s.templates.Instantiate(species, position, yaw, scale)
		if err != nil {
			log.Printf("scatter attempt %d skipped: %v", i, err)
			report.MissingTemplate++
			continue
		}
		s.scene.Add(inst)
		report.Placed++
	}

	log.Printf("scatter placed %d of %d attempts (out of bounds %d, near green %d, missing template %d)",
		report.Placed, report.Attempts, report.OutOfBounds, report.NearGreen, report.MissingTemplate)
	return report
}

// pickSpecies chooses a pool 50/50, then a species uniformly within it.
func (s *ScatterPlacer) pickSpecies() string {
	pools := s.cfg.Pools
	if len(pools) == 0 {
		return ""
	}
	pool := pools[s.rng.Intn(len(pools))]
	if len(pool) == 0 {
		return ""
	}
	return pool[s.rng.Intn(len(pool))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
