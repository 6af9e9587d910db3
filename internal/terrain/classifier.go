package terrain

import (
	"log"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"

	"coursegen/internal/config"
	"coursegen/internal/course"
)

// Zone heights. Heavy rough adds up to heavyRoughJitter on top of its base.
const (
	fairwayHeight    = 0.5
	roughHeight      = 0.8
	heavyRoughHeight = 1.5
	heavyRoughJitter = 0.5
	greenHeight      = 1.0
	greenRipple      = 0.1
	greenFrequency   = 0.1
	bunkerHeight     = -0.5
	teeHeight        = 0.2
)

// Stats counts classified cells per zone.
type Stats struct {
	Cells int
	Zones map[course.Zone]int
}

func (s *Stats) add(zone course.Zone) {
	if s.Zones == nil {
		s.Zones = make(map[course.Zone]int, len(course.Zones()))
	}
	s.Cells++
	s.Zones[zone]++
}

// Classifier sweeps a heightmap once and writes a zone and height for every
// cell.
type Classifier struct {
	cfg        config.TerrainConfig
	curve      Curve
	holeLength float64
	rng        *rand.Rand
	undulation *perlin.Perlin
}

// NewClassifier binds the classifier to a centerline and a random stream.
// Every noise draw comes from rng, so a seeded rng reproduces the grid.
func NewClassifier(cfg config.TerrainConfig, curve Curve, holeLength float64, rng *rand.Rand, seed int64) *Classifier {
	c := &Classifier{
		cfg:        cfg,
		curve:      curve,
		holeLength: holeLength,
		rng:        rng,
	}
	if u := cfg.Undulation; u.Amplitude > 0 && u.Scale > 0 {
		c.undulation = perlin.NewPerlin(u.Alpha, u.Beta, u.Octaves, seed)
	}
	return c
}

// Classify writes every cell in [0,GridWidth]x[0,GridDepth], row by row, then
// asks the sink to rebuild its mesh.
func (c *Classifier) Classify(sink course.HeightmapSink) Stats {
	width, depth := sink.GridWidth(), sink.GridDepth()
	size := sink.CellSize()

	var stats Stats
	for row := 0; row <= depth; row++ {
		for col := 0; col <= width; col++ {
			wx := float64(col) * size
			wz := float64(row) * size
			height, zone := c.ClassifyPoint(wx, wz)
			sink.SetData(col, row, height, zone)
			stats.add(zone)
		}
	}
	sink.UpdateMesh()

	log.Printf("terrain classified %d cells: fairway=%d rough=%d heavy_rough=%d green=%d bunker=%d tee=%d",
		stats.Cells,
		stats.Zones[course.ZoneFairway],
		stats.Zones[course.ZoneRough],
		stats.Zones[course.ZoneHeavyRough],
		stats.Zones[course.ZoneGreen],
		stats.Zones[course.ZoneBunker],
		stats.Zones[course.ZoneTee])
	return stats
}

// ClassifyPoint resolves one world position. Distance to the corridor is
// measured against the centerline sample at the same progress, not the
// nearest point on the curve. Overlays apply in a fixed order (green, bunker,
// tee), each overriding what came before.
func (c *Classifier) ClassifyPoint(wx, wz float64) (float64, course.Zone) {
	t := Progress(wz, c.holeLength)
	corridorX := c.curve.Evaluate(t)[0]
	dist := math.Abs(wx - corridorX)

	n := uniform(c.rng, -c.cfg.NoiseAmplitude, c.cfg.NoiseAmplitude)

	var (
		height float64
		zone   course.Zone
	)
	switch {
	case dist < c.cfg.FairwayHalfWidth+n:
		zone, height = course.ZoneFairway, fairwayHeight
	case dist < c.cfg.RoughHalfWidth+n:
		zone, height = course.ZoneRough, roughHeight
	default:
		zone, height = course.ZoneHeavyRough, heavyRoughHeight+uniform(c.rng, 0, heavyRoughJitter)
	}
	height += c.undulate(wx, wz)

	point := mgl64.Vec2{wx, wz}
	if point.Sub(c.curve.P2).Len() < c.cfg.GreenRadius {
		zone, height = course.ZoneGreen, greenHeight+greenRipple*math.Sin(greenFrequency*wx)
	}

	bunker := c.curve.P2.Add(mgl64.Vec2{c.cfg.BunkerOffset.X, c.cfg.BunkerOffset.Z})
	if point.Sub(bunker).Len() < c.cfg.BunkerRadius {
		zone, height = course.ZoneBunker, bunkerHeight
	}

	if wz < c.cfg.TeeDepth && math.Abs(wx-c.curve.P0[0]) < c.cfg.TeeHalfWidth {
		zone, height = course.ZoneTee, teeHeight
	}

	return height, zone
}

func (c *Classifier) undulate(wx, wz float64) float64 {
	if c.undulation == nil {
		return 0
	}
	u := c.cfg.Undulation
	return c.undulation.Noise2D(wx/u.Scale, wz/u.Scale) * u.Amplitude
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
