package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"coursegen/internal/config"
	"coursegen/internal/course"
	"coursegen/internal/placement"
	"coursegen/internal/terrain"
)

// ErrMissingSink is returned when generation starts without a heightmap sink.
var ErrMissingSink = errors.New("heightmap sink not assigned")

// Report sources.
const (
	SourceLoaded     = "loaded"
	SourceProcedural = "procedural"
)

// Gateway lets a saved course preempt procedural generation.
type Gateway interface {
	PendingLoad() (string, bool)
	LoadCourse(ctx context.Context, name string, sink course.HeightmapSink, scene *course.Scene) error
}

// Report summarises one Generate call.
type Report struct {
	RunID      uuid.UUID
	Source     string
	CourseName string
	Seed       int64
	Terrain    terrain.Stats
	Features   placement.FeatureReport
	Scatter    placement.ScatterReport
	Duration   time.Duration
}

// Generator runs the load-or-generate flow for a single hole. It owns the
// random stream; every other collaborator is handed in.
type Generator struct {
	cfg       *config.Config
	sink      course.HeightmapSink
	scene     *course.Scene
	templates placement.Templates
	gateway   Gateway
	rng       *rand.Rand
	seed      int64
}

// New wires a generator. gateway may be nil when nothing is ever loaded. The
// random stream is seeded from cfg.Generation.Seed.
func New(cfg *config.Config, sink course.HeightmapSink, scene *course.Scene, templates placement.Templates, gateway Gateway) *Generator {
	if scene == nil {
		scene = course.NewScene()
	}
	rng, seed := NewRand(cfg.Generation.Seed)
	return &Generator{
		cfg:       cfg,
		sink:      sink,
		scene:     scene,
		templates: templates,
		gateway:   gateway,
		rng:       rng,
		seed:      seed,
	}
}

// NewRand returns a stream seeded with seed, or with the clock when seed is
// zero. The seed actually used is returned so a run can be replayed.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

func (g *Generator) Scene() *course.Scene {
	return g.scene
}

func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate waits for the sink, then either restores a pending saved course or
// builds one procedurally. A failed load falls back to generation.
func (g *Generator) Generate(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{
		RunID:      uuid.New(),
		CourseName: g.cfg.Course.Name,
		Seed:       g.seed,
	}

	if g.sink == nil {
		log.Printf("generation aborted: %v", ErrMissingSink)
		return report, ErrMissingSink
	}
	if err := g.waitReady(ctx); err != nil {
		return report, fmt.Errorf("wait for heightmap: %w", err)
	}

	if g.gateway != nil {
		if name, ok := g.gateway.PendingLoad(); ok {
			err := g.gateway.LoadCourse(ctx, name, g.sink, g.scene)
			if err == nil {
				report.Source = SourceLoaded
				report.CourseName = name
				report.Duration = time.Since(start)
				log.Printf("course %q loaded in %s (run %s)", name, report.Duration, report.RunID)
				return report, nil
			}
			log.Printf("load course %q failed, generating instead: %v", name, err)
		}
	}

	report.Source = SourceProcedural
	g.generate(&report)
	report.Duration = time.Since(start)
	log.Printf("course %q generated in %s (run %s, seed %d, %d trees)",
		report.CourseName, report.Duration, report.RunID, g.seed, report.Scatter.Placed)
	return report, nil
}

func (g *Generator) generate(report *Report) {
	cfg := g.cfg
	curve := terrain.CurveFromConfig(cfg.Course)
	origin := mgl64.Vec3{cfg.Course.Origin.X, cfg.Course.Origin.Y, cfg.Course.Origin.Z}

	classifier := terrain.NewClassifier(cfg.Terrain, curve, cfg.Course.HoleLength, g.rng, g.seed)
	report.Terrain = classifier.Classify(g.sink)

	features := placement.NewFeaturePlacer(cfg.Features, g.templates, g.scene)
	report.Features = features.PlaceFeatures(curve, origin)

	size := g.sink.CellSize()
	layout := placement.Layout{
		Curve:          curve,
		HoleLength:     cfg.Course.HoleLength,
		RoughHalfWidth: cfg.Terrain.RoughHalfWidth,
		Extent:         mgl64.Vec2{float64(g.sink.GridWidth()) * size, float64(g.sink.GridDepth()) * size},
		Origin:         origin,
	}
	scatter := placement.NewScatterPlacer(cfg.Scatter, layout, g.templates, g.scene, g.rng)
	report.Scatter = scatter.ScatterTrees(cfg.Scatter.Count)
}

// waitReady blocks until a sink that finishes its own setup reports ready.
func (g *Generator) waitReady(ctx context.Context) error {
	readier, ok := g.sink.(course.Readier)
	if !ok {
		return nil
	}
	if timeout := g.cfg.Generation.ReadyTimeout.Duration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	select {
	case <-readier.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
