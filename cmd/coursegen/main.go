package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"coursegen/internal/config"
	"coursegen/internal/course"
	"coursegen/internal/generator"
	"coursegen/internal/persistence"
	"coursegen/internal/preview"
	"coursegen/internal/terrain"
)

type options struct {
	seed       int64
	seedSet    bool
	load       string
	save       string
	previewDir string
	list       bool
}

func main() {
	var (
		cfgPath string
		opts    options
	)
	flag.StringVar(&cfgPath, "config", "", "path to course configuration file (JSON or YAML)")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed; overrides the configured seed, 0 seeds from the clock")
	flag.StringVar(&opts.load, "load", "", "restore a saved course instead of generating")
	flag.StringVar(&opts.save, "save", "", "save the resulting course under this name")
	flag.StringVar(&opts.previewDir, "preview", "", "write zone map and layout previews to this directory")
	flag.BoolVar(&opts.list, "list", false, "list saved courses and exit")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})

	if wrote, err := writeConfigFromEnv(cfgPath); err != nil {
		log.Fatalf("sync config from environment: %v", err)
	} else if wrote {
		log.Printf("wrote environment config to %s", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := run(ctx, cfg, opts); err != nil {
		log.Fatalf("coursegen: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	if opts.seedSet {
		cfg.Generation.Seed = opts.seed
	}
	if opts.previewDir != "" {
		cfg.Preview.Dir = opts.previewDir
	}

	store, err := persistence.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open course store: %w", err)
	}
	defer store.Close()
	gateway := persistence.NewGateway(store)

	if opts.list {
		names, err := gateway.Names(ctx)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}
	if opts.load != "" {
		gateway.RequestLoad(opts.load)
	}

	grid := course.NewGrid(cfg.Course.GridWidth, cfg.Course.GridDepth, cfg.Course.CellSize)
	grid.Init()

	gen := generator.New(cfg, grid, course.NewScene(), generator.TemplatesFromConfig(cfg.Templates), gateway)
	report, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate course: %w", err)
	}
	log.Printf("run %s: source=%s cells=%d features=%d trees=%d mesh_triangles=%d",
		report.RunID, report.Source, report.Terrain.Cells, len(report.Features.Placed),
		report.Scatter.Placed, grid.Mesh().TriangleCount())

	if opts.save != "" {
		if err := gateway.SaveCourse(ctx, opts.save, grid, gen.Scene(), report.Seed); err != nil {
			return err
		}
	}

	if dir := cfg.Preview.Dir; dir != "" {
		name := report.CourseName
		if err := preview.SaveZoneMap(grid, filepath.Join(dir, name+"_zones.png"), cfg.Preview.CellPixels); err != nil {
			return fmt.Errorf("zone map preview: %w", err)
		}
		curve := terrain.CurveFromConfig(cfg.Course)
		palette := preview.NewPalette(cfg.Templates)
		if err := preview.SavePlacementPlot(gen.Scene(), curve, palette, filepath.Join(dir, name+"_layout.png")); err != nil {
			return fmt.Errorf("layout preview: %w", err)
		}
		log.Printf("previews written to %s", dir)
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			return
		}

		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
