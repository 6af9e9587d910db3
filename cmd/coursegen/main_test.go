package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"coursegen/internal/config"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Course.GridWidth, cfg.Course.GridDepth = 50, 85
	cfg.Course.CellSize = 4
	cfg.Generation.Seed = 11
	cfg.Storage = config.StorageConfig{Driver: config.StorageFile, Path: filepath.Join(t.TempDir(), "courses.bin")}
	return cfg
}

func TestRunGeneratesSavesAndPreviews(t *testing.T) {
	cfg := smallConfig(t)
	dir := t.TempDir()

	err := run(context.Background(), cfg, options{save: "saved", previewDir: dir})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"hole-1_zones.png", "hole-1_layout.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected preview %s: %v", name, err)
		}
	}

	// A second run restores the saved course.
	if err := run(context.Background(), cfg, options{load: "saved"}); err != nil {
		t.Fatalf("run with load: %v", err)
	}
}

func TestRunFallsBackWhenSavedCourseMissing(t *testing.T) {
	cfg := smallConfig(t)
	if err := run(context.Background(), cfg, options{load: "missing"}); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunSeedFlagOverridesConfig(t *testing.T) {
	cfg := smallConfig(t)
	if err := run(context.Background(), cfg, options{seed: 5, seedSet: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if cfg.Generation.Seed != 5 {
		t.Fatalf("seed = %d, want 5", cfg.Generation.Seed)
	}
}
