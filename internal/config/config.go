package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a JSON and YAML friendly wrapper around time.Duration that
// accepts human readable strings such as "150ms" in configuration files while
// still allowing numeric representations when necessary.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: decode string: %w", err)
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures every tunable used to generate or load a course hole.
type Config struct {
	Course     CourseConfig         `json:"course" yaml:"course"`
	Terrain    TerrainConfig        `json:"terrain" yaml:"terrain"`
	Features   FeatureConfig        `json:"features" yaml:"features"`
	Scatter    ScatterConfig        `json:"scatter" yaml:"scatter"`
	Generation GenerationConfig     `json:"generation" yaml:"generation"`
	Storage    StorageConfig        `json:"storage" yaml:"storage"`
	Preview    PreviewConfig        `json:"preview" yaml:"preview"`
	Templates  []TemplateDefinition `json:"templates" yaml:"templates"`
}

// Point is a horizontal (x, z) world position.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Z float64 `json:"z" yaml:"z"`
}

// Point3 is a full world position with Y up.
type Point3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

type CourseConfig struct {
	Name       string  `json:"name" yaml:"name"`
	GridWidth  int     `json:"gridWidth" yaml:"grid_width"`
	GridDepth  int     `json:"gridDepth" yaml:"grid_depth"`
	CellSize   float64 `json:"cellSize" yaml:"cell_size"`
	HoleLength float64 `json:"holeLength" yaml:"hole_length"`
	Tee        Point   `json:"tee" yaml:"tee"`     // P0
	Mid        Point   `json:"mid" yaml:"mid"`     // P1
	Green      Point   `json:"green" yaml:"green"` // P2
	Origin     Point3  `json:"origin" yaml:"origin"`
}

type TerrainConfig struct {
	FairwayHalfWidth float64          `json:"fairwayHalfWidth" yaml:"fairway_half_width"`
	RoughHalfWidth   float64          `json:"roughHalfWidth" yaml:"rough_half_width"`
	NoiseAmplitude   float64          `json:"noiseAmplitude" yaml:"noise_amplitude"`
	GreenRadius      float64          `json:"greenRadius" yaml:"green_radius"`
	BunkerOffset     Point            `json:"bunkerOffset" yaml:"bunker_offset"` // relative to the green anchor
	BunkerRadius     float64          `json:"bunkerRadius" yaml:"bunker_radius"`
	TeeDepth         float64          `json:"teeDepth" yaml:"tee_depth"`
	TeeHalfWidth     float64          `json:"teeHalfWidth" yaml:"tee_half_width"`
	Undulation       UndulationConfig `json:"undulation" yaml:"undulation"`
}

// UndulationConfig adds low frequency Perlin relief to base zones. A zero
// amplitude disables it.
type UndulationConfig struct {
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	Scale     float64 `json:"scale" yaml:"scale"`
	Alpha     float64 `json:"alpha" yaml:"alpha"`
	Beta      float64 `json:"beta" yaml:"beta"`
	Octaves   int32   `json:"octaves" yaml:"octaves"`
}

type FeatureConfig struct {
	TeeTemplate   string `json:"teeTemplate" yaml:"tee_template"`
	GreenTemplate string `json:"greenTemplate" yaml:"green_template"`
	SignTemplate  string `json:"signTemplate" yaml:"sign_template"`
}

type ScatterConfig struct {
	Count          int        `json:"count" yaml:"count"`
	InnerMargin    float64    `json:"innerMargin" yaml:"inner_margin"`       // added to the rough half width
	OuterMargin    float64    `json:"outerMargin" yaml:"outer_margin"`       // added to the rough half width
	Overshoot      float64    `json:"overshoot" yaml:"overshoot"`            // sampled depth past the hole length
	GreenExclusion float64    `json:"greenExclusion" yaml:"green_exclusion"` // no trees closer to the green anchor
	MinScale       float64    `json:"minScale" yaml:"min_scale"`
	MaxScale       float64    `json:"maxScale" yaml:"max_scale"`
	Pools          [][]string `json:"pools" yaml:"pools"`
}

type GenerationConfig struct {
	// Seed 0 seeds the random stream from the clock, so runs are not reproducible.
	Seed         int64    `json:"seed" yaml:"seed"`
	ReadyTimeout Duration `json:"readyTimeout" yaml:"ready_timeout"`
}

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

type StorageConfig struct {
	Driver string `json:"driver" yaml:"driver"` // memory, sqlite or file
	Path   string `json:"path" yaml:"path"`
}

type PreviewConfig struct {
	Dir        string `json:"dir" yaml:"dir"`
	CellPixels int    `json:"cellPixels" yaml:"cell_pixels"`
}

// Load reads configuration from a JSON or YAML file if provided. An empty path
// returns defaults. Files ending in .yaml or .yml are decoded as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Course: CourseConfig{
			Name:       "hole-1",
			GridWidth:  100,
			GridDepth:  170,
			CellSize:   2.0,
			HoleLength: 310,
			Tee:        Point{X: 100, Z: 20},
			Mid:        Point{X: 80, Z: 150},
			Green:      Point{X: 60, Z: 310},
		},
		Terrain: TerrainConfig{
			FairwayHalfWidth: 20,
			RoughHalfWidth:   35,
			NoiseAmplitude:   2.0,
			GreenRadius:      15.0,
			BunkerOffset:     Point{X: -15, Z: -15},
			BunkerRadius:     6.0,
			TeeDepth:         10,
			TeeHalfWidth:     5,
			Undulation: UndulationConfig{
				Amplitude: 0,
				Scale:     60,
				Alpha:     2,
				Beta:      2,
				Octaves:   3,
			},
		},
		Features: FeatureConfig{
			TeeTemplate:   "tee_marker",
			GreenTemplate: "green_complex",
			SignTemplate:  "hole_sign",
		},
		Scatter: ScatterConfig{
			Count:          400,
			InnerMargin:    5,
			OuterMargin:    40,
			Overshoot:      20,
			GreenExclusion: 20.0,
			MinScale:       0.8,
			MaxScale:       1.2,
			Pools: [][]string{
				{"pine_tall", "pine_short"},
				{"oak_round", "birch_slim"},
			},
		},
		Generation: GenerationConfig{
			Seed:         0,
			ReadyTimeout: Duration(5 * time.Second),
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
		},
		Preview: PreviewConfig{
			CellPixels: 4,
		},
		Templates: DefaultTemplates(),
	}
}

func (c *Config) Validate() error {
	if c.Course.Name == "" {
		return errors.New("course.name must be set")
	}
	if c.Course.GridWidth <= 0 || c.Course.GridDepth <= 0 {
		return errors.New("course grid dimensions must be positive")
	}
	if c.Course.CellSize <= 0 {
		return errors.New("course.cellSize must be positive")
	}
	if c.Course.HoleLength <= 0 {
		return errors.New("course.holeLength must be positive")
	}
	if c.Terrain.FairwayHalfWidth <= 0 {
		return errors.New("terrain.fairwayHalfWidth must be positive")
	}
	if c.Terrain.RoughHalfWidth < c.Terrain.FairwayHalfWidth {
		return errors.New("terrain.roughHalfWidth must be >= fairwayHalfWidth")
	}
	if c.Terrain.NoiseAmplitude < 0 {
		return errors.New("terrain.noiseAmplitude cannot be negative")
	}
	if c.Terrain.GreenRadius < 0 || c.Terrain.BunkerRadius < 0 {
		return errors.New("terrain green/bunker radii cannot be negative")
	}
	if c.Terrain.Undulation.Amplitude < 0 {
		return errors.New("terrain.undulation.amplitude cannot be negative")
	}
	if c.Terrain.Undulation.Amplitude > 0 && c.Terrain.Undulation.Scale <= 0 {
		return errors.New("terrain.undulation.scale must be positive when enabled")
	}
	if c.Scatter.Count < 0 {
		return errors.New("scatter.count cannot be negative")
	}
	if c.Scatter.OuterMargin < c.Scatter.InnerMargin {
		return errors.New("scatter.outerMargin must be >= innerMargin")
	}
	if c.Scatter.MinScale <= 0 || c.Scatter.MaxScale < c.Scatter.MinScale {
		return errors.New("scatter scale range is invalid")
	}
	if len(c.Scatter.Pools) == 0 {
		return errors.New("scatter.pools cannot be empty")
	}
	for i, pool := range c.Scatter.Pools {
		if len(pool) == 0 {
			return fmt.Errorf("scatter.pools[%d] cannot be empty", i)
		}
	}
	if c.Generation.ReadyTimeout < 0 {
		return errors.New("generation.readyTimeout cannot be negative")
	}
	switch c.Storage.Driver {
	case "", StorageMemory:
	case StorageSQLite, StorageFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path must be set for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Preview.CellPixels <= 0 {
		return errors.New("preview.cellPixels must be positive")
	}
	return validateTemplates(c.Templates)
}
