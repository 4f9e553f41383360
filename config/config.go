// Package config provides configuration loading and access for the sketch.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/cabana/noise"
	"github.com/pthm-cable/cabana/raster"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all sketch configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Raster    RasterConfig    `yaml:"raster"`
	Points    PointsConfig    `yaml:"points"`
	Palette   noise.Palette   `yaml:"palette"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int           `yaml:"width"`
	Height    int           `yaml:"height"`
	TargetFPS int           `yaml:"target_fps"`
	Filter    raster.Filter `yaml:"filter"` // nearest or bilinear
}

// RasterConfig holds the off-screen field size.
type RasterConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PointsConfig holds sample point parameters.
type PointsConfig struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"` // 0 = time-based, see ResolveSeed
}

// ResolveSeed picks the point seed: override when non-zero, then the
// configured seed, then the current time.
func (p PointsConfig) ResolveSeed(override int64) int64 {
	if override != 0 {
		return override
	}
	if p.Seed != 0 {
		return p.Seed
	}
	return time.Now().UnixNano()
}

// RenderConfig holds per-frame evaluation parameters.
type RenderConfig struct {
	Parallel       bool `yaml:"parallel"`
	Workers        int  `yaml:"workers"`          // 0 = GOMAXPROCS
	StepsPerUpdate int  `yaml:"steps_per_update"` // frames advanced per update call
}

// MaxStepsPerUpdate bounds render.steps_per_update.
const MaxStepsPerUpdate = 10

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow    int `yaml:"perf_window"`    // frames averaged by the perf collector
	StatsEvery    int `yaml:"stats_every"`    // frames between stats flushes
	SnapshotEvery int `yaml:"snapshot_every"` // frames between PNG snapshots (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PixelCount int   // Raster.Width * Raster.Height
	Period     int64 // frames before the field repeats (Raster.Width)
	Workers    int   // effective worker count
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse merges YAML data over the embedded defaults, validates the result and
// computes derived values.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in data
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the invariants the sketch relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Raster.Width < 1 || c.Raster.Height < 1 {
		errs = append(errs, fmt.Errorf("raster %dx%d: %w", c.Raster.Width, c.Raster.Height, noise.ErrEmptyRaster))
	}
	if c.Points.Count < noise.MinPoints {
		errs = append(errs, fmt.Errorf("points.count = %d: %w", c.Points.Count, noise.ErrTooFewPoints))
	}
	if err := c.Palette.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("palette: %w", err))
	}
	if c.Screen.Width < 1 || c.Screen.Height < 1 {
		errs = append(errs, fmt.Errorf("screen %dx%d must be positive", c.Screen.Width, c.Screen.Height))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("render.workers = %d must not be negative", c.Render.Workers))
	}
	if c.Render.StepsPerUpdate < 1 || c.Render.StepsPerUpdate > MaxStepsPerUpdate {
		errs = append(errs, fmt.Errorf("render.steps_per_update = %d must be in [1, %d]", c.Render.StepsPerUpdate, MaxStepsPerUpdate))
	}
	if c.Telemetry.SnapshotEvery < 0 || c.Telemetry.StatsEvery < 0 {
		errs = append(errs, errors.New("telemetry intervals must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.PixelCount = c.Raster.Width * c.Raster.Height
	c.Derived.Period = int64(c.Raster.Width)

	workers := c.Render.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > c.Raster.Height {
		workers = c.Raster.Height
	}
	c.Derived.Workers = workers
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
