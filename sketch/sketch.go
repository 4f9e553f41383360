// Package sketch owns the animation state: the noise field, the raster it is
// evaluated into, the frame counter and the telemetry around each frame.
// It does not touch the window; the viewer package drives it for display.
package sketch

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/cabana/config"
	"github.com/pthm-cable/cabana/noise"
	"github.com/pthm-cable/cabana/raster"
	"github.com/pthm-cable/cabana/telemetry"
)

// MaxStepsPerUpdate bounds the frames advanced by one update call.
const MaxStepsPerUpdate = config.MaxStepsPerUpdate

// Options configures a sketch beyond the loaded config.
type Options struct {
	Seed           int64  // point seed; 0 falls back to points.seed, then the clock
	LogStats       bool   // log frame and perf stats via slog
	SnapshotDir    string // PNG snapshots (empty = disabled)
	OutputDir      string // CSV logs and config snapshot (empty = disabled)
	StepsPerUpdate int    // 0 uses render.steps_per_update from config
	MaxFrames      int64  // stop after this many frames (0 = unlimited)
}

// Sketch is the explicit evaluator context: point set, palette, frame
// counter and the raster owned by the evaluator.
type Sketch struct {
	cfg *config.Config

	field *noise.Field
	buf   *raster.Buffer
	seed  int64

	// frame is the next frame to evaluate; rendered is the frame buf holds.
	frame    int64
	rendered int64
	version  uint64 // bumped whenever buf is rewritten

	paused         bool
	stepsPerUpdate int
	maxFrames      int64

	parallel *parallelState

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	output        *telemetry.OutputManager
	snapshots     *telemetry.SnapshotWriter
	snapshotEvery int64
	logStats      bool
	statsCallback func(telemetry.FrameStats)
}

// NewSketch builds the point set and field from cfg. No frame is evaluated
// until the first update.
func NewSketch(cfg *config.Config, opts Options) (*Sketch, error) {
	seed := cfg.Points.ResolveSeed(opts.Seed)
	steps := opts.StepsPerUpdate
	if steps <= 0 {
		steps = cfg.Render.StepsPerUpdate
	}

	field, err := buildField(cfg, seed, cfg.Palette)
	if err != nil {
		return nil, err
	}

	s := &Sketch{
		cfg:       cfg,
		field:     field,
		buf:       field.NewBuffer(),
		seed:      seed,
		rendered:  -1,
		maxFrames: max(opts.MaxFrames, 0),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsEvery),
		logStats:  opts.LogStats,
	}
	s.SetStepsPerUpdate(steps)

	if cfg.Render.Parallel {
		s.parallel = newParallelState(cfg.Derived.Workers)
	}

	s.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	if err := s.output.WriteConfig(cfg); err != nil {
		s.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	s.snapshots, err = telemetry.NewSnapshotWriter(opts.SnapshotDir, cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.Filter)
	if err != nil {
		s.output.Close()
		return nil, fmt.Errorf("setting up snapshots: %w", err)
	}
	if opts.SnapshotDir != "" {
		s.snapshotEvery = int64(cfg.Telemetry.SnapshotEvery)
	}

	return s, nil
}

func buildField(cfg *config.Config, seed int64, palette noise.Palette) (*noise.Field, error) {
	points, err := noise.NewPointSet(cfg.Raster.Width, cfg.Raster.Height, cfg.Points.Count, seed)
	if err != nil {
		return nil, fmt.Errorf("building points: %w", err)
	}
	field, err := noise.NewField(cfg.Raster.Width, cfg.Raster.Height, points, palette)
	if err != nil {
		return nil, fmt.Errorf("building field: %w", err)
	}
	return field, nil
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (s *Sketch) SetStatsCallback(fn func(telemetry.FrameStats)) {
	s.statsCallback = fn
}

// UpdateHeadless advances one update without any display.
func (s *Sketch) UpdateHeadless() {
	s.perf.StartFrame()
	s.Advance()
	s.perf.EndFrame()
}

// Advance moves the frame counter by the configured steps and evaluates the
// last of them. Intermediate frames are skipped, never composited. The last
// step is shortened so the frame limit is never passed. It returns false when
// paused or done.
func (s *Sketch) Advance() bool {
	if s.paused || s.Done() {
		return false
	}

	first := s.frame
	target := first + int64(s.stepsPerUpdate) - 1
	if s.maxFrames > 0 {
		target = min(target, s.maxFrames-1)
	}

	s.perf.StartPhase(telemetry.PhaseEvaluate)
	s.evaluate(target)
	s.frame = target + 1

	s.perf.StartPhase(telemetry.PhaseSnapshot)
	if s.snapshotDue(first, target) {
		s.saveSnapshot()
	}

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collector.RecordFrame()
	s.flushTelemetry()

	return true
}

// snapshotDue reports whether [first, last] crossed a multiple of
// snapshotEvery. The snapshot holds last, the frame actually evaluated.
func (s *Sketch) snapshotDue(first, last int64) bool {
	if s.snapshotEvery <= 0 {
		return false
	}
	next := (first + s.snapshotEvery - 1) / s.snapshotEvery * s.snapshotEvery
	return next <= last
}

// Done reports whether the frame limit has been reached.
func (s *Sketch) Done() bool {
	return s.maxFrames > 0 && s.frame >= s.maxFrames
}

// evaluate fully overwrites buf with frame before anyone reads it.
func (s *Sketch) evaluate(frame int64) {
	if s.parallel != nil {
		s.parallel.evaluate(s.field, frame, s.buf)
	} else {
		s.field.EvaluateRows(frame, s.buf, 0, s.field.Height())
	}
	s.rendered = frame
	s.version++
}

// flushTelemetry closes the stats window when due and reports it.
func (s *Sketch) flushTelemetry() {
	if !s.collector.ShouldFlush(s.rendered) {
		return
	}
	if !s.logStats && s.output == nil && s.statsCallback == nil {
		s.collector.Reset(s.rendered)
		return
	}

	stats := s.collector.Flush(s.rendered, s.field.Depth(s.rendered), s.buf)
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteFrame(stats); err != nil {
			slog.Error("failed to write frame stats", "error", err)
		}
		if err := s.output.WritePerf(perfStats, s.rendered); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

func (s *Sketch) saveSnapshot() {
	path, err := s.snapshots.Save(s.rendered, s.buf)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", s.rendered)
}

// SaveSnapshot writes the current raster to dir, or to the configured
// snapshot directory when dir is empty.
func (s *Sketch) SaveSnapshot(dir string) (string, error) {
	if s.rendered < 0 {
		return "", fmt.Errorf("no frame rendered yet")
	}
	w := s.snapshots
	if dir != "" || w == nil {
		if dir == "" {
			dir = "snapshots"
		}
		var err error
		w, err = telemetry.NewSnapshotWriter(dir, s.cfg.Screen.Width, s.cfg.Screen.Height, s.cfg.Screen.Filter)
		if err != nil {
			return "", err
		}
	}
	return w.Save(s.rendered, s.buf)
}

// Reseed replaces the point set with one drawn from seed. The frame counter
// is kept and the current frame is re-evaluated.
func (s *Sketch) Reseed(seed int64) error {
	field, err := buildField(s.cfg, seed, s.field.Palette())
	if err != nil {
		return err
	}
	s.field = field
	s.seed = seed
	s.refresh()
	return nil
}

// SetPalette rebinds the channel mapping and re-evaluates the current frame.
func (s *Sketch) SetPalette(p noise.Palette) error {
	field, err := noise.NewField(s.field.Width(), s.field.Height(), s.field.Points(), p)
	if err != nil {
		return err
	}
	s.field = field
	s.refresh()
	return nil
}

// refresh re-evaluates the displayed frame after the field changed.
func (s *Sketch) refresh() {
	if s.rendered >= 0 {
		s.evaluate(s.rendered)
	}
}

// Close stops the worker pool and flushes output files.
func (s *Sketch) Close() error {
	if s.parallel != nil {
		s.parallel.stopWorkers()
	}
	return s.output.Close()
}

// Frame returns the next frame to be evaluated.
func (s *Sketch) Frame() int64 { return s.frame }

// Rendered returns the frame the raster holds, or -1 before the first update.
func (s *Sketch) Rendered() int64 { return s.rendered }

// Version changes every time the raster is rewritten.
func (s *Sketch) Version() uint64 { return s.version }

// Buffer returns the raster. It is only valid until the next update.
func (s *Sketch) Buffer() *raster.Buffer { return s.buf }

// Field returns the current evaluator.
func (s *Sketch) Field() *noise.Field { return s.field }

// Seed returns the seed of the current point set.
func (s *Sketch) Seed() int64 { return s.seed }

// Config returns the configuration the sketch was built from.
func (s *Sketch) Config() *config.Config { return s.cfg }

// Perf returns the frame timing collector.
func (s *Sketch) Perf() *telemetry.PerfCollector { return s.perf }

// Paused reports whether the frame counter is stopped.
func (s *Sketch) Paused() bool { return s.paused }

// SetPaused stops or resumes the frame counter.
func (s *Sketch) SetPaused(paused bool) { s.paused = paused }

// StepsPerUpdate returns the frames advanced per update.
func (s *Sketch) StepsPerUpdate() int { return s.stepsPerUpdate }

// SetStepsPerUpdate sets the frames advanced per update, clamped to
// [1, MaxStepsPerUpdate].
func (s *Sketch) SetStepsPerUpdate(n int) {
	s.stepsPerUpdate = max(1, min(n, MaxStepsPerUpdate))
}

// Probe explains the color of raster pixel (x, y) in the displayed frame.
func (s *Sketch) Probe(x, y int) (noise.Probe, bool) {
	if s.rendered < 0 {
		return noise.Probe{}, false
	}
	return s.field.Probe(s.rendered, x, y)
}
