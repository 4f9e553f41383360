package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakePerf(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.now
	return pc, clk
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, clk := newFakePerf(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseEvaluate)
		clk.advance(300 * time.Microsecond)
		pc.StartPhase(PhaseComposite)
		clk.advance(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration != 400*time.Microsecond {
		t.Errorf("AvgFrameDuration = %v, want 400µs", stats.AvgFrameDuration)
	}
	if got := stats.PhaseAvg[PhaseEvaluate]; got != 300*time.Microsecond {
		t.Errorf("evaluate avg = %v, want 300µs", got)
	}
	if got := stats.PhasePct[PhaseEvaluate]; got < 74.9 || got > 75.1 {
		t.Errorf("evaluate pct = %v, want 75", got)
	}
	if got := stats.FramesPerSecond; got < 2499 || got > 2501 {
		t.Errorf("FramesPerSecond = %v, want 2500", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clk := newFakePerf(5)

	// Five slow frames pushed out by five fast ones.
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseEvaluate)
		clk.advance(10 * time.Millisecond)
		pc.EndFrame()
	}
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseEvaluate)
		clk.advance(time.Millisecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.MaxFrameDuration != time.Millisecond {
		t.Errorf("MaxFrameDuration = %v, want 1ms after window rolled", stats.MaxFrameDuration)
	}
	if stats.MinFrameDuration != time.Millisecond {
		t.Errorf("MinFrameDuration = %v, want 1ms", stats.MinFrameDuration)
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	pc := NewPerfCollector(0)
	stats := pc.Stats()
	if stats.AvgFrameDuration != 0 {
		t.Errorf("AvgFrameDuration = %v, want 0", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("maps should be non-nil on empty stats")
	}
}

func TestPerfCollector_Present(t *testing.T) {
	pc, clk := newFakePerf(4)
	pc.RecordPresent()
	clk.advance(20 * time.Millisecond)
	pc.RecordPresent()

	stats := pc.Stats()
	if stats.FPS < 49.9 || stats.FPS > 50.1 {
		t.Errorf("FPS = %v, want 50", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	pc, clk := newFakePerf(2)
	pc.StartFrame()
	pc.StartPhase(PhaseEvaluate)
	clk.advance(3 * time.Millisecond)
	pc.StartPhase(PhaseSnapshot)
	clk.advance(time.Millisecond)
	pc.EndFrame()

	row := pc.Stats().ToCSV(42)
	if row.Frame != 42 {
		t.Errorf("Frame = %d, want 42", row.Frame)
	}
	if row.AvgFrameUS != 4000 {
		t.Errorf("AvgFrameUS = %d, want 4000", row.AvgFrameUS)
	}
	if row.EvaluatePct < 74.9 || row.EvaluatePct > 75.1 {
		t.Errorf("EvaluatePct = %v, want 75", row.EvaluatePct)
	}
	if row.SnapshotPct < 24.9 || row.SnapshotPct > 25.1 {
		t.Errorf("SnapshotPct = %v, want 25", row.SnapshotPct)
	}
}
