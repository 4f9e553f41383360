package telemetry

import "github.com/pthm-cable/cabana/raster"

// Collector decides when a stats window closes and produces its FrameStats.
type Collector struct {
	every       int64
	windowStart int64
	frames      int
}

// NewCollector creates a collector that flushes every `every` frames.
// every <= 0 disables flushing.
func NewCollector(every int) *Collector {
	return &Collector{every: int64(every)}
}

// RecordFrame counts one evaluated frame in the current window.
func (c *Collector) RecordFrame() {
	c.frames++
}

// ShouldFlush reports whether the window ending at frame is complete.
func (c *Collector) ShouldFlush(frame int64) bool {
	return c.every > 0 && c.frames > 0 && frame-c.windowStart >= c.every
}

// Flush measures buf and starts a new window at frame.
func (c *Collector) Flush(frame int64, depth float64, buf *raster.Buffer) FrameStats {
	s := ComputeFrameStats(frame, depth, buf)
	s.FramesInWindow = c.frames
	c.windowStart = frame
	c.frames = 0
	return s
}

// Reset starts a new window at frame without measuring anything.
func (c *Collector) Reset(frame int64) {
	c.windowStart = frame
	c.frames = 0
}
