package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cabana/raster"
)

// FrameStats summarizes the color content of one evaluated raster.
type FrameStats struct {
	Frame          int64   `csv:"frame"`
	Depth          float64 `csv:"depth"`
	FramesInWindow int     `csv:"frames_in_window"`

	MeanR float64 `csv:"mean_r"`
	MeanG float64 `csv:"mean_g"`
	MeanB float64 `csv:"mean_b"`
	StdR  float64 `csv:"std_r"`
	StdG  float64 `csv:"std_g"`
	StdB  float64 `csv:"std_b"`

	// Rec. 601 luma distribution
	LumaP10 float64 `csv:"luma_p10"`
	LumaP50 float64 `csv:"luma_p50"`
	LumaP90 float64 `csv:"luma_p90"`

	// Fraction of pixels whose channel hit the clamp bound
	SaturatedR float64 `csv:"saturated_r"`
	ZeroG      float64 `csv:"zero_g"`
	ZeroB      float64 `csv:"zero_b"`
}

// ComputeFrameStats measures buf, evaluated at frame and depth.
func ComputeFrameStats(frame int64, depth float64, buf *raster.Buffer) FrameStats {
	s := FrameStats{Frame: frame, Depth: depth}
	n := buf.Len()
	if n == 0 {
		return s
	}

	r := make([]float64, n)
	g := make([]float64, n)
	b := make([]float64, n)
	luma := make([]float64, n)
	var satR, zeroG, zeroB int

	pix := buf.Pix()
	for i := 0; i < n; i++ {
		p := pix[i*4 : i*4+4 : i*4+4]
		r[i], g[i], b[i] = float64(p[0]), float64(p[1]), float64(p[2])
		luma[i] = 0.299*r[i] + 0.587*g[i] + 0.114*b[i]
		if p[0] == 255 {
			satR++
		}
		if p[1] == 0 {
			zeroG++
		}
		if p[2] == 0 {
			zeroB++
		}
	}

	s.MeanR, s.StdR = meanStd(r)
	s.MeanG, s.StdG = meanStd(g)
	s.MeanB, s.StdB = meanStd(b)

	sort.Float64s(luma)
	s.LumaP10 = stat.Quantile(0.10, stat.Empirical, luma, nil)
	s.LumaP50 = stat.Quantile(0.50, stat.Empirical, luma, nil)
	s.LumaP90 = stat.Quantile(0.90, stat.Empirical, luma, nil)

	fn := float64(n)
	s.SaturatedR = float64(satR) / fn
	s.ZeroG = float64(zeroG) / fn
	s.ZeroB = float64(zeroB) / fn

	return s
}

// meanStd returns the mean and population standard deviation.
func meanStd(x []float64) (mean, std float64) {
	mean, variance := stat.PopMeanVariance(x, nil)
	return mean, math.Sqrt(variance)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.Frame),
		slog.Float64("depth", s.Depth),
		slog.Int("frames_in_window", s.FramesInWindow),
		slog.Float64("mean_r", s.MeanR),
		slog.Float64("mean_g", s.MeanG),
		slog.Float64("mean_b", s.MeanB),
		slog.Float64("std_r", s.StdR),
		slog.Float64("std_g", s.StdG),
		slog.Float64("std_b", s.StdB),
		slog.Float64("luma_p10", s.LumaP10),
		slog.Float64("luma_p50", s.LumaP50),
		slog.Float64("luma_p90", s.LumaP90),
		slog.Float64("saturated_r", s.SaturatedR),
		slog.Float64("zero_g", s.ZeroG),
		slog.Float64("zero_b", s.ZeroB),
	)
}

// LogStats logs the frame stats using slog.
func (s FrameStats) LogStats() {
	slog.Info("frame", "stats", s)
}
