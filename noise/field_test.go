package noise

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/pthm-cable/cabana/raster"
)

func newTestField(t testing.TB, w, h, n int, seed int64) *Field {
	t.Helper()
	set, err := NewPointSet(w, h, n, seed)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	f, err := NewField(w, h, set, DefaultPalette())
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func TestNewPointSetBounds(t *testing.T) {
	set, err := NewPointSet(100, 60, DefaultPointCount, 7)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	if set.Len() != DefaultPointCount {
		t.Fatalf("Len() = %d, want %d", set.Len(), DefaultPointCount)
	}
	for i := 0; i < set.Len(); i++ {
		p := set.At(i)
		if p.X < 0 || p.X >= 100 {
			t.Errorf("point %d x = %v, want [0, 100)", i, p.X)
		}
		if p.Y < 0 || p.Y >= 60 {
			t.Errorf("point %d y = %v, want [0, 60)", i, p.Y)
		}
		// z shares the width's domain.
		if p.Z < 0 || p.Z >= 100 {
			t.Errorf("point %d z = %v, want [0, 100)", i, p.Z)
		}
	}
}

func TestNewPointSetDeterministic(t *testing.T) {
	a, _ := NewPointSet(100, 100, 20, 42)
	b, _ := NewPointSet(100, 100, 20, 42)
	c, _ := NewPointSet(100, 100, 20, 43)
	same := true
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			t.Fatalf("point %d differs for equal seeds: %v vs %v", i, a.At(i), b.At(i))
		}
		if a.At(i) != c.At(i) {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical point sets")
	}
}

func TestPointsAreCopied(t *testing.T) {
	src := []r3.Vector{{X: 1}, {X: 2}, {X: 3}}
	set, err := PointsFrom(src)
	if err != nil {
		t.Fatalf("PointsFrom: %v", err)
	}
	src[0].X = 99
	if set.At(0).X != 1 {
		t.Error("PointsFrom must copy its input")
	}
	out := set.Points()
	out[1].X = 99
	if set.At(1).X != 2 {
		t.Error("Points must return a copy")
	}
}

func TestTooFewPoints(t *testing.T) {
	if _, err := NewPointSet(10, 10, 2, 1); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("NewPointSet(n=2) error = %v, want ErrTooFewPoints", err)
	}
	if _, err := PointsFrom([]r3.Vector{{}, {}}); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("PointsFrom(2) error = %v, want ErrTooFewPoints", err)
	}
	if _, err := NewField(10, 10, nil, DefaultPalette()); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("NewField(nil) error = %v, want ErrTooFewPoints", err)
	}
}

func TestEmptyRaster(t *testing.T) {
	if _, err := NewPointSet(0, 10, 20, 1); !errors.Is(err, ErrEmptyRaster) {
		t.Errorf("NewPointSet(0x10) error = %v, want ErrEmptyRaster", err)
	}
	set, _ := NewPointSet(10, 10, 20, 1)
	if _, err := NewField(10, 0, set, DefaultPalette()); !errors.Is(err, ErrEmptyRaster) {
		t.Errorf("NewField(10x0) error = %v, want ErrEmptyRaster", err)
	}
}

func TestNewFieldRejectsDegeneratePalette(t *testing.T) {
	set, _ := NewPointSet(10, 10, 5, 1)
	p := DefaultPalette()
	p.Green.InHi = p.Green.InLo
	if _, err := NewField(10, 10, set, p); !errors.Is(err, ErrDegenerateRange) {
		t.Errorf("NewField error = %v, want ErrDegenerateRange", err)
	}
}

func TestRankCorrectness(t *testing.T) {
	set, err := PointsFrom([]r3.Vector{{X: 20}, {X: 0}, {X: 10}})
	if err != nil {
		t.Fatalf("PointsFrom: %v", err)
	}
	f, err := NewField(1, 1, set, DefaultPalette())
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	d := Nearest3(r3.Vector{}, set.points)
	want := [3]float64{0, 10, 20}
	for i := range want {
		if math.Abs(d[i]-want[i]) > 1e-9 {
			t.Errorf("rank %d distance = %v, want %v", i, d[i], want[i])
		}
	}

	p := f.Palette()
	if got := p.Red.Apply(0); math.Abs(got-60) > 1e-9 {
		t.Errorf("red map = %v, want 60", got)
	}
	if got := p.Green.Apply(10); math.Abs(got-204) > 1e-9 {
		t.Errorf("green map = %v, want 204", got)
	}
	if got := p.Blue.Apply(20); math.Abs(got-191.25) > 1e-9 {
		t.Errorf("blue map = %v, want 191.25", got)
	}

	c := f.EvaluatePixel(0, 0, 0)
	if c.R != 60 || c.G != 204 || c.B != 191 || c.A != 255 {
		t.Errorf("pixel = %v, want {60 204 191 255}", c)
	}
}

func TestOneByOneWithThreePoints(t *testing.T) {
	set, _ := PointsFrom([]r3.Vector{{X: 0.5, Y: 0.5, Z: 0.5}, {X: 3}, {Z: 9}})
	f, err := NewField(1, 1, set, DefaultPalette())
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	a := f.Render(0)
	b := f.Render(17)
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	// Width 1 means every frame evaluates at depth 0.
	if !a.Equal(b) {
		t.Errorf("1x1 field should not vary: %v vs %v", a.RGBAAt(0, 0), b.RGBAAt(0, 0))
	}
	if a.RGBAAt(0, 0).A != 255 {
		t.Errorf("alpha = %d, want 255", a.RGBAAt(0, 0).A)
	}
}

func TestEveryPixelOpaque(t *testing.T) {
	f := newTestField(t, 100, 100, DefaultPointCount, 1)
	buf := f.NewBuffer()
	for _, frame := range []int64{0, 1, 37, 99, 250} {
		if err := f.Evaluate(frame, buf); err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if buf.Len() != 100*100 {
			t.Fatalf("Len() = %d, want 10000", buf.Len())
		}
		pix := buf.Pix()
		for i := 3; i < len(pix); i += 4 {
			if pix[i] != 255 {
				t.Fatalf("frame %d: pixel %d alpha = %d", frame, i/4, pix[i])
			}
		}
	}
}

func TestFarPointsClamp(t *testing.T) {
	// Every distance is far outside the mapping domains.
	set, _ := PointsFrom([]r3.Vector{{X: 1e6}, {Y: 1e6}, {Z: 1e6}, {X: -1e6}})
	f, err := NewField(4, 4, set, DefaultPalette())
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	c := f.EvaluatePixel(0, 2, 2)
	if c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("pixel = %v, want {255 0 0 255}", c)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	f := newTestField(t, 64, 48, DefaultPointCount, 5)
	a := f.Render(12)
	b := f.NewBuffer()
	b.Fill(a.RGBAAt(0, 0))
	if err := f.Evaluate(12, b); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !a.Equal(b) {
		t.Error("evaluating the same frame twice produced different rasters")
	}
}

func TestEvaluatePeriodic(t *testing.T) {
	f := newTestField(t, 40, 30, DefaultPointCount, 9)
	for _, k := range []int64{0, 1, 13, 39, 40, 123} {
		a := f.Render(k)
		b := f.Render(k + f.Period())
		if !a.Equal(b) {
			t.Errorf("frame %d and %d differ", k, k+f.Period())
		}
	}
	if f.Render(3).Equal(f.Render(4)) {
		t.Error("adjacent frames should differ")
	}
}

func TestDepth(t *testing.T) {
	f := newTestField(t, 100, 10, 3, 1)
	tests := []struct {
		frame int64
		want  float64
	}{
		{0, 0},
		{1, 1},
		{99, 99},
		{100, 0},
		{250, 50},
		{-1, 99},
	}
	for _, tt := range tests {
		if got := f.Depth(tt.frame); got != tt.want {
			t.Errorf("Depth(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestEvaluateSizeMismatch(t *testing.T) {
	f := newTestField(t, 10, 10, 5, 1)
	if err := f.Evaluate(0, raster.New(10, 9)); !errors.Is(err, raster.ErrSizeMismatch) {
		t.Errorf("Evaluate error = %v, want ErrSizeMismatch", err)
	}
	if err := f.Evaluate(0, nil); !errors.Is(err, raster.ErrSizeMismatch) {
		t.Errorf("Evaluate(nil) error = %v, want ErrSizeMismatch", err)
	}
}

func TestNearest3MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		n := 3 + rng.Intn(30)
		points := make([]r3.Vector, n)
		for i := range points {
			points[i] = r3.Vector{X: rng.Float64() * 100, Y: rng.Float64() * 100, Z: rng.Float64() * 100}
		}
		// Duplicate a point now and then to exercise ties.
		if trial%5 == 0 {
			points[n-1] = points[0]
		}
		p := r3.Vector{X: rng.Float64() * 100, Y: rng.Float64() * 100, Z: float64(rng.Intn(100))}

		all := make([]float64, n)
		for i, q := range points {
			all[i] = p.Distance(q)
		}
		sort.Float64s(all)

		got := Nearest3(p, points)
		for r := 0; r < 3; r++ {
			if math.Abs(got[r]-all[r]) > 1e-12 {
				t.Fatalf("trial %d rank %d = %v, want %v", trial, r, got[r], all[r])
			}
		}
	}
}

func TestProbeMatchesEvaluate(t *testing.T) {
	f := newTestField(t, 32, 32, DefaultPointCount, 11)
	buf := f.Render(21)
	for _, xy := range [][2]int{{0, 0}, {31, 31}, {7, 19}} {
		p, ok := f.Probe(21, xy[0], xy[1])
		if !ok {
			t.Fatalf("Probe(%v) not ok", xy)
		}
		if p.Color != buf.RGBAAt(xy[0], xy[1]) {
			t.Errorf("Probe(%v).Color = %v, raster has %v", xy, p.Color, buf.RGBAAt(xy[0], xy[1]))
		}
		if p.Distances[0] > p.Distances[1] || p.Distances[1] > p.Distances[2] {
			t.Errorf("Probe(%v) distances not ascending: %v", xy, p.Distances)
		}
		at := r3.Vector{X: float64(xy[0]), Y: float64(xy[1]), Z: p.Z}
		for r, idx := range p.Nearest {
			if d := at.Distance(f.Points().At(idx)); math.Abs(d-p.Distances[r]) > 1e-12 {
				t.Errorf("rank %d index %d has distance %v, want %v", r, idx, d, p.Distances[r])
			}
		}
	}
	if _, ok := f.Probe(0, 32, 0); ok {
		t.Error("Probe outside raster should not be ok")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	f := newTestField(b, 100, 100, DefaultPointCount, 1)
	buf := f.NewBuffer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Evaluate(int64(i), buf)
	}
}

func BenchmarkNearest3(b *testing.B) {
	set, _ := NewPointSet(100, 100, DefaultPointCount, 1)
	p := r3.Vector{X: 50, Y: 50, Z: 50}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Nearest3(p, set.points)
	}
}
