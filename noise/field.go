package noise

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/cabana/raster"
)

// Field evaluates the cell-noise color of every pixel of a fixed-size raster.
// It is a pure function of (points, palette, size, frame) and holds no
// per-frame state, so concurrent calls on disjoint rows are safe.
type Field struct {
	width   int
	height  int
	points  []r3.Vector
	set     *PointSet
	palette Palette
}

// NewField binds a point set and palette to a raster size.
func NewField(width, height int, set *PointSet, palette Palette) (*Field, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("creating %dx%d field: %w", width, height, ErrEmptyRaster)
	}
	if set == nil || set.Len() < MinPoints {
		n := 0
		if set != nil {
			n = set.Len()
		}
		return nil, fmt.Errorf("creating field with %d points: %w", n, ErrTooFewPoints)
	}
	if err := palette.Validate(); err != nil {
		return nil, fmt.Errorf("creating field: %w", err)
	}
	return &Field{
		width:   width,
		height:  height,
		points:  set.points,
		set:     set,
		palette: palette,
	}, nil
}

// Width returns the raster width.
func (f *Field) Width() int { return f.width }

// Height returns the raster height.
func (f *Field) Height() int { return f.height }

// Points returns the bound point set.
func (f *Field) Points() *PointSet { return f.set }

// Palette returns the channel mapping.
func (f *Field) Palette() Palette { return f.palette }

// Period is the number of frames after which the field repeats.
func (f *Field) Period() int64 { return int64(f.width) }

// Depth returns the evaluation depth for a frame: frame mod width.
func (f *Field) Depth(frame int64) float64 {
	w := int64(f.width)
	z := frame % w
	if z < 0 {
		z += w
	}
	return float64(z)
}

// NewBuffer allocates a raster matching the field size.
func (f *Field) NewBuffer() *raster.Buffer {
	return raster.New(f.width, f.height)
}

// Evaluate overwrites every pixel of dst with the field at frame.
func (f *Field) Evaluate(frame int64, dst *raster.Buffer) error {
	if dst == nil || dst.Width() != f.width || dst.Height() != f.height {
		return fmt.Errorf("evaluating %dx%d field: %w", f.width, f.height, raster.ErrSizeMismatch)
	}
	f.EvaluateRows(frame, dst, 0, f.height)
	return nil
}

// Render evaluates frame into a freshly allocated raster.
func (f *Field) Render(frame int64) *raster.Buffer {
	dst := f.NewBuffer()
	f.EvaluateRows(frame, dst, 0, f.height)
	return dst
}

// EvaluateRows fills rows [y0, y1) of dst. dst must match the field size.
func (f *Field) EvaluateRows(frame int64, dst *raster.Buffer, y0, y1 int) {
	z := f.Depth(frame)
	for y := y0; y < y1; y++ {
		row := dst.Row(y)
		for x := 0; x < f.width; x++ {
			c := f.palette.Color(Nearest3(r3.Vector{X: float64(x), Y: float64(y), Z: z}, f.points))
			i := x * 4
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}

// EvaluatePixel returns the color of (x, y) at frame.
func (f *Field) EvaluatePixel(frame int64, x, y int) color.RGBA {
	p := r3.Vector{X: float64(x), Y: float64(y), Z: f.Depth(frame)}
	return f.palette.Color(Nearest3(p, f.points))
}

// Nearest3 returns the three smallest Euclidean distances from p to points,
// ascending. points must hold at least three entries.
func Nearest3(p r3.Vector, points []r3.Vector) [3]float64 {
	inf := math.Inf(1)
	d := [3]float64{inf, inf, inf}
	for _, q := range points {
		// Rank on squared distance; sqrt is monotonic.
		v := p.Sub(q).Norm2()
		switch {
		case v < d[0]:
			d[2], d[1], d[0] = d[1], d[0], v
		case v < d[1]:
			d[2], d[1] = d[1], v
		case v < d[2]:
			d[2] = v
		}
	}
	d[0] = math.Sqrt(d[0])
	d[1] = math.Sqrt(d[1])
	d[2] = math.Sqrt(d[2])
	return d
}

// Probe describes how one pixel's color was derived.
type Probe struct {
	X, Y      int
	Z         float64
	Distances [3]float64 // ascending
	Nearest   [3]int     // indices into the point set
	Color     color.RGBA
}

// Probe ranks every point by distance from (x, y) at frame. ok is false when
// (x, y) lies outside the raster.
func (f *Field) Probe(frame int64, x, y int) (p Probe, ok bool) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Probe{}, false
	}
	z := f.Depth(frame)
	at := r3.Vector{X: float64(x), Y: float64(y), Z: z}

	dists := make([]float64, len(f.points))
	for i, q := range f.points {
		dists[i] = at.Distance(q)
	}
	inds := make([]int, len(dists))
	floats.Argsort(dists, inds)

	p = Probe{X: x, Y: y, Z: z}
	for r := 0; r < 3; r++ {
		p.Distances[r] = dists[r]
		p.Nearest[r] = inds[r]
	}
	p.Color = f.palette.Color(p.Distances)
	return p, true
}
