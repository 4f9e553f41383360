// Package noise implements the animated Worley (cellular) noise field: a fixed
// set of 3D sample points and a per-frame evaluator that colors every raster
// pixel by its distances to the three nearest points.
package noise

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/golang/geo/r3"
)

// MinPoints is the smallest point set the evaluator can rank.
const MinPoints = 3

// DefaultPointCount matches the classic sketch.
const DefaultPointCount = 20

var (
	// ErrTooFewPoints is returned when fewer than MinPoints sample points are configured.
	ErrTooFewPoints = errors.New("noise: at least 3 sample points required")

	// ErrEmptyRaster is returned for a zero or negative raster size.
	ErrEmptyRaster = errors.New("noise: raster must be at least 1x1")
)

// PointSet is an immutable collection of sample points.
type PointSet struct {
	points []r3.Vector
	seed   int64
}

// NewPointSet draws n points with x in [0, width), y in [0, height) and
// z in [0, width) from a PRNG seeded with seed.
func NewPointSet(width, height, n int, seed int64) (*PointSet, error) {
	if n < MinPoints {
		return nil, fmt.Errorf("creating %d points: %w", n, ErrTooFewPoints)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("creating points for %dx%d: %w", width, height, ErrEmptyRaster)
	}

	rng := rand.New(rand.NewSource(seed))
	w, h := float64(width), float64(height)

	points := make([]r3.Vector, n)
	for i := range points {
		// Draw order x, y, z per point.
		x := rng.Float64() * w
		y := rng.Float64() * h
		z := rng.Float64() * w
		points[i] = r3.Vector{X: x, Y: y, Z: z}
	}

	return &PointSet{points: points, seed: seed}, nil
}

// PointsFrom builds a set from explicit coordinates. The slice is copied.
func PointsFrom(points []r3.Vector) (*PointSet, error) {
	if len(points) < MinPoints {
		return nil, fmt.Errorf("using %d points: %w", len(points), ErrTooFewPoints)
	}
	cp := make([]r3.Vector, len(points))
	copy(cp, points)
	return &PointSet{points: cp}, nil
}

// Len returns the number of points.
func (s *PointSet) Len() int {
	return len(s.points)
}

// At returns point i.
func (s *PointSet) At(i int) r3.Vector {
	return s.points[i]
}

// Seed returns the PRNG seed the set was drawn from (0 for explicit sets).
func (s *PointSet) Seed() int64 {
	return s.seed
}

// Points returns a copy of the coordinates.
func (s *PointSet) Points() []r3.Vector {
	cp := make([]r3.Vector, len(s.points))
	copy(cp, s.points)
	return cp
}
