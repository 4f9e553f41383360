package noise

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrDegenerateRange is returned for a channel map whose input range is empty.
var ErrDegenerateRange = errors.New("noise: channel map input range is empty")

// LinearMap maps [InLo, InHi] onto [OutLo, OutHi] without clamping the input.
type LinearMap struct {
	InLo  float64 `yaml:"in_lo"`
	InHi  float64 `yaml:"in_hi"`
	OutLo float64 `yaml:"out_lo"`
	OutHi float64 `yaml:"out_hi"`
}

// Apply maps v. Values outside the input range extrapolate.
func (m LinearMap) Apply(v float64) float64 {
	return m.OutLo + (v-m.InLo)*(m.OutHi-m.OutLo)/(m.InHi-m.InLo)
}

// Validate rejects empty input ranges and non-finite bounds.
func (m LinearMap) Validate() error {
	for _, v := range [...]float64{m.InLo, m.InHi, m.OutLo, m.OutHi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("noise: channel map %+v has non-finite bound", m)
		}
	}
	if m.InLo == m.InHi {
		return ErrDegenerateRange
	}
	return nil
}

// Palette maps the three nearest distances to the red, green and blue channels.
// Green and blue run high-to-low: nearer second and third points are brighter.
type Palette struct {
	Red   LinearMap `yaml:"red"`
	Green LinearMap `yaml:"green"`
	Blue  LinearMap `yaml:"blue"`
}

// DefaultPalette returns the classic Cabana grading.
func DefaultPalette() Palette {
	return Palette{
		Red:   LinearMap{InLo: 0, InHi: 150, OutLo: 60, OutHi: 255},
		Green: LinearMap{InLo: 0, InHi: 50, OutLo: 255, OutHi: 0},
		Blue:  LinearMap{InLo: 0, InHi: 80, OutLo: 255, OutHi: 0},
	}
}

// Validate checks every channel map.
func (p Palette) Validate() error {
	if err := p.Red.Validate(); err != nil {
		return fmt.Errorf("red: %w", err)
	}
	if err := p.Green.Validate(); err != nil {
		return fmt.Errorf("green: %w", err)
	}
	if err := p.Blue.Validate(); err != nil {
		return fmt.Errorf("blue: %w", err)
	}
	return nil
}

// Color maps ranked distances d[0] <= d[1] <= d[2] to an opaque pixel.
func (p Palette) Color(d [3]float64) color.RGBA {
	return color.RGBA{
		R: Channel(p.Red.Apply(d[0])),
		G: Channel(p.Green.Apply(d[1])),
		B: Channel(p.Blue.Apply(d[2])),
		A: 255,
	}
}

// Channel converts a mapped value to an 8-bit channel, rounding half to even
// and clamping to [0, 255]. NaN maps to 0.
func Channel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
