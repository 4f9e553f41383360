package raster

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Filter selects the resampling used when compositing at a different size.
type Filter int

const (
	Nearest Filter = iota
	Bilinear
)

// ParseFilter parses "nearest" or "bilinear" (case-insensitive).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest", "point":
		return Nearest, nil
	case "bilinear", "linear":
		return Bilinear, nil
	}
	return Nearest, fmt.Errorf("raster: unknown filter %q", s)
}

func (f Filter) String() string {
	switch f {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Filter) UnmarshalText(text []byte) error {
	v, err := ParseFilter(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Filter) interpolator() draw.Interpolator {
	if f == Bilinear {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

// Scale composites src onto the whole of dst, resampling with filter.
// src is only read.
func Scale(dst *image.RGBA, src *Buffer, filter Filter) {
	if src.Len() == 0 || dst.Bounds().Empty() {
		return
	}
	sr := image.Rect(0, 0, src.width, src.height)
	if dst.Bounds().Size() == sr.Size() {
		draw.Draw(dst, dst.Bounds(), src.Image(), image.Point{}, draw.Src)
		return
	}
	filter.interpolator().Scale(dst, dst.Bounds(), src.Image(), sr, draw.Src, nil)
}

// ScaleTo returns a new width x height image holding src resampled with filter.
func ScaleTo(src *Buffer, width, height int, filter Filter) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	Scale(dst, src, filter)
	return dst
}
