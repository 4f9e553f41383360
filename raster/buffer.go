// Package raster holds the off-screen pixel buffer the field is evaluated into
// and the helpers that composite it onto other surfaces.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrSizeMismatch is returned when two buffers that must share dimensions don't.
var ErrSizeMismatch = errors.New("raster: size mismatch")

// Buffer is a row-major RGBA raster with 8 bits per channel.
// Pixel (x, y) occupies Pix[(y*width+x)*4 : (y*width+x)*4+4].
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New allocates a zeroed buffer. Panics on negative dimensions.
func New(width, height int) *Buffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("raster: negative size %dx%d", width, height))
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// Width returns the width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Len returns the number of pixels.
func (b *Buffer) Len() int {
	return b.width * b.height
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.width * 4
}

// Pix returns the raw channel data. Callers must not retain it across frames.
func (b *Buffer) Pix() []uint8 {
	return b.pix
}

// Row returns the channel bytes of row y.
func (b *Buffer) Row(y int) []uint8 {
	s := b.Stride()
	return b.pix[y*s : (y+1)*s]
}

// SameSize reports whether o has the same dimensions as b.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.width == o.width && b.height == o.height
}

// SetRGBA writes one pixel. Out-of-bounds writes are ignored.
func (b *Buffer) SetRGBA(x, y int, c color.RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	p := b.pix[i : i+4 : i+4]
	p[0] = c.R
	p[1] = c.G
	p[2] = c.B
	p[3] = c.A
}

// RGBAAt reads one pixel. Out-of-bounds reads return transparent black.
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := (y*b.width + x) * 4
	return color.RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// Colors returns the pixels as a slice of color.RGBA in row-major order,
// reusing dst when it has enough capacity.
func (b *Buffer) Colors(dst []color.RGBA) []color.RGBA {
	n := b.Len()
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for i := range dst {
		j := i * 4
		dst[i] = color.RGBA{R: b.pix[j], G: b.pix[j+1], B: b.pix[j+2], A: b.pix[j+3]}
	}
	return dst
}

// CopyFrom overwrites b with the contents of src.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if !b.SameSize(src) {
		return fmt.Errorf("copying %dx%d into %dx%d: %w", src.width, src.height, b.width, b.height, ErrSizeMismatch)
	}
	copy(b.pix, src.pix)
	return nil
}

// Clone returns an independent copy of b.
func (b *Buffer) Clone() *Buffer {
	c := New(b.width, b.height)
	copy(c.pix, b.pix)
	return c
}

// Equal reports whether both buffers have the same size and bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	return b.SameSize(o) && bytes.Equal(b.pix, o.pix)
}

// Image returns an *image.RGBA view sharing b's memory.
func (b *Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.pix,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
