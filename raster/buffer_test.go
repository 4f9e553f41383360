package raster

import (
	"errors"
	"image/color"
	"testing"
)

func TestNewBufferLayout(t *testing.T) {
	b := New(3, 2)
	if b.Len() != 6 {
		t.Errorf("Len() = %d, want 6", b.Len())
	}
	if len(b.Pix()) != 24 {
		t.Errorf("len(Pix()) = %d, want 24", len(b.Pix()))
	}
	if b.Stride() != 12 {
		t.Errorf("Stride() = %d, want 12", b.Stride())
	}
}

func TestSetRGBARowMajor(t *testing.T) {
	b := New(3, 2)
	c := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	b.SetRGBA(2, 1, c)

	// (x + y*w) * 4
	i := (2 + 1*3) * 4
	got := b.Pix()[i : i+4]
	want := []uint8{1, 2, 3, 4}
	for k := range want {
		if got[k] != want[k] {
			t.Fatalf("pix[%d:%d] = %v, want %v", i, i+4, got, want)
		}
	}
	if b.RGBAAt(2, 1) != c {
		t.Errorf("RGBAAt(2, 1) = %v, want %v", b.RGBAAt(2, 1), c)
	}
}

func TestOutOfBoundsIgnored(t *testing.T) {
	b := New(2, 2)
	b.SetRGBA(-1, 0, color.RGBA{R: 9})
	b.SetRGBA(0, 2, color.RGBA{R: 9})
	for _, v := range b.Pix() {
		if v != 0 {
			t.Fatal("out-of-bounds write modified the buffer")
		}
	}
	if got := b.RGBAAt(5, 5); got != (color.RGBA{}) {
		t.Errorf("RGBAAt out of bounds = %v, want zero", got)
	}
}

func TestEqualAndClone(t *testing.T) {
	a := New(4, 4)
	a.Fill(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	c := a.Clone()
	if !a.Equal(c) {
		t.Fatal("clone should equal source")
	}
	c.SetRGBA(0, 0, color.RGBA{})
	if a.Equal(c) {
		t.Error("modified clone should differ from source")
	}
	if a.Equal(New(4, 3)) {
		t.Error("buffers of different size should not be equal")
	}
}

func TestCopyFromSizeMismatch(t *testing.T) {
	err := New(2, 2).CopyFrom(New(3, 2))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("CopyFrom error = %v, want ErrSizeMismatch", err)
	}
}

func TestImageSharesMemory(t *testing.T) {
	b := New(2, 2)
	img := b.Image()
	img.SetRGBA(1, 1, color.RGBA{R: 7, A: 255})
	if got := b.RGBAAt(1, 1); got.R != 7 {
		t.Errorf("Image() does not share memory, got %v", got)
	}
}

func TestColors(t *testing.T) {
	b := New(2, 1)
	b.SetRGBA(1, 0, color.RGBA{R: 5, G: 6, B: 7, A: 8})
	cs := b.Colors(nil)
	if len(cs) != 2 {
		t.Fatalf("len = %d, want 2", len(cs))
	}
	if cs[1] != (color.RGBA{R: 5, G: 6, B: 7, A: 8}) {
		t.Errorf("cs[1] = %v", cs[1])
	}

	// Reuses capacity.
	reused := b.Colors(make([]color.RGBA, 0, 8))
	if cap(reused) != 8 {
		t.Errorf("cap = %d, want 8", cap(reused))
	}
}
