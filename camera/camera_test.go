package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFitsSquareRaster(t *testing.T) {
	cam := New(600, 600, 100, 100)

	if cam.Zoom != 6 {
		t.Errorf("expected zoom 6, got %f", cam.Zoom)
	}
	x, y, w, h := cam.DestRect()
	if !near(x, 0) || !near(y, 0) || !near(w, 600) || !near(h, 600) {
		t.Errorf("DestRect = (%f, %f, %f, %f), want (0, 0, 600, 600)", x, y, w, h)
	}
}

func TestNewLetterboxes(t *testing.T) {
	cam := New(800, 400, 100, 100)

	// Height limits the fit; raster is centered horizontally.
	if cam.Zoom != 4 {
		t.Errorf("expected zoom 4, got %f", cam.Zoom)
	}
	x, y, w, h := cam.DestRect()
	if !near(x, 200) || !near(y, 0) || !near(w, 400) || !near(h, 400) {
		t.Errorf("DestRect = (%f, %f, %f, %f), want (200, 0, 400, 400)", x, y, w, h)
	}
}

func TestScreenToRasterRoundtrip(t *testing.T) {
	cam := New(1280, 720, 100, 100)
	cam.ZoomBy(1.7)
	cam.Pan(35, -12)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		rx, ry := cam.ScreenToRaster(tc.sx, tc.sy)
		sx, sy := cam.RasterToScreen(rx, ry)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, rx, ry, sx, sy)
		}
	}
}

func TestPixelAt(t *testing.T) {
	cam := New(600, 600, 100, 100)

	tests := []struct {
		sx, sy float32
		px, py int
		ok     bool
	}{
		{0, 0, 0, 0, true},
		{5.9, 5.9, 0, 0, true},
		{6, 12, 1, 2, true},
		{599, 599, 99, 99, true},
		{600, 10, 100, 1, false},
		{-1, 10, -1, 1, false},
	}
	for _, tt := range tests {
		px, py, ok := cam.PixelAt(tt.sx, tt.sy)
		if px != tt.px || py != tt.py || ok != tt.ok {
			t.Errorf("PixelAt(%v, %v) = (%d, %d, %v), want (%d, %d, %v)",
				tt.sx, tt.sy, px, py, ok, tt.px, tt.py, tt.ok)
		}
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(600, 600, 100, 100)

	cam.SetZoom(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.SetZoom(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestPanStaysOnRaster(t *testing.T) {
	cam := New(600, 600, 100, 100)
	cam.Pan(100000, -100000)
	if cam.X != 100 || cam.Y != 0 {
		t.Errorf("expected center clamped to (100, 0), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestResizeKeepsFit(t *testing.T) {
	cam := New(600, 600, 100, 100)
	cam.Resize(300, 900)
	if cam.Zoom != 3 {
		t.Errorf("expected refit zoom 3, got %f", cam.Zoom)
	}

	cam.ZoomBy(2)
	cam.Resize(1200, 1200)
	if cam.Zoom != 6 {
		t.Errorf("expected manual zoom 6 kept, got %f", cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(600, 600, 100, 100)
	cam.Pan(50, 50)
	cam.ZoomBy(3)
	cam.Reset()
	if cam.X != 50 || cam.Y != 50 || cam.Zoom != 6 {
		t.Errorf("expected (50, 50, 6), got (%f, %f, %f)", cam.X, cam.Y, cam.Zoom)
	}
}
