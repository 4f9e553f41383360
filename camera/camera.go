// Package camera maps the field raster onto the screen viewport.
package camera

import "math"

// Camera controls where the raster is drawn on screen.
// At FitZoom the whole raster is letterboxed into the viewport.
type Camera struct {
	// Position is the raster point shown at the viewport center
	X, Y float32

	// Zoom is screen pixels per raster pixel
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Raster dimensions
	RasterW, RasterH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera that fits the raster into the viewport.
func New(viewportW, viewportH, rasterW, rasterH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		RasterW:   rasterW,
		RasterH:   rasterH,
	}
	c.updateLimits()
	c.Reset()
	return c
}

// FitZoom returns the largest zoom at which the whole raster is visible.
func (c *Camera) FitZoom() float32 {
	zx := c.ViewportW / c.RasterW
	zy := c.ViewportH / c.RasterH
	if zy < zx {
		return zy
	}
	return zx
}

func (c *Camera) updateLimits() {
	fit := c.FitZoom()
	c.MinZoom = fit / 4
	c.MaxZoom = fit * 16
}

// DestRect returns the screen rectangle the full raster occupies.
func (c *Camera) DestRect() (x, y, w, h float32) {
	x, y = c.RasterToScreen(0, 0)
	return x, y, c.RasterW * c.Zoom, c.RasterH * c.Zoom
}

// RasterToScreen converts raster coordinates to screen coordinates.
func (c *Camera) RasterToScreen(rx, ry float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (rx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (ry-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToRaster converts screen coordinates to raster coordinates.
func (c *Camera) ScreenToRaster(sx, sy float32) (rx, ry float32) {
	rx = c.X + (sx-c.ViewportW/2)/c.Zoom
	ry = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return rx, ry
}

// PixelAt returns the raster pixel under a screen position.
// ok is false when the position is outside the raster.
func (c *Camera) PixelAt(sx, sy float32) (px, py int, ok bool) {
	rx, ry := c.ScreenToRaster(sx, sy)
	px = int(math.Floor(float64(rx)))
	py = int(math.Floor(float64(ry)))
	ok = px >= 0 && py >= 0 && px < int(c.RasterW) && py < int(c.RasterH)
	return px, py, ok
}

// Resize updates viewport dimensions, keeping the raster fitted if it was.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	wasFitted := c.Zoom == c.FitZoom()
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateLimits()
	if wasFitted {
		c.Zoom = c.FitZoom()
	}
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
// The view center stays within the raster.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.RasterW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.RasterH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the raster and fits it to the viewport.
func (c *Camera) Reset() {
	c.X = c.RasterW / 2
	c.Y = c.RasterH / 2
	c.Zoom = c.FitZoom()
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
