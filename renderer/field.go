// Package renderer draws the field raster with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cabana/camera"
	"github.com/pthm-cable/cabana/raster"
)

// FieldRenderer keeps the field raster in a GPU texture and draws it
// scaled onto the screen.
type FieldRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA
	filter     raster.Filter

	border      rl.Color
	initialized bool
}

// NewFieldRenderer creates a renderer that samples with filter.
func NewFieldRenderer(filter raster.Filter) *FieldRenderer {
	return &FieldRenderer{
		filter: filter,
		border: rl.Color{R: 60, G: 70, B: 80, A: 255},
	}
}

// Init creates the texture (must be called after raylib window is created).
func (r *FieldRenderer) Init(width, height int) {
	if r.initialized {
		return
	}

	r.texW = width
	r.texH = height
	r.pixels = make([]color.RGBA, width*height)

	img := rl.GenImageColor(width, height, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)
	r.applyFilter()

	r.initialized = true
}

// Upload copies buf into the texture. Buffers of a different size are ignored.
func (r *FieldRenderer) Upload(buf *raster.Buffer) {
	if !r.initialized {
		r.Init(buf.Width(), buf.Height())
	}
	if buf.Width() != r.texW || buf.Height() != r.texH {
		return
	}
	r.pixels = buf.Colors(r.pixels)
	rl.UpdateTexture(r.tex, r.pixels)
}

// SetFilter changes the sampling filter used when the texture is scaled.
func (r *FieldRenderer) SetFilter(filter raster.Filter) {
	r.filter = filter
	if r.initialized {
		r.applyFilter()
	}
}

// Filter returns the current sampling filter.
func (r *FieldRenderer) Filter() raster.Filter {
	return r.filter
}

func (r *FieldRenderer) applyFilter() {
	switch r.filter {
	case raster.Bilinear:
		rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	default:
		rl.SetTextureFilter(r.tex, rl.FilterPoint)
	}
}

// Draw renders the raster where the camera places it.
func (r *FieldRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	x, y, w, h := cam.DestRect()
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}

	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
	rl.DrawRectangleLinesEx(dstRect, 1, r.border)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
