package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cabana/noise"
)

// ControlsState is the sketch state the panel displays.
type ControlsState struct {
	Paused  bool
	Filter  string
	Palette noise.Palette
}

// ControlsResult reports what the user did with the panel this frame.
type ControlsResult struct {
	TogglePause    bool
	Reseed         bool
	Snapshot       bool
	ToggleFilter   bool
	ResetPalette   bool
	PaletteChanged bool
	Palette        noise.Palette
}

// ControlsPanel renders the right-side panel with buttons and palette sliders.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point falls on the visible panel.
func (c *ControlsPanel) Contains(sx, sy float32) bool {
	if !c.visible {
		return false
	}
	return sx >= float32(c.x) && sx < float32(c.x+c.width) &&
		sy >= float32(c.y) && sy < float32(c.y+c.height())
}

func (c *ControlsPanel) height() int32 {
	// title, two button rows, three sliders with labels, reset button
	return c.renderer.Theme.Padding*2 + 20 + 2*36 + 3*44 + 36
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(state ControlsState) ControlsResult {
	res := ControlsResult{Palette: state.Palette}
	if !c.visible {
		return res
	}

	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height())

	panelX := float32(c.x + padding)
	panelY := float32(c.y + padding)
	inner := float32(c.width - padding*2)
	half := (inner - 10) / 2

	rl.DrawText("Controls", int32(panelX), int32(panelY), 16, rl.White)
	panelY += 20

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: half, Height: 28}, toggleText(state.Paused, "Resume", "Pause")) {
		res.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: panelX + half + 10, Y: panelY, Width: half, Height: 28}, "Reseed") {
		res.Reseed = true
	}
	panelY += 36

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: half, Height: 28}, "Snapshot") {
		res.Snapshot = true
	}
	if gui.Button(rl.Rectangle{X: panelX + half + 10, Y: panelY, Width: half, Height: 28}, "Filter: "+state.Filter) {
		res.ToggleFilter = true
	}
	panelY += 36

	channels := []struct {
		label string
		m     *noise.LinearMap
		max   float32
	}{
		{"Red range (d0)", &res.Palette.Red, 400},
		{"Green range (d1)", &res.Palette.Green, 200},
		{"Blue range (d2)", &res.Palette.Blue, 300},
	}
	for _, ch := range channels {
		rl.DrawText(ch.label, int32(panelX), int32(panelY), r.Theme.FontSize, r.Theme.LabelColor)
		panelY += 16

		cur := float32(ch.m.InHi)
		next := gui.SliderBar(
			rl.Rectangle{X: panelX + 24, Y: panelY, Width: inner - 80, Height: 18},
			"1", fmt.Sprintf("%.0f", ch.max),
			cur, 1, ch.max,
		)
		rl.DrawText(fmt.Sprintf("%.0f", ch.m.InHi), int32(panelX+inner-30), int32(panelY+2), r.Theme.FontSize, r.Theme.ValueColor)
		if next != cur && float64(next) > ch.m.InLo {
			ch.m.InHi = float64(next)
			res.PaletteChanged = true
		}
		panelY += 28
	}

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: inner, Height: 28}, "Reset Palette") {
		res.ResetPalette = true
	}

	return res
}

func toggleText(on bool, whenOn, whenOff string) string {
	if on {
		return whenOn
	}
	return whenOff
}
