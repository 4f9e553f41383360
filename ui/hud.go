package ui

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cabana/noise"
	"github.com/pthm-cable/cabana/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title  string
	Frame  int64
	Depth  float64
	Period int64
	Points int
	Seed   int64
	Steps  int
	FPS    int32
	Filter string
	Paused bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Frame: %d | z: %.0f/%d | Steps: %dx | FPS: %d", data.Frame, data.Depth, data.Period, data.Steps, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Points: %d | Seed: %d | Filter: %s", data.Points, data.Seed, data.Filter),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s",
		stats.AvgFrameDuration.Round(time.Microsecond),
		stats.MaxFrameDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range []string{telemetry.PhaseEvaluate, telemetry.PhaseComposite, telemetry.PhaseSnapshot, telemetry.PhaseTelemetry} {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		c := rl.LightGray
		if pct > 80 {
			c = rl.Red
		} else if pct > 50 {
			c = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct), x, y, 12, c)
		y += 14
	}
}

// ProbePanel shows how the pixel under the cursor got its color.
type ProbePanel struct {
	renderer *Renderer
	width    int32
}

// NewProbePanel creates a new probe panel.
func NewProbePanel(width int32) *ProbePanel {
	return &ProbePanel{renderer: NewRenderer(), width: width}
}

// Draw renders the probe next to the cursor position (mx, my), kept on screen.
func (p *ProbePanel) Draw(probe noise.Probe, mx, my, screenW, screenH int32) {
	r := p.renderer
	pad := r.Theme.Padding
	height := pad*2 + r.Theme.LineHeight*9

	x := mx + 16
	if x+p.width > screenW {
		x = mx - 16 - p.width
	}
	y := my + 16
	if y+height > screenH {
		y = my - 16 - height
	}

	r.DrawPanel(x, y, p.width, height)
	cx, cy := x+pad, y+pad
	inner := p.width - pad*2

	cy = r.DrawSectionHeader(cx, cy, fmt.Sprintf("Pixel (%d, %d) z=%.0f", probe.X, probe.Y, probe.Z))
	for rank, d := range probe.Distances {
		cy = r.DrawLabelValue(cx, cy, fmt.Sprintf("d%d", rank), fmt.Sprintf("%7.2f  (#%d)", d, probe.Nearest[rank]))
	}
	cy = r.DrawChannelBar(cx, cy, "R", probe.Color.R, rl.Color{R: 220, G: 70, B: 70, A: 255}, inner)
	cy = r.DrawChannelBar(cx, cy, "G", probe.Color.G, rl.Color{R: 70, G: 200, B: 90, A: 255}, inner)
	cy = r.DrawChannelBar(cx, cy, "B", probe.Color.B, rl.Color{R: 80, G: 120, B: 230, A: 255}, inner)
	r.DrawColorSwatch(cx, cy, "Color", toRL(probe.Color))
}

func toRL(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
