// Package viewer puts a sketch on screen with raylib: it composites the
// raster through the camera, draws the HUD and handles input.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cabana/camera"
	"github.com/pthm-cable/cabana/noise"
	"github.com/pthm-cable/cabana/renderer"
	"github.com/pthm-cable/cabana/sketch"
	"github.com/pthm-cable/cabana/telemetry"
	"github.com/pthm-cable/cabana/ui"
)

const controlsLegend = "[Space] Pause  [R] Reseed  [S] Snapshot  [,/.] Steps  [F] Filter  [Tab] Panel  [P] Perf  [I] Probe  [Home] Reset view"

const controlsWidth = 230

// Viewer drives a sketch from the raylib main loop.
type Viewer struct {
	sketch *sketch.Sketch

	camera        *camera.Camera
	fieldRenderer *renderer.FieldRenderer

	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	probePanel *ui.ProbePanel
	controls   *ui.ControlsPanel

	// uploaded is the sketch version currently in the texture
	uploaded    uint64
	hasUploaded bool

	showPerf  bool
	showProbe bool

	screenWidth, screenHeight float32
}

// New creates a viewer for s. Must be called after the raylib window is created.
func New(s *sketch.Sketch) *Viewer {
	cfg := s.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	v := &Viewer{
		sketch:        s,
		camera:        camera.New(w, h, float32(cfg.Raster.Width), float32(cfg.Raster.Height)),
		fieldRenderer: renderer.NewFieldRenderer(cfg.Screen.Filter),
		hud:           ui.NewHUD(),
		perfPanel:     ui.NewPerfPanel(10, 100),
		probePanel:    ui.NewProbePanel(200),
		controls:      ui.NewControlsPanel(int32(w)-controlsWidth-10, 10, controlsWidth),
		showProbe:     true,
		screenWidth:   w,
		screenHeight:  h,
	}
	v.fieldRenderer.Init(cfg.Raster.Width, cfg.Raster.Height)
	return v
}

// Update handles input and advances the sketch.
func (v *Viewer) Update() {
	v.handleInput()

	v.sketch.Perf().StartFrame()
	v.sketch.Advance()
}

// Draw composites the latest raster and the UI.
func (v *Viewer) Draw() {
	perf := v.sketch.Perf()
	perf.StartPhase(telemetry.PhaseComposite)

	// The raster is complete here; upload it only when it changed.
	if !v.hasUploaded || v.uploaded != v.sketch.Version() {
		if v.sketch.Rendered() >= 0 {
			v.fieldRenderer.Upload(v.sketch.Buffer())
			v.uploaded = v.sketch.Version()
			v.hasUploaded = true
		}
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 10, G: 12, B: 16, A: 255})

	v.fieldRenderer.Draw(v.camera)
	v.drawUI()

	rl.EndDrawing()

	perf.RecordPresent()
	perf.EndFrame()
}

// drawUI draws the HUD and panels and applies control panel actions.
func (v *Viewer) drawUI() {
	s := v.sketch
	field := s.Field()

	v.hud.Draw(ui.HUDData{
		Title:  "Cabana",
		Frame:  max(s.Rendered(), 0),
		Depth:  field.Depth(max(s.Rendered(), 0)),
		Period: field.Period(),
		Points: field.Points().Len(),
		Seed:   s.Seed(),
		Steps:  s.StepsPerUpdate(),
		FPS:    rl.GetFPS(),
		Filter: v.fieldRenderer.Filter().String(),
		Paused: s.Paused(),
	})
	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)

	if v.showPerf {
		v.perfPanel.Draw(s.Perf().Stats())
	}

	mouse := rl.GetMousePosition()
	if v.showProbe && !v.controls.Contains(mouse.X, mouse.Y) {
		if px, py, ok := v.camera.PixelAt(mouse.X, mouse.Y); ok {
			if probe, ok := s.Probe(px, py); ok {
				v.probePanel.Draw(probe, int32(mouse.X), int32(mouse.Y), int32(v.screenWidth), int32(v.screenHeight))
			}
		}
	}

	res := v.controls.Draw(ui.ControlsState{
		Paused:  s.Paused(),
		Filter:  v.fieldRenderer.Filter().String(),
		Palette: field.Palette(),
	})
	v.applyControls(res)
}

func (v *Viewer) applyControls(res ui.ControlsResult) {
	if res.TogglePause {
		v.togglePause()
	}
	if res.Reseed {
		v.reseed()
	}
	if res.Snapshot {
		v.snapshot()
	}
	if res.ToggleFilter {
		v.toggleFilter()
	}
	if res.ResetPalette {
		v.setPalette(v.sketch.Config().Palette)
	} else if res.PaletteChanged {
		v.setPalette(res.Palette)
	}
}

// Unload frees GPU resources.
func (v *Viewer) Unload() {
	v.fieldRenderer.Unload()
}

func (v *Viewer) setPalette(p noise.Palette) {
	if err := v.sketch.SetPalette(p); err != nil {
		slog.Error("failed to apply palette", "error", err)
	}
}
