package viewer

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cabana/raster"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	// Window resize propagation
	v.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.togglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.reseed()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		v.snapshot()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		v.toggleFilter()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.sketch.SetStepsPerUpdate(v.sketch.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.sketch.SetStepsPerUpdate(v.sketch.StepsPerUpdate() + 1)
	}

	// Panels
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyI) {
		v.showProbe = !v.showProbe
	}

	// Camera controls
	v.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.camera.Resize(w, h)
	v.controls.SetPosition(int32(w)-controlsWidth-10, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	const panSpeed = 8

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -panSpeed)
	}

	// Drag to pan, unless the drag started on the controls panel
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonDown(rl.MouseButtonRight) ||
		(rl.IsMouseButtonDown(rl.MouseButtonLeft) && !v.controls.Contains(mouse.X, mouse.Y)) {
		delta := rl.GetMouseDelta()
		v.camera.Pan(-delta.X, -delta.Y)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		v.camera.ZoomBy(1 + wheelMove*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}

	// Home or 0 to reset camera
	if rl.IsKeyPressed(rl.KeyHome) || rl.IsKeyPressed(rl.KeyZero) {
		v.camera.Reset()
	}
}

func (v *Viewer) togglePause() {
	v.sketch.SetPaused(!v.sketch.Paused())
}

func (v *Viewer) reseed() {
	seed := time.Now().UnixNano()
	if err := v.sketch.Reseed(seed); err != nil {
		slog.Error("failed to reseed", "error", err)
		return
	}
	slog.Info("reseeded", "seed", seed, "frame", v.sketch.Rendered())
}

func (v *Viewer) snapshot() {
	path, err := v.sketch.SaveSnapshot("")
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", v.sketch.Rendered())
}

func (v *Viewer) toggleFilter() {
	next := raster.Bilinear
	if v.fieldRenderer.Filter() == raster.Bilinear {
		next = raster.Nearest
	}
	v.fieldRenderer.SetFilter(next)
}
