// Package viewer is the graphical collaborator: it samples mouse and keys,
// drives the game at a fixed rate and draws the returned transforms.
package viewer

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/camera"
	"github.com/pthm-cable/minhoca/config"
	"github.com/pthm-cable/minhoca/game"
	"github.com/pthm-cable/minhoca/systems"
	"github.com/pthm-cable/minhoca/ui"
)

const (
	maxStepsPerUpdate = 10
	cameraStiffness   = 8
)

// Viewer owns the window-side state for one game.
type Viewer struct {
	game   *game.Game
	cfg    *config.Config
	camera *camera.Camera

	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel

	last           *game.TickResult
	accumulator    float64
	paused         bool
	showPerf       bool
	stepsPerUpdate int

	screenWidth  int32
	screenHeight int32
}

// New creates a viewer for g. The raylib window must already be open.
func New(g *game.Game, stepsPerUpdate int) *Viewer {
	cfg := g.Config()
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	v := &Viewer{
		game:           g,
		cfg:            cfg,
		camera:         camera.New(float64(w), float64(h)),
		hud:            ui.NewHUD(),
		perfPanel:      ui.NewPerfPanel(w-300, 10),
		controls:       ui.NewControlsPanel(10, float32(h)-90),
		last:           g.Snapshot(),
		stepsPerUpdate: max(1, min(stepsPerUpdate, maxStepsPerUpdate)),
		screenWidth:    w,
		screenHeight:   h,
	}
	v.camera.Stiffness = cameraStiffness
	v.camera.Center = v.last.Head.Pos
	return v
}

// Run loops until the window closes, the run ends by max ticks, or a tick fails.
func (v *Viewer) Run(maxTicks int) error {
	for !rl.WindowShouldClose() {
		if err := v.Update(); err != nil {
			return err
		}
		v.Draw()

		if maxTicks > 0 && int(v.game.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", v.game.Tick())
			break
		}
	}
	return nil
}

// Update handles input and advances the simulation by the fixed steps owed
// for the elapsed frame time.
func (v *Viewer) Update() error {
	v.handleInput()
	v.game.PerfCollector().RecordFrame()

	frame := min(float64(rl.GetFrameTime()), v.cfg.Physics.MaxDelta)
	if !v.paused && !v.game.Over() {
		dt := v.cfg.Physics.DT
		v.accumulator += frame * float64(v.stepsPerUpdate)

		in := game.Input{Delta: dt, Pointer: v.pointer(), Keys: v.keys()}
		for v.accumulator >= dt {
			res, err := v.game.Step(in)
			if err != nil {
				return fmt.Errorf("tick %d: %w", v.game.Tick()+1, err)
			}
			v.last = res
			v.accumulator -= dt
		}
	}

	v.camera.Follow(v.last.Head.Pos, frame)
	return nil
}

// pointer returns the mouse position in world space, or nil when the cursor
// is off the window.
func (v *Viewer) pointer() *r2.Vec {
	if !rl.IsCursorOnScreen() {
		return nil
	}
	mouse := rl.GetMousePosition()
	p := v.camera.ScreenToWorld(mouse.X, mouse.Y)
	return &p
}

// keys samples the throttle scheme's keys.
func (v *Viewer) keys() systems.KeyState {
	return systems.KeyState{
		Accelerate: rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Brake:      rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		TurnLeft:   rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		TurnRight:  rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
	}
}

// handleInput processes keyboard and mouse wheel input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.reset()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.setSpeed(v.stepsPerUpdate - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.setSpeed(v.stepsPerUpdate + 1)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.SetZoom(1)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth, v.screenHeight = w, h
	v.camera.Resize(float64(w), float64(h))
	v.perfPanel.SetPosition(w-300, 10)
	v.controls.SetPosition(10, float32(h)-90)
}

func (v *Viewer) setSpeed(n int) {
	v.stepsPerUpdate = max(1, min(n, maxStepsPerUpdate))
}

func (v *Viewer) reset() {
	v.game.Reset()
	v.last = v.game.Snapshot()
	v.accumulator = 0
	v.camera.Center = v.last.Head.Pos
}
