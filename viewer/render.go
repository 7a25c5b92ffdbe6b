package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/geom"
	"github.com/pthm-cable/minhoca/systems"
	"github.com/pthm-cable/minhoca/ui"
)

var (
	colorBackground = rl.Color{R: 18, G: 22, B: 28, A: 255}
	colorBoundary   = rl.Color{R: 90, G: 110, B: 130, A: 255}
	colorWrapEdge   = rl.Color{R: 90, G: 130, B: 110, A: 255}
	colorFood       = rl.Color{R: 240, G: 190, B: 80, A: 255}
	colorSegment    = rl.Color{R: 110, G: 170, B: 90, A: 255}
	colorHead       = rl.Color{R: 150, G: 210, B: 110, A: 255}
	colorFacing     = rl.Color{R: 30, G: 40, B: 30, A: 255}
)

const controlsLegend = "Mouse: steer | WASD: throttle | Space: pause | R: reset | < >: speed | Wheel: zoom | P: perf"

// Draw renders the last tick's transforms and the HUD.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	v.drawArea()
	v.drawEntities()
	v.drawHUD()

	rl.EndDrawing()
}

// drawArea outlines the play area boundary.
func (v *Viewer) drawArea() {
	area := v.game.Area()
	if area.Shape == systems.ShapeCircle {
		cx, cy := v.camera.WorldToScreen(r2.Vec{})
		rl.DrawCircleLines(int32(cx), int32(cy), v.camera.WorldLength(area.Radius), colorBoundary)
		return
	}

	color := colorBoundary
	if area.Shape == systems.ShapeTorus {
		color = colorWrapEdge
	}
	x, y := v.camera.WorldToScreen(r2.Vec{X: -area.HalfExtents.X, Y: area.HalfExtents.Y})
	rect := rl.Rectangle{
		X:      x,
		Y:      y,
		Width:  v.camera.WorldLength(2 * area.HalfExtents.X),
		Height: v.camera.WorldLength(2 * area.HalfExtents.Y),
	}
	rl.DrawRectangleLinesEx(rect, 2, color)
}

// drawEntities draws food, then the body, then the head on top.
func (v *Viewer) drawEntities() {
	var head *components.Transform
	var headRadius float64

	for _, pass := range []components.Template{components.TemplateFood, components.TemplateSegment, components.TemplateHead} {
		for i := range v.last.Transforms {
			et := &v.last.Transforms[i]
			if et.Template != pass || !v.camera.IsVisible(et.Transform.Pos, et.Radius) {
				continue
			}
			color := colorSegment
			switch pass {
			case components.TemplateFood:
				color = colorFood
			case components.TemplateHead:
				color = colorHead
				head, headRadius = &et.Transform, et.Radius
			}
			v.drawCircle(et.Transform.Pos, et.Radius, color)
		}
	}

	if head != nil {
		tip := r2.Add(head.Pos, r2.Scale(headRadius, geom.Forward(head.Rot)))
		sx, sy := v.camera.WorldToScreen(head.Pos)
		tx, ty := v.camera.WorldToScreen(tip)
		rl.DrawLineEx(rl.NewVector2(sx, sy), rl.NewVector2(tx, ty), 3, colorFacing)
	}
}

func (v *Viewer) drawCircle(p r2.Vec, radius float64, color rl.Color) {
	sx, sy := v.camera.WorldToScreen(p)
	rl.DrawCircleV(rl.NewVector2(sx, sy), v.camera.WorldLength(radius), color)
}

// drawHUD draws the status text, perf panel and run controls.
func (v *Viewer) drawHUD() {
	v.hud.Draw(ui.HUDData{
		Title:    "Minhoca",
		Tick:     v.game.Tick(),
		Score:    v.game.Score(),
		Food:     v.game.FoodCount(),
		FoodMax:  v.cfg.Food.Max,
		Speed:    v.stepsPerUpdate,
		FPS:      rl.GetFPS(),
		Paused:   v.paused,
		Over:     v.game.Over(),
		Scheme:   v.cfg.Control.Scheme,
		HeadX:    v.last.Head.Pos.X,
		HeadY:    v.last.Head.Pos.Y,
		Rotation: v.last.Head.Rot,
	})
	v.hud.DrawControls(v.screenHeight, controlsLegend)

	if v.showPerf {
		v.perfPanel.Draw(v.game.PerfCollector().Stats(), v.game.Registry())
	}

	act := v.controls.Draw(v.paused)
	if act.TogglePause {
		v.paused = !v.paused
	}
	if act.Reset {
		v.reset()
	}
	if act.Slower {
		v.setSpeed(v.stepsPerUpdate - 1)
	}
	if act.Faster {
		v.setSpeed(v.stepsPerUpdate + 1)
	}
}
