package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/minhoca/systems"
	"github.com/pthm-cable/minhoca/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	Tick     int32
	Score    float64
	Food     int
	FoodMax  int // 0 when uncapped
	Speed    int
	FPS      int32
	Paused   bool
	Over     bool
	Scheme   string
	HeadX    float64
	HeadY    float64
	Rotation float64
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Control: %s", data.Tick, data.Speed, data.FPS, data.Scheme),
		10, 35, 16, rl.LightGray,
	)

	y := int32(57)
	y = h.renderer.DrawLabelValue(10, y, "Score", fmt.Sprintf("%.0f", data.Score))
	y = h.renderer.DrawLabelValue(10, y, "Food", fmt.Sprintf("%d", data.Food))
	y = h.renderer.DrawLabelValue(10, y, "Head", fmt.Sprintf("(%.0f, %.0f) rot %.2f", data.HeadX, data.HeadY, data.Rotation))
	if data.FoodMax > 0 {
		y = h.renderer.DrawBar(10, y, "Food cap", float32(data.Food)/float32(data.FoodMax), 200)
	}

	switch {
	case data.Over:
		rl.DrawText("GAME OVER", 10, y, 16, rl.Red)
	case data.Paused:
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-stage tick timing in pipeline order.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for ph := range telemetry.NumPhases {
		pct := stats.PhasePct[ph]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-14s %6s %5.1f%%", registry.GetName(ph.String()), stats.PhaseAvg[ph].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
