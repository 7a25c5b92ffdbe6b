package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlAction reports which on-screen controls were activated this frame.
type ControlAction struct {
	TogglePause bool
	Reset       bool
	Slower      bool
	Faster      bool
}

// ControlsPanel renders the run controls as raygui buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     float32
}

// NewControlsPanel creates a controls panel anchored at x, y.
func NewControlsPanel(x, y float32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Draw renders the buttons and returns the actions clicked.
func (c *ControlsPanel) Draw(paused bool) ControlAction {
	pad := float32(c.renderer.Theme.Padding)
	const w, h = 90, 28
	c.renderer.DrawPanel(int32(c.x), int32(c.y), int32(4*w+5*pad), int32(h+2*pad))

	x, y := c.x+pad, c.y+pad
	var act ControlAction
	act.TogglePause = gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, toggleText(paused, "Resume", "Pause"))
	x += w + pad
	act.Reset = gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, "Reset")
	x += w + pad
	act.Slower = gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, "Slower")
	x += w + pad
	act.Faster = gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, "Faster")
	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
