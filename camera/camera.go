// Package camera provides a 2D follow camera for viewport control.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Camera maps the y-up simulation world onto a y-down screen.
// It follows a target, optionally with exponential smoothing.
type Camera struct {
	// Center is the camera center in world coordinates
	Center r2.Vec

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	// Stiffness of the follow smoothing in 1/s. Zero copies the target.
	Stiffness float64
}

// New creates a camera centered on the world origin with 1:1 zoom.
func New(viewportW, viewportH float64) *Camera {
	return &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.1,
		MaxZoom:   4.0,
	}
}

// Follow moves the camera toward target over dt seconds.
func (c *Camera) Follow(target r2.Vec, dt float64) {
	if c.Stiffness <= 0 || dt <= 0 {
		c.Center = target
		return
	}
	// Frame-rate independent lerp factor.
	k := 1 - math.Exp(-c.Stiffness*dt)
	c.Center = r2.Add(c.Center, r2.Scale(k, r2.Sub(target, c.Center)))
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float32) {
	dx := (p.X - c.Center.X) * c.Zoom
	dy := (p.Y - c.Center.Y) * c.Zoom
	return float32(c.ViewportW/2 + dx), float32(c.ViewportH/2 - dy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	dx := (float64(sx) - c.ViewportW/2) / c.Zoom
	dy := (c.ViewportH/2 - float64(sy)) / c.Zoom
	return r2.Vec{X: c.Center.X + dx, Y: c.Center.Y + dy}
}

// WorldLength converts a world distance to pixels.
func (c *Camera) WorldLength(d float64) float32 {
	return float32(d * c.Zoom)
}

// IsVisible returns true if a circle at p with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return math.Abs(p.X-c.Center.X) <= halfW && math.Abs(p.Y-c.Center.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, zoom))
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at 1:1 zoom.
func (c *Camera) Reset() {
	c.Center = r2.Vec{}
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (lo, hi r2.Vec) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return r2.Vec{X: c.Center.X - halfW, Y: c.Center.Y - halfH},
		r2.Vec{X: c.Center.X + halfW, Y: c.Center.Y + halfH}
}
