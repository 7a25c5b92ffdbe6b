package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/config"
)

// Shape is the play area boundary kind.
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeCircle
	ShapeTorus // box whose edges wrap
)

// PlayArea is the boundary read by containment and the food spawner.
// Box and torus use HalfExtents, circle uses Radius. Both are centered on the origin.
type PlayArea struct {
	Shape       Shape
	HalfExtents r2.Vec
	Radius      float64
}

// NewPlayArea builds the play area from config.
func NewPlayArea(cfg config.PlayAreaConfig) (PlayArea, error) {
	switch cfg.Shape {
	case config.ShapeBox:
		return PlayArea{Shape: ShapeBox, HalfExtents: r2.Vec{X: cfg.HalfWidth, Y: cfg.HalfHeight}}, nil
	case config.ShapeTorus:
		return PlayArea{Shape: ShapeTorus, HalfExtents: r2.Vec{X: cfg.HalfWidth, Y: cfg.HalfHeight}}, nil
	case config.ShapeCircle:
		return PlayArea{Shape: ShapeCircle, Radius: cfg.Radius}, nil
	}
	return PlayArea{}, fmt.Errorf("unknown play area shape %q", cfg.Shape)
}

// Bounding returns the half extents of the square or box enclosing the area.
func (a PlayArea) Bounding() r2.Vec {
	if a.Shape == ShapeCircle {
		return r2.Vec{X: a.Radius, Y: a.Radius}
	}
	return a.HalfExtents
}

// Contains reports whether p lies inside the area, boundary included.
func (a PlayArea) Contains(p r2.Vec) bool {
	if a.Shape == ShapeCircle {
		return r2.Norm2(p) <= a.Radius*a.Radius
	}
	return p.X >= -a.HalfExtents.X && p.X <= a.HalfExtents.X &&
		p.Y >= -a.HalfExtents.Y && p.Y <= a.HalfExtents.Y
}

// BoundaryRadius is the collider radius of the boundary marker entity.
func (a PlayArea) BoundaryRadius() float64 {
	if a.Shape == ShapeCircle {
		return a.Radius
	}
	return r2.Norm(a.HalfExtents)
}
