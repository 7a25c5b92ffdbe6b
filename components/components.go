// Package components defines ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Transform is an entity's world position and clockwise bearing from +Y.
type Transform struct {
	Pos r2.Vec
	Rot float64
}

// Layer tags a collider with the category that selects its collision response.
type Layer uint8

const (
	LayerHead Layer = iota
	LayerSegment
	LayerFood
	LayerBounds

	NumLayers
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerHead:
		return "head"
	case LayerSegment:
		return "segment"
	case LayerFood:
		return "food"
	case LayerBounds:
		return "bounds"
	}
	return "unknown"
}

// Collider is a circular collision shape. Radius is always > 0.
type Collider struct {
	Layer  Layer
	Radius float64
}

// Head holds the steering state of the lead entity, fixed at spawn time.
type Head struct {
	MovementSpeed float64 // units/second
	RotationSpeed float64 // radians/second
}

// Segment marks a body link. Index is 1 for the link nearest the head.
type Segment struct {
	Index int
}

// Food marks a consumable entity.
type Food struct {
	Amount float64
}

// Bounds marks the play area boundary entity. Its collider never triggers a response.
type Bounds struct{}

// Template identifies the visual/collider template a collaborator should realize.
type Template string

const (
	TemplateHead    Template = "head"
	TemplateSegment Template = "segment"
	TemplateFood    Template = "food"
	TemplateBounds  Template = "bounds"
)

// TemplateFor returns the template used for entities on a collider layer.
func TemplateFor(l Layer) Template {
	switch l {
	case LayerHead:
		return TemplateHead
	case LayerSegment:
		return TemplateSegment
	case LayerFood:
		return TemplateFood
	}
	return TemplateBounds
}
