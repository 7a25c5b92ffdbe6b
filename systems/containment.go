package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/geom"
)

// Containment keeps the head inside the play area. Contain returns the corrected
// position and whether a correction was applied. Only the head is ever corrected;
// segments catch up through the chain follower on later ticks.
type Containment interface {
	Contain(pos r2.Vec) (r2.Vec, bool)
}

// BoxClamp is a hard stop at the walls of an axis-aligned box.
type BoxClamp struct {
	HalfExtents r2.Vec
}

// Contain implements Containment.
func (c BoxClamp) Contain(pos r2.Vec) (r2.Vec, bool) {
	out := geom.ClampToBox(pos, c.HalfExtents)
	return out, out != pos
}

// RadialReprojection pulls a head that left the circle back onto the boundary
// along its radial line, so outward motion slides along the rim.
type RadialReprojection struct {
	Radius float64
}

// Contain implements Containment.
func (c RadialReprojection) Contain(pos r2.Vec) (r2.Vec, bool) {
	out := geom.ClampToRadius(pos, c.Radius)
	return out, out != pos
}

// ToroidalWrap moves a head that crossed an edge to the opposite edge.
type ToroidalWrap struct {
	HalfExtents r2.Vec
}

// Contain implements Containment.
func (c ToroidalWrap) Contain(pos r2.Vec) (r2.Vec, bool) {
	out := geom.WrapToBox(pos, c.HalfExtents)
	return out, out != pos
}

// NewContainment returns the policy matching the area's shape.
func NewContainment(area PlayArea) Containment {
	switch area.Shape {
	case ShapeCircle:
		return RadialReprojection{Radius: area.Radius}
	case ShapeTorus:
		return ToroidalWrap{HalfExtents: area.HalfExtents}
	}
	return BoxClamp{HalfExtents: area.HalfExtents}
}
