// Package geom provides the vector and angle helpers shared by the simulation systems.
//
// Rotations are clockwise-positive bearings measured from +Y: a rotation of
// pi/2 faces +X. All vectors are gonum r2 vectors in world units with +Y up.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// UnitY is the forward axis at rotation 0.
var UnitY = r2.Vec{X: 0, Y: 1}

// TurnSign returns +1 when the target lies to the right (clockwise) of facing as
// seen from pos, -1 when it lies to the left, and 0 when it is collinear.
func TurnSign(facing, target, pos r2.Vec) float64 {
	toTarget := r2.Sub(target, pos)
	right := r2.Vec{X: facing.Y, Y: -facing.X}
	return sign(r2.Dot(right, toTarget))
}

// CirclesOverlap reports whether two circles touch or intersect.
// The exact boundary counts as overlap.
func CirclesOverlap(c1 r2.Vec, r1 float64, c2 r2.Vec, r2Radius float64) bool {
	sum := r1 + r2Radius
	return r2.Norm2(r2.Sub(c1, c2)) <= sum*sum
}

// ClampToRadius re-projects a point outside the circle back onto the boundary
// along its own radial line. Points inside are returned unchanged.
// For finite points the result satisfies Norm(out) <= radius, so clamping is
// idempotent. Non-finite points are returned as is.
func ClampToRadius(pos r2.Vec, radius float64) r2.Vec {
	n := r2.Norm(pos)
	if !(n > radius) || math.IsInf(n, 0) {
		return pos
	}
	s := radius / n
	for {
		out := r2.Scale(s, pos)
		if r2.Norm(out) <= radius {
			return out
		}
		// rounding landed a hair outside; shrink by one ulp
		s = math.Nextafter(s, 0)
	}
}

// ClampToBox clamps each axis into [-halfExtents, +halfExtents].
func ClampToBox(pos, halfExtents r2.Vec) r2.Vec {
	return r2.Vec{
		X: math.Max(-halfExtents.X, math.Min(halfExtents.X, pos.X)),
		Y: math.Max(-halfExtents.Y, math.Min(halfExtents.Y, pos.Y)),
	}
}

// WrapToBox wraps a point that left the box to the opposite edge.
func WrapToBox(pos, halfExtents r2.Vec) r2.Vec {
	return r2.Vec{
		X: wrap(pos.X, halfExtents.X),
		Y: wrap(pos.Y, halfExtents.Y),
	}
}

func wrap(v, half float64) float64 {
	if v >= -half && v <= half {
		return v
	}
	span := 2 * half
	m := math.Mod(v+half, span)
	if m < 0 {
		m += span
	}
	return m - half
}

// Forward returns the unit heading vector for a rotation.
func Forward(rotation float64) r2.Vec {
	// r2.Rotate turns counter-clockwise; bearings are clockwise.
	return r2.Rotate(UnitY, -rotation, r2.Vec{})
}

// Bearing is the inverse of Forward for a non-zero direction.
func Bearing(dir r2.Vec) float64 {
	return math.Atan2(dir.X, dir.Y)
}

// NormalizeAngle wraps an angle into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// RotateToward turns current toward target along the shortest arc by at most maxStep.
func RotateToward(current, target, maxStep float64) float64 {
	diff := NormalizeAngle(target - current)
	if math.Abs(diff) <= maxStep {
		return current + diff
	}
	return current + maxStep*sign(diff)
}

// IsZero reports whether v is the zero vector.
func IsZero(v r2.Vec) bool {
	return v.X == 0 && v.Y == 0
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
