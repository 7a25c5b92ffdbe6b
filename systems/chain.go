package systems

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
	"github.com/pthm-cable/minhoca/geom"
)

// ErrDeadLink is returned when a chain entry no longer refers to a live entity
// with a transform.
var ErrDeadLink = errors.New("dead chain link")

// FollowMode selects how segments chase their predecessor.
type FollowMode uint8

const (
	// FollowLeash pulls a segment toward its predecessor only when it is further
	// than the segment size away. Segments are never pushed.
	FollowLeash FollowMode = iota
	// FollowTrail slides segments along the path the chain already occupies, so
	// each link sits exactly one segment size of path length behind the one ahead.
	FollowTrail
)

// ParseFollowMode maps a config string to a FollowMode.
func ParseFollowMode(s string) FollowMode {
	if s == config.FollowTrail {
		return FollowTrail
	}
	return FollowLeash
}

// ChainFollower propagates the head's new position down the body segments.
type ChainFollower struct {
	world       *ecs.World
	transforms  *ecs.Map[components.Transform]
	segmentSize float64
	mode        FollowMode
	turnRate    float64 // 0 leaves segment rotation untouched

	// scratch, reused across ticks
	links []*components.Transform
	path  []r2.Vec
}

// NewChainFollower creates a chain follower.
func NewChainFollower(w *ecs.World, segmentSize float64, mode FollowMode, alignTurnRate float64) *ChainFollower {
	return &ChainFollower{
		world:       w,
		transforms:  ecs.NewMap[components.Transform](w),
		segmentSize: segmentSize,
		mode:        mode,
		turnRate:    alignTurnRate,
	}
}

// Update runs one pass head to tail. chain[0] is the head, already moved this
// tick; headPrev is where the head was before it moved.
// Every link is checked before any is moved, so a dead link leaves the chain untouched.
func (f *ChainFollower) Update(chain []ecs.Entity, headPrev r2.Vec, dt float64) error {
	if len(chain) == 0 {
		return fmt.Errorf("%w: empty chain", ErrDeadLink)
	}
	f.links = f.links[:0]
	for i := range chain {
		tf, err := f.transform(chain, i)
		if err != nil {
			return err
		}
		f.links = append(f.links, tf)
	}

	switch f.mode {
	case FollowTrail:
		f.trail(headPrev)
	default:
		for i := 1; i < len(f.links); i++ {
			f.links[i].Pos = f.leash(f.links[i-1].Pos, f.links[i].Pos)
		}
	}

	for i := 1; i < len(f.links); i++ {
		f.align(f.links[i], f.links[i-1].Pos, dt)
	}
	return nil
}

// leash places a segment at min(segmentSize, |old-anchor|) from anchor along
// the anchor->old direction. A segment on top of its anchor stays there.
func (f *ChainFollower) leash(anchor, old r2.Vec) r2.Vec {
	dir := r2.Sub(old, anchor)
	if geom.IsZero(dir) {
		return anchor
	}
	if r2.Norm(dir) <= f.segmentSize {
		return old
	}
	return r2.Add(anchor, r2.Scale(f.segmentSize, r2.Unit(dir)))
}

// trail walks the polyline head, headPrev, old link positions and puts link i
// at path length i*segmentSize. Links past the end of the path rest on its last point.
func (f *ChainFollower) trail(headPrev r2.Vec) {
	f.path = append(f.path[:0], f.links[0].Pos, headPrev)
	for _, tf := range f.links[1:] {
		f.path = append(f.path, tf.Pos)
	}

	seg := 0      // current leg is path[seg] -> path[seg+1]
	walked := 0.0 // path length at path[seg]
	for i := 1; i < len(f.links); i++ {
		target := float64(i) * f.segmentSize
		for seg < len(f.path)-1 {
			l := r2.Norm(r2.Sub(f.path[seg+1], f.path[seg]))
			if walked+l >= target {
				break
			}
			walked += l
			seg++
		}
		if seg == len(f.path)-1 {
			f.links[i].Pos = f.path[seg]
			continue
		}
		a, b := f.path[seg], f.path[seg+1]
		t := (target - walked) / r2.Norm(r2.Sub(b, a))
		f.links[i].Pos = r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
	}
}

// align turns the segment to face away from its anchor along the chain.
func (f *ChainFollower) align(seg *components.Transform, anchor r2.Vec, dt float64) {
	if f.turnRate <= 0 {
		return
	}
	dir := r2.Sub(seg.Pos, anchor)
	if geom.IsZero(dir) {
		return
	}
	seg.Rot = geom.RotateToward(seg.Rot, geom.Bearing(dir), f.turnRate*dt)
}

func (f *ChainFollower) transform(chain []ecs.Entity, i int) (*components.Transform, error) {
	e := chain[i]
	if !f.world.Alive(e) || !f.transforms.Has(e) {
		return nil, fmt.Errorf("%w: index %d", ErrDeadLink, i)
	}
	return f.transforms.Get(e), nil
}
