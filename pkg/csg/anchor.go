package csg

import (
	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Anchor is an immutable reference frame. Moving or rotating an anchor
// returns a new one, so a frame captured early can be reused after later
// construction steps, and goroutines can share anchors freely.
//
//	base := csg.Origin().Translate(0, 0, 10)
//	post := base.Translate(5, 0, 0).Place(csg.Cylinder(4, 1))
//	hole := base.Rotate(v3.Vec{X: 90}).Place(csg.Cylinder(20, 0.5))
type Anchor struct {
	m geom.Matrix
}

// Origin returns the world frame.
func Origin() Anchor {
	return Anchor{m: geom.Identity()}
}

// AnchorAt returns a frame with the given matrix.
func AnchorAt(m geom.Matrix) Anchor {
	return Anchor{m: m}
}

// Translate moves the frame along its own axes.
func (a Anchor) Translate(x, y, z float64) Anchor {
	return Anchor{m: a.m.Mul(geom.Translation(v3.Vec{X: x, Y: y, Z: z}))}
}

// Rotate turns the frame about its own axes, in degrees, X then Y then Z.
func (a Anchor) Rotate(deg v3.Vec) Anchor {
	return Anchor{m: a.m.Mul(geom.Euler(deg))}
}

// Matrix returns the frame's matrix in world coordinates.
func (a Anchor) Matrix() geom.Matrix {
	return a.m
}

// Point maps a point in frame coordinates to world coordinates.
func (a Anchor) Point(p v3.Vec) v3.Vec {
	return a.m.Apply(p)
}

// Place positions s, built around the origin, in this frame.
func (a Anchor) Place(s *Node) *Node {
	return Transform(s, a.m)
}
