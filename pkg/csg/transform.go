package csg

import (
	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform applies m to s. When s is itself a transform the two collapse
// into one node carrying m times the inner matrix, so chains of transforms
// never stack.
func Transform(s *Node, m geom.Matrix) *Node {
	d := TransformData{Matrix: m}
	if err := s.Err(); err != nil {
		return failed(NodeTransform, d, err)
	}
	if !m.IsFinite() {
		return failed(NodeTransform, d, invalid("transform", "non-finite matrix"))
	}
	if m.Determinant() == 0 {
		return failed(NodeTransform, d, invalid("transform", "singular matrix"))
	}
	if inner, ok := s.data.(TransformData); ok {
		d.Matrix = m.Mul(inner.Matrix)
		s = s.children[0]
	}
	return newNode(NodeTransform, d, s)
}

// Translate moves s by v.
func Translate(s *Node, v v3.Vec) *Node {
	return Transform(s, geom.Translation(v))
}

// Move moves s by (x, y, z).
func Move(s *Node, x, y, z float64) *Node {
	return Translate(s, v3.Vec{X: x, Y: y, Z: z})
}

// Up moves s along +Z.
func Up(s *Node, dz float64) *Node {
	return Move(s, 0, 0, dz)
}

// Down moves s along -Z.
func Down(s *Node, dz float64) *Node {
	return Move(s, 0, 0, -dz)
}

// Rotate rotates s by angles in degrees about X, then Y, then Z.
func Rotate(s *Node, deg v3.Vec) *Node {
	return Transform(s, geom.Euler(deg))
}

// Mirror reflects s through the plane through the origin with the given
// normal.
func Mirror(s *Node, normal v3.Vec) *Node {
	if !finite(normal.X, normal.Y, normal.Z) || normal.Length() == 0 {
		return failed(NodeTransform, TransformData{}, invalid("mirror", "plane normal %v", normal))
	}
	return Transform(s, geom.Reflection(normal))
}
