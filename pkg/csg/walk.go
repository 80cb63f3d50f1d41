package csg

import (
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/geom"
)

// Visit is called for every node reached by Walk, with the node's path from
// the root and its depth. Returning false skips the node's children.
type Visit func(path string, n *Node, depth int) bool

// Walk visits n and its descendants depth first, parents before children.
// Shared subtrees are visited once per occurrence.
func Walk(n *Node, fn Visit) {
	walk(n, n.Label(), 0, fn)
}

func walk(n *Node, path string, depth int, fn Visit) {
	if !fn(path, n, depth) {
		return
	}
	for i, c := range n.children {
		walk(c, ChildPath(path, n, i, c), depth+1, fn)
	}
}

// ChildPath extends the path of parent to its i-th child. Parents with
// several children record the index: "difference[1]/transform/cylinder".
func ChildPath(path string, parent *Node, i int, child *Node) string {
	if len(parent.children) > 1 {
		path = fmt.Sprintf("%s[%d]", path, i)
	}
	return path + "/" + child.Label()
}

// Describe returns a one-line summary of the node's own parameters.
func (n *Node) Describe() string {
	switch d := n.data.(type) {
	case PrimitiveData:
		switch d.Prim {
		case PrimBox:
			s := fmt.Sprintf("box %g x %g x %g", d.Size.X, d.Size.Y, d.Size.Z)
			if d.Centered {
				s += " centered"
			}
			return s
		case PrimCylinder:
			s := fmt.Sprintf("cylinder h=%g r=%g", d.Height, d.R1)
			if d.R2 != d.R1 {
				s = fmt.Sprintf("cone h=%g r1=%g r2=%g", d.Height, d.R1, d.R2)
			}
			if d.Segments > 0 {
				s += fmt.Sprintf(" segments=%d", d.Segments)
			}
			return s
		case PrimSphere:
			return fmt.Sprintf("sphere r=%g", d.Radius)
		}
	case TransformData:
		t := d.Matrix.TranslationPart()
		if d.Matrix.Mul(geom.Translation(t.MulScalar(-1))).IsIdentity() {
			return fmt.Sprintf("translate (%g, %g, %g)", t.X, t.Y, t.Z)
		}
		if d.Matrix.Determinant() < 0 {
			return fmt.Sprintf("transform mirrored, offset (%g, %g, %g)", t.X, t.Y, t.Z)
		}
		return fmt.Sprintf("transform offset (%g, %g, %g)", t.X, t.Y, t.Z)
	case BooleanData:
		return fmt.Sprintf("%s of %d", d.Op, len(n.children))
	case HullData:
		return fmt.Sprintf("hull of %d", len(n.children))
	case SweepData:
		if d.Extrude {
			return fmt.Sprintf("extrude %s h=%g", d.Profile, d.Path[1].Z)
		}
		return fmt.Sprintf("sweep %s along %d points", d.Profile, len(d.Path))
	case RoundData:
		return fmt.Sprintf("%s %s r=%g", d.Mode, d.Selector, d.Radius)
	}
	return n.Label()
}

// Format renders the tree as an indented outline, one node per line.
func Format(n *Node) string {
	if err := n.Err(); err != nil {
		return "invalid: " + err.Error()
	}
	var b strings.Builder
	Walk(n, func(_ string, n *Node, depth int) bool {
		fmt.Fprintf(&b, "%s%s  [%s]\n", strings.Repeat("  ", depth), n.Describe(), n.id.Short())
		return true
	})
	return b.String()
}

// Count returns the number of node occurrences and of distinct node IDs in
// the tree.
func Count(n *Node) (nodes, unique int) {
	seen := make(map[NodeID]bool)
	Walk(n, func(_ string, n *Node, _ int) bool {
		nodes++
		if !seen[n.id] {
			seen[n.id] = true
			unique++
		}
		return true
	})
	return nodes, unique
}
