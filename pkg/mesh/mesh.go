// Package mesh implements the boundary representation produced by the
// evaluator: welded vertices plus oriented planar polygon faces, together
// with the algorithms that consume and produce it (BSP booleans, convex
// hull, manifold checks, feature edges).
//
// A Mesh is never mutated after construction. Every operation returns a new
// Mesh, so one value may be shared read-only between goroutines.
package mesh

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a polygonal boundary representation. Faces index into Vertices
// and are wound counter-clockwise when seen from outside the solid.
type Mesh struct {
	Vertices []v3.Vec
	Faces    [][]int
}

// Empty returns a mesh with no geometry. An empty mesh is a valid solid of
// zero volume.
func Empty() *Mesh {
	return &Mesh{}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of polygon faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// BoundingBox returns the axis-aligned bounding box as arrays, matching the
// kernel.Solid interface.
func (m *Mesh) BoundingBox() (min, max [3]float64) {
	b := m.Bounds()
	return [3]float64{b.Min.X, b.Min.Y, b.Min.Z}, [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
}

// Bounds returns the axis-aligned bounding box of the vertices used by faces.
func (m *Mesh) Bounds() Box {
	b := EmptyBox()
	for _, f := range m.Faces {
		for _, i := range f {
			b = b.Include(m.Vertices[i])
		}
	}
	return b
}

// Volume returns the enclosed volume via the divergence theorem. For a
// closed, outward-oriented mesh the result is positive.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		for i := 1; i+1 < len(f); i++ {
			b := m.Vertices[f[i]]
			c := m.Vertices[f[i+1]]
			v += a.Dot(b.Cross(c))
		}
	}
	return v / 6
}

// SurfaceArea returns the total face area.
func (m *Mesh) SurfaceArea() float64 {
	var a float64
	for i := range m.Faces {
		a += newell(m.facePoints(i)).Length() / 2
	}
	return a
}

// FaceNormal returns the unit normal of face i.
func (m *Mesh) FaceNormal(i int) v3.Vec {
	n := newell(m.facePoints(i))
	if l := n.Length(); l > 0 {
		return n.MulScalar(1 / l)
	}
	return n
}

func (m *Mesh) facePoints(i int) []v3.Vec {
	f := m.Faces[i]
	pts := make([]v3.Vec, len(f))
	for k, vi := range f {
		pts[k] = m.Vertices[vi]
	}
	return pts
}

// Polygons returns the faces as free-standing polygons with planes, the
// input form of the BSP booleans.
func (m *Mesh) Polygons() []Polygon {
	out := make([]Polygon, 0, len(m.Faces))
	for i := range m.Faces {
		if p, ok := NewPolygon(m.facePoints(i)); ok {
			out = append(out, p)
		}
	}
	return out
}

// Points returns the vertices referenced by faces, in first-use order.
func (m *Mesh) Points() []v3.Vec {
	seen := make([]bool, len(m.Vertices))
	out := make([]v3.Vec, 0, len(m.Vertices))
	for _, f := range m.Faces {
		for _, i := range f {
			if !seen[i] {
				seen[i] = true
				out = append(out, m.Vertices[i])
			}
		}
	}
	return out
}

// Transform returns a copy of m with every vertex mapped through t. When t
// mirrors space the faces are rewound so they stay outward facing.
func (m *Mesh) Transform(t geom.Matrix) *Mesh {
	out := &Mesh{
		Vertices: make([]v3.Vec, len(m.Vertices)),
		Faces:    make([][]int, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = t.Apply(v)
	}
	flip := t.Determinant() < 0
	for i, f := range m.Faces {
		g := make([]int, len(f))
		for k := range f {
			if flip {
				g[k] = f[len(f)-1-k]
			} else {
				g[k] = f[k]
			}
		}
		out.Faces[i] = g
	}
	return out
}

// Merge concatenates meshes without any boolean processing. Only valid
// when the inputs are known to be disjoint.
func Merge(ms ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range ms {
		if m.IsEmpty() {
			continue
		}
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			g := make([]int, len(f))
			for k, i := range f {
				g[k] = i + base
			}
			out.Faces = append(out.Faces, g)
		}
	}
	return out
}

// Euler returns V - E + F over the vertices, undirected edges and faces.
func (m *Mesh) Euler() int {
	edges := make(map[[2]int]struct{})
	used := make(map[int]struct{})
	for _, f := range m.Faces {
		for k, a := range f {
			b := f[(k+1)%len(f)]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}] = struct{}{}
			used[f[k]] = struct{}{}
		}
	}
	return len(used) - len(edges) + len(m.Faces)
}

// Genus returns the number of handles of a closed connected manifold mesh
// (0 for a sphere-like solid, 1 for a solid with one through-hole).
func (m *Mesh) Genus() int {
	return (2*m.Shells() - m.Euler()) / 2
}

// Shells returns the number of edge-connected components.
func (m *Mesh) Shells() int {
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	used := make(map[int]struct{})
	for _, f := range m.Faces {
		for k := range f {
			a, b := find(f[k]), find(f[(k+1)%len(f)])
			if a != b {
				parent[a] = b
			}
			used[f[k]] = struct{}{}
		}
	}
	roots := make(map[int]struct{})
	for i := range used {
		roots[find(i)] = struct{}{}
	}
	return len(roots)
}

// newell returns the (unnormalized) polygon normal, twice the area.
func newell(pts []v3.Vec) v3.Vec {
	var n v3.Vec
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

func lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

func finite(v v3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}
