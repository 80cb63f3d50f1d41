package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles is a flat triangle soup with per-triangle normals, the form
// consumed by triangle-only exporters.
type Triangles struct {
	// Vertices are the shared vertex positions.
	Vertices []v3.Vec
	// Indices holds three vertex indices per triangle.
	Indices []uint32
	// Normals holds one unit normal per triangle.
	Normals []v3.Vec
	// PartName is the name of the part this came from, if any.
	PartName string
}

// VertexCount returns the number of vertices.
func (t *Triangles) VertexCount() int {
	return len(t.Vertices)
}

// TriangleCount returns the number of triangles.
func (t *Triangles) TriangleCount() int {
	return len(t.Indices) / 3
}

// IsEmpty returns true if there are no triangles.
func (t *Triangles) IsEmpty() bool {
	return len(t.Indices) == 0
}

// collinearEpsilon is the sine of the turning angle below which three
// consecutive face vertices count as collinear.
const collinearEpsilon = 1e-6

// Triangulate splits every face into triangles. Convex faces without
// collinear vertices are fanned from their first vertex; faces carrying
// vertices inserted along an edge are fanned around an added centroid so no
// triangle degenerates and no edge loses a shared vertex.
func (m *Mesh) Triangulate() *Triangles {
	out := &Triangles{Vertices: append([]v3.Vec(nil), m.Vertices...)}
	for fi, f := range m.Faces {
		n := m.FaceNormal(fi)
		if len(f) == 3 || !hasCollinear(m.Vertices, f) {
			for k := 1; k+1 < len(f); k++ {
				out.Indices = append(out.Indices, uint32(f[0]), uint32(f[k]), uint32(f[k+1]))
				out.Normals = append(out.Normals, n)
			}
			continue
		}
		var c v3.Vec
		for _, i := range f {
			c = c.Add(m.Vertices[i])
		}
		c = c.MulScalar(1 / float64(len(f)))
		ci := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, c)
		for k := range f {
			out.Indices = append(out.Indices, ci, uint32(f[k]), uint32(f[(k+1)%len(f)]))
			out.Normals = append(out.Normals, n)
		}
	}
	return out
}

func hasCollinear(verts []v3.Vec, f []int) bool {
	n := len(f)
	for k := range f {
		a := verts[f[(k+n-1)%n]]
		b := verts[f[k]]
		c := verts[f[(k+1)%n]]
		u, v := b.Sub(a), c.Sub(b)
		if u.Cross(v).Length() <= collinearEpsilon*u.Length()*v.Length() {
			return true
		}
	}
	return false
}
