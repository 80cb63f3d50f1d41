package mesh

import (
	"math"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultFeatureAngle is the dihedral angle, in radians, above which an edge
// between two faces is a feature edge eligible for rounding.
const DefaultFeatureAngle = 30 * math.Pi / 180

// regionTolerance is the normal deviation under which neighbouring faces
// belong to the same planar region.
const regionTolerance = 1e-6

// Region is a maximal set of edge-connected coplanar faces.
type Region struct {
	Normal v3.Vec
	Faces  []int
	Points []v3.Vec
}

// Extent returns how far the region reaches from the line through a in
// direction w: the maximum of (p - a).w over its vertices.
func (r Region) Extent(a, w v3.Vec) float64 {
	best := math.Inf(-1)
	for _, p := range r.Points {
		best = math.Max(best, p.Sub(a).Dot(w))
	}
	return best
}

// Edge is a feature edge: a straight run of mesh edges between two planar
// regions. The run goes from A to B as traversed by region R1; region R2
// traverses it from B to A.
type Edge struct {
	A, B   v3.Vec
	N1, N2 v3.Vec // unit outward normals of R1 and R2
	R1, R2 int
	// Angle is the angle between N1 and N2.
	Angle float64
	// Convex is true when the solid's material lies in the wedge between the
	// two faces, as on the outside edges of a box.
	Convex bool
}

// Dir returns the unit direction from A to B.
func (e Edge) Dir() v3.Vec {
	return e.B.Sub(e.A).Normalize()
}

// Midpoint returns the center of the edge.
func (e Edge) Midpoint() v3.Vec {
	return e.A.Add(e.B).MulScalar(0.5)
}

// Length returns the edge length.
func (e Edge) Length() float64 {
	return e.B.Sub(e.A).Length()
}

// Regions groups the faces of m into planar regions, in order of their
// first face.
func (m *Mesh) Regions() ([]Region, []int) {
	owner := make(map[[2]int]int)
	for fi, f := range m.Faces {
		for k, a := range f {
			owner[[2]int{a, f[(k+1)%len(f)]}] = fi
		}
	}
	normals := make([]v3.Vec, len(m.Faces))
	for i := range m.Faces {
		normals[i] = m.FaceNormal(i)
	}
	regionOf := make([]int, len(m.Faces))
	for i := range regionOf {
		regionOf[i] = -1
	}
	var regions []Region
	for start := range m.Faces {
		if regionOf[start] >= 0 {
			continue
		}
		ri := len(regions)
		r := Region{Normal: normals[start]}
		stack := []int{start}
		regionOf[start] = ri
		for len(stack) > 0 {
			fi := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			r.Faces = append(r.Faces, fi)
			f := m.Faces[fi]
			for k, a := range f {
				b := f[(k+1)%len(f)]
				nb, ok := owner[[2]int{b, a}]
				if !ok || regionOf[nb] >= 0 {
					continue
				}
				if normals[nb].Dot(r.Normal) < 1-regionTolerance {
					continue
				}
				regionOf[nb] = ri
				stack = append(stack, nb)
			}
		}
		sort.Ints(r.Faces)
		seen := make(map[int]bool)
		for _, fi := range r.Faces {
			for _, vi := range m.Faces[fi] {
				if !seen[vi] {
					seen[vi] = true
					r.Points = append(r.Points, m.Vertices[vi])
				}
			}
		}
		regions = append(regions, r)
	}
	return regions, regionOf
}

// FeatureEdges returns the edges of m whose dihedral angle exceeds
// minAngle, merged into straight runs, together with the planar regions
// they separate. m must be a closed manifold.
func (m *Mesh) FeatureEdges(minAngle float64) ([]Edge, []Region) {
	regions, regionOf := m.Regions()
	owner := make(map[[2]int]int)
	for fi, f := range m.Faces {
		for k, a := range f {
			owner[[2]int{a, f[(k+1)%len(f)]}] = fi
		}
	}

	type segment struct {
		a, b   int
		r1, r2 int
	}
	var segs []segment
	for fi, f := range m.Faces {
		for k, a := range f {
			b := f[(k+1)%len(f)]
			nb, ok := owner[[2]int{b, a}]
			if !ok {
				continue
			}
			// Each edge is seen from both sides; keep the lower region's view.
			r1, r2 := regionOf[fi], regionOf[nb]
			if r1 >= r2 {
				continue
			}
			n1, n2 := regions[r1].Normal, regions[r2].Normal
			if angleBetween(n1, n2) <= minAngle {
				continue
			}
			segs = append(segs, segment{a, b, r1, r2})
		}
	}

	// Merge collinear segments separating the same pair of regions.
	type key struct{ r1, r2 int }
	groups := make(map[key][]segment)
	var keys []key
	for _, s := range segs {
		k := key{s.r1, s.r2}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], s)
	}

	var edges []Edge
	for _, k := range keys {
		g := groups[k]
		next := make(map[int]int, len(g))
		prev := make(map[int]int, len(g))
		for _, s := range g {
			next[s.a] = s.b
			prev[s.b] = s.a
		}
		used := make(map[int]bool)
		for _, s := range g {
			if used[s.a] {
				continue
			}
			// Walk back to the start of this chain.
			start := s.a
			for {
				p, ok := prev[start]
				if !ok || p == s.a || used[p] {
					break
				}
				start = p
			}
			chain := []int{start}
			used[start] = true
			cur := start
			for {
				nx, ok := next[cur]
				if !ok {
					break
				}
				chain = append(chain, nx)
				if used[nx] {
					break
				}
				used[nx] = true
				cur = nx
			}
			edges = append(edges, m.splitChain(chain, regions, k.r1, k.r2)...)
		}
	}
	return edges, regions
}

// splitChain breaks a vertex chain into straight runs.
func (m *Mesh) splitChain(chain []int, regions []Region, r1, r2 int) []Edge {
	var out []Edge
	runStart := 0
	for i := 1; i < len(chain); i++ {
		last := i == len(chain)-1
		straight := false
		if !last {
			a := m.Vertices[chain[runStart]]
			b := m.Vertices[chain[i]]
			c := m.Vertices[chain[i+1]]
			u, v := b.Sub(a), c.Sub(b)
			straight = u.Cross(v).Length() <= collinearEpsilon*u.Length()*v.Length()
		}
		if straight {
			continue
		}
		out = append(out, m.makeEdge(chain[runStart], chain[i], regions, r1, r2))
		runStart = i
	}
	return out
}

func (m *Mesh) makeEdge(a, b int, regions []Region, r1, r2 int) Edge {
	n1, n2 := regions[r1].Normal, regions[r2].Normal
	e := Edge{
		A:     m.Vertices[a],
		B:     m.Vertices[b],
		N1:    n1,
		N2:    n2,
		R1:    r1,
		R2:    r2,
		Angle: angleBetween(n1, n2),
	}
	// R1 winds A->B counter-clockwise from outside, so the turn from N1 to
	// N2 about the edge direction is positive exactly on convex edges.
	e.Convex = n1.Cross(n2).Dot(e.B.Sub(e.A)) > 0
	return e
}

func angleBetween(a, b v3.Vec) float64 {
	d := a.Dot(b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}
