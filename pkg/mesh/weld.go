package mesh

import (
	"math"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// WeldTolerance is the distance under which two vertices are the same
// vertex. It matches the BSP plane thickness so points classified as
// coplanar also weld.
const WeldTolerance = planeEpsilon

// areaEpsilon drops slivers whose doubled area is below this.
const areaEpsilon = 1e-12

// FromPolygons builds a welded mesh from free-standing polygons. Vertices
// within WeldTolerance merge, vertices lying on another polygon's edge are
// inserted into that edge, and degenerate faces are dropped. The output is
// deterministic for a given polygon order.
func FromPolygons(polys []Polygon) *Mesh {
	w := newWelder(WeldTolerance)
	faces := make([][]int, 0, len(polys))
	for _, p := range polys {
		f := make([]int, 0, len(p.Vertices))
		for _, v := range p.Vertices {
			f = append(f, w.index(v))
		}
		if f = cleanFace(f); len(f) >= 3 {
			faces = append(faces, f)
		}
	}
	m := &Mesh{Vertices: w.verts, Faces: faces}
	m = stitchTJunctions(m, WeldTolerance)
	return compact(m)
}

// FromFaces welds an indexed face list, as produced by primitive
// generators, into a mesh.
func FromFaces(verts []v3.Vec, faces [][]int) *Mesh {
	polys := make([]Polygon, 0, len(faces))
	for _, f := range faces {
		pts := make([]v3.Vec, len(f))
		for k, i := range f {
			pts[k] = verts[i]
		}
		polys = append(polys, Polygon{Vertices: pts})
	}
	return FromPolygons(polys)
}

type cellKey [3]int64

// welder hashes vertices into a grid of tol-sized cells and searches the
// 27 neighbouring cells, so points straddling a cell boundary still merge.
type welder struct {
	tol   float64
	verts []v3.Vec
	grid  map[cellKey][]int
}

func newWelder(tol float64) *welder {
	return &welder{tol: tol, grid: make(map[cellKey][]int)}
}

func (w *welder) key(v v3.Vec) cellKey {
	return cellKey{
		int64(math.Floor(v.X / w.tol)),
		int64(math.Floor(v.Y / w.tol)),
		int64(math.Floor(v.Z / w.tol)),
	}
}

func (w *welder) index(v v3.Vec) int {
	k := w.key(v)
	best, bestD := -1, w.tol
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, i := range w.grid[cellKey{k[0] + dx, k[1] + dy, k[2] + dz}] {
					if d := w.verts[i].Sub(v).Length(); d <= bestD {
						best, bestD = i, d
					}
				}
			}
		}
	}
	if best >= 0 {
		return best
	}
	i := len(w.verts)
	w.verts = append(w.verts, v)
	w.grid[k] = append(w.grid[k], i)
	return i
}

// cleanFace removes repeated consecutive indices and back-and-forth spikes
// (a, b, a) whose two edges cancel each other.
func cleanFace(f []int) []int {
	changed := true
	for changed && len(f) >= 3 {
		changed = false
		out := make([]int, 0, len(f))
		for _, v := range f {
			if len(out) > 0 && out[len(out)-1] == v {
				changed = true
				continue
			}
			out = append(out, v)
		}
		for len(out) > 1 && out[0] == out[len(out)-1] {
			out = out[:len(out)-1]
			changed = true
		}
		n := len(out)
		for i := 0; i < n && n >= 3; i++ {
			a, c := out[i], out[(i+2)%n]
			if a == c {
				// drop the spike tip and one copy of a
				j := (i + 1) % n
				k := (i + 2) % n
				keep := make([]int, 0, n-2)
				for x := 0; x < n; x++ {
					if x != j && x != k {
						keep = append(keep, out[x])
					}
				}
				out = keep
				changed = true
				break
			}
		}
		f = out
	}
	if len(f) < 3 {
		return nil
	}
	return f
}

// stitchTJunctions inserts every vertex that lies strictly inside a face
// edge into that edge, so adjacent faces share their edges exactly.
func stitchTJunctions(m *Mesh, tol float64) *Mesh {
	order := make([]int, len(m.Vertices))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return m.Vertices[order[a]].X < m.Vertices[order[b]].X
	})
	xs := make([]float64, len(order))
	for i, vi := range order {
		xs[i] = m.Vertices[vi].X
	}

	faces := make([][]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		out := make([]int, 0, len(f))
		for k, a := range f {
			b := f[(k+1)%len(f)]
			out = append(out, a)
			out = append(out, onSegment(m.Vertices, order, xs, a, b, tol)...)
		}
		if out = cleanFace(out); len(out) >= 3 {
			faces = append(faces, out)
		}
	}
	return &Mesh{Vertices: m.Vertices, Faces: faces}
}

// onSegment returns the vertices strictly between a and b within tol of the
// segment, ordered from a to b.
func onSegment(verts []v3.Vec, order []int, xs []float64, a, b int, tol float64) []int {
	pa, pb := verts[a], verts[b]
	d := pb.Sub(pa)
	l2 := d.Dot(d)
	if l2 <= tol*tol {
		return nil
	}
	lo := math.Min(pa.X, pb.X) - tol
	hi := math.Max(pa.X, pb.X) + tol
	start := sort.SearchFloat64s(xs, lo)

	type hit struct {
		t float64
		i int
	}
	var hits []hit
	for k := start; k < len(xs) && xs[k] <= hi; k++ {
		vi := order[k]
		if vi == a || vi == b {
			continue
		}
		p := verts[vi]
		t := p.Sub(pa).Dot(d) / l2
		if t <= 0 || t >= 1 {
			continue
		}
		if pa.Add(d.MulScalar(t)).Sub(p).Length() > tol {
			continue
		}
		if p.Sub(pa).Length() <= tol || p.Sub(pb).Length() <= tol {
			continue
		}
		hits = append(hits, hit{t, vi})
	}
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(x, y int) bool {
		if hits[x].t != hits[y].t {
			return hits[x].t < hits[y].t
		}
		return hits[x].i < hits[y].i
	})
	out := make([]int, len(hits))
	for k, h := range hits {
		out[k] = h.i
	}
	return out
}

// compact drops zero-area faces and unreferenced vertices, renumbering
// vertices in first-use order.
func compact(m *Mesh) *Mesh {
	remap := make(map[int]int)
	out := &Mesh{}
	for _, f := range m.Faces {
		pts := make([]v3.Vec, len(f))
		for k, i := range f {
			pts[k] = m.Vertices[i]
		}
		if newell(pts).Length() < areaEpsilon {
			continue
		}
		g := make([]int, len(f))
		for k, i := range f {
			j, ok := remap[i]
			if !ok {
				j = len(out.Vertices)
				remap[i] = j
				out.Vertices = append(out.Vertices, m.Vertices[i])
			}
			g[k] = j
		}
		out.Faces = append(out.Faces, g)
	}
	return out
}
