package mesh

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDegenerateHull is returned when the points span no volume: fewer than
// four distinct points, or all of them collinear or coplanar.
var ErrDegenerateHull = errors.New("hull input spans no volume")

type hullFace struct {
	v    [3]int
	n    v3.Vec
	w    float64
	dead bool
}

// Hull returns the convex hull of points as a closed triangle mesh. The
// construction is incremental: each point outside the current hull removes
// the faces it can see and is joined to the horizon edges.
func Hull(points []v3.Vec) (*Mesh, error) {
	box := EmptyBox()
	for _, p := range points {
		if !finite(p) {
			return nil, fmt.Errorf("%w: non-finite point", ErrDegenerateHull)
		}
		box = box.Include(p)
	}
	scale := box.Diagonal()
	if scale == 0 {
		return nil, fmt.Errorf("%w: %d coincident points", ErrDegenerateHull, len(points))
	}
	tol := 1e-9 * scale

	w := newWelder(WeldTolerance)
	for _, p := range points {
		w.index(p)
	}
	pts := w.verts
	if len(pts) < 4 {
		return nil, fmt.Errorf("%w: %d distinct points", ErrDegenerateHull, len(pts))
	}

	i0, i1, i2, i3, err := initialSimplex(pts, tol)
	if err != nil {
		return nil, err
	}

	h := &hullBuilder{pts: pts, tol: tol, edges: make(map[[2]int]int)}
	simplex := [4]int{i0, i1, i2, i3}
	for skip := 0; skip < 4; skip++ {
		var tri []int
		for k, vi := range simplex {
			if k != skip {
				tri = append(tri, vi)
			}
		}
		h.addFace(tri[0], tri[1], tri[2], pts[simplex[skip]])
	}

	for pi := range pts {
		if pi == i0 || pi == i1 || pi == i2 || pi == i3 {
			continue
		}
		h.addPoint(pi)
	}
	return h.mesh(), nil
}

func initialSimplex(pts []v3.Vec, tol float64) (int, int, int, int, error) {
	i0 := 0
	for i, p := range pts {
		q := pts[i0]
		if p.X < q.X || (p.X == q.X && (p.Y < q.Y || (p.Y == q.Y && p.Z < q.Z))) {
			i0 = i
		}
	}
	i1, best := -1, tol
	for i, p := range pts {
		if d := p.Sub(pts[i0]).Length(); d > best {
			i1, best = i, d
		}
	}
	if i1 < 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: points coincide", ErrDegenerateHull)
	}
	dir := pts[i1].Sub(pts[i0]).Normalize()
	i2, best := -1, tol
	for i, p := range pts {
		r := p.Sub(pts[i0])
		if d := r.Sub(dir.MulScalar(r.Dot(dir))).Length(); d > best {
			i2, best = i, d
		}
	}
	if i2 < 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: points are collinear", ErrDegenerateHull)
	}
	n := pts[i1].Sub(pts[i0]).Cross(pts[i2].Sub(pts[i0])).Normalize()
	i3, best := -1, tol
	for i, p := range pts {
		if d := math.Abs(n.Dot(p.Sub(pts[i0]))); d > best {
			i3, best = i, d
		}
	}
	if i3 < 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: points are coplanar", ErrDegenerateHull)
	}
	return i0, i1, i2, i3, nil
}

type hullBuilder struct {
	pts   []v3.Vec
	tol   float64
	faces []hullFace
	edges map[[2]int]int // directed edge -> owning face
}

// addFace adds triangle (a,b,c), flipped if needed so that inside lies
// behind it.
func (h *hullBuilder) addFace(a, b, c int, inside v3.Vec) {
	n := h.pts[b].Sub(h.pts[a]).Cross(h.pts[c].Sub(h.pts[a])).Normalize()
	if n.Dot(inside.Sub(h.pts[a])) > 0 {
		b, c = c, b
		n = n.MulScalar(-1)
	}
	h.push(a, b, c, n)
}

func (h *hullBuilder) push(a, b, c int, n v3.Vec) {
	fi := len(h.faces)
	h.faces = append(h.faces, hullFace{v: [3]int{a, b, c}, n: n, w: n.Dot(h.pts[a])})
	h.edges[[2]int{a, b}] = fi
	h.edges[[2]int{b, c}] = fi
	h.edges[[2]int{c, a}] = fi
}

func (h *hullBuilder) addPoint(pi int) {
	p := h.pts[pi]
	visible := make(map[int]bool)
	for fi, f := range h.faces {
		if !f.dead && f.n.Dot(p)-f.w > h.tol {
			visible[fi] = true
		}
	}
	if len(visible) == 0 {
		return
	}
	// Horizon edges belong to a visible face and border an invisible one.
	// Walk faces in index order so the output is deterministic.
	var horizon [][2]int
	for fi := range h.faces {
		if !visible[fi] {
			continue
		}
		f := h.faces[fi]
		for k := 0; k < 3; k++ {
			a, b := f.v[k], f.v[(k+1)%3]
			if nb, ok := h.edges[[2]int{b, a}]; ok && !visible[nb] {
				horizon = append(horizon, [2]int{a, b})
			}
		}
	}
	for fi := range visible {
		f := &h.faces[fi]
		f.dead = true
		for k := 0; k < 3; k++ {
			e := [2]int{f.v[k], f.v[(k+1)%3]}
			if h.edges[e] == fi {
				delete(h.edges, e)
			}
		}
	}
	for _, e := range horizon {
		a, b := e[0], e[1]
		n := h.pts[b].Sub(h.pts[a]).Cross(p.Sub(h.pts[a]))
		if l := n.Length(); l > 0 {
			n = n.MulScalar(1 / l)
		}
		h.push(a, b, pi, n)
	}
}

func (h *hullBuilder) mesh() *Mesh {
	polys := make([]Polygon, 0, len(h.faces))
	for _, f := range h.faces {
		if f.dead {
			continue
		}
		polys = append(polys, Polygon{Vertices: []v3.Vec{h.pts[f.v[0]], h.pts[f.v[1]], h.pts[f.v[2]]}})
	}
	return FromPolygons(polys)
}
