package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// planeEpsilon is the thickness of a plane when classifying points during
// BSP splits. Client geometry routinely overlaps by 1e-4 to force clean
// unions, so this must stay well below that.
const planeEpsilon = 1e-5

// Plane is the set of points p with N.Dot(p) == W.
type Plane struct {
	N v3.Vec
	W float64
}

func (p Plane) flip() Plane {
	return Plane{N: p.N.MulScalar(-1), W: -p.W}
}

// Distance returns the signed distance of q from the plane.
func (p Plane) Distance(q v3.Vec) float64 {
	return p.N.Dot(q) - p.W
}

// Polygon is a planar convex polygon with its supporting plane. The plane
// is carried through splits so fragments never drift off it.
type Polygon struct {
	Vertices []v3.Vec
	Plane    Plane
}

// NewPolygon builds a polygon from points, computing its plane with
// Newell's method. It returns false for degenerate input.
func NewPolygon(pts []v3.Vec) (Polygon, bool) {
	if len(pts) < 3 {
		return Polygon{}, false
	}
	n := newell(pts)
	l := n.Length()
	if l < 1e-14 || !finite(n) {
		return Polygon{}, false
	}
	n = n.MulScalar(1 / l)
	var c v3.Vec
	for _, p := range pts {
		c = c.Add(p)
	}
	c = c.MulScalar(1 / float64(len(pts)))
	return Polygon{Vertices: pts, Plane: Plane{N: n, W: n.Dot(c)}}, true
}

func (p Polygon) flip() Polygon {
	vs := make([]v3.Vec, len(p.Vertices))
	for i, v := range p.Vertices {
		vs[len(vs)-1-i] = v
	}
	return Polygon{Vertices: vs, Plane: p.Plane.flip()}
}

const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// splitPolygon classifies poly against pl and appends it, or its pieces, to
// the matching lists. Coplanar polygons go to coFront or coBack depending
// on their orientation relative to pl.
func (pl Plane) splitPolygon(poly Polygon, coFront, coBack, fr, bk *[]Polygon) {
	polyType := 0
	types := make([]int, len(poly.Vertices))
	for i, v := range poly.Vertices {
		t := pl.Distance(v)
		typ := coplanar
		if t < -planeEpsilon {
			typ = back
		} else if t > planeEpsilon {
			typ = front
		}
		polyType |= typ
		types[i] = typ
	}

	switch polyType {
	case coplanar:
		if pl.N.Dot(poly.Plane.N) > 0 {
			*coFront = append(*coFront, poly)
		} else {
			*coBack = append(*coBack, poly)
		}
	case front:
		*fr = append(*fr, poly)
	case back:
		*bk = append(*bk, poly)
	case spanning:
		var f, b []v3.Vec
		n := len(poly.Vertices)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.Vertices[i], poly.Vertices[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if ti|tj == spanning {
				t := (pl.W - pl.N.Dot(vi)) / pl.N.Dot(vj.Sub(vi))
				v := lerp(vi, vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*fr = append(*fr, Polygon{Vertices: f, Plane: poly.Plane})
		}
		if len(b) >= 3 {
			*bk = append(*bk, Polygon{Vertices: b, Plane: poly.Plane})
		}
	}
}
