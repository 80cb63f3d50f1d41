package geom

import (
	"errors"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ErrNotSimple is returned when a polygon boundary crosses itself or has
// no area.
var ErrNotSimple = errors.New("polygon is not simple")

// SignedArea returns the signed area of a closed 2D polygon. Positive means
// counter-clockwise.
func SignedArea(pts []v2.Vec) float64 {
	var a float64
	n := len(pts)
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Reversed returns a reversed copy of pts.
func Reversed(pts []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// CCW returns pts in counter-clockwise order.
func CCW(pts []v2.Vec) []v2.Vec {
	if SignedArea(pts) < 0 {
		return Reversed(pts)
	}
	return pts
}

func cross2(o, a, b v2.Vec) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// segmentsIntersect reports whether closed segments ab and cd share a point.
func segmentsIntersect(a, b, c, d v2.Vec, eps float64) bool {
	d1 := cross2(c, d, a)
	d2 := cross2(c, d, b)
	d3 := cross2(a, b, c)
	d4 := cross2(a, b, d)
	if ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps)) {
		return true
	}
	onSegment := func(p, q, r v2.Vec) bool {
		return math.Min(p.X, q.X)-eps <= r.X && r.X <= math.Max(p.X, q.X)+eps &&
			math.Min(p.Y, q.Y)-eps <= r.Y && r.Y <= math.Max(p.Y, q.Y)+eps
	}
	switch {
	case math.Abs(d1) <= eps && onSegment(c, d, a):
		return true
	case math.Abs(d2) <= eps && onSegment(c, d, b):
		return true
	case math.Abs(d3) <= eps && onSegment(a, b, c):
		return true
	case math.Abs(d4) <= eps && onSegment(a, b, d):
		return true
	}
	return false
}

// CheckSimple returns ErrNotSimple if the polygon has fewer than three
// vertices, (near) zero area, repeated vertices, or crossing edges.
func CheckSimple(pts []v2.Vec) error {
	n := len(pts)
	if n < 3 {
		return ErrNotSimple
	}
	scale := 0.0
	for _, p := range pts {
		scale = math.Max(scale, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	eps := 1e-12 * math.Max(scale*scale, 1)
	if math.Abs(SignedArea(pts)) <= eps {
		return ErrNotSimple
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if a == b {
			return ErrNotSimple
		}
		for j := i + 1; j < n; j++ {
			// Adjacent edges share an endpoint by construction.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			c, d := pts[j], pts[(j+1)%n]
			if segmentsIntersect(a, b, c, d, eps) {
				return ErrNotSimple
			}
		}
	}
	return nil
}

// Triangulate ear-clips a simple counter-clockwise polygon and returns index
// triples into pts. The output order is deterministic.
func Triangulate(pts []v2.Vec) ([][3]int, error) {
	n := len(pts)
	if n < 3 {
		return nil, ErrNotSimple
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if SignedArea(pts) < 0 {
		for i := range idx {
			idx[i] = n - 1 - i
		}
	}
	tris := make([][3]int, 0, n-2)
	guard := 0
	for len(idx) > 3 {
		if guard > 2*len(idx) {
			return nil, ErrNotSimple
		}
		clipped := false
		for i := 0; i < len(idx); i++ {
			ia := idx[(i+len(idx)-1)%len(idx)]
			ib := idx[i]
			ic := idx[(i+1)%len(idx)]
			a, b, c := pts[ia], pts[ib], pts[ic]
			if cross2(a, b, c) <= 0 {
				continue
			}
			ear := true
			for _, j := range idx {
				if j == ia || j == ib || j == ic {
					continue
				}
				if pointInTriangle(pts[j], a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			tris = append(tris, [3]int{ia, ib, ic})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if clipped {
			guard = 0
			continue
		}
		// Only collinear runs remain; drop the flattest vertex.
		guard++
		worst, area := 0, math.Inf(1)
		for i := range idx {
			a := pts[idx[(i+len(idx)-1)%len(idx)]]
			b := pts[idx[i]]
			c := pts[idx[(i+1)%len(idx)]]
			if v := math.Abs(cross2(a, b, c)); v < area {
				worst, area = i, v
			}
		}
		idx = append(idx[:worst], idx[worst+1:]...)
	}
	if len(idx) == 3 {
		a, b, c := pts[idx[0]], pts[idx[1]], pts[idx[2]]
		if cross2(a, b, c) > 0 {
			tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
		}
	}
	return tris, nil
}

func pointInTriangle(p, a, b, c v2.Vec) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(b, c, p)
	d3 := cross2(c, a, p)
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// Extent returns the largest distance from the origin to any vertex.
func Extent(pts []v2.Vec) float64 {
	var r float64
	for _, p := range pts {
		r = math.Max(r, math.Hypot(p.X, p.Y))
	}
	return r
}
