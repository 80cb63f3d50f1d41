package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// catmullRomAlpha selects the centripetal parameterization, which cannot
// form cusps or self-loops inside a span.
const catmullRomAlpha = 0.5

// DedupPoints drops consecutive points closer than tol.
func DedupPoints(pts []v3.Vec, tol float64) []v3.Vec {
	out := make([]v3.Vec, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && p.Sub(out[len(out)-1]).Length() <= tol {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SamplePath returns points along the path through ctrl. Two control points
// give the straight segment itself; more are interpolated by a centripetal
// Catmull-Rom spline with steps samples per span. The first and last
// samples equal the first and last control points.
func SamplePath(ctrl []v3.Vec, steps int) []v3.Vec {
	if len(ctrl) <= 2 {
		return append([]v3.Vec(nil), ctrl...)
	}
	if steps < 1 {
		steps = 1
	}
	n := len(ctrl)
	// Phantom end points continue the end segments in a straight line.
	first := ctrl[0].MulScalar(2).Sub(ctrl[1])
	last := ctrl[n-1].MulScalar(2).Sub(ctrl[n-2])
	at := func(i int) v3.Vec {
		switch {
		case i < 0:
			return first
		case i >= n:
			return last
		}
		return ctrl[i]
	}
	out := make([]v3.Vec, 0, (n-1)*steps+1)
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		for s := 0; s < steps; s++ {
			u := float64(s) / float64(steps)
			out = append(out, catmullRom(p0, p1, p2, p3, u))
		}
	}
	return append(out, ctrl[n-1])
}

func knot(t float64, a, b v3.Vec) float64 {
	d := math.Pow(b.Sub(a).Length(), catmullRomAlpha)
	if d < 1e-9 {
		d = 1e-9
	}
	return t + d
}

func lerpKnots(a, b v3.Vec, ta, tb, t float64) v3.Vec {
	wa := (tb - t) / (tb - ta)
	wb := (t - ta) / (tb - ta)
	return a.MulScalar(wa).Add(b.MulScalar(wb))
}

// catmullRom evaluates the span between p1 and p2 at u in [0,1].
func catmullRom(p0, p1, p2, p3 v3.Vec, u float64) v3.Vec {
	if u == 0 {
		return p1
	}
	t0 := 0.0
	t1 := knot(t0, p0, p1)
	t2 := knot(t1, p1, p2)
	t3 := knot(t2, p2, p3)
	t := t1 + u*(t2-t1)
	a1 := lerpKnots(p0, p1, t0, t1, t)
	a2 := lerpKnots(p1, p2, t1, t2, t)
	a3 := lerpKnots(p2, p3, t2, t3, t)
	b1 := lerpKnots(a1, a2, t0, t2, t)
	b2 := lerpKnots(a2, a3, t1, t3, t)
	return lerpKnots(b1, b2, t1, t2, t)
}

// PathLength returns the polyline length of pts.
func PathLength(pts []v3.Vec) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i].Sub(pts[i-1]).Length()
	}
	return l
}
