package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Frame is an orthonormal frame at a path sample. U x V = T.
type Frame struct {
	Origin v3.Vec
	T      v3.Vec // tangent
	U      v3.Vec // profile X axis
	V      v3.Vec // profile Y axis
}

// Place maps a profile point into the frame.
func (f Frame) Place(p v2.Vec) v3.Vec {
	return f.Origin.Add(f.U.MulScalar(p.X)).Add(f.V.MulScalar(p.Y))
}

// Tangents returns unit tangents for a sampled path: one-sided at the ends,
// central differences inside.
func Tangents(pts []v3.Vec) []v3.Vec {
	n := len(pts)
	out := make([]v3.Vec, n)
	for i := range pts {
		var d v3.Vec
		switch {
		case n < 2:
			d = v3.Vec{Z: 1}
		case i == 0:
			d = pts[1].Sub(pts[0])
		case i == n-1:
			d = pts[n-1].Sub(pts[n-2])
		default:
			d = pts[i+1].Sub(pts[i-1])
		}
		out[i] = d.Normalize()
	}
	return out
}

// initialNormal returns the component of up perpendicular to t, falling back
// to +Y and then +X when up is (nearly) parallel to t.
func initialNormal(t, up v3.Vec) v3.Vec {
	for _, cand := range []v3.Vec{up, {Y: 1}, {X: 1}} {
		if cand.Length() == 0 {
			continue
		}
		c := cand.Normalize()
		v := c.Sub(t.MulScalar(c.Dot(t)))
		if v.Length() > 1e-6 {
			return v.Normalize()
		}
	}
	return v3.Vec{X: 1}
}

// RotationMinimizingFrames transports an initial frame along pts using the
// double reflection method, so the profile does not twist about the path.
// The first frame's V axis is up projected perpendicular to the tangent.
func RotationMinimizingFrames(pts []v3.Vec, up v3.Vec) []Frame {
	ts := Tangents(pts)
	frames := make([]Frame, len(pts))
	if len(pts) == 0 {
		return frames
	}
	v := initialNormal(ts[0], up)
	frames[0] = Frame{Origin: pts[0], T: ts[0], U: v.Cross(ts[0]), V: v}
	for i := 0; i+1 < len(pts); i++ {
		r := frames[i].V
		w1 := pts[i+1].Sub(pts[i])
		c1 := w1.Dot(w1)
		if c1 < 1e-18 {
			frames[i+1] = Frame{Origin: pts[i+1], T: frames[i].T, U: frames[i].U, V: r}
			continue
		}
		rL := r.Sub(w1.MulScalar(2 / c1 * w1.Dot(r)))
		tL := ts[i].Sub(w1.MulScalar(2 / c1 * w1.Dot(ts[i])))
		w2 := ts[i+1].Sub(tL)
		c2 := w2.Dot(w2)
		next := rL
		if c2 > 1e-18 {
			next = rL.Sub(w2.MulScalar(2 / c2 * w2.Dot(rL)))
		}
		// Re-orthogonalize against drift.
		next = next.Sub(ts[i+1].MulScalar(next.Dot(ts[i+1])))
		if next.Length() < 1e-9 {
			next = initialNormal(ts[i+1], r)
		}
		next = next.Normalize()
		frames[i+1] = Frame{Origin: pts[i+1], T: ts[i+1], U: next.Cross(ts[i+1]), V: next}
	}
	return frames
}

// TurningAngle returns the angle between consecutive unit tangents.
func TurningAngle(a, b v3.Vec) float64 {
	d := a.Dot(b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// SegmentDistance returns the closest distance between segments p1q1 and
// p2q2, and the closest points on each.
func SegmentDistance(p1, q1, p2, q2 v3.Vec) (float64, v3.Vec, v3.Vec) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)
	var s, t float64
	const tiny = 1e-18
	switch {
	case a <= tiny && e <= tiny:
		return p1.Sub(p2).Length(), p1, p2
	case a <= tiny:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= tiny {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > tiny {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	c1 := p1.Add(d1.MulScalar(s))
	c2 := p2.Add(d2.MulScalar(t))
	return c1.Sub(c2).Length(), c1, c2
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
