package csg

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ProfileKind distinguishes between 2D profile shapes.
type ProfileKind int

const (
	ProfilePolygon ProfileKind = iota
	ProfileRect
	ProfileCircle
	ProfileSlot
)

func (k ProfileKind) String() string {
	switch k {
	case ProfilePolygon:
		return "polygon"
	case ProfileRect:
		return "rect"
	case ProfileCircle:
		return "circle"
	case ProfileSlot:
		return "slot"
	default:
		return "unknown"
	}
}

// Profile is a closed 2D outline in the XY plane, swept or extruded into a
// solid. Circular profiles resolve their point count at evaluation time.
type Profile struct {
	Kind ProfileKind
	// Vertices of a polygon profile.
	Vertices []v2.Vec
	// W and H are the rect size, or the slot's overall length and width.
	W, H float64
	// R is the circle radius.
	R float64
	// Angle rotates a slot, in degrees.
	Angle    float64
	Segments int
	err      error
}

// Err returns the construction error, if any.
func (p Profile) Err() error { return p.err }

// Polygon returns a profile through the given points in order. The outline
// must be simple; orientation does not matter.
func Polygon(pts []v2.Vec) Profile {
	p := Profile{Kind: ProfilePolygon, Vertices: append([]v2.Vec(nil), pts...)}
	for _, v := range pts {
		if !finite(v.X, v.Y) {
			p.err = invalid("polygon", "non-finite vertex %v", v)
			return p
		}
	}
	if err := geom.CheckSimple(pts); err != nil {
		p.err = fmt.Errorf("csg: polygon: %w: %v", ErrDegenerateSweep, err)
	}
	return p
}

// Rect returns a w by h rectangle centered on the origin.
func Rect(w, h float64) Profile {
	p := Profile{Kind: ProfileRect, W: w, H: h}
	if !positive(w, h) {
		p.err = invalid("rect", "size (%g, %g)", w, h)
	}
	return p
}

// Circle returns a circle of radius r centered on the origin.
func Circle(r float64, opts ...Option) Profile {
	o := collect(opts)
	p := Profile{Kind: ProfileCircle, R: r, Segments: o.segments}
	switch {
	case o.err != nil:
		p.err = o.err
	case !positive(r):
		p.err = invalid("circle", "radius %g", r)
	}
	return p
}

// Slot returns a stadium of overall length and width (the end diameter),
// centered on the origin and rotated by angle degrees.
func Slot(length, width, angle float64, opts ...Option) Profile {
	o := collect(opts)
	p := Profile{Kind: ProfileSlot, W: length, H: width, Angle: angle, Segments: o.segments}
	switch {
	case o.err != nil:
		p.err = o.err
	case !positive(length, width) || !finite(angle):
		p.err = invalid("slot", "length %g, width %g, angle %g", length, width, angle)
	case length < width:
		p.err = invalid("slot", "length %g shorter than width %g", length, width)
	}
	return p
}

// Points returns the outline at resolution res, counter-clockwise except
// for polygon profiles, which keep their given order.
func (p Profile) Points(res int) ([]v2.Vec, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.Kind {
	case ProfilePolygon:
		return append([]v2.Vec(nil), p.Vertices...), nil
	case ProfileRect:
		w, h := p.W/2, p.H/2
		return []v2.Vec{{X: -w, Y: -h}, {X: w, Y: -h}, {X: w, Y: h}, {X: -w, Y: h}}, nil
	case ProfileCircle:
		n, err := ResolveSegments(p.Segments, res)
		if err != nil {
			return nil, err
		}
		pts := make([]v2.Vec, n)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts[i] = v2.Vec{X: p.R * math.Cos(a), Y: p.R * math.Sin(a)}
		}
		return pts, nil
	case ProfileSlot:
		n, err := ResolveSegments(p.Segments, res)
		if err != nil {
			return nil, err
		}
		return slotPoints(p.W, p.H, p.Angle, n), nil
	}
	return nil, invalid("profile", "unknown kind %d", p.Kind)
}

// slotPoints traces two half circles joined by straight sides. Each end
// gets half of the n segments of a full circle.
func slotPoints(length, width, angle float64, n int) []v2.Vec {
	r := width / 2
	c := (length - width) / 2
	half := n / 2
	if half < 2 {
		half = 2
	}
	var pts []v2.Vec
	for _, end := range []struct{ cx, a0 float64 }{{c, -math.Pi / 2}, {-c, math.Pi / 2}} {
		for i := 0; i <= half; i++ {
			a := end.a0 + math.Pi*float64(i)/float64(half)
			pts = append(pts, v2.Vec{X: end.cx + r*math.Cos(a), Y: r * math.Sin(a)})
		}
	}
	if c == 0 {
		// A slot as wide as it is long is a circle; drop the coincident joins.
		pts = append(pts[:half], pts[half+1:len(pts)-1]...)
	}
	sin, cos := math.Sincos(geom.Radians(angle))
	for i, q := range pts {
		pts[i] = v2.Vec{X: q.X*cos - q.Y*sin, Y: q.X*sin + q.Y*cos}
	}
	return pts
}

func (p Profile) encode(e *encoder) {
	e.int(int(p.Kind))
	e.int(len(p.Vertices))
	for _, v := range p.Vertices {
		e.float(v.X)
		e.float(v.Y)
	}
	e.float(p.W)
	e.float(p.H)
	e.float(p.R)
	e.float(p.Angle)
	e.int(p.Segments)
}

func (p Profile) String() string {
	switch p.Kind {
	case ProfilePolygon:
		return fmt.Sprintf("polygon(%d)", len(p.Vertices))
	case ProfileRect:
		return fmt.Sprintf("rect(%g x %g)", p.W, p.H)
	case ProfileCircle:
		return fmt.Sprintf("circle(r=%g)", p.R)
	case ProfileSlot:
		return fmt.Sprintf("slot(%g x %g @ %g)", p.W, p.H, p.Angle)
	}
	return "profile"
}
