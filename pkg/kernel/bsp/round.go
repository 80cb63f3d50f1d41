package bsp

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// padRatio sizes, relative to the radius, how far blend tools reach past
// the faces they trim so no tool face is coplanar with the solid.
const padRatio = 0.05

// Round fillets or chamfers the feature edges of s matched by sel. Convex
// edges lose a prism whose cross-section lies between the edge and the
// blend; concave edges gain one. Corners where several blended edges meet
// are the union of the individual blends.
func (k *Kernel) Round(s kernel.Solid, sel csg.EdgeSelector, radius float64, mode csg.RoundMode, segments int) (kernel.Solid, error) {
	m, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	op := mode.String()
	if !(radius > 0) {
		return nil, fmt.Errorf("bsp: %s: %w: radius %g", op, csg.ErrInvalidDimension, radius)
	}
	if mode == csg.ModeFillet && segments < 3 {
		return nil, fmt.Errorf("bsp: %s: %w: %d segments", op, csg.ErrInvalidDimension, segments)
	}
	if err := mesh.Validate(m); err != nil {
		return nil, fmt.Errorf("bsp: %s: %w: %v", op, csg.ErrNonManifoldResult, err)
	}

	edges, regions := m.FeatureEdges(mesh.DefaultFeatureAngle)
	bounds := m.Bounds()
	var cutters, fills []*mesh.Mesh
	for _, e := range edges {
		if !sel.Match(e, bounds) {
			continue
		}
		tool, err := blendTool(e, regions, radius, mode, segments)
		if err != nil {
			return nil, fmt.Errorf("bsp: %s: %w", op, err)
		}
		if e.Convex {
			cutters = append(cutters, tool)
		} else {
			fills = append(fills, tool)
		}
	}
	if len(cutters)+len(fills) == 0 {
		return nil, fmt.Errorf("bsp: %s: %w: no edges selected by %s", op, csg.ErrUnresolvableFillet, sel)
	}

	out := m
	if len(cutters) > 0 {
		out = mesh.Difference(out, cutters...)
	}
	if len(fills) > 0 {
		out = mesh.Union(append([]*mesh.Mesh{out}, fills...)...)
	}
	if err := manifold(op, out); err != nil {
		return nil, err
	}
	return out, nil
}

// blendTool builds the prism removed from (convex) or added to (concave)
// the solid along e.
func blendTool(e mesh.Edge, regions []mesh.Region, r float64, mode csg.RoundMode, segments int) (*mesh.Mesh, error) {
	d := e.Dir()
	// Each face lies to the left of the edge as its region winds it.
	f1 := e.N1.Cross(d).Normalize()
	f2 := d.Cross(e.N2).Normalize()

	setback := r
	if mode == csg.ModeFillet {
		setback = r * math.Tan(e.Angle/2)
	}
	for _, side := range []struct {
		region int
		dir    v3.Vec
	}{{e.R1, f1}, {e.R2, f2}} {
		if reach := regions[side.region].Extent(e.A, side.dir); setback > reach*(1+1e-9) {
			return nil, fmt.Errorf("%w: setback %.4g exceeds face extent %.4g at edge %v-%v",
				csg.ErrUnresolvableFillet, setback, reach, e.A, e.B)
		}
	}

	// sigma points from the faces into the material being removed (convex)
	// or away from the material being extended (concave).
	sigma := 1.0
	if !e.Convex {
		sigma = -1
	}
	pad := padRatio * r
	p1 := f1.MulScalar(setback)
	p2 := f2.MulScalar(setback)

	section := []v3.Vec{p1.Add(e.N1.MulScalar(sigma * pad)), p1}
	if mode == csg.ModeFillet {
		section = append(section, arc(p1, e.N1, e.N2, e.Angle, sigma*r, segments)...)
	}
	section = append(section,
		p2,
		p2.Add(e.N2.MulScalar(sigma*pad)),
		e.N1.Add(e.N2).MulScalar(sigma*pad/(1+e.N1.Dot(e.N2))),
	)

	f := geom.Frame{T: d, U: f1, V: d.Cross(f1)}
	pts := make([]v2.Vec, len(section))
	for i, p := range section {
		pts[i] = v2.Vec{X: p.Dot(f.U), Y: p.Dot(f.V)}
	}
	pts = geom.CCW(pts)

	// Cutters overshoot the edge ends; fills stop flush with them so they add
	// nothing past the solid.
	over := 0.0
	if e.Convex {
		over = pad
	}
	f.Origin = e.A.Sub(d.MulScalar(over))
	return prism(pts, f, e.Length()+2*over)
}

// arc returns the interior points of the circular blend from the tangent
// point p1 on face 1 to the matching point on face 2. Its center sits at
// p1 - rs*n1, and it turns through angle in proportion to segments per
// full circle.
func arc(p1, n1, n2 v3.Vec, angle, rs float64, segments int) []v3.Vec {
	steps := int(math.Ceil(float64(segments) * angle / (2 * math.Pi)))
	if steps < 2 {
		return nil
	}
	c := p1.Sub(n1.MulScalar(rs))
	sin := math.Sin(angle)
	out := make([]v3.Vec, 0, steps-1)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		a := math.Sin((1-t)*angle) / sin
		b := math.Sin(t*angle) / sin
		out = append(out, c.Add(n1.MulScalar(a*rs)).Add(n2.MulScalar(b*rs)))
	}
	return out
}
