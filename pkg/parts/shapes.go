package parts

import (
	"github.com/chazu/kerf/pkg/csg"
)

// RoundXYBox is a box rounded about its vertical edges: the hull of four
// corner cylinders. It is centered in X and Y with its base on the XY
// plane.
type RoundXYBox struct {
	Length, Width, Height float64
	Radius                float64
}

func (b RoundXYBox) Build() *csg.Node {
	c := csg.Cylinder(b.Height, b.Radius)
	xo := b.Length/2 - b.Radius
	yo := b.Width/2 - b.Radius
	return csg.Hull(
		csg.Move(c, xo, yo, 0),
		csg.Move(c, -xo, yo, 0),
		csg.Move(c, xo, -yo, 0),
		csg.Move(c, -xo, -yo, 0),
	)
}

// RoundedBox is a box rounded on every edge: the hull of eight corner
// spheres. It is centered in X and Y with its base on the XY plane.
type RoundedBox struct {
	Length, Width, Height float64
	Radius                float64
}

func (b RoundedBox) Build() *csg.Node {
	s := csg.Sphere(b.Radius)
	xo := b.Length/2 - b.Radius
	yo := b.Width/2 - b.Radius
	corners := make([]*csg.Node, 0, 8)
	for _, z := range []float64{b.Radius, b.Height - b.Radius} {
		corners = append(corners,
			csg.Move(s, xo, yo, z),
			csg.Move(s, -xo, yo, z),
			csg.Move(s, xo, -yo, z),
			csg.Move(s, -xo, -yo, z),
		)
	}
	return csg.Hull(corners...)
}

// HalfCylinder keeps the -X half of a cylinder standing on the XY plane.
// The cutter overlaps the cylinder by Epsilon on every face it crosses, so
// the kept half ends at x = -Epsilon/2.
type HalfCylinder struct {
	Radius, Height float64
	Epsilon        float64
}

func (c HalfCylinder) Build() *csg.Node {
	e := c.Epsilon
	cutter := csg.Move(csg.Box(c.Radius+e, 2*c.Radius+2*e, c.Height+2*e), -e/2, -c.Radius-e, -e)
	return csg.Difference(csg.Cylinder(c.Height, c.Radius), cutter)
}

// CounterboreHole is a cutter for a screw hole drilled down from z=0: a
// through hole of Diameter and Depth under a wider counterbore. Both
// cylinders rise Epsilon above z=0 so the cut opens cleanly.
type CounterboreHole struct {
	Diameter      float64
	CboreDiameter float64
	CboreDepth    float64
	Depth         float64
	Epsilon       float64
}

func (h CounterboreHole) Build() *csg.Node {
	return csg.Union(
		csg.Down(csg.CylinderD(h.Depth+h.Epsilon, h.Diameter), h.Depth),
		csg.Down(csg.CylinderD(h.CboreDepth+h.Epsilon, h.CboreDiameter), h.CboreDepth),
	)
}

// TSlotFoot is a rounded foot for T-slot extrusion with two vertical screw
// holes on its center line, Inset from each end. The foot spans
// [0, Length] by [0, Width].
type TSlotFoot struct {
	Length, Height float64
	Width          float64
	Inset          float64
	HoleDiameter   float64
	Epsilon        float64
}

// DefaultTSlotFoot returns a foot for 20 mm extrusion.
func DefaultTSlotFoot() TSlotFoot {
	return TSlotFoot{Length: 40, Height: 5, Width: 20, Inset: 8, HoleDiameter: 4, Epsilon: 1}
}

func (f TSlotFoot) Build() *csg.Node {
	body := csg.Move(RoundXYBox{Length: f.Length, Width: f.Width, Height: f.Height, Radius: 2}.Build(),
		f.Length/2, f.Width/2, 0)
	hole := csg.Down(csg.CylinderD(f.Height+2*f.Epsilon, f.HoleDiameter), f.Epsilon)
	return csg.Difference(body,
		csg.Move(hole, f.Inset, f.Width/2, 0),
		csg.Move(hole, f.Length-f.Inset, f.Width/2, 0),
	)
}
