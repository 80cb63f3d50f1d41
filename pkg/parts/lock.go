package parts

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/csg"
)

// Spacer is a disc with a square hole through it for a lock spindle.
type Spacer struct {
	DiscDiameter float64
	SquareWidth  float64
	Height       float64
	Epsilon      float64
}

func DefaultSpacer() Spacer {
	return Spacer{DiscDiameter: 15, SquareWidth: 7.2, Height: 10, Epsilon: 0.001}
}

func (s Spacer) Build() *csg.Node {
	square := csg.CenteredBox(s.SquareWidth, s.SquareWidth, s.Height+10*s.Epsilon)
	disc := csg.CylinderD(s.Height, s.DiscDiameter)
	return csg.Difference(disc, csg.Down(square, s.Epsilon))
}

// Stopper is a rounded square rod with a wider rounded head on top.
type Stopper struct {
	RodWidth, RodLength float64
	HeadWidth, HeadH    float64
	Radius              float64
}

func DefaultStopper() Stopper {
	return Stopper{RodWidth: 9.5, RodLength: 40, HeadWidth: 20, HeadH: 5, Radius: 2}
}

func (s Stopper) Build() *csg.Node {
	rod := RoundedBox{Length: s.RodWidth, Width: s.RodWidth, Height: s.RodLength, Radius: s.Radius}.Build()
	head := RoundedBox{Length: s.HeadWidth, Width: s.HeadWidth, Height: s.HeadH, Radius: s.Radius}.Build()
	return csg.Union(rod, csg.Up(head, s.RodLength-s.Radius))
}

// Holder is a plain ring plate.
type Holder struct {
	OuterDiameter, InnerDiameter float64
	Thickness                    float64
	Epsilon                      float64
}

func DefaultHolder() Holder {
	return Holder{OuterDiameter: 32, InnerDiameter: 26, Thickness: 8, Epsilon: 1}
}

func (h Holder) Build() *csg.Node {
	hole := csg.Down(csg.CylinderD(h.Thickness+2*h.Epsilon, h.InnerDiameter), h.Epsilon)
	return csg.Difference(csg.CylinderD(h.Thickness, h.OuterDiameter), hole)
}

// ---------------------------------------------------------------------------
// Ring
// ---------------------------------------------------------------------------

// Ring is a mounting ring: a tube with a groove cut into its base, an
// inner disc near the top, six radial key slots and two screw holes.
type Ring struct {
	GrooveID, GrooveOD, GrooveDepth float64
	RingID, RingOD, RingH           float64
	DiscID, DiscOD, DiscTh          float64
	SlotRadius                      float64
	Slots                           int
	MountHoleX, MountHoleY          float64
	Epsilon                         float64
}

func DefaultRing() Ring {
	return Ring{
		GrooveID: 45, GrooveOD: 49.5, GrooveDepth: 2.8,
		RingID: 42, RingOD: 59, RingH: 7,
		DiscID: 14, DiscOD: 43, DiscTh: 2,
		SlotRadius: 24, Slots: 6,
		MountHoleX: 18, MountHoleY: 4,
		Epsilon: 0.01,
	}
}

// tube is a hollow cylinder standing on the XY plane.
func tube(od, id, h float64) *csg.Node {
	return csg.Difference(csg.CylinderD(h, od), csg.Down(csg.CylinderD(h+2, id), 1))
}

// slot is the key slot at angle degrees about Z.
func (r Ring) slot(angle float64) *csg.Node {
	const d1, d2 = 3.0, 2.5
	key := csg.Union(
		csg.CenteredBox(d1, 9, 10),
		csg.Move(csg.CenteredBox(d2, 9, 7), d2-r.Epsilon, 0, 4),
	)
	return csg.Rotate(csg.Move(key, r.SlotRadius, 0, -2), v3.Vec{Z: angle})
}

func (r Ring) Build() *csg.Node {
	groove := tube(r.GrooveOD, r.GrooveID, r.GrooveDepth)
	body := csg.Difference(tube(r.RingOD, r.RingID, r.RingH), csg.Down(groove, r.Epsilon))
	disc := csg.Up(tube(r.DiscOD, r.DiscID, r.DiscTh), r.RingH-r.DiscTh)

	slots := make([]*csg.Node, 0, r.Slots)
	for i := range r.Slots {
		slots = append(slots, r.slot(float64(i)*360/float64(r.Slots)))
	}
	// Screw no. 10 with a head recess.
	mount := csg.Up(csg.Union(csg.CylinderD(5, 1.8), csg.Down(csg.CylinderD(2, 4), 2)), 6)

	cutters := append(slots,
		csg.Move(mount, -r.MountHoleX, r.MountHoleY, 0),
		csg.Move(mount, r.MountHoleX, r.MountHoleY, 0),
	)
	return csg.Difference(csg.Union(body, disc), cutters...)
}

// ---------------------------------------------------------------------------
// V-riders
// ---------------------------------------------------------------------------

// VRider is a flanged post: a flattened cylinder under a disc, with a
// center hole, an insert hole and two counterbored mounting holes.
type VRider struct {
	PostDiameter, PostHeight float64
	FlatWidth                float64
	DiscDiameter, DiscTh     float64
	HoleSpacing              float64
	Epsilon                  float64
}

func DefaultVRider() VRider {
	return VRider{
		PostDiameter: 8.5, PostHeight: 9, FlatWidth: 5,
		DiscDiameter: 25, DiscTh: 3, HoleSpacing: 15,
		Epsilon: 0.001,
	}
}

func (v VRider) Build() *csg.Node {
	cut := csg.CenteredBox(10, 10, 4)
	off := 5 + v.FlatWidth/2
	post := csg.Difference(csg.CylinderD(v.PostHeight, v.PostDiameter),
		csg.Move(cut, 0, -off, -1),
		csg.Move(cut, 0, off, -1),
	)
	disc := csg.CylinderD(v.DiscTh, v.DiscDiameter)
	center := csg.CylinderD(v.PostHeight+v.DiscTh+2, 3.5)
	insert := csg.CylinderD(6, 4.2)
	mount := csg.Union(csg.CylinderD(5, 3.5), csg.CylinderD(1, 7))
	mounts := csg.Union(
		csg.Move(mount, -v.HoleSpacing/2, 0, 0),
		csg.Move(mount, v.HoleSpacing/2, 0, 0),
	)
	return csg.Difference(
		csg.Union(post, csg.Up(disc, v.PostHeight)),
		csg.Down(center, 1),
		csg.Up(insert, v.PostHeight-2.5),
		csg.Up(mounts, v.PostHeight-v.Epsilon),
	)
}

// VRiderV2 is the block-shaped revision: a rounded block with its lower
// rounding cut flat, two cylindrical indents in the long sides and two
// insert holes from below. It shares nothing with VRider.
type VRiderV2 struct {
	Length, Width, Height float64
	Radius                float64
	IndentDiameter        float64
	Pinch                 float64
	HoleSpacing           float64
	Epsilon               float64
}

func DefaultVRiderV2() VRiderV2 {
	return VRiderV2{
		Length: 35, Width: 12, Height: 13, Radius: 4,
		IndentDiameter: 30, Pinch: 19, HoleSpacing: 15,
		Epsilon: 0.01,
	}
}

func (v VRiderV2) Build() *csg.Node {
	block := RoundedBox{Length: v.Length, Width: v.Width, Height: v.Height + v.Radius, Radius: v.Radius}.Build()
	flat := csg.CenteredBox(v.Length+5, v.Width+8, v.Radius+1)
	indent := csg.Rotate(csg.CylinderD(v.Length+5, v.IndentDiameter), v3.Vec{Y: 90})
	x := -(v.Length + 5) / 2
	main := csg.Difference(
		csg.Down(csg.Difference(block, flat), v.Radius+1),
		csg.Move(indent, x, v.Pinch, 10),
		csg.Move(indent, x, -v.Pinch, 10),
	)
	insert := csg.CylinderD(15, 4.2, csg.Segments(16))
	return csg.Difference(main,
		csg.Move(insert, -v.HoleSpacing/2, 0, -v.Epsilon),
		csg.Move(insert, v.HoleSpacing/2, 0, -v.Epsilon),
	)
}
