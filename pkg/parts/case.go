package parts

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/csg"
)

// ---------------------------------------------------------------------------
// Lid
// ---------------------------------------------------------------------------

// Lid is the cover for a round lock case: half a tube standing on its end
// face with a rectangular pod below it, a frame for a wireless module, an
// LED tube, a power plug socket and fillers that stiffen the shell. The
// lid's axis is Z; the open side faces +Y.
type Lid struct {
	Diameter     float64
	Width        float64
	Wall         float64
	CornerRadius float64

	PodInner, PodOuter float64
	PodHeight          float64
	PodOffset          float64

	CutoutHeight, CutoutWidth float64
	CutoutOffset              float64

	ModuleLength, ModuleWidth float64
	ModuleWall                float64

	LEDDiameter, LEDTube float64
	LEDY, LEDZ           float64
	PlugZ                float64

	Epsilon float64
}

func DefaultLid() Lid {
	return Lid{
		Diameter: 59, Width: 36, Wall: 2, CornerRadius: 3,
		PodInner: 28, PodOuter: 32, PodHeight: 22, PodOffset: 2,
		CutoutHeight: 7, CutoutWidth: 12, CutoutOffset: -1,
		ModuleLength: 34.5, ModuleWidth: 25.5, ModuleWall: 2,
		LEDDiameter: 5, LEDTube: 7, LEDY: -5, LEDZ: 30, PlugZ: 10,
		Epsilon: 1,
	}
}

func (l Lid) radius() float64 { return l.Diameter / 2 }

func (l Lid) innerDiameter() float64 { return l.Diameter - 2*l.Wall }

// sideways lays a cylinder along +X.
func sideways(n *csg.Node) *csg.Node {
	return csg.Rotate(n, v3.Vec{X: 90, Z: 90})
}

func (l Lid) ledHole() *csg.Node {
	return csg.Move(sideways(csg.CylinderD(10, l.LEDDiameter)), l.radius()-5, l.LEDY, l.LEDZ)
}

func (l Lid) ledTube() *csg.Node {
	return csg.Move(sideways(csg.CylinderD(4, l.LEDTube)), l.radius()-4, l.LEDY, l.LEDZ)
}

func (l Lid) plugHole() *csg.Node {
	return csg.Move(csg.CenteredBox(5, 4.7, 6), l.radius(), l.LEDY, l.PlugZ)
}

func (l Lid) plugTube() *csg.Node {
	return csg.Move(csg.CenteredBox(5, 4.7+3, 6+3), l.radius()-4, l.LEDY, l.PlugZ-1.5)
}

// rounders trim the two outer corners where the shell meets the open side.
func (l Lid) rounders() (*csg.Node, *csg.Node) {
	e, cr := l.Epsilon, l.CornerRadius
	block := csg.Box(l.Wall+2*e, cr, cr)
	rod := csg.Move(csg.Rotate(csg.Cylinder(l.Wall+4*e, cr), v3.Vec{Y: 90}), -e, 0, 0)
	rounder := csg.Difference(block, rod)
	y, z := -cr+0.5, l.Width-cr
	return csg.Move(rounder, -l.radius()-e, y, z),
		csg.Move(rounder, l.radius()-l.Wall-e, y, z)
}

// filler is a slab of the inner cylinder of height h centered on the lid
// width, with everything beyond the cut removed.
func (l Lid) filler(h float64, cut *csg.Node) *csg.Node {
	slab := csg.Difference(csg.CylinderD(h, l.innerDiameter()), cut)
	return csg.Up(slab, (l.Width-h)/2)
}

func (l Lid) Build() *csg.Node {
	e, r, w := l.Epsilon, l.radius(), l.Width

	outer := csg.CylinderD(w, l.Diameter)
	inner := csg.Down(csg.CylinderD(w+2*e, l.innerDiameter()), e)
	open := csg.Move(csg.CenteredBox(l.Diameter+2*e, l.Diameter, w+2*e), 0, r, -e)
	rounder1, rounder2 := l.rounders()

	podOuter := csg.Move(csg.Box(r, l.PodHeight, l.PodOuter), -l.PodOffset, -l.PodHeight, (w-l.PodOuter)/2)
	podWall := (l.PodOuter - l.PodInner) / 2
	podInner := csg.Move(csg.Box(r, l.PodHeight, l.PodInner),
		-l.PodOffset-podWall, -l.PodHeight+podWall, (w-l.PodInner)/2)
	cutout := csg.Move(csg.CenteredBox(10, l.CutoutHeight, l.CutoutWidth),
		r, l.CutoutHeight/2-(l.PodHeight-2), (w-l.CutoutWidth)/2+l.CutoutOffset)
	slit := csg.CenteredBox(2, 2.5, w+2*e)
	slit1 := csg.Move(slit, r-2, 0, -e)
	slit2 := csg.Move(slit, -(r - 2), 0, -e)

	frameH := l.ModuleWidth + 2*l.ModuleWall
	moduleFiller := l.filler(frameH,
		csg.Move(csg.Box(l.Diameter, l.Diameter, w+4*e), -r, -r+(l.PodOuter-l.PodHeight), -2*e))
	frameInner := csg.Move(csg.Box(l.ModuleLength, 5, l.ModuleWidth),
		-l.ModuleLength/2+8, -(l.PodHeight - 2.5), (w-l.ModuleWidth)/2)
	frameOuter := csg.Move(csg.Box(l.ModuleLength+l.ModuleWall, 3, frameH),
		-l.ModuleLength/2+6, -(l.PodHeight - 2.5), (w-frameH)/2)
	screwHole := csg.Move(csg.CylinderD(2*w, 4.5), 0, -r+4.8, -w/2)
	pinsHole := csg.Move(csg.CenteredBox(10, 3, 4), r-5, l.LEDY, l.PlugZ+1)
	cardFiller := l.filler(23,
		csg.Rotate(csg.Move(csg.Box(l.Diameter, l.Diameter, w+4*e), -r, -r+5, -2*e), v3.Vec{Z: -55}))

	// Order matters: each tube is added before its hole is drilled.
	lid := csg.Difference(csg.Union(outer, podOuter),
		inner, open, rounder1, rounder2, cutout, slit1, slit2)
	lid = csg.Difference(csg.Union(lid, moduleFiller), podInner)
	lid = csg.Difference(csg.Union(lid, frameOuter), frameInner, screwHole)
	lid = csg.Difference(csg.Union(lid, l.ledTube()), l.ledHole())
	lid = csg.Difference(csg.Union(lid, l.plugTube()), l.plugHole(), pinsHole)
	return csg.Union(lid, cardFiller)
}

// ---------------------------------------------------------------------------
// Block
// ---------------------------------------------------------------------------

// Block is a rounded block trimmed flat on its front face with two square
// through holes in its back half.
type Block struct {
	Length, Width, Height float64
	Radius                float64
	Trim                  float64
	Hole, HoleInset       float64
	Epsilon               float64
}

func DefaultBlock() Block {
	return Block{Length: 40, Width: 30, Height: 20, Radius: 2, Trim: 2, Hole: 10, HoleInset: 5, Epsilon: 1}
}

func (b Block) Build() *csg.Node {
	e := b.Epsilon
	body := csg.Move(RoundedBox{Length: b.Length, Width: b.Width, Height: b.Height, Radius: b.Radius}.Build(),
		b.Length/2, b.Width/2, 0)
	trim := csg.Move(csg.Box(b.Length+2*e, b.Trim+e, b.Height+2*e), -e, -e, -e)
	hole := csg.Box(b.Hole, b.Hole, b.Height+2*e)
	y := b.Width / 2
	return csg.Difference(body, trim,
		csg.Move(hole, b.Length-b.HoleInset-b.Hole, y, -e),
		csg.Move(hole, b.HoleInset, y, -e))
}

// ---------------------------------------------------------------------------
// Cams
// ---------------------------------------------------------------------------

// Cam is a lock cam: a square shaft, a round bearing rod and a collar, with
// a flat tongue on top.
type Cam struct {
	ShaftWidth, ShaftLength float64
	RodDiameter, RodLength  float64
	CollarDiameter, Collar  float64
	TongueW, TongueL        float64
	TongueH                 float64
	Epsilon                 float64
}

func DefaultCam() Cam {
	return Cam{
		ShaftWidth: 7 - 0.4, ShaftLength: 25,
		RodDiameter: 9.95, RodLength: 7,
		CollarDiameter: 11, Collar: 2,
		TongueW: 2.5, TongueL: 10, TongueH: 5.5,
		Epsilon: 0.001,
	}
}

// Top is the height of the tongue's upper face.
func (c Cam) Top() float64 {
	return c.ShaftLength + c.RodLength + c.Collar - c.Epsilon + c.TongueH
}

func (c Cam) Build() *csg.Node {
	shaft := csg.CenteredBox(c.ShaftWidth, c.ShaftWidth, c.ShaftLength)
	rod := csg.Up(csg.CylinderD(c.RodLength, c.RodDiameter), c.ShaftLength)
	collar := csg.Up(csg.CylinderD(c.Collar, c.CollarDiameter), c.ShaftLength+c.RodLength-c.Epsilon)
	tongue := csg.Up(csg.CenteredBox(c.TongueW, c.TongueL, c.TongueH), c.Top()-c.TongueH)
	return csg.Union(shaft, tongue, collar, rod)
}

// CamLever is a disc with a square hole for the lock spindle and an arm
// sticking out along +X.
type CamLever struct {
	SquareWidth  float64
	Thickness    float64
	DiscDiameter float64
	ArmLength    float64
	ArmWidth     float64
	Epsilon      float64
}

func DefaultCamLever() CamLever {
	return CamLever{SquareWidth: 7, Thickness: 10, DiscDiameter: 20, ArmLength: 25, ArmWidth: 7, Epsilon: 0.001}
}

// Reach is the distance from the spindle axis to the tip of the arm.
func (c CamLever) Reach() float64 {
	return c.ArmLength + 0.4*c.DiscDiameter
}

func (c CamLever) Build() *csg.Node {
	square := csg.Down(csg.CenteredBox(c.SquareWidth, c.SquareWidth, c.Thickness+10*c.Epsilon), c.Epsilon)
	disc := csg.Difference(csg.CylinderD(c.Thickness, c.DiscDiameter), square)
	arm := csg.Move(csg.CenteredBox(c.ArmLength, c.ArmWidth, c.Thickness), c.Reach()-c.ArmLength/2, 0, 0)
	return csg.Union(disc, arm)
}

// ---------------------------------------------------------------------------
// USB catch
// ---------------------------------------------------------------------------

// USBCatch is an L-shaped latch: a base plate with a screw hole and an
// upright wall whose outer side is notched to leave a thin spring.
type USBCatch struct {
	Thickness    float64
	Width        float64
	Overhang     float64
	Extra        float64
	Height       float64
	HoleDiameter float64
	SpringWall   float64
	NotchWidth   float64
	NotchLength  float64
	Fillet       float64
	Epsilon      float64
}

func DefaultUSBCatch() USBCatch {
	return USBCatch{
		Thickness: 3.5, Width: 11, Overhang: 6, Extra: 2, Height: 45,
		HoleDiameter: 8, SpringWall: 1.8, NotchWidth: 5, NotchLength: 25,
		Fillet: 0.5, Epsilon: 1,
	}
}

func (u USBCatch) Build() *csg.Node {
	e, th := u.Epsilon, u.Thickness
	base := csg.Move(csg.Box(u.Overhang+th+u.Extra, u.Width, th), -u.Extra, 0, 0)
	wall := csg.Move(csg.Box(th, u.Width, u.Height), u.Overhang, 0, th)
	body := csg.Fillet(csg.Union(base, wall), csg.ParallelTo(csg.AxisZ), u.Fillet)

	hole := csg.Move(csg.CylinderD(th+2*e, u.HoleDiameter), 0, u.Width/2, -e)
	// The notch profile's long axis ends up vertical; it is extruded
	// across the full width.
	notch := csg.Rotate(csg.Extrude(csg.Slot(u.NotchLength, u.NotchWidth, 90), u.Width+2*e), v3.Vec{X: 90})
	notch = csg.Move(notch, u.Overhang+u.SpringWall+u.NotchWidth/2, u.Width+e, u.Height/2)
	return csg.Difference(body, hole, notch)
}
