package parts

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/csg"
)

// Spring is a flat zig-zag leaf spring: a Thickness by Height rectangle
// swept along a smooth wave in the XY plane, Waves half-waves of Pitch
// length and Amplitude height.
type Spring struct {
	Thickness, Height float64
	Pitch, Amplitude  float64
	Waves             int
}

func DefaultSpring() Spring {
	return Spring{Thickness: 1, Height: 5, Pitch: 2, Amplitude: 1.5, Waves: 4}
}

// Path returns the control points of the wave.
func (s Spring) Path() []v3.Vec {
	pts := make([]v3.Vec, s.Waves+1)
	for i := range pts {
		y := s.Amplitude * math.Round(math.Sin(float64(i)*math.Pi/2))
		pts[i] = v3.Vec{X: float64(i) * s.Pitch, Y: y}
	}
	return pts
}

func (s Spring) Build() *csg.Node {
	return csg.Sweep(csg.Rect(s.Thickness, s.Height), s.Path(), csg.WithUp(csg.AxisZ))
}

// MagnetHolderInner is the sliding insert of the magnetic connector
// holder: a stadium-shaped sleeve around the connector slot with a notch
// for the wire at one end. It is centered on the origin.
type MagnetHolderInner struct {
	SlotLength, SlotWidth float64
	Wall                  float64
	Height                float64
	WireX, WireY          float64
	WireW, WireH          float64
	WireDepth             float64
	Epsilon               float64
}

func DefaultMagnetHolderInner() MagnetHolderInner {
	return MagnetHolderInner{
		SlotLength: 18.5, SlotWidth: 5.55,
		Wall: 1, Height: 7,
		WireX: -12, WireY: 2.5,
		WireW: 5, WireH: 3, WireDepth: 6,
		Epsilon: 1,
	}
}

func (m MagnetHolderInner) Build() *csg.Node {
	body := csg.Extrude(csg.Slot(m.SlotLength+2*m.Wall, m.SlotWidth+2*m.Wall, 0), m.Height)
	slot := csg.Down(csg.Extrude(csg.Slot(m.SlotLength, m.SlotWidth, 0), m.Height+2*m.Epsilon), m.Epsilon)
	wire := csg.Origin().
		Translate(m.WireX, m.WireY, 0).
		Rotate(v3.Vec{X: 90, Y: 90}).
		Place(csg.Extrude(csg.Rect(m.WireW, m.WireH), m.WireDepth))
	return csg.Difference(body, slot, wire)
}
