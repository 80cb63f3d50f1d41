// Package parts is a library of parametric parts. Each part is a struct of
// dimensions whose Build method returns a solid tree; Default* functions
// return the dimensions the part was designed with. Clearance overlaps
// between cutters and bodies are the explicit Epsilon field of each part.
package parts

import (
	"sort"

	"github.com/chazu/kerf/pkg/csg"
)

// Part builds a solid from its parameters.
type Part interface {
	Build() *csg.Node
}

// Entry describes one catalog part.
type Entry struct {
	Name        string
	Description string
	// Default returns the part with its default dimensions.
	Default func() Part
}

var catalog = []Entry{
	{"block", "rounded block with two square through holes", func() Part { return DefaultBlock() }},
	{"cam", "lock cam with square shaft and tongue", func() Part { return DefaultCam() }},
	{"cam-lever", "spindle disc with a lever arm", func() Part { return DefaultCamLever() }},
	{"counterbore-hole", "M3 counterbored screw hole cutter", func() Part {
		return CounterboreHole{Diameter: 3.5, CboreDiameter: 5.5, CboreDepth: 3, Depth: 10, Epsilon: 0.01}
	}},
	{"half-cylinder", "cylinder cut in half along its axis", func() Part {
		return HalfCylinder{Radius: 5, Height: 10, Epsilon: 0.01}
	}},
	{"holder", "ring plate", func() Part { return DefaultHolder() }},
	{"lid", "cover for the round lock case", func() Part { return DefaultLid() }},
	{"magnet-holder-inner", "sliding insert for the magnetic connector", func() Part { return DefaultMagnetHolderInner() }},
	{"ring", "mounting ring with key slots", func() Part { return DefaultRing() }},
	{"rounded-box", "box rounded on all edges", func() Part {
		return RoundedBox{Length: 30, Width: 20, Height: 10, Radius: 2}
	}},
	{"roundxy-box", "box rounded about its vertical edges", func() Part {
		return RoundXYBox{Length: 30, Width: 20, Height: 10, Radius: 3}
	}},
	{"spacer", "disc with a square spindle hole", func() Part { return DefaultSpacer() }},
	{"spring", "zig-zag leaf spring", func() Part { return DefaultSpring() }},
	{"stopper", "rounded rod with a head", func() Part { return DefaultStopper() }},
	{"usb-catch", "L-shaped latch with a spring wall", func() Part { return DefaultUSBCatch() }},
	{"tslot-foot", "foot for 20 mm T-slot extrusion", func() Part { return DefaultTSlotFoot() }},
	{"vrider", "flanged post", func() Part { return DefaultVRider() }},
	{"vrider-v2", "block-shaped rider revision", func() Part { return DefaultVRiderV2() }},
}

// Catalog returns every catalog entry sorted by name.
func Catalog() []Entry {
	out := append([]Entry(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the entry named name.
func Lookup(name string) (Entry, bool) {
	for _, e := range catalog {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the catalog names in order.
func Names() []string {
	var names []string
	for _, e := range Catalog() {
		names = append(names, e.Name)
	}
	return names
}
