package csg

import (
	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes between primitive shapes.
type PrimitiveKind int

const (
	PrimBox      PrimitiveKind = iota // rectangular solid
	PrimCylinder                      // circular prism, possibly tapered
	PrimSphere
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimBox:
		return "box"
	case PrimCylinder:
		return "cylinder"
	case PrimSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// PrimitiveData holds the parameters of a primitive. Which fields matter
// depends on Prim.
type PrimitiveData struct {
	Prim PrimitiveKind
	// Size is the box extent along X, Y and Z.
	Size v3.Vec
	// Height, R1 (bottom radius) and R2 (top radius) describe a cylinder or
	// cone. R2 may be zero.
	Height, R1, R2 float64
	// Radius is the sphere radius.
	Radius float64
	// Segments overrides the evaluation resolution when non-zero.
	Segments int
	// Centered places a box's XY center, or a cylinder's mid-height, at the
	// origin.
	Centered bool
}

func (PrimitiveData) nodeData() {}

func (d PrimitiveData) encode(e *encoder) {
	e.int(int(d.Prim))
	switch d.Prim {
	case PrimBox:
		e.float(d.Size.X)
		e.float(d.Size.Y)
		e.float(d.Size.Z)
	case PrimCylinder:
		e.float(d.Height)
		e.float(d.R1)
		e.float(d.R2)
	case PrimSphere:
		e.float(d.Radius)
	}
	e.int(d.Segments)
	e.bool(d.Centered)
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData is the accumulated affine matrix applied to the single
// child. Nested transforms are always collapsed into one node.
type TransformData struct {
	Matrix geom.Matrix
}

func (TransformData) nodeData() {}

func (d TransformData) encode(e *encoder) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			e.float(d.Matrix[i][j])
		}
	}
}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BoolOp enumerates boolean set operations.
type BoolOp int

const (
	OpUnion BoolOp = iota
	OpDifference
	OpIntersection
)

func (op BoolOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData is the operation of a boolean node. Operands are the node's
// children; for a difference the first child is the base and the rest are
// cutters.
type BooleanData struct {
	Op BoolOp
}

func (BooleanData) nodeData() {}

func (d BooleanData) encode(e *encoder) { e.int(int(d.Op)) }

// ---------------------------------------------------------------------------
// Hull
// ---------------------------------------------------------------------------

// HullData marks a convex hull over all children.
type HullData struct{}

func (HullData) nodeData() {}

func (HullData) encode(*encoder) {}

// ---------------------------------------------------------------------------
// Sweep
// ---------------------------------------------------------------------------

// SweepData describes a profile swept along a path of control points. A
// sweep node has no children.
type SweepData struct {
	Profile Profile
	Path    []v3.Vec
	// Up orients the profile at the start of the path: the profile's Y axis
	// is Up projected perpendicular to the path tangent.
	Up v3.Vec
	// Extrude is set for straight extrusions built by Extrude.
	Extrude bool
}

func (SweepData) nodeData() {}

func (d SweepData) encode(e *encoder) {
	d.Profile.encode(e)
	e.int(len(d.Path))
	for _, p := range d.Path {
		e.float(p.X)
		e.float(p.Y)
		e.float(p.Z)
	}
	e.float(d.Up.X)
	e.float(d.Up.Y)
	e.float(d.Up.Z)
	e.bool(d.Extrude)
}

// ---------------------------------------------------------------------------
// Round
// ---------------------------------------------------------------------------

// RoundMode selects the blend shape.
type RoundMode int

const (
	ModeFillet  RoundMode = iota // circular arc blend
	ModeChamfer                  // flat bevel
)

func (m RoundMode) String() string {
	switch m {
	case ModeFillet:
		return "fillet"
	case ModeChamfer:
		return "chamfer"
	default:
		return "unknown"
	}
}

// RoundData blends the edges of the single child matched by Selector.
type RoundData struct {
	Mode     RoundMode
	Selector EdgeSelector
	Radius   float64
}

func (RoundData) nodeData() {}

func (d RoundData) encode(e *encoder) {
	e.int(int(d.Mode))
	e.string(d.Selector.String())
	e.float(d.Radius)
}
