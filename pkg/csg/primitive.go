package csg

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Option adjusts a primitive or sweep at construction.
type Option func(*options)

type options struct {
	segments int
	centered bool
	up       *v3.Vec
	err      error
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Segments overrides the evaluation resolution for one circular primitive
// or profile. n must be at least 3.
func Segments(n int) Option {
	return func(o *options) {
		if n < 3 {
			o.err = invalid("segments", "need at least 3, got %d", n)
			return
		}
		o.segments = n
	}
}

// Centered centers a cylinder or cone on z=0 instead of standing it on the
// XY plane.
func Centered() Option {
	return func(o *options) { o.centered = true }
}

// WithUp sets the sweep reference direction. The profile's Y axis starts
// as up projected perpendicular to the path tangent.
func WithUp(up v3.Vec) Option {
	return func(o *options) {
		if !finite(up.X, up.Y, up.Z) || up.Length() == 0 {
			o.err = invalid("up", "reference direction must be finite and non-zero, got %v", up)
			return
		}
		o.up = &up
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func positive(vs ...float64) bool {
	for _, v := range vs {
		if !finite(v) || v <= 0 {
			return false
		}
	}
	return true
}

// Box returns an axis-aligned box with its minimum corner at the origin.
func Box(x, y, z float64) *Node {
	d := PrimitiveData{Prim: PrimBox, Size: v3.Vec{X: x, Y: y, Z: z}}
	if !positive(x, y, z) {
		return failed(NodePrimitive, d, invalid("box", "size (%g, %g, %g)", x, y, z))
	}
	return newNode(NodePrimitive, d)
}

// CenteredBox returns a box centered on the Z axis with its base on the XY
// plane.
func CenteredBox(x, y, z float64) *Node {
	d := PrimitiveData{Prim: PrimBox, Size: v3.Vec{X: x, Y: y, Z: z}, Centered: true}
	if !positive(x, y, z) {
		return failed(NodePrimitive, d, invalid("ccube", "size (%g, %g, %g)", x, y, z))
	}
	return newNode(NodePrimitive, d)
}

// Cylinder returns a cylinder of height h and radius r standing on the XY
// plane, axis along +Z.
func Cylinder(h, r float64, opts ...Option) *Node {
	return cylinder("cylinder", h, r, r, opts)
}

// CylinderD is Cylinder with a diameter.
func CylinderD(h, d float64, opts ...Option) *Node {
	return cylinder("cylinder", h, d/2, d/2, opts)
}

// Cone returns a truncated cone of height h with bottom radius r1 and top
// radius r2. r2 may be zero for a pointed cone.
func Cone(h, r1, r2 float64, opts ...Option) *Node {
	return cylinder("cone", h, r1, r2, opts)
}

func cylinder(op string, h, r1, r2 float64, opts []Option) *Node {
	o := collect(opts)
	d := PrimitiveData{Prim: PrimCylinder, Height: h, R1: r1, R2: r2, Segments: o.segments, Centered: o.centered}
	switch {
	case o.err != nil:
		return failed(NodePrimitive, d, o.err)
	case !positive(h, r1):
		return failed(NodePrimitive, d, invalid(op, "height %g, radius %g", h, r1))
	case !finite(r2) || r2 < 0:
		return failed(NodePrimitive, d, invalid(op, "top radius %g", r2))
	}
	return newNode(NodePrimitive, d)
}

// Sphere returns a sphere of radius r centered at the origin.
func Sphere(r float64, opts ...Option) *Node {
	o := collect(opts)
	d := PrimitiveData{Prim: PrimSphere, Radius: r, Segments: o.segments}
	switch {
	case o.err != nil:
		return failed(NodePrimitive, d, o.err)
	case !positive(r):
		return failed(NodePrimitive, d, invalid("sphere", "radius %g", r))
	}
	return newNode(NodePrimitive, d)
}

// SphereD is Sphere with a diameter.
func SphereD(d float64, opts ...Option) *Node {
	return Sphere(d/2, opts...)
}

// ResolveSegments returns the segment count a node's override or the
// evaluation resolution gives, or an error if it is below 3.
func ResolveSegments(override, res int) (int, error) {
	n := res
	if override > 0 {
		n = override
	}
	if n < 3 {
		return 0, fmt.Errorf("csg: %w: resolution %d, need at least 3", ErrInvalidDimension, n)
	}
	return n, nil
}
