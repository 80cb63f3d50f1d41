package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box is an axis-aligned bounding box. An empty box has Min > Max.
type Box struct {
	Min, Max v3.Vec
}

// EmptyBox returns a box that contains nothing.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: v3.Vec{X: inf, Y: inf, Z: inf},
		Max: v3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no point.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Include grows the box to contain p.
func (b Box) Include(p v3.Vec) Box {
	return Box{
		Min: v3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: v3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both.
func (b Box) Union(o Box) Box {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return b.Include(o.Min).Include(o.Max)
}

// Overlaps reports whether the boxes intersect with positive volume,
// allowing tol of slack.
func (b Box) Overlaps(o Box, tol float64) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.Min.X < o.Max.X+tol && o.Min.X < b.Max.X+tol &&
		b.Min.Y < o.Max.Y+tol && o.Min.Y < b.Max.Y+tol &&
		b.Min.Z < o.Max.Z+tol && o.Min.Z < b.Max.Z+tol
}

// Contains reports whether p lies inside the box, allowing tol of slack.
func (b Box) Contains(p v3.Vec, tol float64) bool {
	return p.X >= b.Min.X-tol && p.X <= b.Max.X+tol &&
		p.Y >= b.Min.Y-tol && p.Y <= b.Max.Y+tol &&
		p.Z >= b.Min.Z-tol && p.Z <= b.Max.Z+tol
}

// Size returns the box extents.
func (b Box) Size() v3.Vec {
	if b.IsEmpty() {
		return v3.Vec{}
	}
	return b.Max.Sub(b.Min)
}

// Diagonal returns the length of the box diagonal.
func (b Box) Diagonal() float64 {
	return b.Size().Length()
}
