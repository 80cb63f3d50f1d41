package bsp

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box creates a box with the given dimensions. By default the minimum
// corner sits at the origin; centered boxes are centered in X and Y with
// their base on the XY plane.
func (k *Kernel) Box(size v3.Vec, centered bool) (kernel.Solid, error) {
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return nil, fmt.Errorf("bsp: box: %w: size %v", csg.ErrInvalidDimension, size)
	}
	min := v3.Vec{}
	if centered {
		min = v3.Vec{X: -size.X / 2, Y: -size.Y / 2}
	}
	return mesh.Cuboid(min, min.Add(size)), nil
}

// Cylinder creates a regular n-gon prism, or a frustum when r2 differs from
// r1, standing on the XY plane. A zero r2 closes the top in an apex.
// Centered cylinders straddle the XY plane.
func (k *Kernel) Cylinder(height, r1, r2 float64, segments int, centered bool) (kernel.Solid, error) {
	if !(height > 0 && r1 > 0 && r2 >= 0) {
		return nil, fmt.Errorf("bsp: cylinder: %w: height %g, radii %g/%g", csg.ErrInvalidDimension, height, r1, r2)
	}
	if segments < 3 {
		return nil, fmt.Errorf("bsp: cylinder: %w: %d segments", csg.ErrInvalidDimension, segments)
	}
	z0, z1 := 0.0, height
	if centered {
		z0, z1 = -height/2, height/2
	}
	n := segments
	verts := ring(nil, n, r1, z0)
	faces := make([][]int, 0, n+2)

	bottom := make([]int, n)
	for i := range bottom {
		bottom[i] = n - 1 - i
	}
	faces = append(faces, bottom)

	if r2 == 0 {
		apex := len(verts)
		verts = append(verts, v3.Vec{Z: z1})
		for i := 0; i < n; i++ {
			faces = append(faces, []int{i, (i + 1) % n, apex})
		}
		return mesh.FromFaces(verts, faces), nil
	}

	verts = ring(verts, n, r2, z1)
	top := make([]int, n)
	for i := range top {
		top[i] = n + i
	}
	faces = append(faces, top)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, []int{i, j, n + j, n + i})
	}
	return mesh.FromFaces(verts, faces), nil
}

// Sphere creates a UV sphere of the given radius with segments points per
// latitude ring and segments/2 bands from pole to pole.
func (k *Kernel) Sphere(radius float64, segments int) (kernel.Solid, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("bsp: sphere: %w: radius %g", csg.ErrInvalidDimension, radius)
	}
	if segments < 3 {
		return nil, fmt.Errorf("bsp: sphere: %w: %d segments", csg.ErrInvalidDimension, segments)
	}
	n := segments
	bands := max(2, n/2)

	verts := []v3.Vec{{Z: radius}, {Z: -radius}}
	const north, south = 0, 1
	for j := 1; j < bands; j++ {
		theta := math.Pi * float64(j) / float64(bands)
		verts = ring(verts, n, radius*math.Sin(theta), radius*math.Cos(theta))
	}
	at := func(band, i int) int { return 2 + (band-1)*n + i%n }

	faces := make([][]int, 0, n*bands)
	for i := 0; i < n; i++ {
		faces = append(faces, []int{north, at(1, i), at(1, i+1)})
	}
	for j := 1; j < bands-1; j++ {
		for i := 0; i < n; i++ {
			faces = append(faces, []int{at(j, i), at(j+1, i), at(j+1, i+1), at(j, i+1)})
		}
	}
	for i := 0; i < n; i++ {
		faces = append(faces, []int{south, at(bands-1, i+1), at(bands-1, i)})
	}
	return mesh.FromFaces(verts, faces), nil
}

// ring appends n points of a circle of radius r at height z, counter-clockwise
// from +X.
func ring(verts []v3.Vec, n int, r, z float64) []v3.Vec {
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		verts = append(verts, v3.Vec{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z})
	}
	return verts
}
