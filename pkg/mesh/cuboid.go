package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// cuboidFaces lists the six quads of a box whose corner i has coordinates
// selected by bits x=1, y=2, z=4, wound outward.
var cuboidFaces = [][]int{
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
}

// Cuboid returns the axis-aligned box spanning min to max.
func Cuboid(min, max v3.Vec) *Mesh {
	verts := make([]v3.Vec, 8)
	for i := range verts {
		p := min
		if i&1 != 0 {
			p.X = max.X
		}
		if i&2 != 0 {
			p.Y = max.Y
		}
		if i&4 != 0 {
			p.Z = max.Z
		}
		verts[i] = p
	}
	faces := make([][]int, len(cuboidFaces))
	for i, f := range cuboidFaces {
		faces[i] = append([]int(nil), f...)
	}
	return &Mesh{Vertices: verts, Faces: faces}
}
