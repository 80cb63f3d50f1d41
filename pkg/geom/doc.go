// Package geom holds the small amount of linear algebra shared by the
// expression tree, the mesh layer and the kernels: affine matrices, 2D
// polygon utilities, Catmull-Rom paths and rotation-minimizing frames.
// Points and directions are sdfx vectors (v3.Vec, v2.Vec).
package geom
