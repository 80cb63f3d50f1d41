package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Matrix is a row-major 4x4 affine transform. The bottom row is always
// (0, 0, 0, 1); it is stored so that composition reads like the math.
//
// sdf.M44 keeps its elements unexported, so the tree cannot hash or inspect
// it. Matrix converts to sdfx transforms at the kernel boundary instead.
type Matrix [4][4]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a matrix that moves points by v.
func Translation(v v3.Vec) Matrix {
	m := Identity()
	m[0][3] = v.X
	m[1][3] = v.Y
	m[2][3] = v.Z
	return m
}

// Scaling returns a matrix that scales each axis independently.
func Scaling(v v3.Vec) Matrix {
	m := Identity()
	m[0][0] = v.X
	m[1][1] = v.Y
	m[2][2] = v.Z
	return m
}

// RotationX returns a rotation of a radians about the X axis.
func RotationX(a float64) Matrix {
	s, c := math.Sincos(a)
	return Matrix{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationY returns a rotation of a radians about the Y axis.
func RotationY(a float64) Matrix {
	s, c := math.Sincos(a)
	return Matrix{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationZ returns a rotation of a radians about the Z axis.
func RotationZ(a float64) Matrix {
	s, c := math.Sincos(a)
	return Matrix{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Euler returns the rotation for angles given in degrees. The X rotation is
// applied first, then Y, then Z: R = Rz * Ry * Rx.
func Euler(deg v3.Vec) Matrix {
	r := Identity()
	if deg.X != 0 {
		r = RotationX(Radians(deg.X)).Mul(r)
	}
	if deg.Y != 0 {
		r = RotationY(Radians(deg.Y)).Mul(r)
	}
	if deg.Z != 0 {
		r = RotationZ(Radians(deg.Z)).Mul(r)
	}
	return r
}

// Reflection returns the mirror through the plane with the given normal
// passing through the origin. A zero normal yields the identity.
func Reflection(normal v3.Vec) Matrix {
	l := normal.Length()
	if l == 0 {
		return Identity()
	}
	n := normal.MulScalar(1 / l)
	m := Identity()
	nn := [3]float64{n.X, n.Y, n.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] -= 2 * nn[i] * nn[j]
		}
	}
	return m
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Mul returns a*b, the transform that applies b first and then a.
func (a Matrix) Mul(b Matrix) Matrix {
	var r Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[i][k] * b[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Apply transforms a point.
func (a Matrix) Apply(p v3.Vec) v3.Vec {
	return v3.Vec{
		X: a[0][0]*p.X + a[0][1]*p.Y + a[0][2]*p.Z + a[0][3],
		Y: a[1][0]*p.X + a[1][1]*p.Y + a[1][2]*p.Z + a[1][3],
		Z: a[2][0]*p.X + a[2][1]*p.Y + a[2][2]*p.Z + a[2][3],
	}
}

// ApplyDir transforms a direction (no translation).
func (a Matrix) ApplyDir(v v3.Vec) v3.Vec {
	return v3.Vec{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z,
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z,
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z,
	}
}

// Determinant returns the determinant of the linear 3x3 part. A negative
// value means the transform flips orientation.
func (a Matrix) Determinant() float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// TranslationPart returns the translation column.
func (a Matrix) TranslationPart() v3.Vec {
	return v3.Vec{X: a[0][3], Y: a[1][3], Z: a[2][3]}
}

// IsIdentity reports whether a is exactly the identity.
func (a Matrix) IsIdentity() bool {
	return a == Identity()
}

// IsFinite reports whether every element is a finite number.
func (a Matrix) IsFinite() bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.IsNaN(a[i][j]) || math.IsInf(a[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// IsOrthogonal reports whether the linear part is a rotation or a
// reflection, within tol.
func (a Matrix) IsOrthogonal(tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a[k][i] * a[k][j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(s-want) > tol {
				return false
			}
		}
	}
	return true
}

// EulerAngles decomposes the linear part of a rotation matrix into the X, Y
// and Z angles (radians) such that Rz*Ry*Rx reproduces it.
func (a Matrix) EulerAngles() (x, y, z float64) {
	sy := -a[2][0]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y = math.Asin(sy)
	if math.Abs(sy) < 1-1e-12 {
		x = math.Atan2(a[2][1], a[2][2])
		z = math.Atan2(a[1][0], a[0][0])
		return x, y, z
	}
	// Gimbal lock: fold the X rotation into Z.
	x = 0
	z = math.Atan2(-a[0][1], a[1][1])
	return x, y, z
}
