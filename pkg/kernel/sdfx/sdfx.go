// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Solids are signed distance
// functions, so booleans never fail; meshes come from marching cubes and
// are approximations whose accuracy depends on the cell count. The backend
// serves as an independent reference for the bsp kernel.
package sdfx

import (
	"fmt"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// Cells sets the number of marching cubes cells along the longest side of
// a solid's bounding box.
func Cells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: defaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Name identifies the backend.
func (k *SdfxKernel) Name() string { return "sdfx" }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) (sdf.SDF3, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok || ss == nil {
		return nil, fmt.Errorf("sdfx: foreign solid %T", s)
	}
	return ss.s, nil
}

func unwrapAll(ss []kernel.Solid) ([]sdf.SDF3, error) {
	if len(ss) == 0 {
		return nil, fmt.Errorf("sdfx: %w: no operands", csg.ErrInvalidDimension)
	}
	out := make([]sdf.SDF3, len(ss))
	for i, s := range ss {
		u, err := unwrap(s)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions. sdf.Box3D centers the box at
// the origin, so it is shifted to put the minimum corner at the origin, or
// the base on the XY plane for centered boxes.
func (k *SdfxKernel) Box(size v3.Vec, centered bool) (kernel.Solid, error) {
	s, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w: %v", csg.ErrInvalidDimension, err)
	}
	shift := size.MulScalar(0.5)
	if centered {
		shift = v3.Vec{Z: size.Z / 2}
	}
	return wrap(sdf.Transform3D(s, sdf.Translate3d(shift))), nil
}

// Cylinder creates a cylinder, or a cone when the radii differ, standing on
// the XY plane. The segments parameter is ignored since SDF represents
// smooth surfaces.
func (k *SdfxKernel) Cylinder(height, r1, r2 float64, _ int, centered bool) (kernel.Solid, error) {
	var (
		s   sdf.SDF3
		err error
	)
	if r1 == r2 {
		s, err = sdf.Cylinder3D(height, r1, 0)
	} else {
		s, err = sdf.Cone3D(height, r1, r2, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w: %v", csg.ErrInvalidDimension, err)
	}
	if centered {
		return wrap(s), nil
	}
	return wrap(sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2}))), nil
}

// Sphere creates a sphere centered at the origin.
func (k *SdfxKernel) Sphere(radius float64, _ int) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere: %w: %v", csg.ErrInvalidDimension, err)
	}
	return wrap(s), nil
}

// Transform applies a rigid motion, possibly mirrored. Scaling matrices
// would distort the distance field and are not supported.
func (k *SdfxKernel) Transform(s kernel.Solid, m geom.Matrix) (kernel.Solid, error) {
	u, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	mm, err := toM44(m)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Transform3D(u, mm)), nil
}

// toM44 rebuilds an orthogonal affine matrix from sdfx's elementary
// matrices: translation, then Z, Y and X rotations, then an optional mirror
// in Z.
func toM44(m geom.Matrix) (sdf.M44, error) {
	if !m.IsFinite() || !m.IsOrthogonal(1e-9) {
		return sdf.M44{}, fmt.Errorf("sdfx: transform: non-rigid matrix: %w", kernel.ErrUnsupported)
	}
	mirror := m.Determinant() < 0
	r := m
	if mirror {
		r = m.Mul(geom.Scaling(v3.Vec{X: 1, Y: 1, Z: -1}))
	}
	x, y, z := r.EulerAngles()
	out := sdf.Translate3d(m.TranslationPart()).
		Mul(sdf.RotateZ(z)).
		Mul(sdf.RotateY(y)).
		Mul(sdf.RotateX(x))
	if mirror {
		out = out.Mul(sdf.Scale3d(v3.Vec{X: 1, Y: 1, Z: -1}))
	}
	return out, nil
}

// Union returns the union of the operands.
func (k *SdfxKernel) Union(ss ...kernel.Solid) (kernel.Solid, error) {
	us, err := unwrapAll(ss)
	if err != nil {
		return nil, err
	}
	if len(us) == 1 {
		return wrap(us[0]), nil
	}
	return wrap(sdf.Union3D(us...)), nil
}

// Difference returns base minus the union of the cutters.
func (k *SdfxKernel) Difference(base kernel.Solid, cutters ...kernel.Solid) (kernel.Solid, error) {
	a, err := unwrap(base)
	if err != nil {
		return nil, err
	}
	if len(cutters) == 0 {
		return base, nil
	}
	cut, err := k.Union(cutters...)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Difference3D(a, cut.(*sdfxSolid).s)), nil
}

// Intersection returns the intersection of the operands.
func (k *SdfxKernel) Intersection(ss ...kernel.Solid) (kernel.Solid, error) {
	us, err := unwrapAll(ss)
	if err != nil {
		return nil, err
	}
	acc := us[0]
	for _, u := range us[1:] {
		acc = sdf.Intersect3D(acc, u)
	}
	return wrap(acc), nil
}

// Hull is not expressible as a distance field combination.
func (k *SdfxKernel) Hull(...kernel.Solid) (kernel.Solid, error) {
	return nil, fmt.Errorf("sdfx: hull: %w", kernel.ErrUnsupported)
}

// Sweep supports straight paths only: the profile is extruded with
// sdf.Extrude3D and placed in the frame at the start of the path.
func (k *SdfxKernel) Sweep(profile []v2.Vec, ctrl []v3.Vec, up v3.Vec, _ int) (kernel.Solid, error) {
	if len(ctrl) != 2 {
		return nil, fmt.Errorf("sdfx: sweep: %d-point path: %w", len(ctrl), kernel.ErrUnsupported)
	}
	if err := geom.CheckSimple(profile); err != nil {
		return nil, fmt.Errorf("sdfx: sweep: %w: profile: %v", csg.ErrDegenerateSweep, err)
	}
	h := ctrl[1].Sub(ctrl[0]).Length()
	if h == 0 {
		return nil, fmt.Errorf("sdfx: sweep: %w: zero-length path", csg.ErrDegenerateSweep)
	}
	poly, err := sdf.Polygon2D(geom.CCW(profile))
	if err != nil {
		return nil, fmt.Errorf("sdfx: sweep: %w: %v", csg.ErrDegenerateSweep, err)
	}
	s := sdf.Extrude3D(poly, h)

	// Extrude3D spans -h/2..h/2 along Z; map Z onto the path.
	f := geom.RotationMinimizingFrames(ctrl, up)[0]
	place := geom.Identity()
	for i, axis := range []v3.Vec{f.U, f.V, f.T} {
		place[0][i], place[1][i], place[2][i] = axis.X, axis.Y, axis.Z
	}
	mid := ctrl[0].Add(f.T.MulScalar(h / 2))
	place[0][3], place[1][3], place[2][3] = mid.X, mid.Y, mid.Z
	mm, err := toM44(place)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Transform3D(s, mm)), nil
}

// Round is not supported; sdfx only rounds primitives at construction.
func (k *SdfxKernel) Round(kernel.Solid, csg.EdgeSelector, float64, csg.RoundMode, int) (kernel.Solid, error) {
	return nil, fmt.Errorf("sdfx: round: %w", kernel.ErrUnsupported)
}

// ToMesh converts a solid to a welded mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*mesh.Mesh, error) {
	sdf3, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	polys := make([]mesh.Polygon, 0, len(triangles))
	for _, tri := range triangles {
		polys = append(polys, mesh.Polygon{Vertices: []v3.Vec{tri[0], tri[1], tri[2]}})
	}
	return mesh.FromPolygons(polys), nil
}
