// Package bsp implements the kernel.Kernel interface on polygon meshes.
// Curved primitives are faceted at the requested segment count and booleans
// clip polygons against BSP trees, so results are exact boundary meshes
// rather than sampled surfaces.
package bsp

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel implements kernel.Kernel. Its solids are *mesh.Mesh values, which
// are never modified once returned.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

// Name identifies the backend.
func (k *Kernel) Name() string { return "bsp" }

// unwrap extracts the mesh behind a kernel.Solid.
func unwrap(s kernel.Solid) (*mesh.Mesh, error) {
	m, ok := s.(*mesh.Mesh)
	if !ok || m == nil {
		return nil, fmt.Errorf("bsp: foreign solid %T", s)
	}
	return m, nil
}

func unwrapAll(ss []kernel.Solid) ([]*mesh.Mesh, error) {
	out := make([]*mesh.Mesh, len(ss))
	for i, s := range ss {
		m, err := unwrap(s)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// manifold classifies a mesh that fails validation as a non-manifold
// result of op.
func manifold(op string, m *mesh.Mesh) error {
	if err := mesh.Validate(m); err != nil {
		return fmt.Errorf("bsp: %s: %w: %v", op, csg.ErrNonManifoldResult, err)
	}
	return nil
}

// operands unwraps boolean operands and rejects any that are not closed.
func operands(op string, ss []kernel.Solid) ([]*mesh.Mesh, error) {
	if len(ss) == 0 {
		return nil, fmt.Errorf("bsp: %s: %w: no operands", op, csg.ErrInvalidDimension)
	}
	ms, err := unwrapAll(ss)
	if err != nil {
		return nil, err
	}
	for i, m := range ms {
		if err := mesh.Validate(m); err != nil {
			return nil, fmt.Errorf("bsp: %s: operand %d: %w: %v", op, i, csg.ErrNonManifoldResult, err)
		}
	}
	return ms, nil
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// Transform maps every vertex of s through m.
func (k *Kernel) Transform(s kernel.Solid, m geom.Matrix) (kernel.Solid, error) {
	src, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	if !m.IsFinite() || m.Determinant() == 0 {
		return nil, fmt.Errorf("bsp: transform: %w: singular or non-finite matrix", csg.ErrInvalidDimension)
	}
	if m.IsIdentity() {
		return src, nil
	}
	return src.Transform(m), nil
}

// ---------------------------------------------------------------------------
// Booleans
// ---------------------------------------------------------------------------

// Union returns the union of the operands.
func (k *Kernel) Union(ss ...kernel.Solid) (kernel.Solid, error) {
	ms, err := operands("union", ss)
	if err != nil {
		return nil, err
	}
	out := mesh.Union(ms...)
	if err := manifold("union", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Difference returns base minus the union of the cutters.
func (k *Kernel) Difference(base kernel.Solid, cutters ...kernel.Solid) (kernel.Solid, error) {
	ms, err := operands("difference", append([]kernel.Solid{base}, cutters...))
	if err != nil {
		return nil, err
	}
	out := mesh.Difference(ms[0], ms[1:]...)
	if err := manifold("difference", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Intersection returns the volume common to all operands.
func (k *Kernel) Intersection(ss ...kernel.Solid) (kernel.Solid, error) {
	ms, err := operands("intersection", ss)
	if err != nil {
		return nil, err
	}
	out := mesh.Intersection(ms...)
	if err := manifold("intersection", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Hull returns the convex hull of every operand vertex. The operands need
// not be disjoint or merged first.
func (k *Kernel) Hull(ss ...kernel.Solid) (kernel.Solid, error) {
	ms, err := operands("hull", ss)
	if err != nil {
		return nil, err
	}
	var pts []v3.Vec
	for _, m := range ms {
		pts = append(pts, m.Points()...)
	}
	out, err := mesh.Hull(pts)
	if err != nil {
		if errors.Is(err, mesh.ErrDegenerateHull) {
			return nil, fmt.Errorf("bsp: hull: %w: %v", csg.ErrNonManifoldResult, err)
		}
		return nil, fmt.Errorf("bsp: hull: %w", err)
	}
	return out, nil
}

// ToMesh returns the solid's mesh, which is already a welded boundary.
func (k *Kernel) ToMesh(s kernel.Solid) (*mesh.Mesh, error) {
	return unwrap(s)
}
