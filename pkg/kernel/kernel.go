// Package kernel defines the abstract geometry kernel interface.
// Implementations (bsp, sdfx) provide solid modeling and boolean
// operations behind this interface. The kernel abstraction allows swapping
// backends without changing the evaluator.
package kernel

import (
	"errors"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrUnsupported is returned by backends that cannot perform an operation.
var ErrUnsupported = errors.New("operation not supported by kernel")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation. Solids are immutable
// and safe to share between goroutines.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. Every method is safe
// for concurrent use. Resolution has already been resolved into segment
// counts and profile points by the caller.
type Kernel interface {
	// Name identifies the backend in logs.
	Name() string

	// Primitives
	Box(size v3.Vec, centered bool) (Solid, error)
	Cylinder(height, r1, r2 float64, segments int, centered bool) (Solid, error)
	Sphere(radius float64, segments int) (Solid, error)

	// Transform applies an affine matrix.
	Transform(s Solid, m geom.Matrix) (Solid, error)

	// Boolean operations
	Union(operands ...Solid) (Solid, error)
	Difference(base Solid, cutters ...Solid) (Solid, error)
	Intersection(operands ...Solid) (Solid, error)

	// Hull returns the convex hull of all operand vertices.
	Hull(operands ...Solid) (Solid, error)

	// Sweep moves profile along the path through ctrl, sampling each spline
	// span with steps points.
	Sweep(profile []v2.Vec, ctrl []v3.Vec, up v3.Vec, steps int) (Solid, error)

	// Round fillets or chamfers the edges of s matched by sel. A full turn
	// of a fillet arc uses segments facets.
	Round(s Solid, sel csg.EdgeSelector, radius float64, mode csg.RoundMode, segments int) (Solid, error)

	// Mesh output
	ToMesh(s Solid) (*mesh.Mesh, error)
}
