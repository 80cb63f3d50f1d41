package csg

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension reports a non-positive or non-finite size, an
	// invalid resolution, or a structurally empty composite. It is raised at
	// construction time.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrNonManifoldResult reports an operation whose output is not a closed,
	// consistently oriented 2-manifold.
	ErrNonManifoldResult = errors.New("non-manifold result")

	// ErrDegenerateSweep reports a self-intersecting profile or a path that
	// folds back within the profile's reach.
	ErrDegenerateSweep = errors.New("degenerate sweep")

	// ErrUnresolvableFillet reports a blend that does not fit the local
	// geometry, or a selector that matched no edge.
	ErrUnresolvableFillet = errors.New("unresolvable fillet")
)

// NodeError ties an evaluation failure to the node that produced it.
type NodeError struct {
	// Path locates the node from the evaluation root, for example
	// "difference[1]/transform/cylinder".
	Path string
	ID   NodeID
	Kind NodeKind
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("csg: %s (%s %s): %v", e.Path, e.Kind, e.ID.Short(), e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func invalid(op, format string, args ...any) error {
	return fmt.Errorf("csg: %s: %w: %s", op, ErrInvalidDimension, fmt.Sprintf(format, args...))
}
