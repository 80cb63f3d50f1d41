package csg

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/kerf/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// EdgeSelector picks feature edges of an evaluated solid for rounding.
// Selectors are predicates over the final mesh, not over the tree that
// built it. String must be canonical: it is part of the node hash.
type EdgeSelector interface {
	Match(e mesh.Edge, bounds mesh.Box) bool
	String() string
}

// Axes usable in selectors.
var (
	AxisX = v3.Vec{X: 1}
	AxisY = v3.Vec{Y: 1}
	AxisZ = v3.Vec{Z: 1}
)

// selectorTolerance bounds direction and position comparisons, relative
// to the bounding box diagonal where positions are involved.
const selectorTolerance = 1e-6

type allEdges struct{}

// AllEdges selects every feature edge.
func AllEdges() EdgeSelector { return allEdges{} }

func (allEdges) Match(mesh.Edge, mesh.Box) bool { return true }
func (allEdges) String() string                 { return "all" }

type parallelTo struct{ axis v3.Vec }

// ParallelTo selects edges running along axis.
func ParallelTo(axis v3.Vec) EdgeSelector { return parallelTo{axis.Normalize()} }

func (s parallelTo) Match(e mesh.Edge, _ mesh.Box) bool {
	return math.Abs(math.Abs(e.Dir().Dot(s.axis))-1) <= selectorTolerance
}

func (s parallelTo) String() string { return "|" + axisName(s.axis) }

type perpendicularTo struct{ axis v3.Vec }

// PerpendicularTo selects edges lying perpendicular to axis.
func PerpendicularTo(axis v3.Vec) EdgeSelector { return perpendicularTo{axis.Normalize()} }

func (s perpendicularTo) Match(e mesh.Edge, _ mesh.Box) bool {
	return math.Abs(e.Dir().Dot(s.axis)) <= selectorTolerance
}

func (s perpendicularTo) String() string { return "#" + axisName(s.axis) }

type extreme struct {
	axis v3.Vec
	max  bool
}

// OnMax selects edges lying entirely at the solid's maximum along axis,
// such as the edges of the top face for AxisZ.
func OnMax(axis v3.Vec) EdgeSelector { return extreme{axis.Normalize(), true} }

// OnMin selects edges lying entirely at the solid's minimum along axis.
func OnMin(axis v3.Vec) EdgeSelector { return extreme{axis.Normalize(), false} }

func (s extreme) Match(e mesh.Edge, b mesh.Box) bool {
	tol := selectorTolerance * math.Max(b.Diagonal(), 1)
	// Project the box corners to find the extreme along axis.
	target := math.Inf(1)
	if s.max {
		target = math.Inf(-1)
	}
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		d := c.Dot(s.axis)
		if s.max {
			target = math.Max(target, d)
		} else {
			target = math.Min(target, d)
		}
	}
	return math.Abs(e.A.Dot(s.axis)-target) <= tol && math.Abs(e.B.Dot(s.axis)-target) <= tol
}

func (s extreme) String() string {
	if s.max {
		return ">" + axisName(s.axis)
	}
	return "<" + axisName(s.axis)
}

type faceNormal struct{ dir v3.Vec }

// FaceNormal selects edges bounding a face whose outward normal is dir.
func FaceNormal(dir v3.Vec) EdgeSelector { return faceNormal{dir.Normalize()} }

func (s faceNormal) Match(e mesh.Edge, _ mesh.Box) bool {
	return e.N1.Dot(s.dir) >= 1-selectorTolerance || e.N2.Dot(s.dir) >= 1-selectorTolerance
}

func (s faceNormal) String() string {
	return fmt.Sprintf("normal(%g,%g,%g)", s.dir.X, s.dir.Y, s.dir.Z)
}

type convexity bool

// Convex selects outside edges, where material lies between the faces.
func Convex() EdgeSelector { return convexity(true) }

// Concave selects inside corners.
func Concave() EdgeSelector { return convexity(false) }

func (s convexity) Match(e mesh.Edge, _ mesh.Box) bool { return e.Convex == bool(s) }

func (s convexity) String() string {
	if s {
		return "convex"
	}
	return "concave"
}

type and []EdgeSelector

// And selects edges matched by every selector.
func And(sels ...EdgeSelector) EdgeSelector { return and(sels) }

func (s and) Match(e mesh.Edge, b mesh.Box) bool {
	for _, sel := range s {
		if !sel.Match(e, b) {
			return false
		}
	}
	return true
}

func (s and) String() string { return join("and", s) }

type or []EdgeSelector

// Or selects edges matched by any selector.
func Or(sels ...EdgeSelector) EdgeSelector { return or(sels) }

func (s or) Match(e mesh.Edge, b mesh.Box) bool {
	for _, sel := range s {
		if sel.Match(e, b) {
			return true
		}
	}
	return false
}

func (s or) String() string { return join("or", s) }

type not struct{ sel EdgeSelector }

// Not inverts a selector.
func Not(sel EdgeSelector) EdgeSelector { return not{sel} }

func (s not) Match(e mesh.Edge, b mesh.Box) bool { return !s.sel.Match(e, b) }
func (s not) String() string                     { return "not(" + s.sel.String() + ")" }

func join(op string, sels []EdgeSelector) string {
	parts := make([]string, len(sels))
	for i, s := range sels {
		parts[i] = s.String()
	}
	return op + "(" + strings.Join(parts, ",") + ")"
}

func axisName(a v3.Vec) string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	case AxisX.MulScalar(-1):
		return "-X"
	case AxisY.MulScalar(-1):
		return "-Y"
	case AxisZ.MulScalar(-1):
		return "-Z"
	}
	return fmt.Sprintf("(%g,%g,%g)", a.X, a.Y, a.Z)
}

// ParseSelector parses the short string form of a selector:
//
//	all   every feature edge
//	>Z    edges at the maximum along Z (likewise <, X, Y, -Z ...)
//	|Z    edges parallel to Z
//	#Z    edges perpendicular to Z
//
// Terms joined by " and " or " or " combine; "not " negates one term.
func ParseSelector(s string) (EdgeSelector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("csg: selector: empty")
	}
	if parts := splitWord(s, " or "); len(parts) > 1 {
		return parseJoined(parts, Or)
	}
	if parts := splitWord(s, " and "); len(parts) > 1 {
		return parseJoined(parts, And)
	}
	if rest, ok := strings.CutPrefix(s, "not "); ok {
		sel, err := ParseSelector(rest)
		if err != nil {
			return nil, err
		}
		return Not(sel), nil
	}
	switch s {
	case "all", "*":
		return AllEdges(), nil
	case "convex":
		return Convex(), nil
	case "concave":
		return Concave(), nil
	}
	axis, err := parseAxis(s[1:])
	if err != nil {
		return nil, fmt.Errorf("csg: selector %q: %w", s, err)
	}
	switch s[0] {
	case '>':
		return OnMax(axis), nil
	case '<':
		return OnMin(axis), nil
	case '|':
		return ParallelTo(axis), nil
	case '#':
		return PerpendicularTo(axis), nil
	}
	return nil, fmt.Errorf("csg: selector %q: unknown form", s)
}

func splitWord(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseJoined(parts []string, combine func(...EdgeSelector) EdgeSelector) (EdgeSelector, error) {
	sels := make([]EdgeSelector, len(parts))
	for i, p := range parts {
		sel, err := ParseSelector(p)
		if err != nil {
			return nil, err
		}
		sels[i] = sel
	}
	return combine(sels...), nil
}

func parseAxis(s string) (v3.Vec, error) {
	sign := 1.0
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = -1, rest
	}
	switch strings.ToUpper(s) {
	case "X":
		return AxisX.MulScalar(sign), nil
	case "Y":
		return AxisY.MulScalar(sign), nil
	case "Z":
		return AxisZ.MulScalar(sign), nil
	}
	return v3.Vec{}, fmt.Errorf("unknown axis %q", s)
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(s string) EdgeSelector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}
