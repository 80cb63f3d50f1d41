package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/csg"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites part-script source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot clash with user variables.
//  2. kebab-case identifiers become snake_case (zygomys reads a hyphen
//     as subtraction).
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch {
		case b[i] == '"':
			j := skipQuoted(b, i, '"', true)
			result = append(result, b[i:j]...)
			i = j
			continue
		case b[i] == '`':
			j := skipQuoted(b, i, '`', false)
			result = append(result, b[i:j]...)
			i = j
			continue
		case b[i] == ';':
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		case b[i] == ':' && i+1 < len(b) && b[i+1] == '=':
			result = append(result, b[i], b[i+1])
			i += 2
			continue
		case b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		case b[i] == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

// skipQuoted returns the index just past the literal opened at b[i].
func skipQuoted(b []byte, i int, quote byte, escapes bool) int {
	i++
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			i++
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Values passed between builtins
// ---------------------------------------------------------------------------

type sexpSolid struct {
	n *csg.Node
}

func (s *sexpSolid) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(solid %s %s)", s.n.Label(), s.n.ID().Short())
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

type sexpProfile struct {
	p csg.Profile
}

func (p *sexpProfile) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(profile %s)", p.p)
}
func (p *sexpProfile) Type() *zygo.RegisteredType { return nil }

type sexpAnchor struct {
	a csg.Anchor
}

func (a *sexpAnchor) SexpString(*zygo.PrintState) string {
	t := a.a.Matrix().TranslationPart()
	return fmt.Sprintf("(anchor %g %g %g)", t.X, t.Y, t.Z)
}
func (a *sexpAnchor) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates keyword and positional arguments. A keyword followed
// by another keyword, or last in the list, is a flag with a null value.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next {
				result.kw[name] = args[i+1]
				i++
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
	}
	return result
}

func (a kwArgs) flag(name string) bool {
	v, ok := a.kw[name]
	if !ok {
		return false
	}
	if b, isBool := v.(*zygo.SexpBool); isBool {
		return b.Val
	}
	return true
}

// number returns keyword name if present, else positional argument i.
func (a kwArgs) number(name string, i int) (float64, bool, error) {
	if v, ok := a.kw[name]; ok {
		f, err := toFloat64(v)
		return f, true, err
	}
	if i >= 0 && i < len(a.positional) {
		f, err := toFloat64(a.positional[i])
		return f, true, err
	}
	return 0, false, nil
}

// options collects the primitive options shared by several builtins.
func (a kwArgs) options() ([]csg.Option, error) {
	var opts []csg.Option
	if v, ok := a.kw["segments"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("segments: %w", err)
		}
		opts = append(opts, csg.Segments(int(f)))
	}
	if a.flag("center") {
		opts = append(opts, csg.Centered())
	}
	return opts, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

func toSolid(s zygo.Sexp) (*csg.Node, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.n, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

func toProfile(s zygo.Sexp) (csg.Profile, error) {
	if v, ok := s.(*sexpProfile); ok {
		return v.p, nil
	}
	return csg.Profile{}, fmt.Errorf("expected profile, got %s", describe(s))
}

func toAnchor(s zygo.Sexp) (csg.Anchor, error) {
	if v, ok := s.(*sexpAnchor); ok {
		return v.a, nil
	}
	return csg.Anchor{}, fmt.Errorf("expected anchor, got %s", describe(s))
}

// toVec3 accepts a vec3 value or a list of three numbers.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 3 {
		return v3.Vec{}, fmt.Errorf("expected vec3, got %s", describe(s))
	}
	f, err := numbers(items)
	if err != nil {
		return v3.Vec{}, err
	}
	return v3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
}

// toVec2 accepts a vec2 value or a list of two numbers.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 2 {
		return v2.Vec{}, fmt.Errorf("expected vec2, got %s", describe(s))
	}
	f, err := numbers(items)
	if err != nil {
		return v2.Vec{}, err
	}
	return v2.Vec{X: f[0], Y: f[1]}, nil
}

func numbers(items []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(items))
	for i, it := range items {
		f, err := toFloat64(it)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// vecArgs reads a vector given either as one vec3 or as three numbers.
func vecArgs(args []zygo.Sexp) (v3.Vec, error) {
	switch len(args) {
	case 1:
		return toVec3(args[0])
	case 3:
		f, err := numbers(args)
		if err != nil {
			return v3.Vec{}, err
		}
		return v3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
	}
	return v3.Vec{}, fmt.Errorf("expected a vec3 or three numbers, got %d arguments", len(args))
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %s", describe(s))
}

// solidArgs reads solids from args, splicing in lists and arrays so that
// (union (map ...)) works.
func solidArgs(args []zygo.Sexp) ([]*csg.Node, error) {
	var out []*csg.Node
	for i, a := range args {
		if items, err := sexpListToSlice(a); err == nil {
			nested, err := solidArgs(items)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		n, err := toSolid(a)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// solid wraps n, failing the call when construction rejected it.
func solid(n *csg.Node) (zygo.Sexp, error) {
	if err := n.Err(); err != nil {
		return zygo.SexpNull, err
	}
	return &sexpSolid{n: n}, nil
}

func profile(p csg.Profile) (zygo.Sexp, error) {
	if err := p.Err(); err != nil {
		return zygo.SexpNull, err
	}
	return &sexpProfile{p: p}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the part-script builtins into env. Named parts
// are recorded in reg. Each builtin's errors are prefixed with its name.
func registerBuiltins(env *zygo.Zlisp, reg *registry) {
	add := func(fn builtin, names ...string) {
		for _, name := range names {
			env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
				out, err := fn(args)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
				}
				return out, nil
			})
		}
	}

	// -----------------------------------------------------------------------
	// Vectors
	// -----------------------------------------------------------------------

	// (vec3 1 2 3)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
		}
		v, err := vecArgs(args)
		if err != nil {
			return nil, err
		}
		return &sexpVec3{vec: v}, nil
	}, "vec3")

	// (vec2 1 2)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires exactly 2 arguments, got %d", len(args))
		}
		f, err := numbers(args)
		if err != nil {
			return nil, err
		}
		return &sexpVec2{vec: v2.Vec{X: f[0], Y: f[1]}}, nil
	}, "vec2")

	// -----------------------------------------------------------------------
	// Primitives
	// -----------------------------------------------------------------------

	// (box 10 20 5) (box :size (vec3 10 20 5) :center)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size v3.Vec
		var err error
		if v, ok := pa.kw["size"]; ok {
			size, err = toVec3(v)
		} else {
			size, err = vecArgs(pa.positional)
		}
		if err != nil {
			return nil, err
		}
		if pa.flag("center") {
			return solid(csg.CenteredBox(size.X, size.Y, size.Z))
		}
		return solid(csg.Box(size.X, size.Y, size.Z))
	}, "box", "cube")

	// (ccube 10 20 5): centered in X and Y, base on the XY plane
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		size, err := vecArgs(args)
		if err != nil {
			return nil, err
		}
		return solid(csg.CenteredBox(size.X, size.Y, size.Z))
	}, "ccube")

	// (cylinder 10 2) (cylinder :h 10 :d 4 :segments 64 :center)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, ok, err := pa.number("h", 0)
		if err != nil || !ok {
			return nil, fmt.Errorf("height: %w", orMissing(err))
		}
		r, ok, err := pa.number("r", 1)
		if err != nil {
			return nil, fmt.Errorf("radius: %w", err)
		}
		if !ok {
			d, hasD, err := pa.number("d", -1)
			if err != nil || !hasD {
				return nil, fmt.Errorf("radius: %w", orMissing(err))
			}
			r = d / 2
		}
		opts, err := pa.options()
		if err != nil {
			return nil, err
		}
		return solid(csg.Cylinder(h, r, opts...))
	}, "cylinder")

	// (cone 10 4 1) (cone :h 10 :r1 4 :r2 0)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var f [3]float64
		for i, name := range []string{"h", "r1", "r2"} {
			v, ok, err := pa.number(name, i)
			if err != nil || !ok {
				return nil, fmt.Errorf("%s: %w", name, orMissing(err))
			}
			f[i] = v
		}
		opts, err := pa.options()
		if err != nil {
			return nil, err
		}
		return solid(csg.Cone(f[0], f[1], f[2], opts...))
	}, "cone")

	// (sphere 5) (sphere :d 10 :segments 48)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, ok, err := pa.number("r", 0)
		if err != nil {
			return nil, err
		}
		if !ok {
			d, hasD, err := pa.number("d", -1)
			if err != nil || !hasD {
				return nil, fmt.Errorf("radius: %w", orMissing(err))
			}
			r = d / 2
		}
		opts, err := pa.options()
		if err != nil {
			return nil, err
		}
		return solid(csg.Sphere(r, opts...))
	}, "sphere")

	// -----------------------------------------------------------------------
	// Transforms
	// -----------------------------------------------------------------------

	transform := func(apply func(*csg.Node, v3.Vec) *csg.Node) builtin {
		return func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return nil, fmt.Errorf("requires a solid and a vector")
			}
			s, err := toSolid(args[0])
			if err != nil {
				return nil, err
			}
			v, err := vecArgs(args[1:])
			if err != nil {
				return nil, err
			}
			return solid(apply(s, v))
		}
	}

	// (translate s 1 2 3) (trans s (vec3 1 2 3))
	add(transform(csg.Translate), "translate", "trans")
	// (rotate s 90 0 0), degrees about X then Y then Z
	add(transform(csg.Rotate), "rotate", "rot")
	// (mirror s 1 0 0), plane through the origin with that normal
	add(transform(csg.Mirror), "mirror")

	shift := func(sign float64) builtin {
		return func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("requires a solid and a distance")
			}
			s, err := toSolid(args[0])
			if err != nil {
				return nil, err
			}
			dz, err := toFloat64(args[1])
			if err != nil {
				return nil, err
			}
			return solid(csg.Up(s, sign*dz))
		}
	}
	add(shift(1), "up")
	add(shift(-1), "down")

	// -----------------------------------------------------------------------
	// Booleans and hull
	// -----------------------------------------------------------------------

	nary := func(op func(...*csg.Node) *csg.Node) builtin {
		return func(args []zygo.Sexp) (zygo.Sexp, error) {
			ss, err := solidArgs(args)
			if err != nil {
				return nil, err
			}
			return solid(op(ss...))
		}
	}
	add(nary(csg.Union), "union")
	add(nary(csg.Intersection), "intersection")
	add(nary(csg.Hull), "hull")

	// (difference base cutter...)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		ss, err := solidArgs(args)
		if err != nil {
			return nil, err
		}
		if len(ss) == 0 {
			return nil, fmt.Errorf("%w: requires a base solid", csg.ErrInvalidDimension)
		}
		return solid(csg.Difference(ss[0], ss[1:]...))
	}, "difference")

	// -----------------------------------------------------------------------
	// Profiles, extrusion and sweeps
	// -----------------------------------------------------------------------

	// (rect 10 4)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires width and height")
		}
		f, err := numbers(args)
		if err != nil {
			return nil, err
		}
		return profile(csg.Rect(f[0], f[1]))
	}, "rect")

	// (circle 3 :segments 24)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, ok, err := pa.number("r", 0)
		if err != nil || !ok {
			return nil, fmt.Errorf("radius: %w", orMissing(err))
		}
		opts, err := pa.options()
		if err != nil {
			return nil, err
		}
		return profile(csg.Circle(r, opts...))
	}, "circle")

	// (slot 20 5) (slot 20 5 90): overall length, width, angle in degrees
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		f, err := numbers(pa.positional)
		if err != nil {
			return nil, err
		}
		if len(f) == 2 {
			f = append(f, 0)
		}
		if len(f) != 3 {
			return nil, fmt.Errorf("requires length, width and an optional angle")
		}
		opts, err := pa.options()
		if err != nil {
			return nil, err
		}
		return profile(csg.Slot(f[0], f[1], f[2], opts...))
	}, "slot")

	// (polygon (vec2 0 0) (vec2 4 0) (vec2 0 3)) or (polygon (list ...))
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 1 {
			if items, err := sexpListToSlice(args[0]); err == nil {
				args = items
			}
		}
		pts := make([]v2.Vec, len(args))
		for i, a := range args {
			v, err := toVec2(a)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			pts[i] = v
		}
		return profile(csg.Polygon(pts))
	}, "polygon")

	// (extrude (rect 10 4) 2)
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires a profile and a height")
		}
		p, err := toProfile(args[0])
		if err != nil {
			return nil, err
		}
		h, err := toFloat64(args[1])
		if err != nil {
			return nil, err
		}
		return solid(csg.Extrude(p, h))
	}, "extrude")

	// (sweep (rect 1 5) (list (vec3 0 0 0) (vec3 2 1.5 0) ...) :up (vec3 0 0 1))
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return nil, fmt.Errorf("requires a profile and a path")
		}
		p, err := toProfile(pa.positional[0])
		if err != nil {
			return nil, err
		}
		rest := pa.positional[1:]
		if len(rest) == 1 {
			if items, err := sexpListToSlice(rest[0]); err == nil {
				if _, isVec := rest[0].(*sexpVec3); !isVec {
					rest = items
				}
			}
		}
		path := make([]v3.Vec, len(rest))
		for i, a := range rest {
			v, err := toVec3(a)
			if err != nil {
				return nil, fmt.Errorf("path point %d: %w", i, err)
			}
			path[i] = v
		}
		var opts []csg.Option
		if v, ok := pa.kw["up"]; ok {
			up, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("up: %w", err)
			}
			opts = append(opts, csg.WithUp(up))
		}
		return solid(csg.Sweep(p, path, opts...))
	}, "sweep")

	// -----------------------------------------------------------------------
	// Rounding
	// -----------------------------------------------------------------------

	round := func(op func(*csg.Node, csg.EdgeSelector, float64) *csg.Node) builtin {
		return func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("requires a solid, an edge selector and a radius")
			}
			s, err := toSolid(args[0])
			if err != nil {
				return nil, err
			}
			spec, err := toString(args[1])
			if err != nil {
				return nil, err
			}
			sel, err := csg.ParseSelector(spec)
			if err != nil {
				return nil, err
			}
			r, err := toFloat64(args[2])
			if err != nil {
				return nil, err
			}
			return solid(op(s, sel, r))
		}
	}
	// (fillet s ">Z" 1.5)
	add(round(csg.Fillet), "fillet")
	// (chamfer s "|Z" 0.5)
	add(round(csg.Chamfer), "chamfer")

	// -----------------------------------------------------------------------
	// Anchors
	// -----------------------------------------------------------------------

	// (anchor) (anchor base :at (vec3 0 0 10) :rot (vec3 90 0 0))
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		a := csg.Origin()
		if len(pa.positional) > 0 {
			base, err := toAnchor(pa.positional[0])
			if err != nil {
				return nil, err
			}
			a = base
		}
		if v, ok := pa.kw["at"]; ok {
			at, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("at: %w", err)
			}
			a = a.Translate(at.X, at.Y, at.Z)
		}
		if v, ok := pa.kw["rot"]; ok {
			rot, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("rot: %w", err)
			}
			a = a.Rotate(rot)
		}
		return &sexpAnchor{a: a}, nil
	}, "anchor")

	// (place a s): position s, built around the origin, in frame a
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires an anchor and a solid")
		}
		a, err := toAnchor(args[0])
		if err != nil {
			return nil, err
		}
		s, err := toSolid(args[1])
		if err != nil {
			return nil, err
		}
		return solid(a.Place(s))
	}, "place")

	// -----------------------------------------------------------------------
	// Named parts
	// -----------------------------------------------------------------------

	// (part "lid" s) registers s; (part "lid") returns it
	add(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("requires a name and an optional solid")
		}
		name, err := toString(args[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		if len(args) == 1 {
			n := reg.lookup(name)
			if n == nil {
				return nil, fmt.Errorf("no part named %q", name)
			}
			return &sexpSolid{n: n}, nil
		}
		s, err := toSolid(args[1])
		if err != nil {
			return nil, err
		}
		if err := reg.add(name, s); err != nil {
			return nil, err
		}
		return &sexpSolid{n: s}, nil
	}, "part")
}

func orMissing(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("missing")
}
