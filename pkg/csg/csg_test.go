package csg

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestPrimitiveValidation(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		ok   bool
	}{
		{"box", Box(1, 2, 3), true},
		{"box zero", Box(0, 2, 3), false},
		{"box negative", Box(1, -2, 3), false},
		{"box NaN", Box(math.NaN(), 1, 1), false},
		{"centered box", CenteredBox(1, 1, 1), true},
		{"cylinder", Cylinder(10, 2), true},
		{"cylinder diameter", CylinderD(10, 4), true},
		{"cylinder inf", Cylinder(math.Inf(1), 2), false},
		{"cone pointed", Cone(5, 2, 0), true},
		{"cone negative top", Cone(5, 2, -1), false},
		{"sphere", Sphere(1), true},
		{"sphere zero", SphereD(0), false},
		{"segments ok", Sphere(1, Segments(3)), true},
		{"segments too few", Cylinder(1, 1, Segments(2)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Err()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDimension) {
				t.Fatalf("expected ErrInvalidDimension, got %v", err)
			}
			if tt.ok && tt.node.ID().IsZero() {
				t.Error("valid node should have an ID")
			}
		})
	}
}

func TestContentAddressing(t *testing.T) {
	a := Box(1, 2, 3)
	b := Box(1, 2, 3)
	if a.ID() != b.ID() {
		t.Error("equal boxes should have equal IDs")
	}
	if a.ID() == Box(1, 2, 4).ID() {
		t.Error("different boxes should have different IDs")
	}
	if a.ID() == CenteredBox(1, 2, 3).ID() {
		t.Error("centering should change the ID")
	}
	if Move(a, 0, 0, 0).ID() != Move(b, 0, 0, math.Copysign(0, -1)).ID() {
		t.Error("negative zero should hash like zero")
	}
	if Union(a, Sphere(1)).ID() == Union(Sphere(1), a).ID() {
		t.Error("operand order is part of the identity")
	}
}

func TestTranslateComposition(t *testing.T) {
	s := Cylinder(10, 2)
	v1 := v3.Vec{X: 1.5, Y: -2, Z: 0.25}
	v2 := v3.Vec{X: 3, Y: 4, Z: -7}

	twice := Translate(Translate(s, v1), v2)
	once := Translate(s, v1.Add(v2))

	if twice.ID() != once.ID() {
		t.Fatalf("translate(translate(s, v1), v2) should equal translate(s, v1+v2)")
	}
	if twice.NumChildren() != 1 || twice.Child(0) != s {
		t.Error("composed transform should wrap the original solid directly")
	}
}

func TestRotateComposition(t *testing.T) {
	s := Box(1, 1, 1)
	r := Rotate(Move(s, 1, 0, 0), v3.Vec{Z: 90})
	d := r.Data().(TransformData)
	got := d.Matrix.Apply(v3.Vec{})
	if got.Sub(v3.Vec{Y: 1}).Length() > 1e-12 {
		t.Errorf("rotating a translated origin gives %v, want (0,1,0)", got)
	}
	if r.Child(0) != s {
		t.Error("rotation should collapse into the translation node")
	}
}

func TestMirror(t *testing.T) {
	m := Mirror(Box(1, 1, 1), v3.Vec{X: 1})
	if err := m.Err(); err != nil {
		t.Fatal(err)
	}
	if d := m.Data().(TransformData); d.Matrix.Determinant() >= 0 {
		t.Error("mirror should flip orientation")
	}
	if err := Mirror(Box(1, 1, 1), v3.Vec{}).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("zero normal: expected ErrInvalidDimension, got %v", err)
	}
}

func TestBooleanFlattening(t *testing.T) {
	a, b, c := Box(1, 1, 1), Sphere(1), Cylinder(1, 1)

	u := Union(Union(a, b), c)
	if u.NumChildren() != 3 {
		t.Errorf("nested union has %d operands, want 3", u.NumChildren())
	}
	if u.ID() != Union(a, b, c).ID() {
		t.Error("nested union should equal the flat one")
	}

	i := Intersection(a, Intersection(b, c))
	if i.NumChildren() != 3 {
		t.Errorf("nested intersection has %d operands, want 3", i.NumChildren())
	}

	d := Difference(Difference(a, b), c)
	if d.ID() != Difference(a, b, c).ID() {
		t.Error("nested difference should flatten left-first")
	}
	if Difference(a, Union(b, c)).ID() != Difference(a, b, c).ID() {
		t.Error("a union cutter should splice into the cutter list")
	}
	// Right-nested differences are not associative and must not flatten.
	if Difference(a, Difference(b, c)).NumChildren() != 2 {
		t.Error("difference cutter must stay a single operand")
	}

	if Union(a) != a || Intersection(a) != a || Difference(a) != a {
		t.Error("single operand should be returned unchanged")
	}
	if err := Union().Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("empty union: expected ErrInvalidDimension, got %v", err)
	}
	if Hull(Hull(a, b), c).NumChildren() != 3 {
		t.Error("nested hull should flatten")
	}
}

func TestStickyErrors(t *testing.T) {
	bad := Box(-1, 1, 1)
	tree := Difference(Union(Box(2, 2, 2), Move(bad, 1, 1, 1)), Sphere(1))
	if err := tree.Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
	if err := Fillet(Hull(bad), AllEdges(), 1).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected error through hull and fillet, got %v", err)
	}
	var nilNode *Node
	if err := Union(Box(1, 1, 1), nilNode).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("nil operand: expected ErrInvalidDimension, got %v", err)
	}
}

func TestProfiles(t *testing.T) {
	rect, err := Rect(4, 2).Points(32)
	if err != nil {
		t.Fatal(err)
	}
	if len(rect) != 4 {
		t.Errorf("rect points = %d, want 4", len(rect))
	}

	circle, err := Circle(1).Points(12)
	if err != nil {
		t.Fatal(err)
	}
	if len(circle) != 12 {
		t.Errorf("circle points = %d, want 12", len(circle))
	}
	if c, _ := Circle(1, Segments(6)).Points(64); len(c) != 6 {
		t.Errorf("segment override gives %d points, want 6", len(c))
	}

	slot, err := Slot(10, 4, 90).Points(16)
	if err != nil {
		t.Fatal(err)
	}
	var maxY float64
	for _, p := range slot {
		maxY = math.Max(maxY, p.Y)
	}
	if math.Abs(maxY-5) > 1e-9 {
		t.Errorf("rotated slot reaches y=%f, want 5", maxY)
	}

	if _, err := Circle(1).Points(2); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("resolution 2: expected ErrInvalidDimension, got %v", err)
	}
	if err := Slot(2, 4, 0).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("short slot: expected ErrInvalidDimension, got %v", err)
	}
	bowtie := Polygon([]v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	if err := bowtie.Err(); !errors.Is(err, ErrDegenerateSweep) {
		t.Errorf("bowtie: expected ErrDegenerateSweep, got %v", err)
	}
}

func TestSweepConstruction(t *testing.T) {
	if err := Sweep(Rect(1, 1), []v3.Vec{{}, {}}).Err(); !errors.Is(err, ErrDegenerateSweep) {
		t.Errorf("single point path: expected ErrDegenerateSweep, got %v", err)
	}
	if err := Extrude(Rect(1, 1), 0).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("zero height: expected ErrInvalidDimension, got %v", err)
	}
	s := Sweep(Circle(0.5), []v3.Vec{{}, {X: 5, Z: 5}, {Z: 10}}, WithUp(v3.Vec{X: 1}))
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if s.Label() != "sweep" || Extrude(Rect(1, 1), 2).Label() != "extrude" {
		t.Error("unexpected sweep labels")
	}
	if err := Sweep(Rect(1, 1), []v3.Vec{{}, {Z: 1}}, WithUp(v3.Vec{})).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("zero up: expected ErrInvalidDimension, got %v", err)
	}
}

func TestRoundConstruction(t *testing.T) {
	if err := Fillet(Box(1, 1, 1), AllEdges(), 0).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("zero radius: expected ErrInvalidDimension, got %v", err)
	}
	if err := Chamfer(Box(1, 1, 1), nil, 0.1).Err(); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("nil selector: expected ErrInvalidDimension, got %v", err)
	}
	f := Fillet(Box(1, 1, 1), OnMax(AxisZ), 0.1)
	c := Chamfer(Box(1, 1, 1), OnMax(AxisZ), 0.1)
	if f.ID() == c.ID() {
		t.Error("fillet and chamfer should differ")
	}
	if f.ID() == Fillet(Box(1, 1, 1), OnMin(AxisZ), 0.1).ID() {
		t.Error("selector should be part of the identity")
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{">Z", ">Z"},
		{"<X", "<X"},
		{"|Z", "|Z"},
		{"#y", "#Y"},
		{">-Z", ">-Z"},
		{"all", "all"},
		{"|Z and >X", "and(|Z,>X)"},
		{"convex or not |Z", "or(convex,not(|Z))"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sel, err := ParseSelector(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if sel.String() != tt.want {
				t.Errorf("String() = %q, want %q", sel.String(), tt.want)
			}
		})
	}
	for _, bad := range []string{"", ">", ">W", "?Z"} {
		if _, err := ParseSelector(bad); err == nil {
			t.Errorf("ParseSelector(%q) should fail", bad)
		}
	}
}

func TestSelectorMatch(t *testing.T) {
	box := mesh.Box{Min: v3.Vec{}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}
	top := mesh.Edge{A: v3.Vec{Z: 1}, B: v3.Vec{X: 1, Z: 1}, N1: v3.Vec{Z: 1}, N2: v3.Vec{Y: -1}, Convex: true}
	vertical := mesh.Edge{A: v3.Vec{}, B: v3.Vec{Z: 1}, N1: v3.Vec{X: -1}, N2: v3.Vec{Y: -1}, Convex: true}

	tests := []struct {
		sel  EdgeSelector
		edge mesh.Edge
		want bool
	}{
		{OnMax(AxisZ), top, true},
		{OnMax(AxisZ), vertical, false},
		{OnMin(AxisY), top, true},
		{ParallelTo(AxisZ), vertical, true},
		{ParallelTo(AxisZ), top, false},
		{PerpendicularTo(AxisZ), top, true},
		{FaceNormal(AxisZ), top, true},
		{FaceNormal(AxisZ), vertical, false},
		{Convex(), top, true},
		{Concave(), top, false},
		{And(OnMax(AxisZ), ParallelTo(AxisX)), top, true},
		{Or(ParallelTo(AxisY), ParallelTo(AxisZ)), vertical, true},
		{Not(AllEdges()), top, false},
	}
	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			if got := tt.sel.Match(tt.edge, box); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnchor(t *testing.T) {
	base := Origin().Translate(0, 0, 10)
	turned := base.Rotate(v3.Vec{Z: 90})
	p := turned.Translate(5, 0, 0).Point(v3.Vec{})
	if p.Sub(v3.Vec{Y: 5, Z: 10}).Length() > 1e-12 {
		t.Errorf("anchor point = %v, want (0,5,10)", p)
	}
	// The earlier anchor is unaffected.
	if q := base.Point(v3.Vec{}); q != (v3.Vec{Z: 10}) {
		t.Errorf("base anchor moved to %v", q)
	}
	placed := base.Place(Box(1, 1, 1))
	if placed.ID() != Move(Box(1, 1, 1), 0, 0, 10).ID() {
		t.Error("placing at a translated anchor should equal a translation")
	}
}

func TestWalkPaths(t *testing.T) {
	tree := Difference(Box(10, 10, 10), Move(Cylinder(12, 2.5), 5, 5, -1))
	var paths []string
	Walk(tree, func(path string, _ *Node, _ int) bool {
		paths = append(paths, path)
		return true
	})
	want := []string{"difference", "difference[0]/box", "difference[1]/transform", "difference[1]/transform/cylinder"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	shared := Move(Sphere(1), 1, 0, 0)
	nodes, unique := Count(Union(shared, Move(shared, 0, 1, 0), Box(1, 1, 1)))
	if nodes != 6 || unique != 5 {
		t.Errorf("Count = %d, %d, want 6, 5", nodes, unique)
	}

	if out := Format(tree); !strings.Contains(out, "cylinder h=12 r=2.5") {
		t.Errorf("Format output missing cylinder:\n%s", out)
	}
}
