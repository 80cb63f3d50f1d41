package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func cube(x0, y0, z0, x1, y1, z1 float64) *Mesh {
	return Cuboid(v3.Vec{X: x0, Y: y0, Z: z0}, v3.Vec{X: x1, Y: y1, Z: z1})
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCuboid(t *testing.T) {
	m := cube(0, 0, 0, 2, 3, 4)
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := m.Volume(); !approx(got, 24, 1e-9) {
		t.Errorf("volume = %f, want 24", got)
	}
	if got := m.SurfaceArea(); !approx(got, 52, 1e-9) {
		t.Errorf("area = %f, want 52", got)
	}
	if m.Genus() != 0 {
		t.Errorf("genus = %d, want 0", m.Genus())
	}
	b := m.Bounds()
	if b.Min != (v3.Vec{}) || b.Max != (v3.Vec{X: 2, Y: 3, Z: 4}) {
		t.Errorf("bounds = %v", b)
	}
}

func TestValidateOpenMesh(t *testing.T) {
	m := cube(0, 0, 0, 1, 1, 1)
	m.Faces = m.Faces[1:]
	err := Validate(m)
	if !errors.Is(err, ErrNotManifold) {
		t.Fatalf("expected ErrNotManifold, got %v", err)
	}
}

func TestValidateEmpty(t *testing.T) {
	if err := Validate(Empty()); err != nil {
		t.Fatalf("empty mesh should validate: %v", err)
	}
}

func TestBooleans(t *testing.T) {
	a := cube(0, 0, 0, 2, 2, 2)
	b := cube(1, 1, 1, 3, 3, 3)

	tests := []struct {
		name string
		m    *Mesh
		want float64
	}{
		{"union", Union(a, b), 15},
		{"union reversed", Union(b, a), 15},
		{"difference", Difference(a, b), 7},
		{"difference reversed", Difference(b, a), 7},
		{"intersection", Intersection(a, b), 1},
		{"union of three", Union(a, b, cube(2, 2, 2, 4, 4, 4)), 15 + 8 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.m); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got := tt.m.Volume(); !approx(got, tt.want, 1e-6) {
				t.Errorf("volume = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDifferenceThroughHole(t *testing.T) {
	block := cube(0, 0, 0, 10, 10, 10)
	post := cube(3, 3, -1, 7, 7, 11)
	m := Difference(block, post)

	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := m.Volume(); !approx(got, 1000-160, 1e-6) {
		t.Errorf("volume = %f, want 840", got)
	}
	if g := m.Genus(); g != 1 {
		t.Errorf("genus = %d, want 1", g)
	}
	if n := m.BoundaryLoops(v3.Vec{Z: 1}, 10, 1e-6); n != 2 {
		t.Errorf("top loops = %d, want 2", n)
	}
	if n := m.BoundaryLoops(v3.Vec{Z: -1}, 0, 1e-6); n != 2 {
		t.Errorf("bottom loops = %d, want 2", n)
	}
}

func TestDisjointBooleans(t *testing.T) {
	a := cube(0, 0, 0, 1, 1, 1)
	b := cube(5, 0, 0, 6, 1, 1)

	u := Union(a, b)
	if u.FaceCount() != 12 {
		t.Errorf("disjoint union faces = %d, want 12", u.FaceCount())
	}
	if u.Shells() != 2 {
		t.Errorf("shells = %d, want 2", u.Shells())
	}
	if d := Difference(a, b); d != a {
		t.Error("difference with a disjoint cutter should return the input")
	}
	if i := Intersection(a, b); !i.IsEmpty() {
		t.Error("disjoint intersection should be empty")
	}
}

func TestTransformMirror(t *testing.T) {
	m := cube(0, 0, 0, 1, 2, 3).Transform(geom.Reflection(v3.Vec{X: 1}))
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := m.Volume(); !approx(got, 6, 1e-9) {
		t.Errorf("mirrored volume = %f, want 6", got)
	}
	if b := m.Bounds(); !approx(b.Min.X, -1, 1e-12) {
		t.Errorf("mirrored min x = %f, want -1", b.Min.X)
	}
}

func TestHull(t *testing.T) {
	var pts []v3.Vec
	for i := 0; i < 8; i++ {
		pts = append(pts, v3.Vec{X: float64(i & 1), Y: float64(i >> 1 & 1), Z: float64(i >> 2 & 1)})
	}
	// interior points must not change the hull
	pts = append(pts, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, v3.Vec{X: 0.2, Y: 0.7, Z: 0.1})

	m, err := Hull(pts)
	if err != nil {
		t.Fatalf("Hull: %v", err)
	}
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := m.Volume(); !approx(got, 1, 1e-9) {
		t.Errorf("volume = %f, want 1", got)
	}
	if m.VertexCount() != 8 {
		t.Errorf("vertices = %d, want 8", m.VertexCount())
	}
}

func TestHullDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []v3.Vec
	}{
		{"too few", []v3.Vec{{}, {X: 1}, {Y: 1}}},
		{"collinear", []v3.Vec{{}, {X: 1}, {X: 2}, {X: 3}}},
		{"coplanar", []v3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 0.5, Y: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Hull(tt.pts); !errors.Is(err, ErrDegenerateHull) {
				t.Fatalf("expected ErrDegenerateHull, got %v", err)
			}
		})
	}
}

func TestFeatureEdgesCube(t *testing.T) {
	m := cube(0, 0, 0, 1, 1, 1)
	edges, regions := m.FeatureEdges(DefaultFeatureAngle)
	if len(regions) != 6 {
		t.Fatalf("regions = %d, want 6", len(regions))
	}
	if len(edges) != 12 {
		t.Fatalf("edges = %d, want 12", len(edges))
	}
	for _, e := range edges {
		if !e.Convex {
			t.Errorf("edge %v-%v should be convex", e.A, e.B)
		}
		if !approx(e.Angle, math.Pi/2, 1e-9) {
			t.Errorf("edge angle = %f, want pi/2", e.Angle)
		}
		if !approx(e.Length(), 1, 1e-9) {
			t.Errorf("edge length = %f, want 1", e.Length())
		}
	}
}

func TestFeatureEdgesConcave(t *testing.T) {
	// L-shaped block: one inner edge along Y at x=1, z=1.
	m := Union(cube(0, 0, 0, 2, 1, 1), cube(0, 0, 0, 1, 1, 2))
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	edges, _ := m.FeatureEdges(DefaultFeatureAngle)
	concave := 0
	for _, e := range edges {
		if !e.Convex {
			concave++
			if !approx(e.A.X, 1, 1e-9) || !approx(e.A.Z, 1, 1e-9) {
				t.Errorf("unexpected concave edge %v-%v", e.A, e.B)
			}
		}
	}
	if concave != 1 {
		t.Errorf("concave edges = %d, want 1", concave)
	}
}

func TestTriangulate(t *testing.T) {
	m := cube(0, 0, 0, 1, 1, 1)
	tris := m.Triangulate()
	if tris.TriangleCount() != 12 {
		t.Errorf("triangles = %d, want 12", tris.TriangleCount())
	}
	if tris.VertexCount() != 8 {
		t.Errorf("vertices = %d, want 8", tris.VertexCount())
	}
	if len(tris.Normals) != tris.TriangleCount() {
		t.Errorf("normals = %d, want one per triangle", len(tris.Normals))
	}
}

func TestTriangulateCollinear(t *testing.T) {
	// A square with an extra vertex on one edge gets a centroid fan.
	m := &Mesh{
		Vertices: []v3.Vec{{}, {X: 1}, {X: 2}, {X: 2, Y: 2}, {Y: 2}},
		Faces:    [][]int{{0, 1, 2, 3, 4}},
	}
	tris := m.Triangulate()
	if tris.TriangleCount() != 5 {
		t.Errorf("triangles = %d, want 5", tris.TriangleCount())
	}
	if tris.VertexCount() != 6 {
		t.Errorf("vertices = %d, want 6", tris.VertexCount())
	}
}

func TestFromPolygonsStitchesTJunctions(t *testing.T) {
	// A short cube on a long one: the long top face edge picks up the
	// short cube's corners.
	u := Union(cube(0, 0, 0, 4, 1, 1), cube(1, 0, 1, 2, 1, 2))
	if err := Validate(u); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := u.Volume(); !approx(got, 5, 1e-9) {
		t.Errorf("volume = %f, want 5", got)
	}
}

func TestBoxOverlaps(t *testing.T) {
	a := Box{Min: v3.Vec{}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}
	b := Box{Min: v3.Vec{X: 2}, Max: v3.Vec{X: 3, Y: 1, Z: 1}}
	if a.Overlaps(b, 0) {
		t.Error("separated boxes should not overlap")
	}
	if !a.Overlaps(a, 0) {
		t.Error("box should overlap itself")
	}
	if !EmptyBox().IsEmpty() {
		t.Error("EmptyBox should be empty")
	}
	if a.Union(EmptyBox()) != a {
		t.Error("union with empty box should be identity")
	}
}
