package geom

import (
	"errors"
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func near(a, b v3.Vec, tol float64) bool {
	return a.Sub(b).Length() <= tol
}

func TestEulerOrder(t *testing.T) {
	// X first, then Z: +Y goes to +Z under Rx(90), which Rz(90) leaves alone.
	r := Euler(v3.Vec{X: 90, Z: 90})
	if got := r.Apply(v3.Vec{Y: 1}); !near(got, v3.Vec{Z: 1}, 1e-12) {
		t.Errorf("Euler(90,0,90) * +Y = %v, want +Z", got)
	}
	// +X is untouched by Rx and sent to +Y by Rz.
	if got := r.Apply(v3.Vec{X: 1}); !near(got, v3.Vec{Y: 1}, 1e-12) {
		t.Errorf("Euler(90,0,90) * +X = %v, want +Y", got)
	}
}

func TestEulerAnglesRoundTrip(t *testing.T) {
	tests := []v3.Vec{
		{X: 10, Y: 20, Z: 30},
		{X: -45, Y: 5, Z: 170},
		{Y: 90},
		{},
	}
	for _, deg := range tests {
		r := Euler(deg)
		x, y, z := r.EulerAngles()
		back := Euler(v3.Vec{X: x * 180 / math.Pi, Y: y * 180 / math.Pi, Z: z * 180 / math.Pi})
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if math.Abs(r[i][j]-back[i][j]) > 1e-9 {
					t.Fatalf("round trip of %v differs at [%d][%d]: %f vs %f", deg, i, j, r[i][j], back[i][j])
				}
			}
		}
	}
}

func TestMatrixCompose(t *testing.T) {
	m := Translation(v3.Vec{X: 1}).Mul(Translation(v3.Vec{Y: 2}))
	if got := m.TranslationPart(); got != (v3.Vec{X: 1, Y: 2}) {
		t.Errorf("composed translation = %v", got)
	}
	if !Identity().IsIdentity() {
		t.Error("Identity should be identity")
	}
	if d := Reflection(v3.Vec{Z: 2}).Determinant(); d != -1 {
		t.Errorf("reflection determinant = %f, want -1", d)
	}
	if !Euler(v3.Vec{X: 33, Y: 12}).IsOrthogonal(1e-12) {
		t.Error("rotation should be orthogonal")
	}
	if Scaling(v3.Vec{X: 2, Y: 1, Z: 1}).IsOrthogonal(1e-12) {
		t.Error("scale should not be orthogonal")
	}
	var bad Matrix
	bad[0][0] = math.NaN()
	if bad.IsFinite() {
		t.Error("NaN matrix should not be finite")
	}
}

func TestCheckSimple(t *testing.T) {
	tests := []struct {
		name string
		pts  []v2.Vec
		ok   bool
	}{
		{"square", []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, true},
		{"clockwise square", []v2.Vec{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}, true},
		{"bowtie", []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}, false},
		{"two points", []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}, false},
		{"collinear", []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, false},
		{"repeated vertex", []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSimple(tt.pts)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrNotSimple) {
				t.Fatalf("expected ErrNotSimple, got %v", err)
			}
		})
	}
}

func TestTriangulateConcave(t *testing.T) {
	// An L shape: 6 vertices, 4 triangles, total area 3.
	pts := []v2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	tris, err := Triangulate(pts)
	if err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	if len(tris) != 4 {
		t.Fatalf("triangles = %d, want 4", len(tris))
	}
	var area float64
	for _, tr := range tris {
		a := SignedArea([]v2.Vec{pts[tr[0]], pts[tr[1]], pts[tr[2]]})
		if a <= 0 {
			t.Errorf("triangle %v is not counter-clockwise", tr)
		}
		area += a
	}
	if math.Abs(area-3) > 1e-12 {
		t.Errorf("area = %f, want 3", area)
	}

	// Clockwise input still yields counter-clockwise triangles.
	rev := Reversed(pts)
	tris, err = Triangulate(rev)
	if err != nil {
		t.Fatalf("Triangulate reversed: %v", err)
	}
	for _, tr := range tris {
		if SignedArea([]v2.Vec{rev[tr[0]], rev[tr[1]], rev[tr[2]]}) <= 0 {
			t.Errorf("triangle %v is not counter-clockwise", tr)
		}
	}
}

func TestSamplePath(t *testing.T) {
	ctrl := []v3.Vec{{}, {X: 1, Y: 1}, {X: 2}, {X: 3, Y: 1}}
	pts := SamplePath(ctrl, 8)
	if len(pts) != 3*8+1 {
		t.Fatalf("samples = %d, want %d", len(pts), 3*8+1)
	}
	if pts[0] != ctrl[0] || pts[len(pts)-1] != ctrl[3] {
		t.Error("path must start and end on the control points")
	}
	// Interior control points are interpolated.
	if !near(pts[8], ctrl[1], 1e-12) || !near(pts[16], ctrl[2], 1e-12) {
		t.Error("spline should pass through interior control points")
	}

	line := SamplePath([]v3.Vec{{}, {Z: 5}}, 8)
	if len(line) != 2 {
		t.Errorf("two control points should stay a single segment, got %d", len(line))
	}
}

func TestDedupPoints(t *testing.T) {
	pts := DedupPoints([]v3.Vec{{}, {}, {X: 1}, {X: 1 + 1e-12}, {X: 2}}, 1e-9)
	if len(pts) != 3 {
		t.Errorf("deduped = %d points, want 3", len(pts))
	}
}

func TestRotationMinimizingFrames(t *testing.T) {
	// A straight path along +Z keeps the initial frame.
	frames := RotationMinimizingFrames([]v3.Vec{{}, {Z: 1}, {Z: 2}}, v3.Vec{Y: 1})
	for i, f := range frames {
		if !near(f.U, v3.Vec{X: 1}, 1e-12) || !near(f.V, v3.Vec{Y: 1}, 1e-12) {
			t.Errorf("frame %d = U %v V %v, want +X +Y", i, f.U, f.V)
		}
	}

	// Along a quarter circle every frame stays orthonormal and right-handed.
	var arc []v3.Vec
	for i := 0; i <= 16; i++ {
		a := float64(i) / 16 * math.Pi / 2
		arc = append(arc, v3.Vec{X: 10 * math.Cos(a), Y: 10 * math.Sin(a)})
	}
	for i, f := range RotationMinimizingFrames(arc, v3.Vec{Z: 1}) {
		if math.Abs(f.U.Length()-1) > 1e-9 || math.Abs(f.V.Length()-1) > 1e-9 {
			t.Errorf("frame %d not unit length", i)
		}
		if math.Abs(f.U.Dot(f.V)) > 1e-9 || math.Abs(f.V.Dot(f.T)) > 1e-9 {
			t.Errorf("frame %d not orthogonal", i)
		}
		if !near(f.U.Cross(f.V), f.T, 1e-9) {
			t.Errorf("frame %d not right-handed", i)
		}
		// Planar curve: the binormal stays +Z.
		if !near(f.V, v3.Vec{Z: 1}, 1e-6) {
			t.Errorf("frame %d twisted: V = %v", i, f.V)
		}
	}
}

func TestInitialNormalFallback(t *testing.T) {
	// up parallel to the tangent falls back to +Y.
	if got := initialNormal(v3.Vec{Z: 1}, v3.Vec{Z: 1}); !near(got, v3.Vec{Y: 1}, 1e-12) {
		t.Errorf("fallback normal = %v, want +Y", got)
	}
	if got := initialNormal(v3.Vec{Y: 1}, v3.Vec{Y: 1}); !near(got, v3.Vec{X: 1}, 1e-12) {
		t.Errorf("second fallback normal = %v, want +X", got)
	}
}

func TestSegmentDistance(t *testing.T) {
	d, _, _ := SegmentDistance(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1, Z: -1}, v3.Vec{Y: 1, Z: 1})
	if math.Abs(d-1) > 1e-12 {
		t.Errorf("distance = %f, want 1", d)
	}
	d, _, _ = SegmentDistance(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{X: 3}, v3.Vec{X: 4})
	if math.Abs(d-2) > 1e-12 {
		t.Errorf("distance = %f, want 2", d)
	}
}
