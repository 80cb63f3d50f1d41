package parts

import (
	"context"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/kernel/bsp"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/chazu/kerf/pkg/tessellate"
)

func evaluate(t *testing.T, n *csg.Node, res int) *mesh.Mesh {
	t.Helper()
	m, err := tessellate.New(bsp.New()).Evaluate(context.Background(), n, res)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return m
}

// polygonArea is the area of a regular n-gon of circumradius r.
func polygonArea(r float64, n int) float64 {
	return float64(n) / 2 * r * r * math.Sin(2*math.Pi/float64(n))
}

func TestCatalogBuilds(t *testing.T) {
	for _, e := range Catalog() {
		t.Run(e.Name, func(t *testing.T) {
			n := e.Default().Build()
			if err := n.Err(); err != nil {
				t.Fatalf("construction failed: %v", err)
			}
			if again := e.Default().Build(); again.ID() != n.ID() {
				t.Error("building twice gave different trees")
			}
		})
	}
}

func TestCatalogOrder(t *testing.T) {
	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
	if _, ok := Lookup("spacer"); !ok {
		t.Error("spacer missing from catalog")
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup found an unknown part")
	}
}

func TestSpacerVolume(t *testing.T) {
	const res = 32
	s := DefaultSpacer()
	m := evaluate(t, s.Build(), res)
	want := (polygonArea(s.DiscDiameter/2, res) - s.SquareWidth*s.SquareWidth) * s.Height
	if math.Abs(m.Volume()-want) > 1e-6*want {
		t.Errorf("volume = %g, want %g", m.Volume(), want)
	}
	if m.Genus() != 1 {
		t.Errorf("genus = %d, want 1", m.Genus())
	}
}

func TestHolderVolume(t *testing.T) {
	const res = 24
	h := DefaultHolder()
	m := evaluate(t, h.Build(), res)
	want := (polygonArea(h.OuterDiameter/2, res) - polygonArea(h.InnerDiameter/2, res)) * h.Thickness
	if math.Abs(m.Volume()-want) > 1e-6*want {
		t.Errorf("volume = %g, want %g", m.Volume(), want)
	}
}

func TestHalfCylinder(t *testing.T) {
	const res = 32
	for _, tc := range []struct {
		name string
		c    HalfCylinder
	}{
		{"squat", HalfCylinder{Radius: 5, Height: 4, Epsilon: 0.01}},
		{"catalog default", HalfCylinder{Radius: 5, Height: 10, Epsilon: 0.01}},
		{"tall", HalfCylinder{Radius: 2, Height: 30, Epsilon: 0.01}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.c
			m := evaluate(t, c.Build(), res)
			full := polygonArea(c.Radius, res) * c.Height
			if v := m.Volume(); v > full/2 || v < 0.98*full/2 {
				t.Errorf("volume = %g, want just under %g", v, full/2)
			}
			b := m.Bounds()
			if b.Max.X > -c.Epsilon/2+1e-9 {
				t.Errorf("max X = %g, want at most %g", b.Max.X, -c.Epsilon/2)
			}
			if math.Abs(b.Max.Z-c.Height) > 1e-9 || math.Abs(b.Min.Z) > 1e-9 {
				t.Errorf("z extent = [%g, %g], want [0, %g]", b.Min.Z, b.Max.Z, c.Height)
			}
		})
	}
}

func TestRoundXYBox(t *testing.T) {
	b := RoundXYBox{Length: 30, Width: 20, Height: 10, Radius: 3}
	m := evaluate(t, b.Build(), 32)
	bb := m.Bounds()
	if math.Abs(bb.Max.X-15) > 1e-9 || math.Abs(bb.Min.Y+10) > 1e-9 || math.Abs(bb.Max.Z-10) > 1e-9 {
		t.Errorf("bounds = %v", bb)
	}
	// Straight sides plus one whole polygon made of the four corners.
	want := (30*20 - 4*3*3 + polygonArea(3, 32)) * 10
	if math.Abs(m.Volume()-want) > 1e-6*want {
		t.Errorf("volume = %g, want %g", m.Volume(), want)
	}
}

func TestStopperIsOneShell(t *testing.T) {
	m := evaluate(t, DefaultStopper().Build(), 12)
	if m.Shells() != 1 || m.Genus() != 0 {
		t.Errorf("shells=%d genus=%d", m.Shells(), m.Genus())
	}
	if b := m.Bounds(); math.Abs(b.Max.Z-43) > 1e-9 {
		t.Errorf("top = %g, want 43", b.Max.Z)
	}
}

func TestSpringPath(t *testing.T) {
	s := DefaultSpring()
	path := s.Path()
	wantY := []float64{0, 1.5, 0, -1.5, 0}
	if len(path) != len(wantY) {
		t.Fatalf("path has %d points", len(path))
	}
	for i, p := range path {
		if p.X != float64(i)*2 || p.Y != wantY[i] || p.Z != 0 {
			t.Errorf("point %d = %v", i, p)
		}
	}
	m := evaluate(t, s.Build(), 16)
	if m.Shells() != 1 {
		t.Errorf("shells = %d", m.Shells())
	}
}

func TestCounterboreHole(t *testing.T) {
	h := CounterboreHole{Diameter: 3.5, CboreDiameter: 5.5, CboreDepth: 3, Depth: 10, Epsilon: 0.01}
	plate := csg.Difference(csg.CenteredBox(20, 20, 5), csg.Up(h.Build(), 5))
	m := evaluate(t, plate, 16)
	if m.Genus() != 1 {
		t.Errorf("genus = %d, want a through hole", m.Genus())
	}
	want := 2000 - polygonArea(5.5/2, 16)*3 - polygonArea(3.5/2, 16)*2
	if math.Abs(m.Volume()-want) > 1e-6*want {
		t.Errorf("volume = %g, want %g", m.Volume(), want)
	}
}

func TestTSlotFootHoles(t *testing.T) {
	m := evaluate(t, DefaultTSlotFoot().Build(), 16)
	if m.Genus() != 2 {
		t.Errorf("genus = %d, want 2", m.Genus())
	}
}

func TestBlockHoles(t *testing.T) {
	b := DefaultBlock()
	m := evaluate(t, b.Build(), 8)
	if m.Shells() != 1 || m.Genus() != 2 {
		t.Errorf("shells=%d genus=%d, want 1 and 2", m.Shells(), m.Genus())
	}
	if bb := m.Bounds(); math.Abs(bb.Min.Y-b.Trim) > 1e-9 {
		t.Errorf("front face at y = %g, want %g", bb.Min.Y, b.Trim)
	}
}

func TestCamLeverReach(t *testing.T) {
	c := DefaultCamLever()
	m := evaluate(t, c.Build(), 16)
	if m.Shells() != 1 || m.Genus() != 1 {
		t.Errorf("shells=%d genus=%d, want 1 and 1", m.Shells(), m.Genus())
	}
	if bb := m.Bounds(); math.Abs(bb.Max.X-c.Reach()) > 1e-9 || math.Abs(bb.Max.X-33) > 1e-9 {
		t.Errorf("arm tip at x = %g, want 33", bb.Max.X)
	}
}

func TestCamTop(t *testing.T) {
	c := DefaultCam()
	if got := c.Top(); math.Abs(got-39.499) > 1e-9 {
		t.Errorf("top = %g, want 39.499", got)
	}
	if err := c.Build().Err(); err != nil {
		t.Fatalf("construction failed: %v", err)
	}
}

// contains reports whether want occurs anywhere in the tree under n.
func contains(n, want *csg.Node) bool {
	found := false
	csg.Walk(n, func(_ string, c *csg.Node, _ int) bool {
		if c.ID() == want.ID() {
			found = true
		}
		return !found
	})
	return found
}

func TestLidDrillsAfterTubes(t *testing.T) {
	l := DefaultLid()
	root := l.Build()
	if err := root.Err(); err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	for _, tc := range []struct {
		name       string
		tube, hole *csg.Node
	}{
		{"led", l.ledTube(), l.ledHole()},
		{"plug", l.plugTube(), l.plugHole()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			drilled := false
			csg.Walk(root, func(_ string, n *csg.Node, _ int) bool {
				ch := n.Children()
				if n.Kind() != csg.NodeBoolean || !strings.HasPrefix(n.Describe(), "difference") {
					return true
				}
				for _, c := range ch[1:] {
					if c.ID() == tc.hole.ID() && contains(ch[0], tc.tube) {
						drilled = true
					}
				}
				return true
			})
			if !drilled {
				t.Errorf("%s hole is not cut through its tube:\n%s", tc.name, csg.Format(root))
			}
		})
	}
}

func TestUSBCatchFilletsBeforeCutting(t *testing.T) {
	root := DefaultUSBCatch().Build()
	if err := root.Err(); err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if got := root.Describe(); got != "difference of 3" {
		t.Fatalf("root = %q, want the body less the hole and the notch", got)
	}
	if got := root.Children()[0].Describe(); got != "fillet |Z r=0.5" {
		t.Errorf("body = %q, want its vertical edges filleted", got)
	}
}
