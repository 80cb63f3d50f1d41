package mesh

import (
	"errors"
	"fmt"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNotManifold is returned by Validate when some edge is not shared by
// exactly two oppositely oriented faces.
var ErrNotManifold = errors.New("mesh is not a closed 2-manifold")

// Validate checks that m is closed and consistently oriented: every
// directed edge occurs exactly once and its reverse occurs exactly once.
// An empty mesh is valid.
func Validate(m *Mesh) error {
	if m.IsEmpty() {
		return nil
	}
	counts := directedEdges(m)
	var bad [][2]int
	for e, n := range counts {
		if n != 1 || counts[[2]int{e[1], e[0]}] != 1 {
			bad = append(bad, e)
		}
	}
	for _, f := range m.Faces {
		for _, i := range f {
			if !finite(m.Vertices[i]) {
				return fmt.Errorf("%w: non-finite vertex %d", ErrNotManifold, i)
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}
	sort.Slice(bad, func(i, j int) bool {
		if bad[i][0] != bad[j][0] {
			return bad[i][0] < bad[j][0]
		}
		return bad[i][1] < bad[j][1]
	})
	e := bad[0]
	return fmt.Errorf("%w: %d bad edges, first (%d,%d) used %d times, reverse %d times",
		ErrNotManifold, len(bad), e[0], e[1], counts[e], counts[[2]int{e[1], e[0]}])
}

func directedEdges(m *Mesh) map[[2]int]int {
	counts := make(map[[2]int]int)
	for _, f := range m.Faces {
		for k, a := range f {
			counts[[2]int{a, f[(k+1)%len(f)]}]++
		}
	}
	return counts
}

// BoundaryLoops returns the number of closed edge loops bounding the union
// of faces whose normal is within tol of n and whose vertices lie on the
// plane n.p == w. A box top face gives 1; pierced by one hole it gives 2.
func (m *Mesh) BoundaryLoops(n v3.Vec, w, tol float64) int {
	n = n.Normalize()
	inRegion := func(fi int) bool {
		if m.FaceNormal(fi).Dot(n) < 1-tol {
			return false
		}
		for _, i := range m.Faces[fi] {
			if d := n.Dot(m.Vertices[i]) - w; d > tol || d < -tol {
				return false
			}
		}
		return true
	}
	edges := make(map[[2]int]bool)
	for fi, f := range m.Faces {
		if !inRegion(fi) {
			continue
		}
		for k, a := range f {
			edges[[2]int{a, f[(k+1)%len(f)]}] = true
		}
	}
	// Boundary edges are those whose reverse is not in the region.
	next := make(map[int][]int)
	var starts []int
	for e := range edges {
		if !edges[[2]int{e[1], e[0]}] {
			next[e[0]] = append(next[e[0]], e[1])
			starts = append(starts, e[0])
		}
	}
	sort.Ints(starts)
	for k := range next {
		sort.Ints(next[k])
	}
	loops := 0
	for _, s := range starts {
		if len(next[s]) == 0 {
			continue
		}
		loops++
		cur := s
		for len(next[cur]) > 0 {
			nx := next[cur][0]
			next[cur] = next[cur][1:]
			cur = nx
			if cur == s {
				break
			}
		}
	}
	return loops
}
