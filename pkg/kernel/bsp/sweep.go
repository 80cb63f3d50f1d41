package bsp

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// sweepTolerance is the relative slack allowed by the fold and proximity
// checks, so sections that exactly touch are not rejected.
const sweepTolerance = 1e-9

// Sweep moves profile along the path through ctrl. The profile is carried by
// rotation-minimizing frames, its Y axis starting along up projected off the
// first tangent, and every sample gets a congruent copy of it.
func (k *Kernel) Sweep(profile []v2.Vec, ctrl []v3.Vec, up v3.Vec, steps int) (kernel.Solid, error) {
	if err := geom.CheckSimple(profile); err != nil {
		return nil, fmt.Errorf("bsp: sweep: %w: profile: %v", csg.ErrDegenerateSweep, err)
	}
	profile = geom.CCW(profile)

	pts := geom.DedupPoints(geom.SamplePath(ctrl, steps), 1e-9)
	if len(pts) < 2 {
		return nil, fmt.Errorf("bsp: sweep: %w: path has %d distinct points", csg.ErrDegenerateSweep, len(pts))
	}
	frames := geom.RotationMinimizingFrames(pts, up)
	if err := checkFolds(profile, frames); err != nil {
		return nil, err
	}
	if err := checkProximity(profile, frames); err != nil {
		return nil, err
	}
	return loft(profile, frames)
}

// extent returns how far the profile placed in f reaches along dir.
func extent(profile []v2.Vec, f geom.Frame, dir v3.Vec) float64 {
	best := 0.0
	for _, p := range profile {
		best = math.Max(best, f.Place(p).Sub(f.Origin).Dot(dir))
	}
	return best
}

// checkFolds rejects paths that bend tighter than the profile reaches on the
// inside of the bend, which would fold consecutive sections through each
// other. The local radius is the circumradius of three consecutive samples.
func checkFolds(profile []v2.Vec, frames []geom.Frame) error {
	for i := 1; i+1 < len(frames); i++ {
		p0, p1, p2 := frames[i-1].Origin, frames[i].Origin, frames[i+1].Origin
		a, b := p1.Sub(p0), p2.Sub(p1)
		area2 := a.Cross(p2.Sub(p0)).Length()
		if area2 <= 1e-12*a.Length()*b.Length() {
			continue
		}
		radius := a.Length() * b.Length() * p2.Sub(p0).Length() / (2 * area2)
		inward := b.Normalize().Sub(a.Normalize()).Normalize()
		if e := extent(profile, frames[i], inward); radius < e*(1-sweepTolerance) {
			return fmt.Errorf("bsp: sweep: %w: path bends with radius %.4g at sample %d, profile reaches %.4g inward",
				csg.ErrDegenerateSweep, radius, i, e)
		}
	}
	return nil
}

// checkProximity rejects paths that come back near themselves. Two samples
// conflict when their distance is below the sum of the profile's extents
// toward each other while the path between them is longer than any
// admissible bend could make it.
func checkProximity(profile []v2.Vec, frames []geom.Frame) error {
	n := len(frames)
	arc := make([]float64, n)
	for i := 1; i < n; i++ {
		arc[i] = arc[i-1] + frames[i].Origin.Sub(frames[i-1].Origin).Length()
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			d := frames[j].Origin.Sub(frames[i].Origin)
			dist := d.Length()
			if dist == 0 {
				return fmt.Errorf("bsp: sweep: %w: path revisits sample %d at %d", csg.ErrDegenerateSweep, i, j)
			}
			dir := d.MulScalar(1 / dist)
			reach := extent(profile, frames[i], dir) + extent(profile, frames[j], dir.MulScalar(-1))
			if dist >= reach*(1-sweepTolerance) {
				continue
			}
			if arc[j]-arc[i] > math.Pi/2*reach*(1+sweepTolerance) {
				return fmt.Errorf("bsp: sweep: %w: samples %d and %d are %.4g apart, profile needs %.4g",
					csg.ErrDegenerateSweep, i, j, dist, reach)
			}
		}
	}
	return nil
}

// loft joins congruent copies of a counter-clockwise profile placed in each
// frame into a closed solid. Lateral quads are split into triangles and the
// end caps are ear-clipped.
func loft(profile []v2.Vec, frames []geom.Frame) (*mesh.Mesh, error) {
	tris, err := geom.Triangulate(profile)
	if err != nil {
		return nil, fmt.Errorf("bsp: loft: %w: profile: %v", csg.ErrDegenerateSweep, err)
	}
	n := len(profile)
	verts := make([]v3.Vec, 0, n*len(frames))
	for _, f := range frames {
		for _, p := range profile {
			verts = append(verts, f.Place(p))
		}
	}
	faces := make([][]int, 0, 2*len(tris)+2*n*(len(frames)-1))
	last := (len(frames) - 1) * n
	for _, t := range tris {
		faces = append(faces, []int{t[2], t[1], t[0]})
		faces = append(faces, []int{last + t[0], last + t[1], last + t[2]})
	}
	for s := 0; s+1 < len(frames); s++ {
		lo, hi := s*n, (s+1)*n
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			a, b, c, d := lo+i, lo+j, hi+j, hi+i
			faces = append(faces, []int{a, b, c}, []int{a, c, d})
		}
	}
	return mesh.FromFaces(verts, faces), nil
}

// prism extrudes a counter-clockwise section in the (U, V) plane of f along
// f.T by length.
func prism(section []v2.Vec, f geom.Frame, length float64) (*mesh.Mesh, error) {
	g := f
	g.Origin = f.Origin.Add(f.T.MulScalar(length))
	return loft(section, []geom.Frame{f, g})
}
