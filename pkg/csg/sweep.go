package csg

import (
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// pathTolerance is the distance under which consecutive path control
// points are merged.
const pathTolerance = 1e-9

// Sweep moves profile along the path through the given control points. Two
// points give a straight extrusion; more are interpolated by a centripetal
// Catmull-Rom spline. The profile frame follows the path without twisting.
func Sweep(profile Profile, path []v3.Vec, opts ...Option) *Node {
	o := collect(opts)
	up := v3.Vec{Z: 1}
	if o.up != nil {
		up = *o.up
	}
	d := SweepData{Profile: profile, Path: append([]v3.Vec(nil), path...), Up: up}
	if o.err != nil {
		return failed(NodeSweep, d, o.err)
	}
	if err := profile.Err(); err != nil {
		return failed(NodeSweep, d, err)
	}
	for _, p := range path {
		if !finite(p.X, p.Y, p.Z) {
			return failed(NodeSweep, d, invalid("sweep", "non-finite path point %v", p))
		}
	}
	d.Path = geom.DedupPoints(d.Path, pathTolerance)
	if len(d.Path) < 2 {
		return failed(NodeSweep, d, fmt.Errorf("csg: sweep: %w: path needs two distinct points, got %d", ErrDegenerateSweep, len(d.Path)))
	}
	return newNode(NodeSweep, d)
}

// Extrude sweeps profile straight up from the XY plane to height h. The
// profile's X and Y axes map to world X and Y.
func Extrude(profile Profile, h float64) *Node {
	d := SweepData{Profile: profile, Path: []v3.Vec{{}, {Z: h}}, Up: v3.Vec{Y: 1}, Extrude: true}
	if err := profile.Err(); err != nil {
		return failed(NodeSweep, d, err)
	}
	if !positive(h) {
		return failed(NodeSweep, d, invalid("extrude", "height %g", h))
	}
	return newNode(NodeSweep, d)
}
