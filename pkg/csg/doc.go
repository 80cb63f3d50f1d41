// Package csg defines the solid expression tree for kerf.
//
// A solid is an immutable *Node built by the constructors in this package:
// primitives (Box, Cylinder, Sphere, ...), transforms (Translate, Rotate,
// Mirror), booleans (Union, Difference, Intersection), Hull, Sweep/Extrude
// and Fillet/Chamfer. Nodes are content addressed: two structurally equal
// trees have equal IDs, which the evaluator uses as its cache key.
//
// Construction never panics. An invalid parameter yields a node whose Err
// is set; every composite built on top of it carries the same error, and
// evaluation fails before doing any geometry work.
package csg
