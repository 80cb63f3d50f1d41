package csg

// Union returns the union of the operands. Nested unions are flattened into
// one n-ary node, and a single operand is returned unchanged.
func Union(operands ...*Node) *Node {
	return associative(OpUnion, operands)
}

// Intersection returns the volume common to all operands. Nested
// intersections are flattened and a single operand is returned unchanged.
func Intersection(operands ...*Node) *Node {
	return associative(OpIntersection, operands)
}

func associative(op BoolOp, operands []*Node) *Node {
	d := BooleanData{Op: op}
	if len(operands) == 0 {
		return failed(NodeBoolean, d, invalid(op.String(), "no operands"))
	}
	flat := make([]*Node, 0, len(operands))
	for _, s := range operands {
		if err := s.Err(); err != nil {
			return failed(NodeBoolean, d, err)
		}
		if bd, ok := s.data.(BooleanData); ok && bd.Op == op {
			flat = append(flat, s.children...)
			continue
		}
		flat = append(flat, s)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return newNode(NodeBoolean, d, flat...)
}

// Difference returns base minus the union of the cutters. Differences nest
// left-first: Difference(Difference(a, b), c) is Difference(a, b, c), and
// union cutters are spliced into the cutter list. With no cutters the base
// is returned unchanged.
func Difference(base *Node, cutters ...*Node) *Node {
	d := BooleanData{Op: OpDifference}
	if err := base.Err(); err != nil {
		return failed(NodeBoolean, d, err)
	}
	if len(cutters) == 0 {
		return base
	}
	children := []*Node{base}
	if bd, ok := base.data.(BooleanData); ok && bd.Op == OpDifference {
		children = append([]*Node(nil), base.children...)
	}
	for _, c := range cutters {
		if err := c.Err(); err != nil {
			return failed(NodeBoolean, d, err)
		}
		if bd, ok := c.data.(BooleanData); ok && bd.Op == OpUnion {
			children = append(children, c.children...)
			continue
		}
		children = append(children, c)
	}
	return newNode(NodeBoolean, d, children...)
}

// Hull returns the convex hull of all operand vertices. Nested hulls are
// flattened since the hull of hulls is the hull of their points.
func Hull(operands ...*Node) *Node {
	d := HullData{}
	if len(operands) == 0 {
		return failed(NodeHull, d, invalid("hull", "no operands"))
	}
	flat := make([]*Node, 0, len(operands))
	for _, s := range operands {
		if err := s.Err(); err != nil {
			return failed(NodeHull, d, err)
		}
		if _, ok := s.data.(HullData); ok {
			flat = append(flat, s.children...)
			continue
		}
		flat = append(flat, s)
	}
	return newNode(NodeHull, d, flat...)
}
