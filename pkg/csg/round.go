package csg

// Fillet replaces the edges of s matched by sel with circular blends of
// radius r. Convex edges are cut away, concave edges are filled.
func Fillet(s *Node, sel EdgeSelector, r float64) *Node {
	return round(ModeFillet, s, sel, r)
}

// Chamfer bevels the edges of s matched by sel, setting each face back by
// r from the edge.
func Chamfer(s *Node, sel EdgeSelector, r float64) *Node {
	return round(ModeChamfer, s, sel, r)
}

func round(mode RoundMode, s *Node, sel EdgeSelector, r float64) *Node {
	d := RoundData{Mode: mode, Selector: sel, Radius: r}
	if err := s.Err(); err != nil {
		return failed(NodeRound, d, err)
	}
	if sel == nil {
		return failed(NodeRound, d, invalid(mode.String(), "nil edge selector"))
	}
	if !positive(r) {
		return failed(NodeRound, d, invalid(mode.String(), "radius %g", r))
	}
	return newNode(NodeRound, d, s)
}
