package mesh

// Booleans operate on closed, outward-oriented meshes. Inputs whose
// bounding boxes do not overlap skip the BSP work entirely.

// Union returns the union of ms, reduced as a balanced pairwise tree so
// each BSP merge handles operands of similar size.
func Union(ms ...*Mesh) *Mesh {
	parts := make([]*Mesh, 0, len(ms))
	for _, m := range ms {
		if !m.IsEmpty() {
			parts = append(parts, m)
		}
	}
	switch len(parts) {
	case 0:
		return Empty()
	case 1:
		return parts[0]
	}
	for len(parts) > 1 {
		next := make([]*Mesh, 0, (len(parts)+1)/2)
		for i := 0; i+1 < len(parts); i += 2 {
			next = append(next, union2(parts[i], parts[i+1]))
		}
		if len(parts)%2 == 1 {
			next = append(next, parts[len(parts)-1])
		}
		parts = next
	}
	return parts[0]
}

// Difference returns a minus the union of cutters.
func Difference(a *Mesh, cutters ...*Mesh) *Mesh {
	if a.IsEmpty() {
		return Empty()
	}
	ab := a.Bounds()
	live := make([]*Mesh, 0, len(cutters))
	for _, c := range cutters {
		if !c.IsEmpty() && ab.Overlaps(c.Bounds(), planeEpsilon) {
			live = append(live, c)
		}
	}
	if len(live) == 0 {
		return a
	}
	return difference2(a, Union(live...))
}

// Intersection returns the common volume of ms.
func Intersection(ms ...*Mesh) *Mesh {
	if len(ms) == 0 {
		return Empty()
	}
	acc := ms[0]
	for _, m := range ms[1:] {
		if acc.IsEmpty() || m.IsEmpty() {
			return Empty()
		}
		acc = intersect2(acc, m)
	}
	return acc
}

func union2(a, b *Mesh) *Mesh {
	if !a.Bounds().Overlaps(b.Bounds(), planeEpsilon) {
		return Merge(a, b)
	}
	ta := newBSP(a.Polygons())
	tb := newBSP(b.Polygons())
	ta.clipTo(tb)
	tb.clipTo(ta)
	tb.invert()
	tb.clipTo(ta)
	tb.invert()
	ta.build(tb.allPolygons())
	return FromPolygons(ta.allPolygons())
}

func difference2(a, b *Mesh) *Mesh {
	ta := newBSP(a.Polygons())
	tb := newBSP(b.Polygons())
	ta.invert()
	ta.clipTo(tb)
	tb.clipTo(ta)
	tb.invert()
	tb.clipTo(ta)
	tb.invert()
	ta.build(tb.allPolygons())
	ta.invert()
	return FromPolygons(ta.allPolygons())
}

func intersect2(a, b *Mesh) *Mesh {
	if !a.Bounds().Overlaps(b.Bounds(), planeEpsilon) {
		return Empty()
	}
	ta := newBSP(a.Polygons())
	tb := newBSP(b.Polygons())
	ta.invert()
	tb.clipTo(ta)
	tb.invert()
	ta.clipTo(tb)
	tb.clipTo(ta)
	ta.build(tb.allPolygons())
	ta.invert()
	return FromPolygons(ta.allPolygons())
}
