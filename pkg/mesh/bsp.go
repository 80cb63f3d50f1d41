package mesh

// bspNode is one node of a binary space partitioning tree over polygons.
// Every polygon coplanar with the node's plane is stored at the node; the
// rest go to the front or back subtree.
type bspNode struct {
	plane    Plane
	hasPlane bool
	front    *bspNode
	back     *bspNode
	polygons []Polygon
}

func newBSP(polys []Polygon) *bspNode {
	n := &bspNode{}
	n.build(polys)
	return n
}

// invert converts solid space to empty space and vice versa.
func (n *bspNode) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flip()
	}
	if n.hasPlane {
		n.plane = n.plane.flip()
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons removes the parts of polys that lie inside the solid
// represented by this tree.
func (n *bspNode) clipPolygons(polys []Polygon) []Polygon {
	if !n.hasPlane {
		return append([]Polygon(nil), polys...)
	}
	var fr, bk []Polygon
	for _, p := range polys {
		n.plane.splitPolygon(p, &fr, &bk, &fr, &bk)
	}
	if n.front != nil {
		fr = n.front.clipPolygons(fr)
	}
	if n.back != nil {
		bk = n.back.clipPolygons(bk)
	} else {
		bk = nil
	}
	return append(fr, bk...)
}

// clipTo removes every polygon of this tree that lies inside other.
func (n *bspNode) clipTo(other *bspNode) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

func (n *bspNode) allPolygons() []Polygon {
	out := append([]Polygon(nil), n.polygons...)
	if n.front != nil {
		out = append(out, n.front.allPolygons()...)
	}
	if n.back != nil {
		out = append(out, n.back.allPolygons()...)
	}
	return out
}

// build inserts polys into the tree. The first polygon's plane becomes the
// splitting plane of an empty node.
func (n *bspNode) build(polys []Polygon) {
	if len(polys) == 0 {
		return
	}
	if !n.hasPlane {
		n.plane = polys[0].Plane
		n.hasPlane = true
	}
	var fr, bk []Polygon
	for _, p := range polys {
		n.plane.splitPolygon(p, &n.polygons, &n.polygons, &fr, &bk)
	}
	if len(fr) > 0 {
		if n.front == nil {
			n.front = &bspNode{}
		}
		n.front.build(fr)
	}
	if len(bk) > 0 {
		if n.back == nil {
			n.back = &bspNode{}
		}
		n.back.build(bk)
	}
}
