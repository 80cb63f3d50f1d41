package csg

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// NodeKind enumerates the types of nodes in a solid tree.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // box, cylinder, cone, sphere
	NodeTransform                 // affine transform of one child
	NodeBoolean                   // union, difference, intersection
	NodeHull                      // convex hull of operands
	NodeSweep                     // profile swept along a path
	NodeRound                     // fillet or chamfer of selected edges
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodeHull:
		return "hull"
	case NodeSweep:
		return "sweep"
	case NodeRound:
		return "round"
	default:
		return "unknown"
	}
}

// NodeID is the content hash of a node: its kind, its payload and the IDs
// of its children.
type NodeID [sha256.Size]byte

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

// String returns the full hex form.
func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 8 hex digits, for logs and error messages.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:4])
}

// Node is one immutable element of a solid tree. The zero value is not
// useful; build nodes with the package constructors.
type Node struct {
	kind     NodeKind
	id       NodeID
	children []*Node
	data     NodeData
	err      error
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
	encode(e *encoder)
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// ID returns the content hash.
func (n *Node) ID() NodeID { return n.id }

// Data returns the kind-specific payload.
func (n *Node) Data() NodeData { return n.data }

// Err returns the construction error carried by this node or any of its
// descendants, or nil.
func (n *Node) Err() error {
	if n == nil {
		return invalid("node", "nil solid")
	}
	return n.err
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns child i.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Label names the node by what it does: the primitive shape, the boolean
// operation, "transform", "hull", "sweep"/"extrude" or "fillet"/"chamfer".
func (n *Node) Label() string {
	switch d := n.data.(type) {
	case PrimitiveData:
		return d.Prim.String()
	case BooleanData:
		return d.Op.String()
	case SweepData:
		if d.Extrude {
			return "extrude"
		}
		return "sweep"
	case RoundData:
		return d.Mode.String()
	}
	return n.kind.String()
}

// newNode hashes and returns a node. A construction error on any child is
// inherited.
func newNode(kind NodeKind, data NodeData, children ...*Node) *Node {
	for _, c := range children {
		if err := c.Err(); err != nil {
			return &Node{kind: kind, data: data, err: err}
		}
	}
	e := newEncoder()
	e.int(int(kind))
	data.encode(e)
	e.int(len(children))
	for _, c := range children {
		e.h.Write(c.id[:])
	}
	n := &Node{kind: kind, data: data, children: children}
	copy(n.id[:], e.h.Sum(nil))
	return n
}

// failed returns an invalid node of the given kind.
func failed(kind NodeKind, data NodeData, err error) *Node {
	return &Node{kind: kind, data: data, err: err}
}

// encoder feeds a canonical byte form of node payloads into a hash.
type encoder struct {
	h   hash.Hash
	buf [8]byte
}

func newEncoder() *encoder {
	return &encoder{h: sha256.New()}
}

func (e *encoder) uint(v uint64) {
	binary.LittleEndian.PutUint64(e.buf[:], v)
	e.h.Write(e.buf[:])
}

func (e *encoder) int(v int) { e.uint(uint64(int64(v))) }

func (e *encoder) float(v float64) {
	if v == 0 {
		v = 0 // fold -0 into +0
	}
	e.uint(math.Float64bits(v))
}

func (e *encoder) bool(v bool) {
	if v {
		e.uint(1)
	} else {
		e.uint(0)
	}
}

func (e *encoder) string(s string) {
	e.int(len(s))
	e.h.Write([]byte(s))
}
