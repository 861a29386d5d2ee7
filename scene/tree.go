package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeID is the index of a node inside the tree's node pool.
type NodeID int

// Node is a single node in the assembly structure. Nodes own an optional
// local transform, an optional material and any number of shared shapes.
type Node struct {
	id       NodeID
	label    string
	children []NodeID

	transform *mgl32.Mat4
	material  *Material
	shapes    []*Shape
}

// ID returns the id of the node.
func (n *Node) ID() NodeID { return n.id }

// Label returns the label of the node.
func (n *Node) Label() string { return n.label }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Children returns the node ids of the children.
func (n *Node) Children() []NodeID { return n.children }

// SetTransform sets the local transformation of the node.
func (n *Node) SetTransform(transform mgl32.Mat4) {
	t := transform
	n.transform = &t
}

// Transform returns the local transformation of the node or nil.
func (n *Node) Transform() *mgl32.Mat4 { return n.transform }

// SetMaterial assigns a shared material to the node.
func (n *Node) SetMaterial(material *Material) { n.material = material }

// Material returns the material of the node or nil.
func (n *Node) Material() *Material { return n.material }

// AttachShape attaches a shared shape to the node.
func (n *Node) AttachShape(shape *Shape) {
	n.shapes = append(n.shapes, shape)
}

// Shapes returns the shapes attached to the node.
func (n *Node) Shapes() []*Shape { return n.shapes }

func (n *Node) String() string {
	return fmt.Sprintf("Node(%d)[label=%s, #Children=%d, #Shapes=%d]",
		n.id, n.label, len(n.children), len(n.shapes))
}

// Tree holds all nodes of an assembly structure in one pool and tracks the
// root node. Node ids are assigned by the tree at insertion time and never
// invalidated: nodes are only added, never removed.
type Tree struct {
	nodes []Node
	root  NodeID
	valid bool
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// CreateNode creates a new node with the given label and adds it to the tree.
// The first created node becomes the root. Any other node must be attached to
// a parent to be reachable.
func (t *Tree) CreateNode(label string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{id: id, label: label})
	if !t.valid {
		t.root = id
		t.valid = true
	}
	return id
}

// CreateNodeWithParent creates a new node and attaches it to the given parent.
func (t *Tree) CreateNodeWithParent(label string, parent NodeID) NodeID {
	id := t.CreateNode(label)
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// Node returns the node with the given id or nil if the id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// RootID returns the id of the root node and whether a root exists.
func (t *Tree) RootID() (NodeID, bool) { return t.root, t.valid }

// Root returns the root node or nil for an empty tree.
func (t *Tree) Root() *Node {
	if !t.valid {
		return nil
	}
	return &t.nodes[t.root]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }
