package scene

import "testing"

func TestTreeCreateAndTraverse(t *testing.T) {
	tree := NewTree()

	root := tree.CreateNode("root")
	child1 := tree.CreateNodeWithParent("child1", root)
	child2 := tree.CreateNodeWithParent("child2", root)

	if id, ok := tree.RootID(); !ok || id != root {
		t.Fatalf("RootID()=%v,%v; expected %v,true", id, ok, root)
	}

	rootNode := tree.Root()
	if rootNode.Label() != "root" {
		t.Errorf("root label=%q", rootNode.Label())
	}
	if rootNode.IsLeaf() {
		t.Errorf("root should not be a leaf")
	}
	if len(rootNode.Children()) != 2 {
		t.Fatalf("root has %d children; expected 2", len(rootNode.Children()))
	}
	if rootNode.Children()[0] != child1 || rootNode.Children()[1] != child2 {
		t.Errorf("children=%v", rootNode.Children())
	}

	for _, id := range []NodeID{child1, child2} {
		n := tree.Node(id)
		if n == nil || !n.IsLeaf() {
			t.Errorf("node %d should be a leaf", id)
		}
	}

	if tree.Len() != 3 {
		t.Errorf("Len()=%d; expected 3", tree.Len())
	}
	if tree.Node(NodeID(100)) != nil {
		t.Errorf("out-of-range node id should return nil")
	}
}

func TestIDGenerator(t *testing.T) {
	ids := NewIDGenerator()

	s0 := NewShape(ids)
	s1 := NewShape(ids)

	if s0.ID() == s1.ID() {
		t.Errorf("shape ids should differ, both are %d", s0.ID())
	}
}
