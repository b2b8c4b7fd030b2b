package indexer

// treeNode is one vantage point of the build-time tree. Children are arena
// indices; -1 marks an absent subtree.
type treeNode struct {
	vantage int32
	radius  float64
	left    int32
	right   int32
}

// IsLeaf reports whether the node has no children.
func (n treeNode) IsLeaf() bool { return n.left < 0 && n.right < 0 }

// Node is the exported view of a tree node or linear entry.
type Node struct {
	Vantage int     // store position of the vantage record
	Radius  float64 // partition radius
	Left    int     // -1 when absent
	Right   int     // -1 when absent
}
