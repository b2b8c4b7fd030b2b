package indexer

import (
	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/seqdb"
)

// Tree is a built vantage-point tree held in an arena. It is discarded once
// linearized.
type Tree struct {
	nodes  []treeNode
	root   int32
	store  *seqdb.Store
	scorer align.Scorer
}

// Len returns the number of nodes, which equals the number of records.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the arena index of the root, or -1 for an empty tree.
func (t *Tree) Root() int { return int(t.root) }

// Node returns arena node i.
func (t *Tree) Node(i int) Node {
	n := t.nodes[i]
	return Node{Vantage: int(n.vantage), Radius: n.radius, Left: int(n.left), Right: int(n.right)}
}

// Store returns the records the tree was built over.
func (t *Tree) Store() *seqdb.Store { return t.store }

// walk visits the subtree at i in pre-order.
func (t *Tree) walk(i int32, fn func(i int32, n treeNode)) {
	for i >= 0 {
		n := t.nodes[i]
		fn(i, n)
		t.walk(n.left, fn)
		i = n.right
	}
}
