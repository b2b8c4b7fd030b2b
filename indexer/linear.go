package indexer

import (
	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/indexer/store"
	"github.com/ic-timon/vpsearch/seqdb"
)

// LinearIndex is the flattened tree: four parallel arrays in pre-order with
// the root at entry 0. Entry i's left subtree occupies the block right after
// it and its right subtree follows that block.
//
// A LinearIndex is immutable and safe for concurrent searches. One returned
// by Load reads its arrays straight from the mapped file until Close.
type LinearIndex struct {
	vantage []int32
	radii   []float64
	left    []int32
	right   []int32

	store   *seqdb.Store
	scorer  align.Scorer
	cfg     *Config
	mapping store.Mapping // non-nil when loaded from disk
}

// Linearize flattens tree into its array form.
func Linearize(tree *Tree) *LinearIndex {
	n := tree.Len()
	ix := &LinearIndex{
		vantage: make([]int32, n),
		radii:   make([]float64, n),
		left:    make([]int32, n),
		right:   make([]int32, n),
		store:   tree.store,
		scorer:  tree.scorer,
		cfg:     DefaultConfig(),
	}
	next := int32(0)
	var place func(node int32) int32
	place = func(node int32) int32 {
		if node < 0 {
			return -1
		}
		n := tree.nodes[node]
		slot := next
		next++
		ix.vantage[slot] = n.vantage
		ix.radii[slot] = n.radius
		ix.left[slot] = place(n.left)
		ix.right[slot] = place(n.right)
		return slot
	}
	place(tree.root)
	return ix
}

// Len returns the number of entries (and records).
func (ix *LinearIndex) Len() int { return len(ix.vantage) }

// Entry returns entry i.
func (ix *LinearIndex) Entry(i int) Node {
	return Node{
		Vantage: int(ix.vantage[i]),
		Radius:  ix.radii[i],
		Left:    int(ix.left[i]),
		Right:   int(ix.right[i]),
	}
}

// Store returns the indexed records.
func (ix *LinearIndex) Store() *seqdb.Store { return ix.store }

// Scorer returns the scorer distances are computed with.
func (ix *LinearIndex) Scorer() align.Scorer { return ix.scorer }

// Close releases the file mapping of a loaded index. The index must not be
// searched afterwards. It is a no-op for an in-memory index.
func (ix *LinearIndex) Close() error {
	if ix.mapping == nil {
		return nil
	}
	err := ix.mapping.Close()
	ix.mapping = nil
	ix.vantage, ix.radii, ix.left, ix.right = nil, nil, nil, nil
	return err
}
