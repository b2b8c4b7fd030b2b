package indexer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/seqdb"
)

// Builder partitions a store into a vantage-point tree.
//
// The first record of every subset is its vantage point and the radius is
// the lower median of the distances to the rest, so every radius is an
// observed distance. Records within the radius go left, the others right,
// both keeping store order. Construction is deterministic.
type Builder struct {
	scorer   align.Scorer
	store    *seqdb.Store
	cfg      *Config
	nodes    []treeNode
	dists    []float64
	sorted   []float64
	placed   int
	maxDepth int
}

// NewBuilder creates a builder. cfg may be nil.
func NewBuilder(store *seqdb.Store, scorer align.Scorer, cfg *Config) *Builder {
	return &Builder{
		scorer: scorer,
		store:  store,
		cfg:    cfg.OrDefault(),
		nodes:  make([]treeNode, 0, store.Len()),
	}
}

// Build constructs the tree over every record in store order.
func Build(store *seqdb.Store, scorer align.Scorer, cfg *Config) (*Tree, error) {
	return NewBuilder(store, scorer, cfg).Build()
}

// Build runs the partitioning. A Builder is single use.
func (b *Builder) Build() (*Tree, error) {
	if len(b.nodes) > 0 {
		return nil, vpsearch.BuildError("build", fmt.Errorf("builder already used"))
	}
	n := b.store.Len()
	set := make([]int32, n)
	for i := range set {
		set[i] = int32(i)
	}
	root, err := b.build(set, 0)
	if err != nil {
		return nil, err
	}
	if len(b.nodes) != n {
		return nil, vpsearch.BuildError("build", fmt.Errorf("placed %d of %d records", len(b.nodes), n))
	}
	return &Tree{nodes: b.nodes, root: root, store: b.store, scorer: b.scorer}, nil
}

// MaxDepth returns the deepest level reached by the last Build.
func (b *Builder) MaxDepth() int { return b.maxDepth }

func (b *Builder) build(set []int32, depth int) (int32, error) {
	if len(set) == 0 {
		return -1, nil
	}
	b.maxDepth = max(b.maxDepth, depth)
	vp := set[0]
	id := int32(len(b.nodes))
	b.nodes = append(b.nodes, treeNode{vantage: vp, left: -1, right: -1})
	b.placed++
	b.cfg.progress(b.placed, b.store.Len())
	if len(set) == 1 {
		return id, nil
	}

	rest := set[1:]
	dists := b.distances(vp, rest)
	radius := b.lowerMedian(dists)
	left, right := partition(rest, dists, radius)
	if len(right) == 0 && len(left) >= 2 {
		left, right = splitTies(rest, dists, radius)
	}
	if len(left) >= len(set) || len(right) >= len(set) {
		return -1, vpsearch.BuildError("build", fmt.Errorf("partition of %d records around %d did not shrink", len(set), vp))
	}
	b.nodes[id].radius = radius

	l, err := b.build(left, depth+1)
	if err != nil {
		return -1, err
	}
	r, err := b.build(right, depth+1)
	if err != nil {
		return -1, err
	}
	b.nodes[id].left = l
	b.nodes[id].right = r
	return id, nil
}

// distances returns d(vp, x) for x in rest. The slice is reused by the next call.
func (b *Builder) distances(vp int32, rest []int32) []float64 {
	if cap(b.dists) < len(rest) {
		b.dists = make([]float64, len(rest))
	}
	dists := b.dists[:len(rest)]
	v := b.store.Get(int(vp))
	for i, x := range rest {
		r := b.store.Get(int(x))
		dists[i] = Distance(b.scorer.Score(v.Seq, r.Seq), v.SelfScore, r.SelfScore)
	}
	return dists
}

func (b *Builder) lowerMedian(dists []float64) float64 {
	b.sorted = append(b.sorted[:0], dists...)
	slices.Sort(b.sorted)
	return b.sorted[(len(b.sorted)-1)/2]
}

// partition splits rest by d <= radius. Both sides keep the input order and
// are freshly allocated, so the scratch distances may be reused.
func partition(rest []int32, dists []float64, radius float64) (left, right []int32) {
	for i, x := range rest {
		if dists[i] <= radius {
			left = append(left, x)
		} else {
			right = append(right, x)
		}
	}
	return left, right
}

// splitTies handles the case where every distance is within the radius: the
// first half (at least one) of the records tied at exactly radius move right.
func splitTies(rest []int32, dists []float64, radius float64) (left, right []int32) {
	var tied int
	for _, d := range dists {
		if d == radius {
			tied++
		}
	}
	move := max(1, tied/2)
	for i, x := range rest {
		if move > 0 && dists[i] == radius {
			right = append(right, x)
			move--
			continue
		}
		left = append(left, x)
	}
	return left, right
}

// BuildIndex builds and linearizes the tree over store.
func BuildIndex(store *seqdb.Store, scorer align.Scorer, cfg *Config) (*LinearIndex, error) {
	cfg = cfg.OrDefault()
	start := time.Now()
	tree, err := Build(store, scorer, cfg)
	cfg.Logger.LogBuild(context.Background(), store.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	ix := Linearize(tree)
	ix.cfg = cfg
	return ix, nil
}
