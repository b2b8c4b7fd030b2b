package indexer

import (
	"cmp"
	"container/heap"
	"math"
	"slices"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
)

// Neighbor is one search hit.
type Neighbor struct {
	Index    int     // store position
	ID       string  // record id
	Distance float64 // max(self scores) - alignment score, >= 0
	Score    int     // raw alignment score
}

// Search returns the k records closest to seq, ascending by distance. Equal
// distances keep the order in which the traversal met them.
//
// Candidates are kept in a bounded max-heap; a subtree is skipped when the
// query cannot reach it within the current k-th distance. The distance is
// not a true metric, so on divergent data the result can differ from Scan.
func (ix *LinearIndex) Search(seq []byte, k int) ([]Neighbor, error) {
	res, _, err := ix.search(seq, k, nil)
	return res, err
}

// SearchStats is Search that also reports how many records were aligned.
func (ix *LinearIndex) SearchStats(seq []byte, k int) ([]Neighbor, int, error) {
	return ix.search(seq, k, nil)
}

func (ix *LinearIndex) search(seq []byte, k int, bufs *workerBufs) ([]Neighbor, int, error) {
	if err := align.Check(ix.scorer, seq); err != nil {
		return nil, 0, vpsearch.ValidationError("search", "", err)
	}
	if k <= 0 || ix.Len() == 0 {
		return []Neighbor{}, 0, nil
	}
	if bufs == nil {
		bufs = getWorkerBufs()
		defer putWorkerBufs(bufs)
	}
	bufs.reset()
	s := &searcher{
		ix:   ix,
		q:    seq,
		self: ix.scorer.SelfScore(seq),
		k:    k,
		h:    &bufs.heap,
	}
	s.visit(0)
	return s.results(), s.visited, nil
}

type searcher struct {
	ix      *LinearIndex
	q       []byte
	self    int
	k       int
	h       *candHeap
	visited int
}

// tau is the pruning bound: the k-th best distance once k are held.
func (s *searcher) tau() float64 {
	if s.h.Len() < s.k {
		return math.Inf(1)
	}
	return (*s.h)[0].dist
}

func (s *searcher) visit(e int32) {
	ix := s.ix
	for e >= 0 {
		v := ix.vantage[e]
		rec := ix.store.Get(int(v))
		score := ix.scorer.Score(s.q, rec.Seq)
		d := Distance(score, s.self, rec.SelfScore)
		s.offer(candidate{idx: v, dist: d, score: score, seq: int32(s.visited)})
		s.visited++

		r := ix.radii[e]
		if ix.left[e] >= 0 && d-r <= s.tau() {
			s.visit(ix.left[e])
		}
		if ix.right[e] < 0 || r-d > s.tau() {
			return
		}
		e = ix.right[e]
	}
}

func (s *searcher) offer(c candidate) {
	if s.h.Len() < s.k {
		heap.Push(s.h, c)
		return
	}
	if c.dist < (*s.h)[0].dist {
		(*s.h)[0] = c
		heap.Fix(s.h, 0)
	}
}

func (s *searcher) results() []Neighbor {
	cands := slices.Clone(*s.h)
	slices.SortFunc(cands, compareCandidates)
	out := make([]Neighbor, len(cands))
	for i, c := range cands {
		out[i] = Neighbor{
			Index:    int(c.idx),
			ID:       s.ix.store.Get(int(c.idx)).ID,
			Distance: c.dist,
			Score:    c.score,
		}
	}
	return out
}

// Scan is the brute-force reference for Search: every record is aligned and
// equal distances keep store order.
func (ix *LinearIndex) Scan(seq []byte, k int) ([]Neighbor, error) {
	if err := align.Check(ix.scorer, seq); err != nil {
		return nil, vpsearch.ValidationError("scan", "", err)
	}
	if k <= 0 || ix.Len() == 0 {
		return []Neighbor{}, nil
	}
	self := ix.scorer.SelfScore(seq)
	all := make([]Neighbor, 0, ix.store.Len())
	for i, rec := range ix.store.All() {
		score := ix.scorer.Score(seq, rec.Seq)
		all = append(all, Neighbor{
			Index:    i,
			ID:       rec.ID,
			Distance: Distance(score, self, rec.SelfScore),
			Score:    score,
		})
	}
	slices.SortStableFunc(all, func(a, b Neighbor) int { return cmp.Compare(a.Distance, b.Distance) })
	return all[:min(k, len(all))], nil
}

// candidate is a heap entry; seq is the visit order used to break ties.
type candidate struct {
	idx   int32
	dist  float64
	score int
	seq   int32
}

func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.dist, b.dist); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// candHeap is a max-heap on (dist, seq): the root is the candidate to evict.
type candHeap []candidate

func (h candHeap) Len() int           { return len(h) }
func (h candHeap) Less(i, j int) bool { return compareCandidates(h[i], h[j]) > 0 }
func (h candHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *candHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
