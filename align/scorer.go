package align

import (
	"math"
	"sync"
)

const negInf = math.MinInt32 / 2

// Scorer is the narrow scoring interface the index depends on.
// Implementations must be symmetric and safe for concurrent use.
type Scorer interface {
	// Score returns the global alignment score of a against b.
	Score(a, b []byte) int
	// SelfScore returns Score(a, a).
	SelfScore(a []byte) int
}

// Params holds the gap penalties, as positive costs.
type Params struct {
	GapOpen   int // cost of the first gap position
	GapExtend int // cost of every further gap position
}

// DefaultParams returns the default gap penalties (open 10, extend 1).
func DefaultParams() Params {
	return Params{GapOpen: 10, GapExtend: 1}
}

// OrDefault fills in non-positive penalties with the defaults.
func (p Params) OrDefault() Params {
	d := DefaultParams()
	if p.GapOpen <= 0 {
		p.GapOpen = d.GapOpen
	}
	if p.GapExtend <= 0 {
		p.GapExtend = d.GapExtend
	}
	return p
}

// Aligner scores global alignments under NUC44 with affine gaps.
type Aligner struct {
	params Params
	matrix *Matrix
	rows   sync.Pool
}

var _ Scorer = (*Aligner)(nil)

type dpRows struct {
	h []int32
	f []int32
}

// New creates an Aligner. Non-positive penalties take their defaults.
func New(p Params) *Aligner {
	return &Aligner{params: p.OrDefault(), matrix: NUC44}
}

// Params returns the gap penalties in use.
func (al *Aligner) Params() Params { return al.params }

// Validate reports residues the matrix cannot score.
func (al *Aligner) Validate(seq []byte) error { return al.matrix.Validate(seq) }

func (al *Aligner) gap(n int) int32 {
	if n <= 0 {
		return 0
	}
	return int32(al.params.GapOpen + (n-1)*al.params.GapExtend)
}

func (al *Aligner) getRows(n int) *dpRows {
	r, _ := al.rows.Get().(*dpRows)
	if r == nil {
		r = &dpRows{}
	}
	if cap(r.h) < n {
		r.h = make([]int32, n)
		r.f = make([]int32, n)
	}
	r.h = r.h[:n]
	r.f = r.f[:n]
	return r
}

// Score implements Scorer with a linear-space Gotoh recurrence.
func (al *Aligner) Score(a, b []byte) int {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return -int(al.gap(m + n))
	}
	o, e := int32(al.params.GapOpen), int32(al.params.GapExtend)
	rows := al.getRows(n + 1)
	defer al.rows.Put(rows)
	h, f := rows.h, rows.f

	h[0] = 0
	for j := 1; j <= n; j++ {
		h[j] = -al.gap(j)
		f[j] = negInf
	}
	for i := 1; i <= m; i++ {
		sub := &al.matrix.score[a[i-1]]
		diag := h[0]
		h[0] = -al.gap(i)
		ev := int32(negInf)
		for j := 1; j <= n; j++ {
			ev = max(h[j-1]-o, ev-e)
			f[j] = max(h[j]-o, f[j]-e)
			v := max(diag+int32(sub[b[j-1]]), ev, f[j])
			diag = h[j]
			h[j] = v
		}
	}
	return int(h[n])
}

// SelfScore implements Scorer. Every off-diagonal entry of NUC44 is bounded
// by both diagonal entries it touches, so the identity alignment is optimal
// and the score is the diagonal sum.
func (al *Aligner) SelfScore(a []byte) int {
	var s int
	for _, c := range a {
		s += int(al.matrix.score[c][c])
	}
	return s
}

// Validator is implemented by scorers that can reject unscorable residues.
type Validator interface {
	Validate(seq []byte) error
}

// Check validates seq when s implements Validator and accepts it otherwise.
func Check(s Scorer, seq []byte) error {
	if v, ok := s.(Validator); ok {
		return v.Validate(seq)
	}
	return nil
}
