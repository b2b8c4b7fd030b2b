package indexer

import (
	"github.com/ic-timon/vpsearch/align"
)

// Distance turns an alignment score into a dissimilarity:
// max(selfA, selfB) - score, clamped at zero.
//
// The result is zero for identical sequences and symmetric whenever the
// scorer is, but it does not satisfy the triangle inequality in general.
// Pruning with it is therefore an approximation of exact k-NN.
func Distance(score, selfA, selfB int) float64 {
	d := max(selfA, selfB) - score
	if d < 0 {
		return 0
	}
	return float64(d)
}

// SeqDistance aligns a and b with s and returns their Distance.
func SeqDistance(s align.Scorer, a, b []byte) float64 {
	return Distance(s.Score(a, b), s.SelfScore(a), s.SelfScore(b))
}
