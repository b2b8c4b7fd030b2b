package indexer

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/seqdb"
)

// hammingScorer scores equal positions +1 and charges one per mismatch or
// overhang, which makes Distance the Hamming distance of the padded strings:
// a true metric.
type hammingScorer struct{}

func (hammingScorer) Score(a, b []byte) int {
	long := max(len(a), len(b))
	return long - hamming(a, b)
}

func (hammingScorer) SelfScore(a []byte) int { return len(a) }

func hamming(a, b []byte) int {
	d := max(len(a), len(b)) - min(len(a), len(b))
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

func newStore(t testing.TB, scorer align.Scorer, seqs ...string) *seqdb.Store {
	t.Helper()
	entries := make([]seqdb.Entry, len(seqs))
	for i, s := range seqs {
		id := fmt.Sprintf("s%d", i)
		entries[i] = seqdb.Entry{ID: id, Name: id, Seq: []byte(s)}
	}
	st, err := seqdb.New(entries, scorer)
	require.NoError(t, err)
	return st
}

func randomDNA(rng *rand.Rand, n int) string {
	const bases = "ACGT"
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[rng.Intn(4)]
	}
	return string(b)
}

func mutate(rng *rand.Rand, s string, subs int) string {
	const bases = "ACGT"
	b := []byte(s)
	for i := 0; i < subs; i++ {
		b[rng.Intn(len(b))] = bases[rng.Intn(4)]
	}
	return string(b)
}

// fiveRecords is the small database used across the end-to-end tests.
var fiveRecords = []string{"AAAAA", "CCCCC", "GGGGG", "TTTTT", "AACCC"}

func buildIndex(t testing.TB, scorer align.Scorer, seqs ...string) *LinearIndex {
	t.Helper()
	ix, err := BuildIndex(newStore(t, scorer, seqs...), scorer, nil)
	require.NoError(t, err)
	return ix
}

func ids(ns []Neighbor) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func distances(ns []Neighbor) []float64 {
	out := make([]float64, len(ns))
	for i, n := range ns {
		out[i] = n.Distance
	}
	return out
}
