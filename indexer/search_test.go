package indexer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
)

func TestSearchFiveRecords(t *testing.T) {
	ix := buildIndex(t, align.New(align.DefaultParams()), fiveRecords...)

	tests := []struct {
		query string
		ids   []string
		dists []float64
	}{
		{"AAAAA", []string{"s0", "s4", "s2", "s3"}, []float64{0, 27, 45, 45}},
		{"GGGGT", []string{"s2", "s3", "s0", "s4"}, []float64{9, 36, 45, 45}},
		{"CCCCC", []string{"s1", "s4"}, []float64{0, 18}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := ix.Search([]byte(tt.query), len(tt.ids))
			require.NoError(t, err)
			assert.Equal(t, tt.ids, ids(got))
			assert.Equal(t, tt.dists, distances(got))
		})
	}
}

func TestSearchReportsScore(t *testing.T) {
	ix := buildIndex(t, align.New(align.DefaultParams()), fiveRecords...)
	got, err := ix.Search([]byte("AAAAA"), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Neighbor{Index: 0, ID: "s0", Distance: 0, Score: 25}, got[0])
	assert.Equal(t, Neighbor{Index: 4, ID: "s4", Distance: 27, Score: -2}, got[1])
}

func TestSearchEdgeCases(t *testing.T) {
	scorer := align.New(align.DefaultParams())

	empty := buildIndex(t, scorer)
	got, err := empty.Search([]byte("ACGT"), 4)
	require.NoError(t, err)
	assert.Empty(t, got)

	ix := buildIndex(t, scorer, fiveRecords...)
	for _, k := range []int{0, -1} {
		got, err := ix.Search([]byte("ACGT"), k)
		require.NoError(t, err)
		assert.Empty(t, got)
	}

	got, err = ix.Search([]byte("ACGT"), 50)
	require.NoError(t, err)
	assert.Len(t, got, 5, "k larger than N returns every record")

	_, err = ix.Search([]byte("ACXGT"), 3)
	assert.ErrorIs(t, err, vpsearch.ErrValidation)
	_, err = ix.Scan([]byte("ACXGT"), 3)
	assert.ErrorIs(t, err, vpsearch.ErrValidation)
}

func TestSearchMatchesScanOnMetric(t *testing.T) {
	scorer := hammingScorer{}
	rng := rand.New(rand.NewSource(1))
	base := randomDNA(rng, 30)
	seqs := make([]string, 150)
	for i := range seqs {
		seqs[i] = mutate(rng, base, rng.Intn(10))
	}
	ix := buildIndex(t, scorer, seqs...)

	for q := 0; q < 25; q++ {
		query := []byte(mutate(rng, base, rng.Intn(10)))
		for _, k := range []int{1, 2, 5, 17, len(seqs)} {
			got, err := ix.Search(query, k)
			require.NoError(t, err)
			want, err := ix.Scan(query, k)
			require.NoError(t, err)
			assertSameNeighbors(t, want, got)
		}
	}
}

func TestSearchNearIdenticalAlignments(t *testing.T) {
	scorer := align.New(align.DefaultParams())
	rng := rand.New(rand.NewSource(2))
	base := randomDNA(rng, 60)
	seqs := make([]string, 80)
	for i := range seqs {
		seqs[i] = mutate(rng, base, 1+rng.Intn(3))
	}
	ix := buildIndex(t, scorer, seqs...)

	for i, s := range seqs {
		got, err := ix.Search([]byte(s), 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 0.0, got[0].Distance, "query %d", i)
		assert.Equal(t, s, string(ix.Store().Get(got[0].Index).Seq))
		assert.IsNonDecreasing(t, distances(got))
	}
}

func TestScanOrder(t *testing.T) {
	ix := buildIndex(t, align.New(align.DefaultParams()), fiveRecords...)
	got, err := ix.Scan([]byte("GGGGT"), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s3", "s0", "s1"}, ids(got), "store order breaks ties")
}

func TestSearchStatsVisited(t *testing.T) {
	scorer := hammingScorer{}
	rng := rand.New(rand.NewSource(3))
	seqs := make([]string, 200)
	for i := range seqs {
		seqs[i] = randomDNA(rng, 24)
	}
	ix := buildIndex(t, scorer, seqs...)
	_, visited, err := ix.SearchStats([]byte(seqs[17]), 1)
	require.NoError(t, err)
	assert.Positive(t, visited)
	assert.LessOrEqual(t, visited, len(seqs))
}

// assertSameNeighbors compares a search result with the brute-force one.
// Records tied at the k-th distance may legitimately differ.
func assertSameNeighbors(t *testing.T, want, got []Neighbor) {
	t.Helper()
	require.Equal(t, distances(want), distances(got))
	if len(want) == 0 {
		return
	}
	kth := want[len(want)-1].Distance
	inner := func(ns []Neighbor) map[int]bool {
		m := make(map[int]bool)
		for _, n := range ns {
			if n.Distance < kth {
				m[n.Index] = true
			}
		}
		return m
	}
	require.Equal(t, inner(want), inner(got))
}

func BenchmarkSearch(b *testing.B) {
	scorer := align.New(align.DefaultParams())
	rng := rand.New(rand.NewSource(1))
	base := randomDNA(rng, 150)
	seqs := make([]string, 500)
	for i := range seqs {
		seqs[i] = mutate(rng, base, rng.Intn(20))
	}
	ix := buildIndex(b, scorer, seqs...)
	query := []byte(mutate(rng, base, 5))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ix.Search(query, 4); err != nil {
			b.Fatal(err)
		}
	}
}
