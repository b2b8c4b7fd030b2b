package indexer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 0.0, Distance(25, 25, 25))
	assert.Equal(t, 27.0, Distance(-2, 25, 25))
	assert.Equal(t, 9.0, Distance(16, 25, 25))
	assert.Equal(t, 0.0, Distance(30, 25, 20), "clamped at zero")

	scorer := align.New(align.DefaultParams())
	a, b := []byte("ACGTTGCA"), []byte("ACGATGCA")
	assert.Equal(t, 0.0, SeqDistance(scorer, a, a))
	assert.Equal(t, SeqDistance(scorer, a, b), SeqDistance(scorer, b, a))
	assert.Greater(t, SeqDistance(scorer, a, b), 0.0)
}

func TestBuildFiveRecords(t *testing.T) {
	scorer := align.New(align.DefaultParams())
	tree, err := Build(newStore(t, scorer, fiveRecords...), scorer, nil)
	require.NoError(t, err)
	require.Equal(t, 5, tree.Len())

	ix := Linearize(tree)
	want := []Node{
		{Vantage: 0, Radius: 45, Left: 1, Right: 4},
		{Vantage: 2, Radius: 45, Left: 2, Right: 3},
		{Vantage: 4, Radius: 0, Left: -1, Right: -1},
		{Vantage: 3, Radius: 0, Left: -1, Right: -1},
		{Vantage: 1, Radius: 0, Left: -1, Right: -1},
	}
	for i, w := range want {
		assert.Equal(t, w, ix.Entry(i), "entry %d", i)
	}
}

func TestBuildEmptyAndSingle(t *testing.T) {
	scorer := hammingScorer{}

	tree, err := Build(newStore(t, scorer), scorer, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, -1, tree.Root())
	assert.Equal(t, 0, Linearize(tree).Len())

	tree, err = Build(newStore(t, scorer, "ACGT"), scorer, nil)
	require.NoError(t, err)
	assert.Equal(t, Node{Vantage: 0, Left: -1, Right: -1}, tree.Node(0))
}

func TestBuildIdenticalRecords(t *testing.T) {
	scorer := align.New(align.DefaultParams())
	seqs := make([]string, 33)
	for i := range seqs {
		seqs[i] = "ACGTACGTAC"
	}
	b := NewBuilder(newStore(t, scorer, seqs...), scorer, nil)
	tree, err := b.Build()
	require.NoError(t, err)
	assertEveryRecordOnce(t, Linearize(tree))
	assert.Less(t, b.MaxDepth(), len(seqs), "ties are split, not peeled one at a time")

	_, err = b.Build()
	assert.ErrorIs(t, err, vpsearch.ErrBuild)
}

func TestBuildProgress(t *testing.T) {
	scorer := hammingScorer{}
	var calls, last int
	cfg := &Config{Progress: func(done, total int) {
		calls++
		last = done
		assert.Equal(t, 20, total)
	}}
	rng := rand.New(rand.NewSource(5))
	seqs := make([]string, 20)
	for i := range seqs {
		seqs[i] = randomDNA(rng, 12)
	}
	_, err := Build(newStore(t, scorer, seqs...), scorer, cfg)
	require.NoError(t, err)
	assert.Equal(t, 20, calls)
	assert.Equal(t, 20, last)
}

func TestTreeInvariants(t *testing.T) {
	scorer := hammingScorer{}
	rng := rand.New(rand.NewSource(42))
	base := randomDNA(rng, 40)
	seqs := make([]string, 300)
	for i := range seqs {
		seqs[i] = mutate(rng, base, rng.Intn(12))
	}
	st := newStore(t, scorer, seqs...)
	ix := buildIndex(t, scorer, seqs...)
	assertEveryRecordOnce(t, ix)

	var subtree func(e int) []int
	subtree = func(e int) []int {
		if e < 0 {
			return nil
		}
		n := ix.Entry(e)
		out := []int{n.Vantage}
		out = append(out, subtree(n.Left)...)
		return append(out, subtree(n.Right)...)
	}
	for e := 0; e < ix.Len(); e++ {
		n := ix.Entry(e)
		vp := st.Get(n.Vantage).Seq
		if n.Left >= 0 {
			assert.Equal(t, e+1, n.Left, "left block follows its parent")
		}
		if n.Left >= 0 && n.Right >= 0 {
			assert.Equal(t, n.Left+len(subtree(n.Left)), n.Right, "right block follows the left block")
		}
		for _, x := range subtree(n.Left) {
			assert.LessOrEqual(t, SeqDistance(scorer, vp, st.Get(x).Seq), n.Radius)
		}
		for _, x := range subtree(n.Right) {
			assert.GreaterOrEqual(t, SeqDistance(scorer, vp, st.Get(x).Seq), n.Radius)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	scorer := align.New(align.DefaultParams())
	rng := rand.New(rand.NewSource(9))
	seqs := make([]string, 60)
	for i := range seqs {
		seqs[i] = randomDNA(rng, 20)
	}
	a := buildIndex(t, scorer, seqs...)
	b := buildIndex(t, scorer, seqs...)
	for i := 0; i < a.Len(); i++ {
		require.Equal(t, a.Entry(i), b.Entry(i))
	}
}

func assertEveryRecordOnce(t *testing.T, ix *LinearIndex) {
	t.Helper()
	seen := make([]bool, ix.Len())
	for i := 0; i < ix.Len(); i++ {
		v := ix.Entry(i).Vantage
		require.False(t, seen[v], "record %d is a vantage twice", v)
		seen[v] = true
	}
	require.NoError(t, arrays{vantage: ix.vantage, radii: ix.radii, left: ix.left, right: ix.right}.validate())
}
