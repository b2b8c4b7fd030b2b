package align

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSeq(rng *rand.Rand, n int, alphabet string) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return s
}

func TestSelfScore(t *testing.T) {
	al := New(DefaultParams())
	tests := []struct {
		seq  string
		want int
	}{
		{"ACGT", 20},
		{"T", 5},
		{"Y", 1},
		{"ACGTN", 21},
		{"acgt", 20},
	}
	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			assert.Equal(t, tt.want, al.SelfScore([]byte(tt.seq)))
			assert.Equal(t, tt.want, al.Score([]byte(tt.seq), []byte(tt.seq)))
		})
	}
}

func TestAmbiguityDiagonal(t *testing.T) {
	al := New(DefaultParams())
	for _, c := range "ACGT" {
		assert.Equal(t, 5, al.SelfScore([]byte(string(c))), string(c))
	}
	for _, c := range "SWRYKMBVHDNU" {
		assert.Equal(t, 1, al.SelfScore([]byte(string(c))), string(c))
	}
}

func TestScoreGapless(t *testing.T) {
	al := New(DefaultParams())
	assert.Equal(t, -2, al.Score([]byte("AAAAA"), []byte("AACCC")))
	assert.Equal(t, -20, al.Score([]byte("AAAAA"), []byte("GGGGG")))
	assert.Equal(t, 16, al.Score([]byte("GGGGT"), []byte("GGGGG")))
	assert.Equal(t, -11, al.Score([]byte("GGGGT"), []byte("TTTTT")))
}

func TestScoreAffineGap(t *testing.T) {
	al := New(Params{GapOpen: 10, GapExtend: 1})
	a := []byte("ACGTACGTACGTACGTACGT")
	b := []byte("ACGTACGTACGTACGT") // four trailing residues deleted
	// 16 matches, one gap of length 4
	assert.Equal(t, 16*5-(10+3), al.Score(a, b))

	assert.Equal(t, -13, al.Score([]byte("ACGT"), nil))
	assert.Equal(t, 0, al.Score(nil, nil))
}

func TestScoreSymmetric(t *testing.T) {
	al := New(DefaultParams())
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := randomSeq(rng, 1+rng.Intn(40), Alphabet)
		b := randomSeq(rng, 1+rng.Intn(40), Alphabet)
		require.Equal(t, al.Score(a, b), al.Score(b, a), "%s vs %s", a, b)
	}
}

func TestSelfScoreMatchesAlignment(t *testing.T) {
	al := New(DefaultParams())
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		a := randomSeq(rng, 1+rng.Intn(60), Alphabet)
		require.Equal(t, al.Score(a, a), al.SelfScore(a), "%s", a)
	}
}

func TestAlignAgreesWithScore(t *testing.T) {
	al := New(DefaultParams())
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		a := randomSeq(rng, rng.Intn(50), "ACGT")
		b := randomSeq(rng, rng.Intn(50), "ACGTN")
		aln := al.Align(a, b)
		require.Equal(t, al.Score(a, b), aln.Score, "%s vs %s", a, b)
		require.GreaterOrEqual(t, aln.Length, max(len(a), len(b)))
		pairs := aln.Matches + aln.Mismatches
		require.Equal(t, len(a)+len(b), aln.Length+pairs)
	}
}

func TestAlignStats(t *testing.T) {
	al := New(DefaultParams())

	aln := al.Align([]byte("AAAAA"), []byte("AACCC"))
	assert.Equal(t, Alignment{Score: -2, Length: 5, Matches: 2, Mismatches: 3}, aln)
	assert.InDelta(t, 40.0, aln.Identity(), 1e-9)

	aln = al.Align([]byte("ACGTACGTACGTACGTACGT"), []byte("ACGTACGTACGTACGT"))
	assert.Equal(t, 20, aln.Length)
	assert.Equal(t, 16, aln.Matches)
	assert.Equal(t, 0, aln.Mismatches)
	assert.Equal(t, 1, aln.GapOpens)
}

func TestValidate(t *testing.T) {
	al := New(DefaultParams())
	require.NoError(t, al.Validate([]byte("ACGTNacgtnRYKM")))

	err := al.Validate([]byte("ACGX"))
	var re *ResidueError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 3, re.Pos)
	assert.Equal(t, byte('X'), re.Residue)

	require.Error(t, al.Validate([]byte("AC-GT")))
}

func TestParamsOrDefault(t *testing.T) {
	assert.Equal(t, DefaultParams(), Params{}.OrDefault())
	assert.Equal(t, Params{GapOpen: 8, GapExtend: 2}, Params{GapOpen: 8, GapExtend: 2}.OrDefault())
}

func BenchmarkScore(b *testing.B) {
	al := New(DefaultParams())
	rng := rand.New(rand.NewSource(1))
	x := randomSeq(rng, 250, "ACGT")
	y := randomSeq(rng, 250, "ACGT")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		al.Score(x, y)
	}
}
