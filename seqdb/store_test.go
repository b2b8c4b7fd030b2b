package seqdb

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
)

const sample = `>s0 first record
AAAAA
>s1
CCC
CC
>s2
ggggg
`

func TestLoadReader(t *testing.T) {
	s, err := LoadReader(strings.NewReader(sample), "sample.fa", align.New(align.DefaultParams()))
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	r := s.Get(0)
	assert.Equal(t, "s0", r.ID)
	assert.Equal(t, "s0 first record", r.Name)
	assert.Equal(t, []byte("AAAAA"), r.Seq)
	assert.Equal(t, 25, r.SelfScore)

	assert.Equal(t, []byte("CCCCC"), s.Get(1).Seq, "multi-line sequences are joined")
	assert.Equal(t, []byte("GGGGG"), s.Get(2).Seq, "residues are upper-cased")
	assert.Equal(t, "sample.fa", s.Source())
}

func TestAllPreservesOrder(t *testing.T) {
	s, err := LoadReader(strings.NewReader(sample), "sample.fa", align.New(align.DefaultParams()))
	require.NoError(t, err)

	var ids []string
	for i, r := range s.All() {
		assert.Equal(t, len(ids), i)
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"s0", "s1", "s2"}, ids)

	n := 0
	for range s.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestLoadEmpty(t *testing.T) {
	for _, in := range []string{"", "\n\n  \n"} {
		s, err := LoadReader(strings.NewReader(in), "empty.fa", align.New(align.DefaultParams()))
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
	}
}

func TestLoadInvalidResidue(t *testing.T) {
	_, err := LoadReader(strings.NewReader(">s0\nACGT\n>bad\nACXT\n"), "bad.fa", align.New(align.DefaultParams()))
	require.Error(t, err)
	assert.ErrorIs(t, err, vpsearch.ErrValidation)
	assert.Contains(t, err.Error(), "bad")

	var re *align.ResidueError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, byte('X'), re.Residue)
}

func TestLoadEmptySequence(t *testing.T) {
	_, err := LoadReader(strings.NewReader(">s0\n>s1\nACGT\n"), "bad.fa", align.New(align.DefaultParams()))
	require.Error(t, err)
	assert.ErrorIs(t, err, vpsearch.ErrFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.fa"), align.New(align.DefaultParams()))
	require.Error(t, err)
	assert.ErrorIs(t, err, vpsearch.ErrFilesystem)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompressedRoundTrip(t *testing.T) {
	scorer := align.New(align.DefaultParams())
	want, err := LoadReader(strings.NewReader(sample), "sample.fa", scorer)
	require.NoError(t, err)

	for _, c := range []Compression{CompressionNone, CompressionZSTD, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sequences.fa"+c.Ext())
			f, err := os.Create(path)
			require.NoError(t, err)
			w, err := c.NewWriter(f)
			require.NoError(t, err)
			require.NoError(t, want.WriteFASTA(w))
			require.NoError(t, w.Close())
			require.NoError(t, f.Close())

			got, err := Load(path, scorer)
			require.NoError(t, err)
			require.Equal(t, want.Len(), got.Len())
			for i, r := range want.All() {
				assert.Equal(t, r, got.Get(i))
			}
		})
	}
}

func TestLoadGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	s, err := LoadReader(&buf, "sample.fa.gz", align.New(align.DefaultParams()))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestCompressionDeterministic(t *testing.T) {
	s, err := LoadReader(strings.NewReader(sample), "sample.fa", align.New(align.DefaultParams()))
	require.NoError(t, err)

	encode := func(c Compression) []byte {
		var buf bytes.Buffer
		w, err := c.NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, s.WriteFASTA(w))
		require.NoError(t, w.Close())
		return buf.Bytes()
	}
	for _, c := range []Compression{CompressionZSTD, CompressionLZ4} {
		assert.Equal(t, encode(c), encode(c), c.String())
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{
		"":     CompressionNone,
		"none": CompressionNone,
		"zstd": CompressionZSTD,
		"lz4":  CompressionLZ4,
	} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

type lenScorer struct{}

func (lenScorer) Score(a, b []byte) int  { return -abs(len(a) - len(b)) }
func (lenScorer) SelfScore(a []byte) int { return 0 }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestNewWithoutValidator(t *testing.T) {
	s, err := New([]Entry{{ID: "x", Seq: []byte("not dna at all")}}, lenScorer{})
	require.NoError(t, err)
	assert.Equal(t, "x", s.Get(0).Name)
}
