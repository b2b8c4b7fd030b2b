// Package gen provides synthetic nucleotide data for the benchmarks.
package gen

import "math/rand"

const bases = "ACGT"

// RandomDNA returns n independent random sequences of the given length.
func RandomDNA(n, length int, seed int64) [][]byte {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]byte, n)
	for i := range out {
		out[i] = randomSeq(rng, length)
	}
	return out
}

// Families returns n sequences drawn from the given number of random
// ancestors, each carrying up to maxEdits substitutions, insertions or
// deletions. Small maxEdits yields the near-identical amplicon sets the
// index is meant for.
func Families(n, families, length, maxEdits int, seed int64) [][]byte {
	rng := rand.New(rand.NewSource(seed))
	roots := make([][]byte, families)
	for i := range roots {
		roots[i] = randomSeq(rng, length)
	}
	out := make([][]byte, n)
	for i := range out {
		out[i] = Mutate(rng, roots[rng.Intn(families)], rng.Intn(maxEdits+1))
	}
	return out
}

// Mutate returns a copy of s with edits random single-residue edits.
func Mutate(rng *rand.Rand, s []byte, edits int) []byte {
	out := append([]byte(nil), s...)
	for e := 0; e < edits; e++ {
		switch {
		case len(out) == 0:
			out = append(out, bases[rng.Intn(4)])
		case rng.Intn(10) < 8:
			out[rng.Intn(len(out))] = bases[rng.Intn(4)]
		case rng.Intn(2) == 0:
			p := rng.Intn(len(out) + 1)
			out = append(out[:p], append([]byte{bases[rng.Intn(4)]}, out[p:]...)...)
		default:
			p := rng.Intn(len(out))
			out = append(out[:p], out[p+1:]...)
		}
	}
	return out
}

func randomSeq(rng *rand.Rand, length int) []byte {
	s := make([]byte, length)
	for i := range s {
		s[i] = bases[rng.Intn(4)]
	}
	return s
}
