package align

import "fmt"

// Alphabet lists the residues the matrix scores, in matrix order.
const Alphabet = "ATGCSWRYKMBVHDNU"

// Matrix is a byte-indexed substitution table. Rows for lower-case residues
// mirror the upper-case ones.
type Matrix struct {
	score [256][256]int8
	valid [256]bool
}

// nuc44 rows, in Alphabet order without U. U is scored as an unknown base.
var nuc44Rows = [15][15]int8{
	{5, -4, -4, -4, -4, 1, 1, -4, -4, 1, -4, -1, -1, -1, -2},
	{-4, 5, -4, -4, -4, 1, -4, 1, 1, -4, -1, -4, -1, -1, -2},
	{-4, -4, 5, -4, 1, -4, 1, -4, 1, -4, -1, -1, -4, -1, -2},
	{-4, -4, -4, 5, 1, -4, -4, 1, -4, 1, -1, -1, -1, -4, -2},
	{-4, -4, 1, 1, -1, -4, -2, -2, -2, -2, -1, -1, -3, -3, -1},
	{1, 1, -4, -4, -4, -1, -2, -2, -2, -2, -3, -3, -1, -1, -1},
	{1, -4, 1, -4, -2, -2, -1, -4, -2, -2, -3, -1, -3, -1, -1},
	{-4, 1, -4, 1, -2, -2, -4, -1, -2, -2, -1, -3, -1, -3, -1},
	{-4, 1, 1, -4, -2, -2, -2, -2, -1, -4, -1, -3, -3, -1, -1},
	{1, -4, -4, 1, -2, -2, -2, -2, -4, -1, -3, -1, -1, -3, -1},
	{-4, -1, -1, -1, -1, -3, -3, -1, -1, -3, -1, -2, -2, -2, -1},
	{-1, -4, -1, -1, -1, -3, -1, -3, -3, -1, -2, -1, -2, -2, -1},
	{-1, -1, -4, -1, -3, -1, -3, -1, -3, -1, -2, -2, -1, -2, -1},
	{-1, -1, -1, -4, -3, -1, -1, -3, -1, -3, -2, -2, -2, -1, -1},
	{-2, -2, -2, -2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
}

// NUC44 is the modified NUC.4.4 matrix: ambiguity codes score +1 against
// themselves.
var NUC44 = newNUC44()

func newNUC44() *Matrix {
	m := &Matrix{}
	n := len(Alphabet)
	row := func(i, j int) int8 {
		// U takes N's row and column
		if i == n-1 {
			i = n - 2
		}
		if j == n-1 {
			j = n - 2
		}
		return nuc44Rows[i][j]
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			s := row(i, j)
			if i == j && i >= 4 {
				s = 1
			}
			for _, a := range []byte{Alphabet[i], Alphabet[i] | 0x20} {
				for _, b := range []byte{Alphabet[j], Alphabet[j] | 0x20} {
					m.score[a][b] = s
				}
			}
		}
		m.valid[Alphabet[i]] = true
		m.valid[Alphabet[i]|0x20] = true
	}
	return m
}

// Score returns the substitution score of a against b.
func (m *Matrix) Score(a, b byte) int {
	return int(m.score[a][b])
}

// ResidueError reports a residue the matrix does not score.
type ResidueError struct {
	Pos     int
	Residue byte
}

func (e *ResidueError) Error() string {
	return fmt.Sprintf("invalid residue %q at position %d", e.Residue, e.Pos+1)
}

// Validate returns a *ResidueError for the first residue outside the alphabet.
func (m *Matrix) Validate(seq []byte) error {
	for i, c := range seq {
		if !m.valid[c] {
			return &ResidueError{Pos: i, Residue: c}
		}
	}
	return nil
}
