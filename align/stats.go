package align

// Alignment summarises one global alignment.
type Alignment struct {
	Score      int
	Length     int // alignment columns
	Matches    int // columns pairing identical residues
	Mismatches int // columns pairing different residues
	GapOpens   int
}

// Identity returns the percentage of columns that are matches.
func (a Alignment) Identity() float64 {
	if a.Length == 0 {
		return 0
	}
	return 100 * float64(a.Matches) / float64(a.Length)
}

const (
	stateH = iota
	stateE // gap in a, consumes b
	stateF // gap in b, consumes a
)

// Align runs the full-matrix recurrence and walks the traceback. The score is
// identical to Score(a, b); the extra columns feed tabular reports.
func (al *Aligner) Align(a, b []byte) Alignment {
	m, n := len(a), len(b)
	o, e := int32(al.params.GapOpen), int32(al.params.GapExtend)
	w := n + 1
	size := (m + 1) * w
	H := make([]int32, size)
	E := make([]int32, size)
	F := make([]int32, size)

	H[0], E[0], F[0] = 0, negInf, negInf
	for j := 1; j <= n; j++ {
		H[j] = -al.gap(j)
		E[j] = H[j]
		F[j] = negInf
	}
	for i := 1; i <= m; i++ {
		r := i * w
		H[r] = -al.gap(i)
		F[r] = H[r]
		E[r] = negInf
		sub := &al.matrix.score[a[i-1]]
		for j := 1; j <= n; j++ {
			c := r + j
			E[c] = max(H[c-1]-o, E[c-1]-e)
			F[c] = max(H[c-w]-o, F[c-w]-e)
			H[c] = max(H[c-w-1]+int32(sub[b[j-1]]), E[c], F[c])
		}
	}

	res := Alignment{Score: int(H[size-1])}
	i, j, state := m, n, stateH
	for i > 0 || j > 0 {
		c := i*w + j
		switch state {
		case stateH:
			if i > 0 && j > 0 && H[c] == H[c-w-1]+int32(al.matrix.score[a[i-1]][b[j-1]]) {
				res.Length++
				if upper(a[i-1]) == upper(b[j-1]) {
					res.Matches++
				} else {
					res.Mismatches++
				}
				i--
				j--
			} else if i > 0 && H[c] == F[c] {
				state = stateF
			} else {
				state = stateE
			}
		case stateF:
			res.Length++
			if F[c] != F[c-w]-e {
				res.GapOpens++
				state = stateH
			}
			i--
		case stateE:
			res.Length++
			if E[c] != E[c-1]-e {
				res.GapOpens++
				state = stateH
			}
			j--
		}
	}
	return res
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 0x20
	}
	return c
}
