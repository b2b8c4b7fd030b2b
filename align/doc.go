// Package align provides the global pairwise alignment primitive used as the
// similarity backend of the index.
//
// Scores follow a modified NUC.4.4 (EDNAFULL) matrix: +5 for an A/C/G/T match,
// -4 for a mismatch, the usual partial scores for IUPAC ambiguity codes, and +1
// on the diagonal of every ambiguity code. Gaps are affine: a gap of length L
// costs GapOpen + (L-1)*GapExtend.
//
// An Aligner is safe for concurrent use; dynamic-programming rows come from a
// sync.Pool.
package align
