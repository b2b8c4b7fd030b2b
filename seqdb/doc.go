// Package seqdb loads nucleotide FASTA files into an immutable, indexed
// sequence store.
//
// Input may be plain text or gzip, zstd or lz4 compressed; the codec is
// detected from the leading magic bytes. Every stored record carries its
// self alignment score so distances can be derived without realigning a
// sequence against itself.
package seqdb
