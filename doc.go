// Package vpsearch holds the pieces shared by every layer of the sequence
// search engine: the error taxonomy and the structured logger.
//
// The engine itself lives in sub-packages:
//
//	align    global alignment scoring (modified NUC.4.4, affine gaps)
//	seqdb    ordered, immutable FASTA-backed sequence store
//	indexer  VP-tree build, linear index, persistence, k-NN search, query pool
//
// Quick start:
//
//	scorer := align.New(align.DefaultParams())
//	db, _ := seqdb.Load("refs.fa", scorer)
//	ix, _ := indexer.BuildIndex(db, scorer, nil)
//	_ = ix.Persist("refs.db", indexer.PersistOptions{})
//	hits, _ := ix.Search([]byte("ACGT..."), 4)
package vpsearch
