// Package indexer provides the vantage-point tree over alignment distances:
// construction, the linear array form and its on-disk persistence,
// branch-and-bound k-nearest-neighbour search, and an order-preserving
// query scheduler.
//
// Quick start:
//
//	scorer := align.New(align.DefaultParams())
//	records, _ := seqdb.Load("refs.fa", scorer)
//	ix, _ := indexer.BuildIndex(records, scorer, nil)
//	_ = ix.Persist("refs.db", indexer.PersistOptions{})
//
//	ix, _ = indexer.Load("refs.db", nil, nil)
//	defer ix.Close()
//	hits, _ := ix.Search([]byte("ACGTACGT"), 4)
//
package indexer
