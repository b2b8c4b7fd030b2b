package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/indexer"
	"github.com/ic-timon/vpsearch/seqdb"
)

func newStore(seqs [][]byte, scorer align.Scorer) *seqdb.Store {
	entries := make([]seqdb.Entry, len(seqs))
	for i, s := range seqs {
		id := fmt.Sprintf("r%d", i)
		entries[i] = seqdb.Entry{ID: id, Name: id, Seq: s}
	}
	st, err := seqdb.New(entries, scorer)
	if err != nil {
		panic(err)
	}
	return st
}

func mustBuild(seqs [][]byte, scorer align.Scorer) (*indexer.LinearIndex, *indexer.Builder, time.Duration) {
	st := newStore(seqs, scorer)
	b := indexer.NewBuilder(st, scorer, nil)
	t0 := time.Now()
	tree, err := b.Build()
	if err != nil {
		panic(err)
	}
	ix := indexer.Linearize(tree)
	return ix, b, time.Since(t0)
}

func toQueries(seqs [][]byte) []indexer.Query {
	qs := make([]indexer.Query, len(seqs))
	for i, s := range seqs {
		qs[i] = indexer.Query{ID: fmt.Sprintf("q%d", i), Seq: s}
	}
	return qs
}

// timedSearch runs every query sequentially and returns per-query latencies
// and the mean number of aligned records.
func timedSearch(ix *indexer.LinearIndex, queries [][]byte, k int) ([]time.Duration, float64) {
	durations := make([]time.Duration, len(queries))
	var visited int
	for i, q := range queries {
		t0 := time.Now()
		_, v, err := ix.SearchStats(q, k)
		if err != nil {
			panic(err)
		}
		durations[i] = time.Since(t0)
		visited += v
	}
	return durations, float64(visited) / float64(max(1, len(queries)))
}

// splitQueries holds back the last q sequences of a generated set as
// queries, so they come from the same families but are not stored.
func splitQueries(all [][]byte, q int) (refs, queries [][]byte) {
	return all[:len(all)-q], all[len(all)-q:]
}
