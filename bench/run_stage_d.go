// Stage D: in-memory index against the same index persisted and mapped back.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/bench/gen"
	"github.com/ic-timon/vpsearch/bench/metrics"
	"github.com/ic-timon/vpsearch/indexer"
	"github.com/ic-timon/vpsearch/seqdb"
)

func runStageD(opts stageOpts) {
	n := opts.recordsOr(5_000)
	const queryCount = 500
	const topK = 4
	const runs = 3

	scorer := align.New(align.DefaultParams())
	refs, held := splitQueries(gen.Families(n+queryCount, max(1, n/50), opts.length, 8, 777), queryCount)
	queries := toQueries(held)

	fmt.Println("Stage D: in-memory")
	mem, _, _ := mustBuild(refs, scorer)
	memRow, memRes := measure("memory", mem, queries, topK, opts.workers, runs)

	tmp, err := os.MkdirTemp("", "vpsearch-stage-d-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)
	dir := filepath.Join(tmp, "refs.db")
	if err := mem.Persist(dir, indexer.PersistOptions{Compression: seqdb.CompressionZSTD}); err != nil {
		panic(err)
	}

	fmt.Println("Stage D: loaded from disk")
	t0 := time.Now()
	loaded, err := indexer.Load(dir, nil, nil)
	if err != nil {
		panic(err)
	}
	defer loaded.Close()
	loadDur := time.Since(t0)
	diskRow, diskRes := measure("mmap", loaded, queries, topK, opts.workers, runs)
	diskRow.LoadDurMs = float64(loadDur.Nanoseconds()) / 1e6
	diskRow.Identical = sameResults(memRes, diskRes)
	memRow.Identical = diskRow.Identical

	rows := []metrics.StageDRow{memRow, diskRow}
	if memRow.QPS > 0 {
		fmt.Printf("  mmap/memory QPS ratio=%.2f identical=%t\n", diskRow.QPS/memRow.QPS, diskRow.Identical)
	}
	path := metrics.ReportPath("bench_report_stage_d_")
	if err := metrics.WriteStageDCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("report written to %s\n", path)
}

func measure(mode string, ix *indexer.LinearIndex, queries []indexer.Query, k, workers, runs int) (metrics.StageDRow, []indexer.Result) {
	sched := indexer.NewScheduler(ix, &indexer.Config{Workers: workers})
	var res []indexer.Result
	var sumQPS float64
	for r := 0; r < runs; r++ {
		t0 := time.Now()
		res = sched.Search(queries, k)
		sumQPS += float64(len(queries)) / time.Since(t0).Seconds()
	}
	seqs := make([][]byte, len(queries))
	for i, q := range queries {
		seqs[i] = q.Seq
	}
	durations, _ := timedSearch(ix, seqs, k)
	stats := metrics.LatencyStatsFromDurations(durations)
	row := metrics.StageDRow{
		Mode:        mode,
		QPS:         sumQPS / float64(runs),
		SearchP50Ms: stats.P50Ms,
		SearchP99Ms: stats.P99Ms,
	}
	fmt.Printf("  %s QPS=%.0f P50=%.2fms P99=%.2fms (avg of %d runs)\n", mode, row.QPS, row.SearchP50Ms, row.SearchP99Ms, runs)
	return row, res
}
