package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/bench/gen"
	"github.com/ic-timon/vpsearch/bench/metrics"
	"github.com/ic-timon/vpsearch/indexer"
)

func runStageC(opts stageOpts) {
	n := opts.recordsOr(5_000)
	const queryCount = 500
	const topK = 4

	workerCounts := []int{1, 2, 4, 8, 16}
	scorer := align.New(align.DefaultParams())
	refs, held := splitQueries(gen.Families(n+queryCount, max(1, n/50), opts.length, 8, 12345), queryCount)
	queries := toQueries(held)

	fmt.Printf("Stage C: building %d records...\n", n)
	ix, _, buildDur := mustBuild(refs, scorer)
	fmt.Printf("  build %s\n", buildDur.Round(time.Millisecond))

	var rows []metrics.StageCRow
	var baseline []indexer.Result
	for _, workers := range workerCounts {
		fmt.Printf("Stage C: %d workers\n", workers)
		sched := indexer.NewScheduler(ix, &indexer.Config{Workers: workers})

		metrics.GC()
		before := metrics.Take()
		start := time.Now()
		res := sched.Search(queries, topK)
		elapsed := time.Since(start).Seconds()
		after := metrics.Take()
		allocRate, gcDelta := metrics.Diff(before, after)

		if baseline == nil {
			baseline = res
		} else if !sameResults(baseline, res) {
			panic(fmt.Sprintf("results with %d workers differ from the sequential run", workers))
		}

		rows = append(rows, metrics.StageCRow{
			Workers:      workers,
			Records:      n,
			Queries:      queryCount,
			QPS:          float64(queryCount) / elapsed,
			AllocMBps:    allocRate / 1024 / 1024,
			NumGC:        gcDelta,
			NumGoroutine: after.NumGoroutine,
		})
		fmt.Printf("  QPS=%.0f Alloc=%.1fMB/s GC=%d\n", rows[len(rows)-1].QPS, rows[len(rows)-1].AllocMBps, gcDelta)
	}

	path := metrics.ReportPath("bench_report_stage_c_")
	if err := metrics.WriteStageCCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("report written to %s\n", path)
}

func sameResults(a, b []indexer.Result) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Query.ID != b[i].Query.ID || len(a[i].Neighbors) != len(b[i].Neighbors) {
			return false
		}
		for j := range a[i].Neighbors {
			if a[i].Neighbors[j] != b[i].Neighbors[j] {
				return false
			}
		}
	}
	return true
}
