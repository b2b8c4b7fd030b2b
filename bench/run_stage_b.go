package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/bench/gen"
	"github.com/ic-timon/vpsearch/bench/metrics"
)

func runStageB(opts stageOpts) {
	const queryCount = 100
	const topK = 4

	scales := []int{1_000, 2_000, 5_000, 10_000}
	if opts.records > 0 {
		scales = []int{opts.records}
	}
	scorer := align.New(align.DefaultParams())

	var rows []metrics.StageBRow
	for _, n := range scales {
		fmt.Printf("Stage B: %s records of %d bp\n", humanize.Comma(int64(n)), opts.length)

		refs, queries := splitQueries(gen.Families(n+queryCount, max(1, n/50), opts.length, 8, int64(n)), queryCount)

		metrics.GC()
		ix, b, buildDur := mustBuild(refs, scorer)
		durations, visited := timedSearch(ix, queries, topK)
		stats := metrics.LatencyStatsFromDurations(durations)
		after := metrics.Take()

		rows = append(rows, metrics.StageBRow{
			Records:     n,
			BuildDurMs:  float64(buildDur.Nanoseconds()) / 1e6,
			MaxDepth:    b.MaxDepth(),
			MeanVisited: visited,
			SearchP50Ms: stats.P50Ms,
			SearchP99Ms: stats.P99Ms,
			HeapSysMB:   metrics.MB(after.HeapSys),
		})
		fmt.Printf("  Build=%.0fms Depth=%d Visited=%.0f SearchP50=%.2fms P99=%.2fms HeapSys=%.1fMB\n",
			rows[len(rows)-1].BuildDurMs, b.MaxDepth(), visited, stats.P50Ms, stats.P99Ms, rows[len(rows)-1].HeapSysMB)
	}

	path := metrics.ReportPath("bench_report_stage_b_")
	if err := metrics.WriteStageBCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("report written to %s\n", path)
}
