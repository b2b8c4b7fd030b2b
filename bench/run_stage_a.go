// Stage A: how often pruning with a non-metric distance reproduces brute force.
package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/bench/gen"
	"github.com/ic-timon/vpsearch/bench/metrics"
	"github.com/ic-timon/vpsearch/indexer"
)

func runStageA(opts stageOpts) {
	n := opts.recordsOr(1000)
	const queryCount = 50
	ks := []int{1, 4, 10}
	scorer := align.New(align.DefaultParams())

	type dataset struct {
		name    string
		refs    [][]byte
		queries [][]byte
	}
	near := dataset{name: "near-identical"}
	near.refs, near.queries = splitQueries(gen.Families(n+queryCount, 20, opts.length, 6, 1), queryCount)
	far := dataset{name: "divergent"}
	far.refs, far.queries = splitQueries(gen.RandomDNA(n+queryCount, opts.length, 2), queryCount)
	datasets := []dataset{near, far}

	var rows []metrics.StageARow
	for _, ds := range datasets {
		fmt.Printf("Stage A: %s, %s records of %d bp\n", ds.name, humanize.Comma(int64(n)), opts.length)
		ix, _, buildDur := mustBuild(ds.refs, scorer)
		fmt.Printf("  build %s\n", buildDur.Round(time.Millisecond))

		for _, k := range ks {
			var recall, exact float64
			searchDur := make([]time.Duration, len(ds.queries))
			scanDur := make([]time.Duration, len(ds.queries))
			var visited int
			for i, q := range ds.queries {
				t0 := time.Now()
				got, v, err := ix.SearchStats(q, k)
				if err != nil {
					panic(err)
				}
				searchDur[i] = time.Since(t0)
				visited += v

				t1 := time.Now()
				want, err := ix.Scan(q, k)
				if err != nil {
					panic(err)
				}
				scanDur[i] = time.Since(t1)

				r := distanceRecall(want, got)
				recall += r
				if r == 1 {
					exact++
				}
			}
			qn := float64(len(ds.queries))
			row := metrics.StageARow{
				Dataset:     ds.name,
				Records:     n,
				K:           k,
				Recall:      recall / qn,
				ExactRate:   exact / qn,
				MeanVisited: float64(visited) / qn,
				SearchP50Ms: metrics.LatencyStatsFromDurations(searchDur).P50Ms,
				ScanP50Ms:   metrics.LatencyStatsFromDurations(scanDur).P50Ms,
			}
			rows = append(rows, row)
			fmt.Printf("  k=%d recall=%.4f exact=%.2f visited=%.0f/%d search P50=%.2fms scan P50=%.2fms\n",
				k, row.Recall, row.ExactRate, row.MeanVisited, n, row.SearchP50Ms, row.ScanP50Ms)
		}
	}

	path := metrics.ReportPath("bench_report_stage_a_")
	if err := metrics.WriteStageACSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("report written to %s\n", path)
}

// distanceRecall is the fraction of brute-force distances (as a multiset)
// that the search reproduced. Both inputs are sorted ascending.
func distanceRecall(want, got []indexer.Neighbor) float64 {
	if len(want) == 0 {
		return 1
	}
	var i, j, hit int
	for i < len(want) && j < len(got) {
		switch {
		case want[i].Distance == got[j].Distance:
			hit++
			i++
			j++
		case want[i].Distance < got[j].Distance:
			i++
		default:
			j++
		}
	}
	return float64(hit) / float64(len(want))
}
