// Benchmark entry point: -stage a|b|c|d
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
)

type stageOpts struct {
	records int // reference set size; 0 keeps the stage default
	length  int // reference length in bases
	workers int // scheduler workers for stage d
}

func main() {
	stage := flag.String("stage", "", "stage: a (recall vs brute force) | b (scaling) | c (scheduler throughput) | d (in-memory vs loaded)")
	records := flag.Int("records", 0, "reference records (stage default when 0)")
	length := flag.Int("length", 150, "reference length in bases")
	workers := flag.Int("workers", runtime.NumCPU(), "query workers (stage d)")
	flag.Parse()
	opts := stageOpts{records: *records, length: *length, workers: *workers}
	switch *stage {
	case "a":
		runStageA(opts)
	case "b":
		runStageB(opts)
	case "c":
		runStageC(opts)
	case "d":
		runStageD(opts)
	default:
		log.Fatalf("specify -stage a|b|c|d")
	}
	fmt.Println("benchmark complete")
}

func (o stageOpts) recordsOr(def int) int {
	if o.records > 0 {
		return o.records
	}
	return def
}
