package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// LatencyStats summarises per-request latencies.
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// StageARow is one recall measurement against brute force.
type StageARow struct {
	Dataset     string
	Records     int
	K           int
	Recall      float64 // fraction of brute-force distances reproduced
	ExactRate   float64 // fraction of queries whose whole result matched
	MeanVisited float64 // records aligned per query
	SearchP50Ms float64
	ScanP50Ms   float64
}

// StageBRow is one scaling measurement.
type StageBRow struct {
	Records     int
	BuildDurMs  float64
	MaxDepth    int
	MeanVisited float64
	SearchP50Ms float64
	SearchP99Ms float64
	HeapSysMB   float64
}

// StageCRow is one scheduler throughput measurement.
type StageCRow struct {
	Workers      int
	Records      int
	Queries      int
	QPS          float64
	AllocMBps    float64
	NumGC        uint32
	NumGoroutine int
}

// StageDRow compares the in-memory index with the one loaded from disk.
type StageDRow struct {
	Mode        string
	LoadDurMs   float64
	QPS         float64
	SearchP50Ms float64
	SearchP99Ms float64
	Identical   bool
}

// Percentile returns the p-th percentile (0-100) of sorted.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

// LatencyStatsFromDurations computes P50/P95/P99 and the mean.
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = float64(d.Nanoseconds()) / 1e6
		sum += ms[i]
	}
	slices.Sort(ms)
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

// WriteStageACSV writes stage A rows to path.
func WriteStageACSV(rows []StageARow, path string) error {
	return writeCSV(path,
		[]string{"Dataset", "Records", "K", "Recall", "ExactRate", "MeanVisited", "SearchP50Ms", "ScanP50Ms"},
		rows, func(r StageARow) []string {
			return []string{
				r.Dataset,
				fmt.Sprintf("%d", r.Records),
				fmt.Sprintf("%d", r.K),
				fmt.Sprintf("%.4f", r.Recall),
				fmt.Sprintf("%.4f", r.ExactRate),
				fmt.Sprintf("%.1f", r.MeanVisited),
				fmt.Sprintf("%.3f", r.SearchP50Ms),
				fmt.Sprintf("%.3f", r.ScanP50Ms),
			}
		})
}

// WriteStageBCSV writes stage B rows to path.
func WriteStageBCSV(rows []StageBRow, path string) error {
	return writeCSV(path,
		[]string{"Records", "BuildDurMs", "MaxDepth", "MeanVisited", "SearchP50Ms", "SearchP99Ms", "HeapSysMB"},
		rows, func(r StageBRow) []string {
			return []string{
				fmt.Sprintf("%d", r.Records),
				fmt.Sprintf("%.0f", r.BuildDurMs),
				fmt.Sprintf("%d", r.MaxDepth),
				fmt.Sprintf("%.1f", r.MeanVisited),
				fmt.Sprintf("%.3f", r.SearchP50Ms),
				fmt.Sprintf("%.3f", r.SearchP99Ms),
				fmt.Sprintf("%.1f", r.HeapSysMB),
			}
		})
}

// WriteStageCCSV writes stage C rows to path.
func WriteStageCCSV(rows []StageCRow, path string) error {
	return writeCSV(path,
		[]string{"Workers", "Records", "Queries", "QPS", "AllocMBps", "NumGC", "NumGoroutine"},
		rows, func(r StageCRow) []string {
			return []string{
				fmt.Sprintf("%d", r.Workers),
				fmt.Sprintf("%d", r.Records),
				fmt.Sprintf("%d", r.Queries),
				fmt.Sprintf("%.2f", r.QPS),
				fmt.Sprintf("%.1f", r.AllocMBps),
				fmt.Sprintf("%d", r.NumGC),
				fmt.Sprintf("%d", r.NumGoroutine),
			}
		})
}

// WriteStageDCSV writes stage D rows to path.
func WriteStageDCSV(rows []StageDRow, path string) error {
	return writeCSV(path,
		[]string{"Mode", "LoadDurMs", "QPS", "SearchP50Ms", "SearchP99Ms", "Identical"},
		rows, func(r StageDRow) []string {
			return []string{
				r.Mode,
				fmt.Sprintf("%.1f", r.LoadDurMs),
				fmt.Sprintf("%.2f", r.QPS),
				fmt.Sprintf("%.3f", r.SearchP50Ms),
				fmt.Sprintf("%.3f", r.SearchP99Ms),
				fmt.Sprintf("%t", r.Identical),
			}
		})
}

func writeCSV[T any](path string, header []string, rows []T, format func(T) []string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write(header)
	for _, r := range rows {
		w.Write(format(r))
	}
	w.Flush()
	return w.Error()
}

// ReportDir is where reports are written.
const ReportDir = "report"

// ReportPath returns a dated report path under ReportDir.
func ReportPath(prefix string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+".csv")
}
