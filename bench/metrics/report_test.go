package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyStats(t *testing.T) {
	var ds []time.Duration
	for i := 100; i >= 1; i-- {
		ds = append(ds, time.Duration(i)*time.Millisecond)
	}
	s := LatencyStatsFromDurations(ds)
	assert.Equal(t, 100, s.N)
	assert.InDelta(t, 50, s.P50Ms, 1e-9)
	assert.InDelta(t, 99, s.P99Ms, 1e-9)
	assert.InDelta(t, 50.5, s.AvgMs, 1e-9)
	assert.Equal(t, LatencyStats{}, LatencyStatsFromDurations(nil))
}

func TestPercentileBounds(t *testing.T) {
	xs := []float64{1, 2, 3}
	assert.Equal(t, 1.0, Percentile(xs, -5))
	assert.Equal(t, 3.0, Percentile(xs, 100))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestWriteStageACSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "a.csv")
	rows := []StageARow{{Dataset: "near", Records: 10, K: 4, Recall: 1, ExactRate: 1, MeanVisited: 6}}
	require.NoError(t, WriteStageACSV(rows, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Dataset", recs[0][0])
	assert.Equal(t, []string{"near", "10", "4", "1.0000", "1.0000", "6.0", "0.000", "0.000"}, recs[1])
}
