// internal/metrics/aggregator.go
package metrics

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mwiater/scamlens/internal/logging"
)

// Sample is one finished analysis as seen by the recorder.
type Sample struct {
	ModelPair   string
	Latency     time.Duration
	UploadBytes int
	Success     bool
	IsScam      bool
	Confidence  float64
}

// Aggregator collects per-model-pair analysis metrics and persists them as JSON.
type Aggregator struct {
	mutex    sync.Mutex
	metrics  map[string]*PairMetrics
	filePath string
}

// NewAggregator creates an Aggregator seeded from filePath when it exists.
// An empty filePath keeps metrics in memory only.
func NewAggregator(filePath string) *Aggregator {
	agg := &Aggregator{
		metrics:  make(map[string]*PairMetrics),
		filePath: filePath,
	}
	agg.load()
	return agg
}

// load reads metrics from the JSON file into memory.
func (a *Aggregator) load() {
	if a.filePath == "" {
		return
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()

	data, err := os.ReadFile(a.filePath)
	if err != nil {
		return
	}

	var metricsSlice []*PairMetrics
	if err := json.Unmarshal(data, &metricsSlice); err != nil {
		logging.LogMetricsEvent("ignoring unreadable metrics file %s: %v", a.filePath, err)
		return
	}

	for _, m := range metricsSlice {
		a.metrics[m.ModelPair] = m
	}
}

// Save writes the current metrics from memory to the JSON file.
func (a *Aggregator) Save() error {
	if a.filePath == "" {
		return nil
	}
	logging.LogMetricsEvent("Saving metrics to %s", a.filePath)

	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(a.filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(a.filePath, data, 0o644)
}

// Snapshot returns a copy of all pair metrics ordered by model pair.
func (a *Aggregator) Snapshot() []PairMetrics {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]PairMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		cp := *m
		cp.PerformanceBuckets = append([]PerformanceBucket(nil), m.PerformanceBuckets...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelPair < out[j].ModelPair })
	return out
}

// Record updates the metrics for the sample's model pair.
func (a *Aggregator) Record(s Sample) {
	logging.LogMetricsEvent("Record called for %s success=%v latency=%s", s.ModelPair, s.Success, s.Latency)
	a.mutex.Lock()
	defer a.mutex.Unlock()

	pair, exists := a.metrics[s.ModelPair]
	if !exists {
		pair = &PairMetrics{ModelPair: s.ModelPair}
		a.metrics[s.ModelPair] = pair
	}
	pair.LastUpdatedUTC = time.Now().UTC()

	updateStats(&pair.OverallStats, s)

	bucket := getBucket(s.UploadBytes)
	for i := range pair.PerformanceBuckets {
		if pair.PerformanceBuckets[i].Dimension == "upload_size" && pair.PerformanceBuckets[i].Bucket == bucket {
			updateStats(&pair.PerformanceBuckets[i].Stats, s)
			return
		}
	}
	newBucket := PerformanceBucket{Dimension: "upload_size", Bucket: bucket}
	updateStats(&newBucket.Stats, s)
	pair.PerformanceBuckets = append(pair.PerformanceBuckets, newBucket)
}

// updateStats folds one sample into the running statistics.
func updateStats(stats *RunningAggregatedStats, s Sample) {
	stats.TotalRequests++
	updateRunningStat(&stats.LatencyMillis, float64(s.Latency.Milliseconds()))
	updateRunningStat(&stats.UploadKB, float64(s.UploadBytes)/1024)
	if !s.Success {
		stats.Failures++
		return
	}
	stats.Successes++
	if s.IsScam {
		stats.ScamVerdicts++
	}
	updateRunningStat(&stats.Confidence, s.Confidence)
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// StdDev returns the sample standard deviation, or 0 with fewer than two values.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}

// getBucket determines the performance bucket for an upload size.
func getBucket(size int) string {
	kb := size / 1024
	switch {
	case kb <= 256:
		return "0-256KB"
	case kb <= 1024:
		return "257KB-1MB"
	case kb <= 4096:
		return "1-4MB"
	default:
		return "4MB+"
	}
}

// ErrNoMetrics is returned by Load when nothing has been recorded yet.
var ErrNoMetrics = errors.New("no analysis metrics recorded yet")

// Load reads a metrics file written by Save.
func Load(filePath string) ([]PairMetrics, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoMetrics
		}
		return nil, err
	}
	var out []PairMetrics
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoMetrics
	}
	return out, nil
}
