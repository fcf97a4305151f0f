package metrics

import "time"

// PairMetrics is the aggregated document for one text/image model pair.
type PairMetrics struct {
	ModelPair          string                 `json:"model_pair"`
	LastUpdatedUTC     time.Time              `json:"last_updated_utc"`
	OverallStats       RunningAggregatedStats `json:"overall_stats"`
	PerformanceBuckets []PerformanceBucket    `json:"performance_buckets"`
}

// PerformanceBucket holds aggregated stats for a specific dimension, like upload size.
type PerformanceBucket struct {
	Dimension string                 `json:"dimension"`
	Bucket    string                 `json:"bucket"`
	Stats     RunningAggregatedStats `json:"stats"`
}

// RunningAggregatedStats stores the running statistical values for a set of analyses.
// It uses Welford's online algorithm for calculating mean and standard deviation.
type RunningAggregatedStats struct {
	TotalRequests int64 `json:"total_requests"`
	Successes     int64 `json:"successes"`
	Failures      int64 `json:"failures"`
	ScamVerdicts  int64 `json:"scam_verdicts"`

	LatencyMillis RunningStat `json:"latency_ms"`
	Confidence    RunningStat `json:"confidence"`
	UploadKB      RunningStat `json:"upload_kb"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"m2"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}
