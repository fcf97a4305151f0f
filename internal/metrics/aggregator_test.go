package metrics

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/upload"
)

func TestRecordAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "metrics.json")
	agg := NewAggregator(path)

	agg.Record(Sample{ModelPair: "bert+resnet50", Latency: 100 * time.Millisecond, UploadBytes: 2048, Success: true, IsScam: true, Confidence: 80})
	agg.Record(Sample{ModelPair: "bert+resnet50", Latency: 300 * time.Millisecond, UploadBytes: 2048, Success: true, Confidence: 60})
	agg.Record(Sample{ModelPair: "bert+resnet50", Latency: 50 * time.Millisecond, UploadBytes: 5 << 20})

	snap := agg.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected one pair, got %d", len(snap))
	}
	stats := snap[0].OverallStats
	if stats.TotalRequests != 3 || stats.Successes != 2 || stats.Failures != 1 || stats.ScamVerdicts != 1 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.Confidence.Mean != 70 || stats.Confidence.Min != 60 || stats.Confidence.Max != 80 {
		t.Fatalf("unexpected confidence stats: %+v", stats.Confidence)
	}
	if stats.LatencyMillis.Min != 50 || stats.LatencyMillis.Max != 300 {
		t.Fatalf("unexpected latency stats: %+v", stats.LatencyMillis)
	}
	if len(snap[0].PerformanceBuckets) != 2 {
		t.Fatalf("expected two size buckets, got %+v", snap[0].PerformanceBuckets)
	}

	if err := agg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded[0].OverallStats.TotalRequests != 3 || loaded[0].OverallStats.Confidence.Count != 2 {
		t.Fatalf("unexpected loaded stats: %+v", loaded[0].OverallStats)
	}

	reopened := NewAggregator(path)
	reopened.Record(Sample{ModelPair: "bert+resnet50", Success: true, Confidence: 100})
	if got := reopened.Snapshot()[0].OverallStats.TotalRequests; got != 4 {
		t.Fatalf("expected counters to continue from file, got %d", got)
	}
}

func TestRunningStatStdDev(t *testing.T) {
	var rs RunningStat
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		updateRunningStat(&rs, v)
	}
	if rs.Mean != 5 {
		t.Fatalf("mean = %v", rs.Mean)
	}
	if got := rs.StdDev(); math.Abs(got-2.138) > 0.001 {
		t.Fatalf("stddev = %v", got)
	}
	if (RunningStat{Count: 1}).StdDev() != 0 {
		t.Fatal("expected zero stddev for a single value")
	}
}

func TestGetBucket(t *testing.T) {
	cases := map[int]string{0: "0-256KB", 300 << 10: "257KB-1MB", 2 << 20: "1-4MB", 8 << 20: "4MB+"}
	for size, want := range cases {
		if got := getBucket(size); got != want {
			t.Errorf("getBucket(%d) = %s, want %s", size, got, want)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, ErrNoMetrics) {
		t.Fatalf("expected ErrNoMetrics, got %v", err)
	}
}

type stubService struct {
	result detector.AnalysisResult
	err    error
	closed bool
}

func (s *stubService) Analyze(context.Context, detector.AnalysisRequest) (detector.AnalysisResult, error) {
	return s.result, s.err
}
func (s *stubService) SendFeedback(context.Context, detector.FeedbackRequest) error { return nil }
func (s *stubService) SendReport(context.Context, detector.ReportRequest) error     { return nil }
func (s *stubService) Close() error                                                 { s.closed = true; return nil }

func TestServiceRecordsOutcome(t *testing.T) {
	stub := &stubService{result: detector.AnalysisResult{IsScam: true, Confidence: 92.5}}
	agg := NewAggregator("")
	svc := NewService(stub, agg)

	req := detector.AnalysisRequest{File: upload.SelectedFile{Data: make([]byte, 10)}, TextModel: "t", CNNModel: "c"}
	if _, err := svc.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	stub.err = errors.New("boom")
	if _, err := svc.Analyze(context.Background(), req); err == nil {
		t.Fatal("expected wrapped error to surface")
	}

	snap := agg.Snapshot()
	if len(snap) != 1 || snap[0].ModelPair != "t+c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap[0].OverallStats.Successes != 1 || snap[0].OverallStats.Failures != 1 {
		t.Fatalf("unexpected counters: %+v", snap[0].OverallStats)
	}
	if svc.Wrapped() != stub {
		t.Fatal("expected Wrapped to return the inner service")
	}
	if err := svc.Close(); err != nil || !stub.closed {
		t.Fatalf("expected close to reach wrapped service, err=%v", err)
	}
}
