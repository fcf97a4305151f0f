package scamlens

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/detector"
)

// fakeService is an in-memory detector.Service.
type fakeService struct {
	mu       sync.Mutex
	result   detector.AnalysisResult
	err      error
	requests []detector.AnalysisRequest
	feedback []detector.FeedbackRequest
	reports  []detector.ReportRequest
	closed   bool
}

func newFakeService() *fakeService {
	return &fakeService{result: detector.AnalysisResult{
		IsScam:            true,
		Confidence:        92.5,
		TextConfidence:    95,
		ImageConfidence:   88,
		FeatureImportance: []detector.FeatureWeight{{Word: "verify", Importance: 0.31}},
	}}
}

func (s *fakeService) Analyze(_ context.Context, req detector.AnalysisRequest) (detector.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.result, s.err
}

func (s *fakeService) SendFeedback(_ context.Context, req detector.FeedbackRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, req)
	return nil
}

func (s *fakeService) SendReport(_ context.Context, req detector.ReportRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, req)
	return nil
}

func (s *fakeService) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *fakeService) analyzeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func fastConfig() *appconfig.Config {
	return &appconfig.Config{Timing: appconfig.Timing{
		StepMillis:       1,
		MinDisplayMillis: 1,
		ModalMillis:      1,
		IconMillis:       1,
		CarouselMillis:   1,
	}}
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

func TestNewServiceWrapsMetrics(t *testing.T) {
	cfg := &appconfig.Config{}
	if _, ok := newService(cfg).(*detector.Client); !ok {
		t.Fatalf("expected a plain client without metrics")
	}

	cfg = &appconfig.Config{Metrics: true, MetricsPath: filepath.Join(t.TempDir(), "m.json")}
	svc := newService(cfg)
	if _, ok := svc.(*detector.Client); ok {
		t.Fatalf("expected the client to be wrapped when metrics are on")
	}
	_ = svc.Close()
}
