package tui

import (
	"context"
	"sync"

	"github.com/mwiater/scamlens/internal/detector"
)

// testService is an in-memory detector.Service.
type testService struct {
	mu       sync.Mutex
	result   detector.AnalysisResult
	err      error
	requests []detector.AnalysisRequest
	feedback []detector.FeedbackRequest
	reports  []detector.ReportRequest
}

func newTestService() *testService {
	return &testService{result: detector.AnalysisResult{
		IsScam:            true,
		Confidence:        87.3,
		TextConfidence:    91.0,
		ImageConfidence:   80.5,
		FeatureImportance: []detector.FeatureWeight{{Word: "urgent", Importance: 0.42}},
	}}
}

func (s *testService) Analyze(_ context.Context, req detector.AnalysisRequest) (detector.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.result, s.err
}

func (s *testService) SendFeedback(_ context.Context, req detector.FeedbackRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, req)
	return nil
}

func (s *testService) SendReport(_ context.Context, req detector.ReportRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, req)
	return nil
}

func (s *testService) Close() error { return nil }
