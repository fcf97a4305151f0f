// internal/metrics/provider.go
package metrics

import (
	"context"
	"time"

	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/logging"
)

// Service is a decorator that wraps a detector.Service to record analysis metrics.
type Service struct {
	wrapped    detector.Service
	aggregator *Aggregator
	now        func() time.Time
}

// NewService creates a metrics-recording service that wraps an existing one.
func NewService(wrapped detector.Service, aggregator *Aggregator) *Service {
	logging.LogMetricsEvent("Wrapping detector with metrics recorder")
	return &Service{wrapped: wrapped, aggregator: aggregator, now: time.Now}
}

// Wrapped returns the decorated service.
func (s *Service) Wrapped() detector.Service { return s.wrapped }

// Aggregator returns the recorder the decorator writes to.
func (s *Service) Aggregator() *Aggregator { return s.aggregator }

// Analyze times the wrapped call and records its outcome.
func (s *Service) Analyze(ctx context.Context, req detector.AnalysisRequest) (detector.AnalysisResult, error) {
	start := s.now()
	result, err := s.wrapped.Analyze(ctx, req)
	if s.aggregator != nil {
		s.aggregator.Record(Sample{
			ModelPair:   req.ModelPair(),
			Latency:     s.now().Sub(start),
			UploadBytes: req.File.Size(),
			Success:     err == nil,
			IsScam:      result.IsScam,
			Confidence:  result.Confidence,
		})
	}
	return result, err
}

// SendFeedback passes the call through to the wrapped service.
func (s *Service) SendFeedback(ctx context.Context, req detector.FeedbackRequest) error {
	return s.wrapped.SendFeedback(ctx, req)
}

// SendReport passes the call through to the wrapped service.
func (s *Service) SendReport(ctx context.Context, req detector.ReportRequest) error {
	return s.wrapped.SendReport(ctx, req)
}

// Close saves the collected metrics and closes the wrapped service.
func (s *Service) Close() error {
	if s.aggregator != nil {
		if err := s.aggregator.Save(); err != nil {
			logging.LogMetricsEvent("save failed: %v", err)
		}
	}
	return s.wrapped.Close()
}
