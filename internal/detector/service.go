// internal/detector/service.go

// Package detector talks to the screenshot scam-detection service. It defines
// the Service abstraction the controller depends on, the wire types of the
// three endpoints, and an HTTP Client implementing them.
package detector

import (
	"context"
	"time"

	"github.com/mwiater/scamlens/internal/upload"
)

// FeedbackKind is the user's verdict on a classification.
type FeedbackKind string

const (
	FeedbackCorrect   FeedbackKind = "correct"
	FeedbackIncorrect FeedbackKind = "incorrect"
)

// Valid reports whether k is one of the two accepted kinds.
func (k FeedbackKind) Valid() bool {
	return k == FeedbackCorrect || k == FeedbackIncorrect
}

// FeatureWeight is one token of the server-supplied feature-importance ranking.
type FeatureWeight struct {
	Word       string  `json:"word" yaml:"word"`
	Importance float64 `json:"importance" yaml:"importance"`
}

// AnalysisResult is the classification of a screenshot as returned by /analyze.
type AnalysisResult struct {
	IsScam            bool            `json:"is_scam" yaml:"is_scam"`
	Confidence        float64         `json:"confidence" yaml:"confidence"`
	TextConfidence    float64         `json:"text_confidence" yaml:"text_confidence"`
	ImageConfidence   float64         `json:"image_confidence" yaml:"image_confidence"`
	FeatureImportance []FeatureWeight `json:"feature_importance,omitempty" yaml:"feature_importance,omitempty"`
	ExtractedText     string          `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`
}

// AnalysisRequest carries everything the multipart /analyze body needs.
type AnalysisRequest struct {
	File       upload.SelectedFile
	TextModel  string
	CNNModel   string
	TextWeight float64
	CNNWeight  float64
}

// ModelPair identifies the text/image model combination used for a request.
func (r AnalysisRequest) ModelPair() string {
	return r.TextModel + "+" + r.CNNModel
}

// FeedbackRequest is the JSON body of /feedback.
type FeedbackRequest struct {
	FeedbackType          FeedbackKind `json:"feedback_type"`
	CorrectClassification string       `json:"correct_classification,omitempty"`
	Comments              string       `json:"comments,omitempty"`
	Timestamp             time.Time    `json:"timestamp"`
}

// ReportRequest is the JSON body of /report.
type ReportRequest struct {
	ScamType    string    `json:"scam_type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Service is the detection backend as seen by the client.
type Service interface {
	// Analyze submits one screenshot. It makes exactly one attempt.
	Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error)
	// SendFeedback submits the user's opinion of the last classification.
	SendFeedback(ctx context.Context, req FeedbackRequest) error
	// SendReport submits a scam report.
	SendReport(ctx context.Context, req ReportRequest) error
	// Close releases any resources held by the service.
	Close() error
}
