package scamlens

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/scamlens/internal/console"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/upload"
)

func TestRunAnalyzeJSON(t *testing.T) {
	svc := newFakeService()
	cfg := fastConfig()
	cfg.JSONMode = true
	path := writePNG(t, t.TempDir(), "chat.png")

	var out, progress bytes.Buffer
	opts := analyzeOptions{textModel: "roberta", textWeight: 0.7, weightSet: true}
	if err := runAnalyze(context.Background(), &out, &progress, cfg, svc, opts, []string{path}); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}

	var report console.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, out.String())
	}
	if report.File != "chat.png" || report.Result == nil || !report.Result.IsScam {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.TextModel != "roberta" || report.TextWeight != 0.7 || report.CNNWeight != 0.3 {
		t.Fatalf("settings not applied: %+v", report)
	}
	if !strings.Contains(progress.String(), "Analyzing screenshot") {
		t.Fatalf("expected progress on the side channel, got %q", progress.String())
	}

	req := svc.requests[0]
	if req.TextModel != "roberta" || req.TextWeight != 0.7 {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestRunAnalyzeTextContinuesAfterFailure(t *testing.T) {
	svc := newFakeService()
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	good := writePNG(t, dir, "ok.png")

	var out bytes.Buffer
	err := runAnalyze(context.Background(), &out, nil, fastConfig(), svc, analyzeOptions{}, []string{notes, good})
	if !errors.Is(err, upload.ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if svc.analyzeCount() != 1 {
		t.Fatalf("expected only the image to be analyzed, got %d", svc.analyzeCount())
	}
	text := out.String()
	if !strings.Contains(text, "notes.txt") || !strings.Contains(text, controller.TitleScam) {
		t.Fatalf("expected both reports in output:\n%s", text)
	}
}

func TestAnalyzeFileServiceError(t *testing.T) {
	svc := newFakeService()
	svc.err = &detector.ApplicationError{Message: "model offline"}
	path := writePNG(t, t.TempDir(), "a.png")

	var progress bytes.Buffer
	report, err := analyzeFile(context.Background(), &progress, fastConfig(), svc, analyzeOptions{}, path)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if report.Error != "model offline" || report.Result != nil {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.Contains(progress.String(), "Analysis failed: model offline") {
		t.Fatalf("expected the failure to be shown, got %q", progress.String())
	}
}

func TestRunAnalyzeTextPrintsFailureOnce(t *testing.T) {
	svc := newFakeService()
	svc.err = &detector.TransportError{StatusCode: 500}
	path := writePNG(t, t.TempDir(), "a.png")

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), &out, nil, fastConfig(), svc, analyzeOptions{}, []string{path}); err == nil {
		t.Fatal("expected an error")
	}
	if got := strings.Count(out.String(), "Analysis failed"); got != 1 {
		t.Fatalf("failure printed %d times:\n%s", got, out.String())
	}
}

func TestAnalyzeFileUnknownModel(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png")
	_, err := analyzeFile(context.Background(), &bytes.Buffer{}, fastConfig(), newFakeService(), analyzeOptions{cnnModel: "vgg"}, path)
	if !errors.Is(err, controller.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestAnalyzeFileFeedback(t *testing.T) {
	svc := newFakeService()
	path := writePNG(t, t.TempDir(), "a.png")

	opts := analyzeOptions{feedback: "incorrect", correction: "legitimate", comments: "my bank"}
	if _, err := analyzeFile(context.Background(), &bytes.Buffer{}, fastConfig(), svc, opts, path); err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}
	if len(svc.feedback) != 1 {
		t.Fatalf("expected one feedback request, got %d", len(svc.feedback))
	}
	fb := svc.feedback[0]
	if fb.FeedbackType != detector.FeedbackIncorrect || fb.CorrectClassification != "legitimate" || fb.Comments != "my bank" {
		t.Fatalf("unexpected feedback %+v", fb)
	}
}

func TestAnalyzeFileFeedbackNeedsCorrection(t *testing.T) {
	svc := newFakeService()
	path := writePNG(t, t.TempDir(), "a.png")

	report, err := analyzeFile(context.Background(), &bytes.Buffer{}, fastConfig(), svc, analyzeOptions{feedback: "incorrect"}, path)
	if !errors.Is(err, controller.ErrCorrectionRequired) {
		t.Fatalf("expected ErrCorrectionRequired, got %v", err)
	}
	if report.Result == nil {
		t.Fatalf("the verdict should still be reported")
	}
	if len(svc.feedback) != 0 {
		t.Fatalf("nothing should be sent without a correction")
	}
}
