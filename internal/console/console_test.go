package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/upload"
	"go.yaml.in/yaml/v3"
)

func init() {
	color.NoColor = true
}

func sampleSnapshot() controller.Snapshot {
	panel := controller.NewResultPanel(detector.AnalysisResult{
		IsScam:            true,
		Confidence:        87.3,
		TextConfidence:    91,
		ImageConfidence:   80.5,
		FeatureImportance: []detector.FeatureWeight{{Word: "urgent", Importance: 0.42}},
	})
	return controller.Snapshot{
		Phase:     controller.PhaseResults,
		File:      &upload.SelectedFile{Name: "photo.png", MediaType: "image/png"},
		Weights:   controller.NewWeights(0.6),
		TextModel: "distilbert",
		CNNModel:  "resnet50",
		Result:    &panel,
	}
}

func TestViewPrintsProgressAndErrors(t *testing.T) {
	var buf bytes.Buffer
	v := NewView(&buf, false)
	v.ProgressStarted()
	v.StepRevealed(0)
	v.StepRevealed(9)
	v.SuccessShown()
	v.ErrorShown("Analysis failed: boom")
	v.Prompted(controller.PromptCorrection)
	v.SlideChanged(1, "hidden tip")

	out := buf.String()
	for _, want := range []string{"Analyzing screenshot...", "[1/4] " + controller.ProgressSteps[0], "Analysis complete", "Analysis failed: boom", controller.PromptCorrection} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden tip") {
		t.Error("tip printed while tips are off")
	}
	v.ShowTips(true)
	v.SlideChanged(1, "shown tip")
	if !strings.Contains(buf.String(), "Tip: shown tip") {
		t.Error("tip not printed")
	}
}

func TestWriteReportText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, FormatText, NewReport(sampleSnapshot(), nil)); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"photo.png (distilbert+resnet50, weights 0.6/0.4)", "SCAM DETECTED", "87.3%", "urgent (0.420)", "[#################---]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, FormatJSON, NewReport(sampleSnapshot(), nil)); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	result, ok := got["result"].(map[string]any)
	if !ok || result["is_scam"] != true || result["confidence"] != 87.3 {
		t.Fatalf("result = %v", got["result"])
	}
}

func TestWriteReportYAMLWithError(t *testing.T) {
	var buf bytes.Buffer
	err := &detector.ApplicationError{Endpoint: "/analyze", Message: "Model not loaded"}
	if werr := WriteReport(&buf, FormatYAML, NewReport(sampleSnapshot(), err)); werr != nil {
		t.Fatalf("WriteReport: %v", werr)
	}
	var got Report
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if got.Error != "Model not loaded" || got.Result != nil || got.File != "photo.png" {
		t.Fatalf("report = %+v", got)
	}
}

func TestWriteReportTextSkipsShownError(t *testing.T) {
	report := NewReport(sampleSnapshot(), &detector.ApplicationError{Message: "Model not loaded"})

	var buf bytes.Buffer
	if err := WriteReport(&buf, FormatText, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if !strings.Contains(buf.String(), "Analysis failed: Model not loaded") {
		t.Fatalf("expected failure line, got %q", buf.String())
	}

	buf.Reset()
	report.ErrorShown = true
	if err := WriteReport(&buf, FormatText, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if strings.Contains(buf.String(), "Analysis failed") || !strings.Contains(buf.String(), "photo.png") {
		t.Fatalf("expected only the header, got %q", buf.String())
	}

	buf.Reset()
	if err := WriteReport(&buf, FormatJSON, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if !strings.Contains(buf.String(), `"error": "Model not loaded"`) {
		t.Fatalf("JSON report lost its error: %s", buf.String())
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor(nil) != FormatText || FormatFor(&appconfig.Config{JSONMode: true}) != FormatJSON || FormatFor(&appconfig.Config{YAMLMode: true}) != FormatYAML {
		t.Fatal("unexpected format selection")
	}
}
