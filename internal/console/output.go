package console

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/mwiater/scamlens/internal/detector"
	"go.yaml.in/yaml/v3"
)

// Format selects how results are written.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// FormatFor picks the output format from the config flags.
func FormatFor(cfg *appconfig.Config) Format {
	switch {
	case cfg == nil:
		return FormatText
	case cfg.JSONMode:
		return FormatJSON
	case cfg.YAMLMode:
		return FormatYAML
	default:
		return FormatText
	}
}

// Report is the outcome of analyzing one file.
type Report struct {
	File       string                   `json:"file" yaml:"file"`
	TextModel  string                   `json:"text_model" yaml:"text_model"`
	CNNModel   string                   `json:"cnn_model" yaml:"cnn_model"`
	TextWeight float64                  `json:"text_weight" yaml:"text_weight"`
	CNNWeight  float64                  `json:"cnn_weight" yaml:"cnn_weight"`
	Result     *detector.AnalysisResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error      string                   `json:"error,omitempty" yaml:"error,omitempty"`
	// ErrorShown marks an Error the progress view already printed.
	ErrorShown bool `json:"-" yaml:"-"`
}

// NewReport builds a Report from the controller state after an analysis.
func NewReport(s controller.Snapshot, err error) Report {
	r := Report{
		TextModel:  s.TextModel,
		CNNModel:   s.CNNModel,
		TextWeight: s.Weights.Text,
		CNNWeight:  s.Weights.Image,
	}
	if s.File != nil {
		r.File = s.File.Name
	}
	if err != nil {
		r.Error = detector.UserMessage(err)
		return r
	}
	if s.Result != nil {
		res := s.Result.Result
		r.Result = &res
	}
	return r
}

// WriteReport writes r in the given format. Text output is the result panel.
func WriteReport(out io.Writer, format Format, r Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintf(out, "%s (%s+%s, weights %.1f/%.1f)\n", r.File, r.TextModel, r.CNNModel, r.TextWeight, r.CNNWeight)
	if r.Error != "" {
		if !r.ErrorShown {
			fmt.Fprintln(out, failedText("Analysis failed: "+r.Error))
		}
		return nil
	}
	if r.Result != nil {
		WritePanel(out, controller.NewResultPanel(*r.Result))
	}
	return nil
}
