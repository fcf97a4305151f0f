package controller

import (
	"fmt"

	"github.com/mwiater/scamlens/internal/detector"
)

const (
	TitleScam       = "SCAM DETECTED"
	TitleLegitimate = "LEGITIMATE"

	descriptionScam       = "This screenshot shows potential scam indicators. Exercise caution and verify before taking any action."
	descriptionLegitimate = "This screenshot appears to be legitimate with no obvious scam indicators detected."
)

// ResultPanel is an AnalysisResult prepared for display.
type ResultPanel struct {
	IsScam         bool
	Title          string
	Description    string
	Confidence     string
	BarWidth       float64
	TextConfidence string
	ImgConfidence  string
	Chips          []string
	ExtractedText  string
	Result         detector.AnalysisResult
}

// NewResultPanel formats r. Numbers keep the payload's values; only their
// display is rounded to one decimal.
func NewResultPanel(r detector.AnalysisResult) ResultPanel {
	p := ResultPanel{
		IsScam:         r.IsScam,
		Title:          TitleLegitimate,
		Description:    descriptionLegitimate,
		Confidence:     FormatPercent(r.Confidence),
		BarWidth:       BarWidth(r.Confidence),
		TextConfidence: FormatPercent(r.TextConfidence),
		ImgConfidence:  FormatPercent(r.ImageConfidence),
		ExtractedText:  r.ExtractedText,
		Result:         r,
	}
	if r.IsScam {
		p.Title = TitleScam
		p.Description = descriptionScam
	}
	for _, f := range r.FeatureImportance {
		p.Chips = append(p.Chips, FormatChip(f))
	}
	return p
}

// FormatPercent renders a 0–100 score with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// BarWidth is the confidence bar fill in percent, clamped to [0,100].
func BarWidth(confidence float64) float64 {
	switch {
	case confidence != confidence, confidence < 0:
		return 0
	case confidence > 100:
		return 100
	default:
		return confidence
	}
}

// FormatChip renders one feature-importance entry, e.g. "urgent (0.420)".
func FormatChip(f detector.FeatureWeight) string {
	return fmt.Sprintf("%s (%.3f)", f.Word, f.Importance)
}
