package controller

import (
	"testing"

	"github.com/mwiater/scamlens/internal/detector"
)

func TestNewResultPanelLegitimate(t *testing.T) {
	p := NewResultPanel(detector.AnalysisResult{IsScam: false, Confidence: 12.345, TextConfidence: 5, ImageConfidence: 20})
	if p.Title != TitleLegitimate || p.Confidence != "12.3%" || p.TextConfidence != "5.0%" {
		t.Fatalf("panel = %+v", p)
	}
	if len(p.Chips) != 0 {
		t.Fatalf("chips = %v", p.Chips)
	}
}

func TestBarWidthClamps(t *testing.T) {
	for in, want := range map[float64]float64{-5: 0, 0: 0, 55.5: 55.5, 100: 100, 130: 100} {
		if got := BarWidth(in); got != want {
			t.Errorf("BarWidth(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatChip(t *testing.T) {
	if got := FormatChip(detector.FeatureWeight{Word: "verify", Importance: 0.1}); got != "verify (0.100)" {
		t.Fatalf("chip = %q", got)
	}
}
