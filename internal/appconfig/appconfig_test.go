package appconfig

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	if cfg.RequestTimeout() != 60*time.Second {
		t.Fatalf("request timeout: %v", cfg.RequestTimeout())
	}
	if cfg.BaseURL() != DefaultServerURL {
		t.Fatalf("base url: %s", cfg.BaseURL())
	}
	if cfg.InitialTextWeight() != 0.5 {
		t.Fatalf("text weight: %v", cfg.InitialTextWeight())
	}
	if len(cfg.CarouselTips()) != 5 {
		t.Fatalf("expected 5 default tips, got %d", len(cfg.CarouselTips()))
	}
	if cfg.Timing.CarouselInterval() != 5*time.Second {
		t.Fatalf("carousel interval: %v", cfg.Timing.CarouselInterval())
	}
	if cfg.Timing.ModalTransition() != 300*time.Millisecond || cfg.Timing.IconReveal() != 200*time.Millisecond {
		t.Fatalf("modal timings: %v %v", cfg.Timing.ModalTransition(), cfg.Timing.IconReveal())
	}
	if cfg.Server.MaxUploadBytes() != 10<<20 {
		t.Fatalf("max upload: %d", cfg.Server.MaxUploadBytes())
	}
	if !cfg.Server.Verdict.Scam() {
		t.Fatal("expected canned verdict to default to scam")
	}
	if cfg.LogFilePath() != "scamlens.log" {
		t.Fatalf("log file: %s", cfg.LogFilePath())
	}
}

func TestValidateRejectsBothOutputModes(t *testing.T) {
	cfg := Config{JSONMode: true, YAMLMode: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when json and yaml modes are both set")
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil)
	out := buf.String()
	if !strings.Contains(out, "No config file loaded") {
		t.Fatalf("expected default notice, got: %s", out)
	}
	if !strings.Contains(out, DefaultServerURL) {
		t.Fatalf("expected default server url, got: %s", out)
	}

	buf.Reset()
	ShowConfig(&buf, "config/config.json", &Config{ServerURL: "http://x"})
	if !strings.Contains(buf.String(), "Config file: config/config.json") || !strings.Contains(buf.String(), "http://x") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
