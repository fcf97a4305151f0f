// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used by the first releases.
	legacyConfigPath = "config.json"
	// DefaultServerURL is the detection service the client talks to when none is configured.
	DefaultServerURL = "http://localhost:5000"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 60 * time.Second

	defaultStepInterval    = 700 * time.Millisecond
	defaultMinDisplay      = 3000 * time.Millisecond
	defaultModalTransition = 300 * time.Millisecond
	defaultIconReveal      = 200 * time.Millisecond
	defaultCarousel        = 5000 * time.Millisecond

	defaultListenAddr  = ":5000"
	defaultUploadDir   = "uploads"
	defaultDBPath      = "data/scamlens.db"
	defaultMaxUploadMB = 10
)

// DefaultTextModels lists the text classifiers offered when the config names none.
var DefaultTextModels = []string{"distilbert", "roberta", "tfidf-logreg"}

// DefaultCNNModels lists the image classifiers offered when the config names none.
var DefaultCNNModels = []string{"resnet50", "efficientnet-b0", "mobilenet-v3"}

// DefaultTips are the carousel slides shown when the config names none.
var DefaultTips = []string{
	"Banks never ask for your password or one-time code over chat or email.",
	"Urgency is a red flag: \"act now\" and \"account suspended\" are classic pressure tactics.",
	"Check the sender: lookalike domains swap letters, add hyphens or use odd TLDs.",
	"Gift cards, crypto and wire transfers are the payment methods scammers prefer.",
	"Too good to be true? Prize, refund and job offers you never applied for usually are.",
}

// Config represents the top-level application configuration.
type Config struct {
	ServerURL      string   `json:"serverURL"`
	TextModels     []string `json:"textModels,omitempty"`
	CNNModels      []string `json:"cnnModels,omitempty"`
	TextWeight     *float64 `json:"textWeight,omitempty"`
	Debug          bool     `json:"debug"`
	JSONMode       bool     `json:"jsonMode"`
	YAMLMode       bool     `json:"yamlMode"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile        string   `json:"logFile,omitempty"`
	Metrics        bool     `json:"metrics"`
	MetricsPath    string   `json:"metricsPath,omitempty"`
	Tips           []string `json:"tips,omitempty"`
	Timing         Timing   `json:"timing"`
	Server         Server   `json:"server"`
	ConfigPath     string   `json:"-"`
}

// Timing holds the cosmetic pacing of the analysis flow and the carousel, in milliseconds.
type Timing struct {
	StepMillis       int `json:"stepMillis,omitempty"`
	MinDisplayMillis int `json:"minDisplayMillis,omitempty"`
	ModalMillis      int `json:"modalMillis,omitempty"`
	IconMillis       int `json:"iconMillis,omitempty"`
	CarouselMillis   int `json:"carouselMillis,omitempty"`
}

// Server configures the local stub endpoints started by `scamlens serve`.
type Server struct {
	Addr           string        `json:"addr,omitempty"`
	UploadDir      string        `json:"uploadDir,omitempty"`
	DBPath         string        `json:"dbPath,omitempty"`
	MaxUploadMB    int           `json:"maxUploadMB,omitempty"`
	AllowedOrigins []string      `json:"allowedOrigins,omitempty"`
	Verdict        CannedVerdict `json:"verdict"`
}

// CannedVerdict is the fixed answer the stub server returns for every screenshot.
type CannedVerdict struct {
	IsScam            *bool              `json:"isScam,omitempty"`
	Confidence        float64            `json:"confidence,omitempty"`
	TextConfidence    float64            `json:"textConfidence,omitempty"`
	ImageConfidence   float64            `json:"imageConfidence,omitempty"`
	FeatureImportance map[string]float64 `json:"featureImportance,omitempty"`
	ExtractedText     string             `json:"extractedText,omitempty"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BaseURL returns the configured detection service URL without a trailing slash.
func (c Config) BaseURL() string {
	if u := strings.TrimSpace(c.ServerURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return DefaultServerURL
}

// TextModelOptions returns the selectable text model identifiers.
func (c Config) TextModelOptions() []string {
	if len(c.TextModels) == 0 {
		return DefaultTextModels
	}
	return c.TextModels
}

// CNNModelOptions returns the selectable image model identifiers.
func (c Config) CNNModelOptions() []string {
	if len(c.CNNModels) == 0 {
		return DefaultCNNModels
	}
	return c.CNNModels
}

// InitialTextWeight returns the text weight the page starts with.
func (c Config) InitialTextWeight() float64 {
	if c.TextWeight == nil {
		return 0.5
	}
	return *c.TextWeight
}

// CarouselTips returns the carousel slides.
func (c Config) CarouselTips() []string {
	if len(c.Tips) == 0 {
		return DefaultTips
	}
	return c.Tips
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "scamlens.log"
}

// MetricsFilePath returns where analysis metrics are persisted.
func (c Config) MetricsFilePath() string {
	if path := strings.TrimSpace(c.MetricsPath); path != "" {
		return path
	}
	return "reports/data/analysis_metrics.json"
}

func millis(v int, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Millisecond
}

// StepInterval is the cadence at which progress steps are revealed.
func (t Timing) StepInterval() time.Duration { return millis(t.StepMillis, defaultStepInterval) }

// MinDisplay is the minimum time the progress modal stays up before results show.
func (t Timing) MinDisplay() time.Duration { return millis(t.MinDisplayMillis, defaultMinDisplay) }

// ModalTransition is the hide/show animation time of a modal.
func (t Timing) ModalTransition() time.Duration {
	return millis(t.ModalMillis, defaultModalTransition)
}

// IconReveal is the delay before the success icon pops in.
func (t Timing) IconReveal() time.Duration { return millis(t.IconMillis, defaultIconReveal) }

// CarouselInterval is the auto-advance period of the tips carousel.
func (t Timing) CarouselInterval() time.Duration { return millis(t.CarouselMillis, defaultCarousel) }

// ListenAddr returns the stub server listen address.
func (s Server) ListenAddr() string {
	if a := strings.TrimSpace(s.Addr); a != "" {
		return a
	}
	return defaultListenAddr
}

// UploadPath returns the folder uploads are saved into.
func (s Server) UploadPath() string {
	if d := strings.TrimSpace(s.UploadDir); d != "" {
		return d
	}
	return defaultUploadDir
}

// DatabasePath returns the sqlite file used by the stub server.
func (s Server) DatabasePath() string {
	if p := strings.TrimSpace(s.DBPath); p != "" {
		return p
	}
	return defaultDBPath
}

// MaxUploadBytes returns the request body cap for uploads.
func (s Server) MaxUploadBytes() int64 {
	mb := s.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

// Scam reports the canned classification, defaulting to a scam verdict.
func (v CannedVerdict) Scam() bool {
	if v.IsScam == nil {
		return true
	}
	return *v.IsScam
}

// Validate checks the values a user is likely to get wrong.
func (c Config) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL()); err != nil {
		return fmt.Errorf("invalid serverURL %q: %w", c.ServerURL, err)
	}
	if w := c.InitialTextWeight(); w < 0 || w > 1 {
		return fmt.Errorf("textWeight must be within [0,1], got %v", w)
	}
	if c.JSONMode && c.YAMLMode {
		return errors.New("only one of jsonMode or yamlMode can be enabled")
	}
	return nil
}

// ResolvePath returns the config file to read for path, and whether it
// exists. An empty path means DefaultConfigPath, which falls back to the
// legacy location when only that file exists.
func ResolvePath(path string) (string, bool) {
	if path == "" {
		path = DefaultConfigPath
	}
	if isFile(path) {
		return path, true
	}
	if path == DefaultConfigPath && isFile(legacyConfigPath) {
		return legacyConfigPath, true
	}
	return path, false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
