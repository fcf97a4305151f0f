package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Server URL:      %s\n", cfg.BaseURL())
	fmt.Fprintf(out, "  Text Models:     %s\n", strings.Join(cfg.TextModelOptions(), ", "))
	fmt.Fprintf(out, "  CNN Models:      %s\n", strings.Join(cfg.CNNModelOptions(), ", "))
	fmt.Fprintf(out, "  Text Weight:     %.1f\n", cfg.InitialTextWeight())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:       %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  YAML Mode:       %v\n", cfg.YAMLMode)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Metrics:         %v (%s)\n", cfg.Metrics, cfg.MetricsFilePath())
	fmt.Fprintf(out, "  Step Interval:   %s\n", cfg.Timing.StepInterval())
	fmt.Fprintf(out, "  Min Display:     %s\n", cfg.Timing.MinDisplay())
	fmt.Fprintf(out, "  Carousel:        %s, %d tips\n", cfg.Timing.CarouselInterval(), len(cfg.CarouselTips()))
	fmt.Fprintf(out, "  Stub Listen:     %s\n", cfg.Server.ListenAddr())
	fmt.Fprintf(out, "  Stub Uploads:    %s\n", cfg.Server.UploadPath())
	fmt.Fprintf(out, "  Stub Database:   %s\n", cfg.Server.DatabasePath())
}
