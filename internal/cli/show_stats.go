// internal/cli/show_stats.go
package scamlens

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mwiater/scamlens/internal/console"
	"github.com/mwiater/scamlens/internal/metrics"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// showStatsCmd implements 'show stats', which prints the recorded
// per-model-pair analysis metrics.
var showStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded analysis metrics per model pair",
	Long:  `Show the latency, confidence and verdict counts recorded for each text/image model pair while --metrics was enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		pairs, err := metrics.Load(cfg.MetricsFilePath())
		if errors.Is(err, metrics.ErrNoMetrics) {
			fmt.Fprintf(cmd.OutOrStdout(), "No analysis metrics recorded yet (%s). Run with --metrics to collect them.\n", cfg.MetricsFilePath())
			return nil
		}
		if err != nil {
			return fmt.Errorf("load metrics: %w", err)
		}
		return writeStats(cmd.OutOrStdout(), console.FormatFor(cfg), pairs)
	},
}

func init() {
	showCmd.AddCommand(showStatsCmd)
}

func writeStats(out io.Writer, format console.Format, pairs []metrics.PairMetrics) error {
	switch format {
	case console.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pairs)
	case console.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(pairs); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, p := range pairs {
		s := p.OverallStats
		fmt.Fprintf(out, "%s (updated %s)\n", p.ModelPair, p.LastUpdatedUTC.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  Requests:    %d (%d ok, %d failed, %d scam)\n", s.TotalRequests, s.Successes, s.Failures, s.ScamVerdicts)
		fmt.Fprintf(out, "  Latency:     mean %.0f ms, sd %.0f, min %.0f, max %.0f\n",
			s.LatencyMillis.Mean, s.LatencyMillis.StdDev(), s.LatencyMillis.Min, s.LatencyMillis.Max)
		fmt.Fprintf(out, "  Confidence:  mean %.1f%%\n", s.Confidence.Mean)
		for _, b := range p.PerformanceBuckets {
			fmt.Fprintf(out, "  %-12s %-10s %d requests, mean %.0f ms\n", b.Dimension, b.Bucket, b.Stats.TotalRequests, b.Stats.LatencyMillis.Mean)
		}
	}
	return nil
}
