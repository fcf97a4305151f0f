package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/metrics"
)

// metricsStatus says whether analyses in this session are being recorded.
type metricsStatus string

const (
	metricsStatusOff       metricsStatus = "off"
	metricsStatusRecording metricsStatus = "recording"
)

// deriveMetricsStatus reports recording only when metrics are enabled and the
// service chain actually contains the metrics decorator.
func deriveMetricsStatus(cfg *appconfig.Config, svc detector.Service) metricsStatus {
	if cfg == nil || !cfg.Metrics {
		return metricsStatusOff
	}
	for svc != nil {
		if _, ok := svc.(*metrics.Service); ok {
			return metricsStatusRecording
		}
		wrapper, ok := svc.(interface{ Wrapped() detector.Service })
		if !ok {
			break
		}
		next := wrapper.Wrapped()
		if next == svc {
			break
		}
		svc = next
	}
	return metricsStatusOff
}

func formatMetricsIndicator(status metricsStatus) string {
	if status == metricsStatusRecording {
		return "Metrics: recording"
	}
	return "Metrics: off"
}

// renderMetricsBadge returns a Lipgloss-styled badge for the metrics status.
func renderMetricsBadge(status metricsStatus) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	return badgeStyle.Render(formatMetricsIndicator(status))
}

// renderServerBadge returns a Lipgloss-styled badge naming the detection service.
func renderServerBadge(url string) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1).MarginLeft(1)
	return badgeStyle.Render("Server: " + url)
}
