// internal/cli/service.go
package scamlens

import (
	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/metrics"
)

// newService builds the detection client, wrapped with the metrics recorder
// when metrics are enabled. Tests replace it with a fake.
var newService = func(cfg *appconfig.Config) detector.Service {
	var svc detector.Service = detector.New(cfg)
	if cfg.Metrics {
		svc = metrics.NewService(svc, metrics.NewAggregator(cfg.MetricsFilePath()))
	}
	return svc
}
