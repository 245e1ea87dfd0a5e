package providers

import (
	"github.com/samber/do/v2"

	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/metrics"
)

// ProvideMetrics provides the Prometheus collectors. Nil when metrics are disabled;
// every consumer treats a nil *metrics.Metrics as a no-op.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	return metrics.New(), nil
}
