package metrics

import (
	"context"
	"log/slog"

	"github.com/iacguardian/iac-guardian/pkg/model"
)

// Failover wraps a live provider with the fail-open policy: any failure to
// reach the metrics source is logged and answered with the placeholder
// snapshot instead of propagating. A missing metric must never block the
// analysis flow, but the substituted snapshot stays marked Placeholder so
// verdicts built on it can be labeled.
type Failover struct {
	live        Provider
	placeholder *PlaceholderProvider
	logger      *slog.Logger
}

func NewFailover(live Provider, logger *slog.Logger) *Failover {
	if logger == nil {
		logger = slog.Default()
	}
	return &Failover{
		live:        live,
		placeholder: NewPlaceholder(),
		logger:      logger,
	}
}

// Snapshot never returns an error.
func (f *Failover) Snapshot(ctx context.Context, q Query) (*model.MetricsSnapshot, error) {
	snap, err := f.live.Snapshot(ctx, q)
	if err != nil {
		f.logger.Warn("metrics source unavailable, falling back to placeholder data",
			"service", q.Service, "error", err)
		return f.placeholder.Snapshot(ctx, q)
	}
	return snap, nil
}
