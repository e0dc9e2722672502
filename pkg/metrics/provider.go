// Package metrics supplies the observability snapshot the risk analysis is
// grounded on. The pipeline always talks to one Provider interface; whether
// the numbers come from Datadog or from deterministic placeholder values is
// decided once, by configuration, when the provider is constructed.
package metrics

import (
	"context"
	"log/slog"

	"github.com/iacguardian/iac-guardian/pkg/config"
	"github.com/iacguardian/iac-guardian/pkg/model"
)

// Query identifies one metrics lookup. Infrastructure selects host-level
// utilization (Terraform compute changes) instead of Kubernetes service
// metrics.
type Query struct {
	Service        string
	LookbackHours  int
	Infrastructure bool
	InstanceType   string
}

// Provider returns a fully-populated MetricsSnapshot for a service and
// lookback window. Implementations must respect context cancellation.
type Provider interface {
	Snapshot(ctx context.Context, q Query) (*model.MetricsSnapshot, error)
}

// NewFromConfig selects the operating mode from configuration: a Datadog
// client wrapped in the fail-open failover when credentials are present,
// the placeholder provider otherwise. The analysis pipeline never branches
// on mode itself.
func NewFromConfig(cfg config.Config, logger *slog.Logger) Provider {
	if cfg.HasDatadogCredentials() {
		return NewFailover(NewDatadogClient(cfg), logger)
	}
	return NewPlaceholder()
}
