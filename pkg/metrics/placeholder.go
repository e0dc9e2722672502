package metrics

import (
	"context"
	"time"

	"github.com/iacguardian/iac-guardian/pkg/model"
)

// Placeholder snapshot values. Fixed so that the pipeline behaves
// identically run to run when no metrics source is configured.
const (
	placeholderReplicas     = 20
	placeholderPeakReplicas = 18
	placeholderAvgCPU       = 65.0
	placeholderPeakCPU      = 85.0
	placeholderAvgMemoryMi  = 680.0
	placeholderPeakMemoryMi = 850.0
	placeholderReqPerMin    = 45000.0
	placeholderPeakReqMin   = 82000.0

	placeholderInstances   = 5
	placeholderInfraAvgCPU = 15.3
	placeholderInfraMaxCPU = 28.7
)

// PlaceholderProvider serves deterministic synthetic snapshots so the rest
// of the pipeline is exercised identically with and without credentials.
type PlaceholderProvider struct{}

func NewPlaceholder() *PlaceholderProvider {
	return &PlaceholderProvider{}
}

// Snapshot returns the canned bundle for the query. It never fails.
func (p *PlaceholderProvider) Snapshot(_ context.Context, q Query) (*model.MetricsSnapshot, error) {
	if q.Infrastructure {
		return placeholderInfraSnapshot(q), nil
	}
	return placeholderServiceSnapshot(q), nil
}

func placeholderServiceSnapshot(q Query) *model.MetricsSnapshot {
	return &model.MetricsSnapshot{
		Service:         q.Service,
		LookbackHours:   q.LookbackHours,
		Replicas:        placeholderReplicas,
		PeakReplicas:    placeholderPeakReplicas,
		AvgCPUPercent:   placeholderAvgCPU,
		PeakCPUPercent:  placeholderPeakCPU,
		AvgMemoryMi:     placeholderAvgMemoryMi,
		PeakMemoryMi:    placeholderPeakMemoryMi,
		RequestsPerMin:  placeholderReqPerMin,
		PeakRequestsMin: placeholderPeakReqMin,
		Incidents: []model.Incident{{
			ID:       "INC-4521",
			Date:     "2026-02-07",
			Title:    q.Service + " latency spike during flash sale",
			Severity: "high",
			Summary:  "Insufficient capacity - only 12 replicas available during peak traffic",
		}},
		Placeholder: true,
		CollectedAt: time.Now().UTC(),
	}
}

func placeholderInfraSnapshot(q Query) *model.MetricsSnapshot {
	return &model.MetricsSnapshot{
		Service:        q.Service,
		LookbackHours:  q.LookbackHours,
		Replicas:       placeholderInstances,
		PeakReplicas:   placeholderInstances,
		AvgCPUPercent:  placeholderInfraAvgCPU,
		PeakCPUPercent: placeholderInfraMaxCPU,
		Placeholder:    true,
		CollectedAt:    time.Now().UTC(),
	}
}
