package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/iacguardian/iac-guardian/pkg/config"
	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingProvider simulates a dead metrics source.
type failingProvider struct{}

func (failingProvider) Snapshot(context.Context, Query) (*model.MetricsSnapshot, error) {
	return nil, errors.New("connection refused")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPlaceholderServiceSnapshot(t *testing.T) {
	snap, err := NewPlaceholder().Snapshot(context.Background(), Query{
		Service:       "payment-api",
		LookbackHours: 168,
	})
	require.NoError(t, err)

	assert.Equal(t, "payment-api", snap.Service)
	assert.Equal(t, 168, snap.LookbackHours)
	assert.Equal(t, 20, snap.Replicas)
	assert.Equal(t, 18, snap.PeakReplicas)
	assert.InDelta(t, 65.0, snap.AvgCPUPercent, 0.01)
	assert.InDelta(t, 82000.0, snap.PeakRequestsMin, 0.01)
	assert.True(t, snap.Placeholder)

	require.Len(t, snap.Incidents, 1)
	assert.Equal(t, "INC-4521", snap.Incidents[0].ID)
	assert.Contains(t, snap.Incidents[0].Title, "payment-api")
}

func TestPlaceholderInfrastructureSnapshot(t *testing.T) {
	snap, err := NewPlaceholder().Snapshot(context.Background(), Query{
		Service:        "data-processor",
		LookbackHours:  168,
		Infrastructure: true,
		InstanceType:   "c5.2xlarge",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, snap.Replicas)
	assert.InDelta(t, 15.3, snap.AvgCPUPercent, 0.01)
	assert.InDelta(t, 28.7, snap.PeakCPUPercent, 0.01)
	assert.True(t, snap.Placeholder)
}

func TestPlaceholderIsDeterministic(t *testing.T) {
	q := Query{Service: "payment-api", LookbackHours: 24}
	first, _ := NewPlaceholder().Snapshot(context.Background(), q)
	second, _ := NewPlaceholder().Snapshot(context.Background(), q)

	first.CollectedAt = second.CollectedAt
	assert.Equal(t, first, second)
}

func TestFailoverSubstitutesPlaceholder(t *testing.T) {
	f := NewFailover(failingProvider{}, discardLogger())

	snap, err := f.Snapshot(context.Background(), Query{Service: "payment-api"})
	require.NoError(t, err, "a metrics outage must not propagate")
	assert.True(t, snap.Placeholder)
	assert.Equal(t, "payment-api", snap.Service)
}

func TestFailoverPassesThroughLiveData(t *testing.T) {
	live := &PlaceholderProvider{}
	f := NewFailover(live, discardLogger())

	snap, err := f.Snapshot(context.Background(), Query{Service: "payment-api"})
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestNewFromConfigSelectsMode(t *testing.T) {
	withCreds := config.Config{DatadogAPIKey: "k", DatadogAppKey: "a"}
	assert.IsType(t, &Failover{}, NewFromConfig(withCreds, discardLogger()))

	assert.IsType(t, &PlaceholderProvider{}, NewFromConfig(config.Config{}, discardLogger()))
}
