package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatadog(t *testing.T, handler http.Handler) *DatadogClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &DatadogClient{
		apiKey:  "test-api-key",
		appKey:  "test-app-key",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func seriesJSON(values ...float64) string {
	points := make([]string, len(values))
	for i, v := range values {
		points[i] = fmt.Sprintf("[1700000000000, %g]", v)
	}
	return fmt.Sprintf(`{"status":"ok","series":[{"pointlist":[%s]}]}`, strings.Join(points, ","))
}

func TestDatadogServiceSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("DD-API-KEY"))
		assert.Equal(t, "test-app-key", r.Header.Get("DD-APPLICATION-KEY"))

		query := r.URL.Query().Get("query")
		switch {
		case strings.Contains(query, "cpu.usage"):
			fmt.Fprint(w, seriesJSON(60, 70, 80))
		case strings.Contains(query, "memory.usage"):
			// Bytes on the wire, Mi in the snapshot.
			fmt.Fprint(w, seriesJSON(512*1024*1024, 1024*1024*1024))
		case strings.Contains(query, "replicas_available"):
			fmt.Fprint(w, seriesJSON(10, 20))
		case strings.Contains(query, "request.hits"):
			// Per-second rates.
			fmt.Fprint(w, seriesJSON(100, 300))
		default:
			t.Errorf("unexpected query %q", query)
		}
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service:payment-api", r.URL.Query().Get("tags"))
		fmt.Fprint(w, `{"events":[
			{"id":4521,"title":"Incident: latency spike","text":"flash sale overload","priority":"high","alert_type":"error","date_happened":1700000000},
			{"id":9999,"title":"deploy finished","text":"routine","priority":"normal","alert_type":"info","date_happened":1700000100}
		]}`)
	})

	d := newTestDatadog(t, mux)
	snap, err := d.Snapshot(context.Background(), Query{Service: "payment-api", LookbackHours: 24})
	require.NoError(t, err)

	assert.InDelta(t, 70.0, snap.AvgCPUPercent, 0.01)
	assert.InDelta(t, 80.0, snap.PeakCPUPercent, 0.01)
	assert.InDelta(t, 768.0, snap.AvgMemoryMi, 0.01)
	assert.InDelta(t, 1024.0, snap.PeakMemoryMi, 0.01)
	assert.Equal(t, 15, snap.Replicas)
	assert.Equal(t, 20, snap.PeakReplicas)
	assert.InDelta(t, 200*60, snap.RequestsPerMin, 0.01)
	assert.InDelta(t, 300*60, snap.PeakRequestsMin, 0.01)
	assert.False(t, snap.Placeholder)

	// Routine events are filtered out; the incident survives.
	require.Len(t, snap.Incidents, 1)
	assert.Equal(t, "4521", snap.Incidents[0].ID)
	assert.Equal(t, "high", snap.Incidents[0].Severity)
}

func TestDatadogInfrastructureSnapshot(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		fmt.Fprint(w, seriesJSON(10, 20.6))
	})

	d := newTestDatadog(t, mux)
	snap, err := d.Snapshot(context.Background(), Query{
		Service:        "data-processor",
		LookbackHours:  24,
		Infrastructure: true,
		InstanceType:   "c5.2xlarge",
	})
	require.NoError(t, err)

	assert.Equal(t, "avg:system.cpu.user{instance-type:c5.2xlarge}", gotQuery)
	assert.InDelta(t, 15.3, snap.AvgCPUPercent, 0.01)
	assert.InDelta(t, 20.6, snap.PeakCPUPercent, 0.01)
}

func TestDatadogErrorPropagates(t *testing.T) {
	d := newTestDatadog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	_, err := d.Snapshot(context.Background(), Query{Service: "payment-api", LookbackHours: 24})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestDatadogQueryErrorBody(t *testing.T) {
	d := newTestDatadog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","errors":["invalid query"]}`)
	}))

	_, err := d.Snapshot(context.Background(), Query{
		Service:        "data-processor",
		Infrastructure: true,
		LookbackHours:  24,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
}

func TestTruncateSummaryKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", truncateSummary("short", 200))

	// A multi-byte rune straddling the cut is dropped whole, never split.
	long := strings.Repeat("a", 199) + "é" + strings.Repeat("b", 50)
	out := truncateSummary(long, 200)
	assert.LessOrEqual(t, len(out), 200)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("a", 199), out)
}

func TestStats(t *testing.T) {
	avg, peak := stats([]float64{10, 20, 30})
	assert.InDelta(t, 20.0, avg, 0.001)
	assert.InDelta(t, 30.0, peak, 0.001)

	avg, peak = stats(nil)
	assert.Zero(t, avg)
	assert.Zero(t, peak)
}
