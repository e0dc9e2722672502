package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/iacguardian/iac-guardian/pkg/config"
	"github.com/iacguardian/iac-guardian/pkg/model"
	"golang.org/x/sync/errgroup"
)

// DatadogClient issues read-only queries against the Datadog v1 API.
type DatadogClient struct {
	apiKey  string
	appKey  string
	baseURL string
	client  *http.Client
}

// datadogSeriesResponse is the shape of /api/v1/query responses.
type datadogSeriesResponse struct {
	Status string `json:"status"`
	Series []struct {
		Pointlist [][2]float64 `json:"pointlist"`
	} `json:"series"`
	Errors []string `json:"errors,omitempty"`
}

// datadogEventsResponse is the shape of /api/v1/events responses.
type datadogEventsResponse struct {
	Events []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		Text         string `json:"text"`
		Priority     string `json:"priority"`
		AlertType    string `json:"alert_type"`
		DateHappened int64  `json:"date_happened"`
	} `json:"events"`
}

func NewDatadogClient(cfg config.Config) *DatadogClient {
	site := cfg.DatadogSite
	if site == "" {
		site = config.DefaultDatadogSite
	}
	return &DatadogClient{
		apiKey:  cfg.DatadogAPIKey,
		appKey:  cfg.DatadogAppKey,
		baseURL: fmt.Sprintf("https://api.%s/api/v1", site),
		client:  &http.Client{Timeout: cfg.MetricsTimeout},
	}
}

// Snapshot gathers the metric bundle for one service. The sub-queries are
// independent reads with no ordering dependency, so they run concurrently.
func (d *DatadogClient) Snapshot(ctx context.Context, q Query) (*model.MetricsSnapshot, error) {
	if q.Infrastructure {
		return d.infrastructureSnapshot(ctx, q)
	}
	return d.serviceSnapshot(ctx, q)
}

func (d *DatadogClient) serviceSnapshot(ctx context.Context, q Query) (*model.MetricsSnapshot, error) {
	snap := &model.MetricsSnapshot{
		Service:       q.Service,
		LookbackHours: q.LookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	queries := map[string]string{
		"cpu":      fmt.Sprintf("avg:kubernetes.cpu.usage{kube_service:%s}", q.Service),
		"memory":   fmt.Sprintf("avg:kubernetes.memory.usage{kube_service:%s}", q.Service),
		"replicas": fmt.Sprintf("avg:kubernetes_state.deployment.replicas_available{kube_deployment:%s}", q.Service),
		"requests": fmt.Sprintf("sum:trace.http.request.hits{service:%s}.as_rate()", q.Service),
	}

	var mu sync.Mutex
	results := make(map[string][]float64, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for name, query := range queries {
		name, query := name, query
		g.Go(func() error {
			values, err := d.queryTimeseries(gctx, query, q.LookbackHours)
			if err != nil {
				return fmt.Errorf("query %s: %w", name, err)
			}
			mu.Lock()
			results[name] = values
			mu.Unlock()
			return nil
		})
	}

	var incidents []model.Incident
	g.Go(func() error {
		var err error
		incidents, err = d.queryIncidents(gctx, q.Service, q.LookbackHours)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cpuAvg, cpuPeak := stats(results["cpu"])
	memAvg, memPeak := stats(results["memory"])
	replAvg, replPeak := stats(results["replicas"])
	reqAvg, reqPeak := stats(results["requests"])

	snap.AvgCPUPercent = cpuAvg
	snap.PeakCPUPercent = cpuPeak
	snap.AvgMemoryMi = memAvg / (1024 * 1024)
	snap.PeakMemoryMi = memPeak / (1024 * 1024)
	snap.Replicas = int(math.Round(replAvg))
	snap.PeakReplicas = int(math.Round(replPeak))
	snap.RequestsPerMin = reqAvg * 60
	snap.PeakRequestsMin = reqPeak * 60
	snap.Incidents = incidents
	return snap, nil
}

func (d *DatadogClient) infrastructureSnapshot(ctx context.Context, q Query) (*model.MetricsSnapshot, error) {
	query := "avg:system.cpu.user{*}"
	if q.InstanceType != "" {
		query = fmt.Sprintf("avg:system.cpu.user{instance-type:%s}", q.InstanceType)
	}
	values, err := d.queryTimeseries(ctx, query, q.LookbackHours)
	if err != nil {
		return nil, err
	}
	avg, peak := stats(values)
	return &model.MetricsSnapshot{
		Service:        q.Service,
		LookbackHours:  q.LookbackHours,
		AvgCPUPercent:  avg,
		PeakCPUPercent: peak,
		CollectedAt:    time.Now().UTC(),
	}, nil
}

// queryTimeseries runs one metric query over the lookback window and
// flattens every series into a single value slice.
func (d *DatadogClient) queryTimeseries(ctx context.Context, query string, lookbackHours int) ([]float64, error) {
	now := time.Now()
	params := url.Values{}
	params.Set("query", query)
	params.Set("from", strconv.FormatInt(now.Add(-time.Duration(lookbackHours)*time.Hour).Unix(), 10))
	params.Set("to", strconv.FormatInt(now.Unix(), 10))

	var resp datadogSeriesResponse
	if err := d.get(ctx, "/query?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("datadog query error: %s", strings.Join(resp.Errors, "; "))
	}

	var values []float64
	for _, s := range resp.Series {
		for _, p := range s.Pointlist {
			values = append(values, p[1])
		}
	}
	return values, nil
}

// queryIncidents pulls recent error/warning events tagged with the service
// and keeps the five most recent incident-like entries.
func (d *DatadogClient) queryIncidents(ctx context.Context, service string, lookbackHours int) ([]model.Incident, error) {
	now := time.Now()
	params := url.Values{}
	params.Set("start", strconv.FormatInt(now.Add(-time.Duration(lookbackHours)*time.Hour).Unix(), 10))
	params.Set("end", strconv.FormatInt(now.Unix(), 10))
	params.Set("tags", "service:"+service)

	var resp datadogEventsResponse
	if err := d.get(ctx, "/events?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	var incidents []model.Incident
	for _, e := range resp.Events {
		if !strings.Contains(strings.ToLower(e.Title), "incident") &&
			e.AlertType != "error" && e.AlertType != "warning" {
			continue
		}
		summary := truncateSummary(e.Text, 200)
		incidents = append(incidents, model.Incident{
			ID:       strconv.FormatInt(e.ID, 10),
			Date:     time.Unix(e.DateHappened, 0).UTC().Format("2006-01-02"),
			Title:    e.Title,
			Severity: e.Priority,
			Summary:  summary,
		})
		if len(incidents) == 5 {
			break
		}
	}
	return incidents, nil
}

// truncateSummary caps event text at maxBytes without splitting a rune.
func truncateSummary(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (d *DatadogClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("DD-API-KEY", d.apiKey)
	req.Header.Set("DD-APPLICATION-KEY", d.appKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("datadog API HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func stats(values []float64) (avg, peak float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	peak = values[0]
	for _, v := range values {
		sum += v
		if v > peak {
			peak = v
		}
	}
	return sum / float64(len(values)), peak
}
