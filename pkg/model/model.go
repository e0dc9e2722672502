package model

import "time"

// Severity is the risk level assigned to an infrastructure change.
// It is always exactly one of the three enumerated values.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityLow      Severity = "low"
)

// FixType identifies one of the recognized remediation shapes.
type FixType string

const (
	FixScaleWithAutoscaling FixType = "scale-with-autoscaling"
	FixRightSizeInstances   FixType = "right-size-instances"
)

// FieldChange is a single before/after pair extracted from a diff. Opaque
// changes keep the raw line text in OldValue/NewValue without interpretation.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// ChangeDescriptor is the structured extraction of one infrastructure diff.
// It is immutable once built and owned by a single analysis request.
type ChangeDescriptor struct {
	Service          string        `json:"service"`
	Files            []ChangedFile `json:"files"`
	FieldChanges     []FieldChange `json:"field_changes"`
	RawDiff          string        `json:"raw_diff"`
	KubernetesChange bool          `json:"kubernetes_change"`
	TerraformChange  bool          `json:"terraform_change"`
}

// ChangedFile records one file touched by the diff.
type ChangedFile struct {
	Path string `json:"path"`
	Type string `json:"type"` // "kubernetes", "terraform" or ""
}

// Incident is a single past incident record surfaced by the metrics source.
type Incident struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
}

// MetricsSnapshot is the fixed-shape bundle of observability numbers for one
// service and lookback window. It is always fully populated, either from a
// live source or with placeholder values, so downstream code never branches
// on missing metrics. Utilization percentages are not clamped; values above
// 100 are meaningful.
type MetricsSnapshot struct {
	Service         string     `json:"service"`
	LookbackHours   int        `json:"lookback_hours"`
	Replicas        int        `json:"replicas"`
	PeakReplicas    int        `json:"peak_replicas"`
	AvgCPUPercent   float64    `json:"avg_cpu_percent"`
	PeakCPUPercent  float64    `json:"peak_cpu_percent"`
	AvgMemoryMi     float64    `json:"avg_memory_mi"`
	PeakMemoryMi    float64    `json:"peak_memory_mi"`
	RequestsPerMin  float64    `json:"requests_per_min"`
	PeakRequestsMin float64    `json:"peak_requests_per_min"`
	Incidents       []Incident `json:"incidents"`

	// Placeholder marks a snapshot filled with synthetic demo values, either
	// because no credentials were configured or because the live query
	// failed. Verdicts built on placeholder data must be labeled as such.
	Placeholder bool      `json:"placeholder"`
	CollectedAt time.Time `json:"collected_at"`
}

// RiskVerdict is the parsed output of the risk analysis.
type RiskVerdict struct {
	Severity       Severity `json:"severity"`
	Rationale      string   `json:"rationale"`
	Recommendation string   `json:"recommendation,omitempty"`

	// Unparsed is set when no severity keyword could be located in the model
	// reply and Severity fell back to the least severe value. RawReply keeps
	// the full model output for human review; it is never discarded.
	Unparsed bool   `json:"unparsed,omitempty"`
	RawReply string `json:"raw_reply"`
}

// ProposedFile is one (path, new content) pair in a fix proposal.
type ProposedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// FixProposal is a generated safe alternative for a recognized risky change.
// Callers receive a nil *FixProposal when no recognized shape matches; a nil
// proposal is a distinct state, not an empty one.
type FixProposal struct {
	FixType     FixType        `json:"fix_type"`
	Files       []ProposedFile `json:"files"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Body        string         `json:"body"`

	// Scaling bounds for scale-with-autoscaling proposals.
	MinReplicas int `json:"min_replicas,omitempty"`
	MaxReplicas int `json:"max_replicas,omitempty"`

	// Sizing for right-size-instances proposals.
	InstanceType  string `json:"instance_type,omitempty"`
	InstanceCount int    `json:"instance_count,omitempty"`
}

// Report bundles everything one analysis run produced.
type Report struct {
	Descriptor *ChangeDescriptor `json:"descriptor"`
	Snapshot   *MetricsSnapshot  `json:"snapshot"`
	Verdict    *RiskVerdict      `json:"verdict"`
	Fix        *FixProposal      `json:"fix,omitempty"`
}
