package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iacguardian/iac-guardian/pkg/model"
)

// maxDiffBytes bounds how much of the raw diff is embedded in the prompt.
const maxDiffBytes = 3000

// BuildRiskPrompt composes the single natural-language prompt sent to the
// model: the extracted field deltas, the metrics snapshot and the raw diff,
// plus the requested output shape. Pure function of its inputs.
func BuildRiskPrompt(desc *model.ChangeDescriptor, snap *model.MetricsSnapshot) (string, error) {
	snapJSON, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metrics snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an infrastructure expert reviewing a proposed change for potential issues.\n\n")

	fmt.Fprintf(&b, "## Changes Detected\n- Service: %s\n- Files changed: %d\n- Kubernetes change: %t\n- Terraform change: %t\n\n",
		desc.Service, len(desc.Files), desc.KubernetesChange, desc.TerraformChange)

	if len(desc.FieldChanges) > 0 {
		b.WriteString("## Field Changes\n")
		for _, fc := range desc.FieldChanges {
			fmt.Fprintf(&b, "- %s: %q -> %q\n", fc.Field, fc.OldValue, fc.NewValue)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Production Metrics\n")
	if snap.Placeholder {
		b.WriteString("(NOTE: placeholder demo metrics, no live source configured)\n")
	}
	b.Write(snapJSON)
	b.WriteString("\n\n")

	rawDiff := desc.RawDiff
	if len(rawDiff) > maxDiffBytes {
		rawDiff = rawDiff[:maxDiffBytes]
	}
	fmt.Fprintf(&b, "## Full Diff\n```diff\n%s\n```\n\n", rawDiff)

	b.WriteString(`Analyze this infrastructure change for:

1. Risk: will this cause outages or performance degradation? Based on the
   metrics, can the infrastructure handle peak load?
2. Cost: are resources over-provisioned or under-utilized relative to the
   measured utilization?
3. Recommendations: what should be done before merging? Any safer
   alternatives?

Pay particular attention to two patterns:
- If replicas are being reduced, check whether the new count handles the
  recorded peak traffic and replica usage.
- If compute resources are being added, check whether they are right-sized
  for the measured utilization.

Respond in exactly this shape:

RISK LEVEL: one of CRITICAL, WARNING or LOW
RATIONALE: a short explanation citing specific numbers from the metrics
RECOMMENDATION: what to do before merging, or "none" if the change is safe

Be direct and specific - like you're talking to a busy engineer.`)

	return b.String(), nil
}
