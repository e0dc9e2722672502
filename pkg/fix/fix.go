// Package fix generates canned safe alternatives for the two recognized
// risky change shapes: replica reduction below the safe threshold and
// instance over-provisioning. Everything here is a pure function of the
// descriptor, the snapshot and a small set of fixed constants; no network
// calls are made. Every other change shape yields no proposal at all.
package fix

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/iacguardian/iac-guardian/pkg/model"
)

// Tuning constants for the two fix computations.
const (
	// Replica fixes: minimum replicas cover the recorded peak plus a safety
	// fraction, never below the floor past incidents established.
	incidentReplicaFloor = 12
	peakSafetyFraction   = 1.2
	maxReplicaFactor     = 1.5

	// Right-sizing: flag capacity more than overProvisionFactor times what
	// current utilization needs even after growthHeadroom, and size the
	// alternative so utilization lands near targetUtilizationPct.
	overProvisionFactor  = 2.0
	growthHeadroom       = 2.0
	targetUtilizationPct = 25.0

	// Rough on-demand EC2 pricing used for the cost comparison tables.
	vcpuHourlyRate = 0.0425
	hoursPerMonth  = 730
)

var (
	replicasLineRe     = regexp.MustCompile(`replicas:\s*\d+`)
	instanceTypeLineRe = regexp.MustCompile(`instance_type\s*=\s*"[^"]+"`)
	countLineRe        = regexp.MustCompile(`count\s*=\s*\d+`)
)

// Generator computes fix proposals. It carries no state beyond the package
// constants; the type exists so callers hold one value with a clear name.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a FixProposal for a recognized change shape, or nil when
// no shape matches. A nil return means "no proposal"; callers must not
// conflate it with an empty proposal. fileContents optionally maps changed
// file paths to their current on-disk content so the proposal can include a
// patched copy; the generator itself performs no I/O.
func (g *Generator) Generate(desc *model.ChangeDescriptor, snap *model.MetricsSnapshot, fileContents map[string]string) *model.FixProposal {
	switch Classify(desc, snap) {
	case ReplicaReduction:
		rc, _ := replicaChangeOf(desc)
		return g.replicaFix(desc, snap, rc, fileContents)
	case OverProvisioning:
		pc, _ := provisionChangeOf(desc)
		return g.rightSizeFix(desc, snap, pc, fileContents)
	default:
		return nil
	}
}

// SafeMinReplicas computes the autoscaler minimum: the recorded peak plus
// the safety fraction, floored at the incident-derived minimum.
func SafeMinReplicas(peakReplicas int) int {
	withBuffer := int(math.Ceil(float64(peakReplicas) * peakSafetyFraction))
	if withBuffer < incidentReplicaFloor {
		return incidentReplicaFloor
	}
	return withBuffer
}

func (g *Generator) replicaFix(desc *model.ChangeDescriptor, snap *model.MetricsSnapshot, rc replicaChange, fileContents map[string]string) *model.FixProposal {
	minReplicas := SafeMinReplicas(snap.PeakReplicas)
	maxReplicas := int(math.Ceil(float64(minReplicas) * maxReplicaFactor))

	var files []model.ProposedFile
	deployPath := firstPathOfType(desc, "kubernetes")
	if deployPath != "" {
		if content, ok := fileContents[deployPath]; ok {
			files = append(files, model.ProposedFile{
				Path:    deployPath,
				Content: PatchDeploymentReplicas(content, minReplicas),
			})
		}
		files = append(files, model.ProposedFile{
			Path:    hpaPathFor(deployPath, desc.Service),
			Content: RenderHPA(desc.Service, minReplicas, maxReplicas),
		})
	} else {
		files = append(files, model.ProposedFile{
			Path:    desc.Service + "-hpa.yaml",
			Content: RenderHPA(desc.Service, minReplicas, maxReplicas),
		})
	}

	return &model.FixProposal{
		FixType:     model.FixScaleWithAutoscaling,
		Files:       files,
		Title:       "Safe scale-down with HPA (alternative to fixed replica reduction)",
		Description: fmt.Sprintf("Safe alternative with HPA (min %d, max %d replicas)", minReplicas, maxReplicas),
		Body:        replicaFixBody(snap, rc, minReplicas, maxReplicas),
		MinReplicas: minReplicas,
		MaxReplicas: maxReplicas,
	}
}

func replicaFixBody(snap *model.MetricsSnapshot, rc replicaChange, minReplicas, maxReplicas int) string {
	var b strings.Builder
	b.WriteString("## Safe Alternative to Risky Scale-Down\n\n")
	fmt.Fprintf(&b, "### The Problem with the Original Change\n")
	fmt.Fprintf(&b, "- Reduces replicas from %d to %d, but peak traffic needed %d replicas\n",
		rc.old, rc.new, snap.PeakReplicas)
	fmt.Fprintf(&b, "- Peak CPU per pod: %.0f%%, peak traffic: %.0f req/min\n\n",
		snap.PeakCPUPercent, snap.PeakRequestsMin)
	b.WriteString("### This Fix Provides\n")
	fmt.Fprintf(&b, "- Horizontal Pod Autoscaler scaling between %d and %d replicas on CPU\n", minReplicas, maxReplicas)
	fmt.Fprintf(&b, "- Safe minimum of %d replicas that covers the recorded peak\n", minReplicas)
	b.WriteString("- Cost savings during low traffic without risking outages at peak\n\n")
	if len(snap.Incidents) > 0 {
		b.WriteString("### Related Incidents\n")
		for _, inc := range snap.Incidents {
			fmt.Fprintf(&b, "- %s (%s): %s\n", inc.ID, inc.Date, inc.Title)
		}
		b.WriteString("\n")
	}
	if snap.Placeholder {
		b.WriteString("_Metrics above are placeholder demo values; no live metrics source was configured._\n")
	}
	return b.String()
}

func (g *Generator) rightSizeFix(desc *model.ChangeDescriptor, snap *model.MetricsSnapshot, pc provisionChange, fileContents map[string]string) *model.FixProposal {
	recommendedCount := RightSizedCount(pc.oldCount, snap.AvgCPUPercent)
	recommendedType := pc.oldType

	var files []model.ProposedFile
	tfPath := firstPathOfType(desc, "terraform")
	if tfPath != "" {
		if content, ok := fileContents[tfPath]; ok {
			files = append(files, model.ProposedFile{
				Path:    tfPath,
				Content: PatchTerraformProvisioning(content, recommendedType, recommendedCount),
			})
		}
	}

	return &model.FixProposal{
		FixType:       model.FixRightSizeInstances,
		Files:         files,
		Title:         "Right-sized scaling based on measured utilization",
		Description:   fmt.Sprintf("Right-sized to %d x %s based on %.1f%% average utilization", recommendedCount, recommendedType, snap.AvgCPUPercent),
		Body:          rightSizeBody(snap, pc, recommendedType, recommendedCount),
		InstanceType:  recommendedType,
		InstanceCount: recommendedCount,
	}
}

// RightSizedCount recomputes the instance count from measured utilization:
// enough capacity that utilization lands near the target even if load grows
// by the headroom factor. Never below one instance.
func RightSizedCount(currentCount int, avgCPUPercent float64) int {
	n := int(math.Round(float64(currentCount) * avgCPUPercent * growthHeadroom / targetUtilizationPct))
	if n < 1 {
		return 1
	}
	return n
}

func rightSizeBody(snap *model.MetricsSnapshot, pc provisionChange, recType string, recCount int) string {
	currentCost := monthlyCost(pc.oldCount, pc.oldType)
	proposedCost := monthlyCost(pc.newCount, pc.newType)
	fixCost := monthlyCost(recCount, recType)

	var b strings.Builder
	b.WriteString("## Cost-Optimized Alternative\n\n")
	b.WriteString("### The Problem with the Original Change\n")
	fmt.Fprintf(&b, "- Proposes %d x %s (~$%.0f/month) while average CPU utilization is %.1f%%\n\n",
		pc.newCount, pc.newType, proposedCost, snap.AvgCPUPercent)
	b.WriteString("### Cost Comparison\n")
	b.WriteString("| Option | Monthly Cost | Notes |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Current (%d x %s) | $%.0f | %.1f%% CPU, under-used |\n",
		pc.oldCount, pc.oldType, currentCost, snap.AvgCPUPercent)
	fmt.Fprintf(&b, "| **This fix (%d x %s)** | **$%.0f** | sized for measured load plus headroom |\n",
		recCount, recType, fixCost)
	fmt.Fprintf(&b, "| Original proposal (%d x %s) | $%.0f | over-provisioned |\n\n",
		pc.newCount, pc.newType, proposedCost)
	b.WriteString("### Recommendation\n")
	b.WriteString("1. Deploy this right-sized version first\n")
	b.WriteString("2. Monitor CPU and memory for two weeks\n")
	b.WriteString("3. Scale up further only if utilization stays above 70%\n")
	if snap.Placeholder {
		b.WriteString("\n_Metrics above are placeholder demo values; no live metrics source was configured._\n")
	}
	return b.String()
}

func monthlyCost(count int, instanceType string) float64 {
	return float64(count*vcpus(instanceType)) * vcpuHourlyRate * hoursPerMonth
}

func firstPathOfType(desc *model.ChangeDescriptor, fileType string) string {
	for _, f := range desc.Files {
		if f.Type == fileType {
			return f.Path
		}
	}
	return ""
}

func hpaPathFor(deployPath, service string) string {
	idx := strings.LastIndex(deployPath, "/")
	if idx < 0 {
		return service + "-hpa.yaml"
	}
	return deployPath[:idx+1] + service + "-hpa.yaml"
}

// PatchDeploymentReplicas rewrites the replica count in deployment YAML.
func PatchDeploymentReplicas(content string, replicas int) string {
	return replicasLineRe.ReplaceAllString(content, fmt.Sprintf("replicas: %d", replicas))
}

// PatchTerraformProvisioning rewrites instance type and count in HCL.
func PatchTerraformProvisioning(content, instanceType string, count int) string {
	content = instanceTypeLineRe.ReplaceAllString(content, fmt.Sprintf("instance_type = %q", instanceType))
	return countLineRe.ReplaceAllString(content, fmt.Sprintf("count         = %d", count))
}
