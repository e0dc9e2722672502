package fix

import (
	"strconv"
	"strings"

	"github.com/iacguardian/iac-guardian/pkg/model"
)

// Shape tags the recognized change families. The set is closed by design:
// extending it means adding a new variant with its own compute function, not
// generalizing the matcher.
type Shape int

const (
	Unrecognized Shape = iota
	ReplicaReduction
	OverProvisioning
)

func (s Shape) String() string {
	switch s {
	case ReplicaReduction:
		return "replica-reduction"
	case OverProvisioning:
		return "over-provisioning"
	default:
		return "unrecognized"
	}
}

// replicaChange captures a parsed replicas field change.
type replicaChange struct {
	old int
	new int
}

// provisionChange captures parsed count/instance_type field changes.
type provisionChange struct {
	oldCount int
	newCount int
	oldType  string
	newType  string
}

// Classify matches the descriptor's field changes against the recognized
// shapes. ReplicaReduction takes precedence; anything that matches neither
// shape is Unrecognized.
func Classify(desc *model.ChangeDescriptor, snap *model.MetricsSnapshot) Shape {
	if rc, ok := replicaChangeOf(desc); ok && rc.new < rc.old && rc.new < snap.PeakReplicas {
		return ReplicaReduction
	}
	if pc, ok := provisionChangeOf(desc); ok && overProvisioned(pc, snap) {
		return OverProvisioning
	}
	return Unrecognized
}

func replicaChangeOf(desc *model.ChangeDescriptor) (replicaChange, bool) {
	for _, fc := range desc.FieldChanges {
		if fc.Field != "replicas" {
			continue
		}
		oldN, err1 := strconv.Atoi(fc.OldValue)
		newN, err2 := strconv.Atoi(fc.NewValue)
		if err1 != nil || err2 != nil {
			return replicaChange{}, false
		}
		return replicaChange{old: oldN, new: newN}, true
	}
	return replicaChange{}, false
}

func provisionChangeOf(desc *model.ChangeDescriptor) (provisionChange, bool) {
	pc := provisionChange{}
	found := false
	for _, fc := range desc.FieldChanges {
		switch fc.Field {
		case "count":
			oldN, err1 := strconv.Atoi(fc.OldValue)
			newN, err2 := strconv.Atoi(fc.NewValue)
			if err1 != nil || err2 != nil {
				return provisionChange{}, false
			}
			pc.oldCount, pc.newCount = oldN, newN
			found = true
		case "instance_type":
			pc.oldType, pc.newType = fc.OldValue, fc.NewValue
			found = true
		}
	}
	if !found {
		return provisionChange{}, false
	}
	// A type-only change keeps the count; a count-only change keeps the type.
	if pc.oldCount == 0 && pc.newCount == 0 {
		pc.oldCount, pc.newCount = 1, 1
	}
	if pc.oldType == "" {
		pc.oldType = pc.newType
	}
	if pc.newType == "" {
		pc.newType = pc.oldType
	}
	return pc, true
}

// overProvisioned reports whether the proposed capacity exceeds a fixed
// multiple of the capacity actually utilized today (with growth headroom).
func overProvisioned(pc provisionChange, snap *model.MetricsSnapshot) bool {
	if snap.AvgCPUPercent <= 0 {
		return false
	}
	oldCapacity := float64(pc.oldCount) * float64(vcpus(pc.oldType))
	newCapacity := float64(pc.newCount) * float64(vcpus(pc.newType))
	if newCapacity <= oldCapacity {
		return false
	}
	utilized := oldCapacity * snap.AvgCPUPercent / 100
	return newCapacity > overProvisionFactor*utilized*growthHeadroom
}

// vcpus maps an EC2-style instance size suffix to its vCPU count. Unknown
// types are treated as a single-vCPU unit so count ratios still compare.
func vcpus(instanceType string) int {
	idx := strings.LastIndex(instanceType, ".")
	if idx < 0 {
		return 1
	}
	switch instanceType[idx+1:] {
	case "nano", "micro", "small", "medium", "large":
		return 2
	case "xlarge":
		return 4
	case "2xlarge":
		return 8
	case "4xlarge":
		return 16
	case "8xlarge":
		return 32
	case "12xlarge":
		return 48
	case "16xlarge":
		return 64
	case "24xlarge":
		return 96
	default:
		return 1
	}
}
