package fix

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// HPA manifest constants.
const (
	hpaNamespace         = "production"
	hpaTargetCPUPercent  = 70
	scaleDownStabilizeS  = 300
	scaleDownPercentStep = 10
	scaleUpPercentStep   = 50
	scalePolicyPeriodS   = 60
)

type hpaManifest struct {
	APIVersion string      `yaml:"apiVersion"`
	Kind       string      `yaml:"kind"`
	Metadata   hpaMetadata `yaml:"metadata"`
	Spec       hpaSpec     `yaml:"spec"`
}

type hpaMetadata struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
}

type hpaSpec struct {
	ScaleTargetRef hpaTargetRef `yaml:"scaleTargetRef"`
	MinReplicas    int          `yaml:"minReplicas"`
	MaxReplicas    int          `yaml:"maxReplicas"`
	Metrics        []hpaMetric  `yaml:"metrics"`
	Behavior       hpaBehavior  `yaml:"behavior"`
}

type hpaTargetRef struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name"`
}

type hpaMetric struct {
	Type     string      `yaml:"type"`
	Resource hpaResource `yaml:"resource"`
}

type hpaResource struct {
	Name   string    `yaml:"name"`
	Target hpaTarget `yaml:"target"`
}

type hpaTarget struct {
	Type               string `yaml:"type"`
	AverageUtilization int    `yaml:"averageUtilization"`
}

type hpaBehavior struct {
	ScaleDown hpaScaleRule `yaml:"scaleDown"`
	ScaleUp   hpaScaleRule `yaml:"scaleUp"`
}

type hpaScaleRule struct {
	StabilizationWindowSeconds int         `yaml:"stabilizationWindowSeconds"`
	Policies                   []hpaPolicy `yaml:"policies"`
}

type hpaPolicy struct {
	Type          string `yaml:"type"`
	Value         int    `yaml:"value"`
	PeriodSeconds int    `yaml:"periodSeconds"`
}

// RenderHPA produces the HorizontalPodAutoscaler manifest for a service:
// CPU-based scaling with a slow, stabilized scale-down and a fast scale-up.
func RenderHPA(service string, minReplicas, maxReplicas int) string {
	manifest := hpaManifest{
		APIVersion: "autoscaling/v2",
		Kind:       "HorizontalPodAutoscaler",
		Metadata: hpaMetadata{
			Name:      service + "-hpa",
			Namespace: hpaNamespace,
		},
		Spec: hpaSpec{
			ScaleTargetRef: hpaTargetRef{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       service,
			},
			MinReplicas: minReplicas,
			MaxReplicas: maxReplicas,
			Metrics: []hpaMetric{{
				Type: "Resource",
				Resource: hpaResource{
					Name: "cpu",
					Target: hpaTarget{
						Type:               "Utilization",
						AverageUtilization: hpaTargetCPUPercent,
					},
				},
			}},
			Behavior: hpaBehavior{
				ScaleDown: hpaScaleRule{
					StabilizationWindowSeconds: scaleDownStabilizeS,
					Policies: []hpaPolicy{{
						Type:          "Percent",
						Value:         scaleDownPercentStep,
						PeriodSeconds: scalePolicyPeriodS,
					}},
				},
				ScaleUp: hpaScaleRule{
					StabilizationWindowSeconds: 0,
					Policies: []hpaPolicy{{
						Type:          "Percent",
						Value:         scaleUpPercentStep,
						PeriodSeconds: scalePolicyPeriodS,
					}},
				},
			},
		},
	}

	out, err := yaml.Marshal(manifest)
	if err != nil {
		// Marshaling a static struct cannot realistically fail; keep the
		// pure-function signature and surface the problem in the content.
		return fmt.Sprintf("# failed to render HPA manifest: %v\n", err)
	}
	return string(out)
}
