// Package scenarios bundles canned demo diffs so the web UI and CLI can
// exercise the full pipeline without real repositories or credentials.
package scenarios

// Scenario is one bundled demo change.
type Scenario struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Service     string `json:"service"`
	Diff        string `json:"diff"`
}

// All returns the bundled demo scenarios.
func All() []Scenario {
	return []Scenario{
		{
			ID:          "peak-traffic-risk",
			Title:       "Peak Traffic Risk",
			Description: "Reduces payment-api replicas 20 to 5. Will it survive peak traffic?",
			Service:     "payment-api",
			Diff:        peakTrafficDiff,
		},
		{
			ID:          "cost-optimization",
			Title:       "Cost Optimization",
			Description: "Adds 10x c5.4xlarge. Is that over-provisioned for 15% utilization?",
			Service:     "data-processor",
			Diff:        costOptimizationDiff,
		},
		{
			ID:          "comment-only",
			Title:       "Comment-Only Change",
			Description: "Annotates a deployment without changing any field. Should be low risk.",
			Service:     "frontend",
			Diff:        commentOnlyDiff,
		},
	}
}

// ByID looks a scenario up; ok is false when the id is unknown.
func ByID(id string) (Scenario, bool) {
	for _, s := range All() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

const peakTrafficDiff = `diff --git a/payment-api-deployment.yaml b/payment-api-deployment.yaml
index 63e64b6..860092d 100644
--- a/payment-api-deployment.yaml
+++ b/payment-api-deployment.yaml
@@ -8,7 +8,7 @@ metadata:
     team: payments
     service: checkout
 spec:
-  replicas: 20
+  replicas: 5
   selector:
     matchLabels:
       app: payment-api
`

const costOptimizationDiff = `diff --git a/compute.tf b/compute.tf
index f9b5445..59a26b9 100644
--- a/compute.tf
+++ b/compute.tf
@@ -12,11 +12,11 @@ provider "aws" {
   region = "us-east-1"
 }

-# Data processing cluster - currently right-sized
+# Data processing cluster - scaling up for new workload
 resource "aws_instance" "data_processor" {
-  count         = 5
+  count         = 10
   ami           = "ami-0c55b159cbfafe1f0"
-  instance_type = "c5.2xlarge"
+  instance_type = "c5.4xlarge"

   tags = {
     Name        = "data-processor-${count.index}"
   }
 }
`

const commentOnlyDiff = `diff --git a/frontend-deployment.yaml b/frontend-deployment.yaml
index aaa111..bbb222 100644
--- a/frontend-deployment.yaml
+++ b/frontend-deployment.yaml
@@ -1,9 +1,10 @@
 apiVersion: apps/v1
 kind: Deployment
 metadata:
   name: frontend
   namespace: production
+  # Reviewed during the Q3 capacity audit
 spec:
   replicas: 5
`
