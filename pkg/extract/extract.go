// Package extract turns raw diff or IaC text into a structured
// ChangeDescriptor. Extraction is intentionally shallow: it recognizes
// replica-count and instance-provisioning changes by pattern and keeps every
// other changed line as an opaque before/after pair. Semantic judgment is
// left to the risk analysis step.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/sourcegraph/go-diff/diff"
)

// ServiceUnknown is the sentinel service name used when no service could be
// identified from the diff.
const ServiceUnknown = "unknown"

var (
	replicasRe     = regexp.MustCompile(`^\s*replicas:\s*(\d+)\s*$`)
	instanceTypeRe = regexp.MustCompile(`^\s*instance_type\s*=\s*"([^"]+)"\s*$`)
	countRe        = regexp.MustCompile(`^\s*count\s*=\s*(\d+)\s*$`)
	nameRe         = regexp.MustCompile(`^\s*name:\s*([\w.-]+)\s*$`)
	gitHeaderRe    = regexp.MustCompile(`^diff --git a/(\S+) b/(\S+)`)
)

// Extract builds a ChangeDescriptor from raw diff text. It never fails:
// unparseable input yields a descriptor with no field changes and the
// service set to the "unknown" sentinel. Extraction is a pure function of
// its input, so identical text always yields an identical descriptor.
// serviceOverride, when non-empty, wins over any detected name.
func Extract(rawDiff, serviceOverride string) *model.ChangeDescriptor {
	desc := &model.ChangeDescriptor{
		Service: ServiceUnknown,
		RawDiff: rawDiff,
	}

	desc.Files = changedFiles(rawDiff)
	for _, f := range desc.Files {
		switch f.Type {
		case "kubernetes":
			desc.KubernetesChange = true
		case "terraform":
			desc.TerraformChange = true
		}
	}

	detected := scanChangedLines(rawDiff, desc)
	if serviceOverride != "" {
		desc.Service = serviceOverride
	} else if detected != "" {
		desc.Service = detected
	} else if name := serviceFromFiles(desc.Files); name != "" {
		desc.Service = name
	}

	return desc
}

// changedFiles lists the files touched by the diff. The go-diff parser is
// tried first; if the text is not a well-formed unified diff the git headers
// are scanned directly, and plain IaC text simply yields no files.
func changedFiles(rawDiff string) []model.ChangedFile {
	var files []model.ChangedFile

	fileDiffs, err := diff.ParseMultiFileDiff([]byte(rawDiff))
	if err == nil && len(fileDiffs) > 0 {
		for _, fd := range fileDiffs {
			path := strings.TrimPrefix(fd.NewName, "b/")
			if path == "/dev/null" {
				path = strings.TrimPrefix(fd.OrigName, "a/")
			}
			files = append(files, model.ChangedFile{Path: path, Type: fileType(path)})
		}
		return files
	}

	for _, line := range strings.Split(rawDiff, "\n") {
		if m := gitHeaderRe.FindStringSubmatch(line); m != nil {
			files = append(files, model.ChangedFile{Path: m[2], Type: fileType(m[2])})
		}
	}
	return files
}

func fileType(path string) string {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return "kubernetes"
	case strings.HasSuffix(path, ".tf"), strings.HasSuffix(path, ".tfvars"):
		return "terraform"
	default:
		return ""
	}
}

// scanChangedLines walks removed/added lines, recognizes the two known
// change families and pairs everything else as opaque changes. It returns
// the service name detected from kubernetes metadata, if any.
func scanChangedLines(rawDiff string, desc *model.ChangeDescriptor) string {
	recognized := map[string]*model.FieldChange{}
	var order []string
	var opaqueOld, opaqueNew []string
	service := ""

	upsert := func(field, oldVal, newVal string) {
		fc, ok := recognized[field]
		if !ok {
			fc = &model.FieldChange{Field: field}
			recognized[field] = fc
			order = append(order, field)
		}
		if oldVal != "" {
			fc.OldValue = oldVal
		}
		if newVal != "" {
			fc.NewValue = newVal
		}
	}

	for _, line := range strings.Split(rawDiff, "\n") {
		removed := strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---")
		added := strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++")
		if !removed && !added {
			if m := nameRe.FindStringSubmatch(line); m != nil && service == "" {
				service = m[1]
			}
			continue
		}

		body := line[1:]
		if m := nameRe.FindStringSubmatch(body); m != nil && service == "" {
			service = m[1]
		}

		var field, value string
		switch {
		case replicasRe.MatchString(body):
			field, value = "replicas", replicasRe.FindStringSubmatch(body)[1]
		case instanceTypeRe.MatchString(body):
			field, value = "instance_type", instanceTypeRe.FindStringSubmatch(body)[1]
		case countRe.MatchString(body):
			field, value = "count", countRe.FindStringSubmatch(body)[1]
		}

		if field != "" {
			if removed {
				upsert(field, value, "")
			} else {
				upsert(field, "", value)
			}
			continue
		}

		// Skip blank and comment-only lines; they carry no field change.
		trimmed := strings.TrimSpace(body)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if removed {
			opaqueOld = append(opaqueOld, trimmed)
		} else {
			opaqueNew = append(opaqueNew, trimmed)
		}
	}

	for _, field := range order {
		desc.FieldChanges = append(desc.FieldChanges, *recognized[field])
	}

	// Pair leftover lines positionally; unpaired sides keep an empty value.
	for i := 0; i < len(opaqueOld) || i < len(opaqueNew); i++ {
		fc := model.FieldChange{Field: "opaque"}
		if i < len(opaqueOld) {
			fc.OldValue = opaqueOld[i]
		}
		if i < len(opaqueNew) {
			fc.NewValue = opaqueNew[i]
		}
		desc.FieldChanges = append(desc.FieldChanges, fc)
	}

	return service
}

// serviceFromFiles falls back to deriving a service name from the first
// kubernetes file path, e.g. deploy/payment-api.yaml -> payment-api.
func serviceFromFiles(files []model.ChangedFile) string {
	for _, f := range files {
		if f.Type != "kubernetes" {
			continue
		}
		base := filepath.Base(f.Path)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		base = strings.TrimSuffix(base, "-deployment")
		if base != "" {
			return base
		}
	}
	return ""
}
