package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

type diffPayload struct {
	BaseID  string        `json:"base_id"`
	HeadID  string        `json:"head_id"`
	Summary diffSummary   `json:"summary"`
	New     []diffIssue   `json:"new"`
	Removed []diffIssue   `json:"removed"`
	Changed []diffChanged `json:"changed"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type diffIssue struct {
	RuleID   string `json:"rule_id"`
	Line     int    `json:"line"`
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
}

type diffChanged struct {
	Key     string    `json:"key"`
	Base    diffIssue `json:"base"`
	Head    diffIssue `json:"head"`
	Changed []string  `json:"fields_changed"`
}

// WriteDiffJSON compares two stored runs of the same Dockerfile and writes
// added/removed/changed issues keyed by (rule, line).
func WriteDiffJSON(baseID, headID, outDir string, base, head *ir.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	bm := map[string]ir.Issue{}
	hm := map[string]ir.Issue{}
	for _, issue := range base.Issues {
		bm[keyOf(issue)] = issue
	}
	for _, issue := range head.Issues {
		hm[keyOf(issue)] = issue
	}

	var added, removed []diffIssue
	var changed []diffChanged

	for k, hi := range hm {
		bi, ok := bm[k]
		if !ok {
			added = append(added, asDiff(hi))
			continue
		}
		var fields []string
		if bi.Severity != hi.Severity {
			fields = append(fields, "severity")
		}
		if strings.TrimSpace(bi.Message) != strings.TrimSpace(hi.Message) {
			fields = append(fields, "message")
		}
		if len(fields) > 0 {
			changed = append(changed, diffChanged{
				Key:     k,
				Base:    asDiff(bi),
				Head:    asDiff(hi),
				Changed: fields,
			})
		}
	}
	for k, bi := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, asDiff(bi))
		}
	}

	sort.Slice(added, func(i, j int) bool { return lessDiff(added[i], added[j]) })
	sort.Slice(removed, func(i, j int) bool { return lessDiff(removed[i], removed[j]) })
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			ChangedCount: len(changed),
		},
		New:     added,
		Removed: removed,
		Changed: changed,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

func keyOf(issue ir.Issue) string {
	return fmt.Sprintf("%s|%d", strings.ToUpper(strings.TrimSpace(issue.RuleID)), issue.Line)
}

func asDiff(issue ir.Issue) diffIssue {
	return diffIssue{
		RuleID:   issue.RuleID,
		Line:     issue.Line,
		Severity: issue.Severity,
		Message:  issue.Message,
	}
}

func lessDiff(a, b diffIssue) bool {
	if a.RuleID == b.RuleID {
		return a.Line < b.Line
	}
	return a.RuleID < b.RuleID
}
