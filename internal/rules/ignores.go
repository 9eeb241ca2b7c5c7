package rules

import (
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
	"github.com/Nash0810/docktor/internal/storage"
)

// ApplyIgnores filters out issues that match any active ignore record.
// Returns (kept, ignoredCount). Matching happens after evaluation so the
// engine itself performs no suppression.
func ApplyIgnores(in []ir.Issue, ignores []storage.Ignore) ([]ir.Issue, int) {
	if len(ignores) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []ir.Issue
	ignored := 0
nextIssue:
	for _, issue := range in {
		for _, ig := range ignores {
			if !strings.EqualFold(strings.TrimSpace(issue.RuleID), strings.TrimSpace(ig.RuleID)) {
				continue
			}
			if ig.Line > 0 && issue.Line != ig.Line {
				continue
			}
			if ig.PatternSub != "" &&
				!strings.Contains(strings.ToLower(issue.Message), strings.ToLower(ig.PatternSub)) {
				continue
			}
			ignored++
			continue nextIssue
		}
		out = append(out, issue)
	}
	return out, ignored
}
