package rules

import (
	"fmt"

	"github.com/Nash0810/docktor/internal/ir"
)

func init() {
	Register(Rule{
		ID:              "SEC002",
		Summary:         "Prefer COPY over ADD for files and directories.",
		Type:            TypeSecurity,
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkPreferCopy,
	})
}

const preferCopyExplanation = "ADD has implicit behaviors COPY does not: it fetches remote URLs and " +
	"auto-extracts local archives. Both can pull unexpected content into the " +
	"image. COPY does exactly one predictable thing."

func checkPreferCopy(ins []ir.Instruction) []ir.Issue {
	var out []ir.Issue
	for _, in := range ins {
		if in.Kind != ir.Add {
			continue
		}
		out = append(out, ir.Issue{
			RuleID:        "SEC002",
			Message:       "ADD is used where COPY would do; prefer COPY unless URL fetch or archive extraction is intended.",
			Line:          in.Line,
			Severity:      ir.SeverityWarning,
			Explanation:   preferCopyExplanation,
			FixSuggestion: fmt.Sprintf("Replace with 'COPY %s'.", in.Value),
			FixConfidence: 0.9,
		})
	}
	return out
}
