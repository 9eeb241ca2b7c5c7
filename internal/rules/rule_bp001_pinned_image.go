package rules

import (
	"fmt"
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

func init() {
	Register(Rule{
		ID:              "BP001",
		Summary:         "Base image should have a pinned version, not 'latest' or no tag.",
		Type:            TypeBestPractice,
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkPinnedImage,
	})
}

const pinnedImageExplanation = "Using 'latest' or no tag makes your builds non-deterministic. " +
	"A new version of the image could be pushed at any time, potentially " +
	"introducing breaking changes or vulnerabilities into your application."

func checkPinnedImage(ins []ir.Instruction) []ir.Issue {
	var out []ir.Issue
	for _, in := range ins {
		if in.Kind != ir.From {
			continue
		}
		if strings.Contains(in.Value, ":") && !strings.HasSuffix(in.Value, ":latest") {
			continue
		}
		name, _ := splitImageRef(in.Value)
		out = append(out, ir.Issue{
			RuleID:        "BP001",
			Message:       fmt.Sprintf("Base image '%s' uses an unpinned version.", in.Value),
			Line:          in.Line,
			Severity:      ir.SeverityWarning,
			Explanation:   pinnedImageExplanation,
			FixSuggestion: fmt.Sprintf("Pin the image to a specific version. E.g., '%s:3.11-slim'.", name),
		})
	}
	return out
}
