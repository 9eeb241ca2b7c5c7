package rules

import (
	"github.com/Nash0810/docktor/internal/ir"
)

func init() {
	Register(Rule{
		ID:              "BP004",
		Summary:         "Dockerfile should have a LABEL instruction for image metadata.",
		Type:            TypeBestPractice,
		DefaultSeverity: ir.SeverityInfo,
		Check:           checkMissingLabel,
	})
}

const missingLabelExplanation = "The 'LABEL' instruction adds key-value metadata to your image, such as " +
	"maintainer info, version number, or a link to the source repository. " +
	"This metadata is very useful for organizing and managing images in a " +
	"professional or automated environment."

func checkMissingLabel(ins []ir.Instruction) []ir.Issue {
	for _, in := range ins {
		if in.Kind == ir.Label {
			return nil
		}
	}
	return []ir.Issue{{
		RuleID:        "BP004",
		Message:       "No LABEL instruction found. Consider adding metadata to your image.",
		Line:          1,
		Severity:      ir.SeverityInfo,
		Explanation:   missingLabelExplanation,
		FixSuggestion: `Add a LABEL instruction, e.g., LABEL maintainer="you@example.com".`,
	}}
}
