package rules

import (
	"github.com/Nash0810/docktor/internal/ir"
)

func init() {
	Register(Rule{
		ID:              "PERF001",
		Summary:         "Combine consecutive RUN commands to reduce image layers.",
		Type:            TypePerformance,
		DefaultSeverity: ir.SeverityInfo,
		Check:           checkCombineRun,
	})
}

const combineRunExplanation = "Each RUN command in a Dockerfile creates a new layer in the Docker image. " +
	"Consolidating multiple RUN commands into a single one using '&&' reduces " +
	"the number of layers, resulting in a smaller and potentially faster image."

// One finding per maximal run of consecutive RUN instructions, at the
// run's first line. ir.RunSpans is the same detection the optimizer merge
// stage uses.
func checkCombineRun(ins []ir.Instruction) []ir.Issue {
	var out []ir.Issue
	for _, span := range ir.RunSpans(ins) {
		out = append(out, ir.Issue{
			RuleID:        "PERF001",
			Message:       "Multiple consecutive RUN commands can be combined with '&&'.",
			Line:          ins[span.Start].Line,
			Severity:      ir.SeverityInfo,
			Explanation:   combineRunExplanation,
			FixSuggestion: "Combine this RUN instruction with the following one(s).",
		})
	}
	return out
}
