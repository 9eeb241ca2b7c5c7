package rules

import (
	"github.com/Nash0810/docktor/internal/ir"
)

func init() {
	Register(Rule{
		ID:              "BP002",
		Summary:         "An EXPOSE instruction is present without a corresponding HEALTHCHECK.",
		Type:            TypeBestPractice,
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkMissingHealthcheck,
	})
}

const missingHealthcheckExplanation = "When a port is exposed via 'EXPOSE', it implies a service is listening. " +
	"Without a 'HEALTHCHECK' instruction, Docker can only know if the container " +
	"is running, not if the service inside it is actually healthy. " +
	"Orchestration tools use health checks to correctly manage traffic, " +
	"restarts, and rolling deployments."

func checkMissingHealthcheck(ins []ir.Instruction) []ir.Issue {
	firstExpose := -1
	for i, in := range ins {
		switch in.Kind {
		case ir.Healthcheck:
			return nil
		case ir.Expose:
			if firstExpose < 0 {
				firstExpose = i
			}
		}
	}
	if firstExpose < 0 {
		return nil
	}
	return []ir.Issue{{
		RuleID:        "BP002",
		Message:       "Dockerfile exposes a port but no HEALTHCHECK is defined.",
		Line:          ins[firstExpose].Line,
		Severity:      ir.SeverityWarning,
		Explanation:   missingHealthcheckExplanation,
		FixSuggestion: "Add a HEALTHCHECK instruction to test the exposed service.",
	}}
}
