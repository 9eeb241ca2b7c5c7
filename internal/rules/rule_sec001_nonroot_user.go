package rules

import (
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

func init() {
	Register(Rule{
		ID:              "SEC001",
		Summary:         "Containers should not run as the root user.",
		Type:            TypeSecurity,
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkNonRootUser,
	})
}

const nonRootUserExplanation = "A container running as root has root privileges on shared kernel " +
	"resources; a breakout gives an attacker far more reach than an " +
	"unprivileged user would. Add a dedicated user and switch to it with " +
	"a USER instruction late in the Dockerfile."

// The last USER instruction wins, matching Docker's runtime behavior.
func checkNonRootUser(ins []ir.Instruction) []ir.Issue {
	var lastUser *ir.Instruction
	for i := range ins {
		if ins[i].Kind == ir.User {
			lastUser = &ins[i]
		}
	}

	if lastUser == nil {
		return []ir.Issue{{
			RuleID:        "SEC001",
			Message:       "no USER instruction found; the container will run as root.",
			Line:          1,
			Severity:      ir.SeverityWarning,
			Explanation:   nonRootUserExplanation,
			FixSuggestion: "Add a non-root user and a 'USER <name>' instruction before the entrypoint.",
		}}
	}
	if strings.TrimSpace(lastUser.Value) == "root" {
		return []ir.Issue{{
			RuleID:        "SEC001",
			Message:       "USER is explicitly set to run as root.",
			Line:          lastUser.Line,
			Severity:      ir.SeverityWarning,
			Explanation:   nonRootUserExplanation,
			FixSuggestion: "Switch to a dedicated non-root user after privileged setup steps.",
		}}
	}
	return nil
}
