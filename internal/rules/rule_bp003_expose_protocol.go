package rules

import (
	"fmt"
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

func init() {
	Register(Rule{
		ID:              "BP003",
		Summary:         "EXPOSE instructions should specify the protocol (e.g., 80/tcp).",
		Type:            TypeBestPractice,
		DefaultSeverity: ir.SeverityInfo,
		Check:           checkExposeProtocol,
	})
}

const exposeProtocolExplanation = "While Docker defaults to TCP for exposed ports, explicitly stating the " +
	"protocol (e.g., 'EXPOSE 80/tcp' or 'EXPOSE 53/udp') makes the Dockerfile " +
	"unambiguous and serves as clearer documentation for developers maintaining " +
	"the service."

func checkExposeProtocol(ins []ir.Instruction) []ir.Issue {
	var out []ir.Issue
	for _, in := range ins {
		if in.Kind != ir.Expose {
			continue
		}
		if strings.Contains(in.Value, "/tcp") || strings.Contains(in.Value, "/udp") {
			continue
		}
		out = append(out, ir.Issue{
			RuleID:        "BP003",
			Message:       fmt.Sprintf("Port '%s' is exposed without a /tcp or /udp protocol.", in.Value),
			Line:          in.Line,
			Severity:      ir.SeverityInfo,
			Explanation:   exposeProtocolExplanation,
			FixSuggestion: fmt.Sprintf("Specify the protocol, e.g., 'EXPOSE %s/tcp'.", in.Value),
		})
	}
	return out
}
