package rules

import (
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

type Settings struct {
	SeverityThreshold string
	Disabled          map[string]bool // UPPER(ruleID) -> disabled
}

var rsettings = Settings{
	SeverityThreshold: ir.SeverityInfo,
	Disabled:          map[string]bool{},
}

func SetSettings(s Settings) {
	if s.SeverityThreshold == "" {
		s.SeverityThreshold = rsettings.SeverityThreshold
	}
	if s.Disabled == nil {
		s.Disabled = map[string]bool{}
	}
	rsettings = s
}

// DisabledSet builds the Disabled map from a list of rule IDs.
func DisabledSet(ids []string) map[string]bool {
	m := map[string]bool{}
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id != "" {
			m[id] = true
		}
	}
	return m
}

// AtOrAboveThreshold filters issues below the configured severity
// threshold. Applied at the presentation edge, never inside Evaluate.
func AtOrAboveThreshold(in []ir.Issue) []ir.Issue {
	min := ir.SeverityRank(rsettings.SeverityThreshold)
	out := make([]ir.Issue, 0, len(in))
	for _, issue := range in {
		if ir.SeverityRank(issue.Severity) >= min {
			out = append(out, issue)
		}
	}
	return out
}
