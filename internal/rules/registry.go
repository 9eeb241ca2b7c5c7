package rules

import (
	"fmt"
	"hash/crc32"
	"log/slog"
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

var (
	registry  []Rule
	ruleIndex = map[string]int{} // UPPER(ruleID) -> index
)

// Register adds a rule to the catalog. A duplicate ID is a programming
// error and panics at registration time, never during evaluation.
func Register(r Rule) {
	key := strings.ToUpper(strings.TrimSpace(r.ID))
	if key == "" {
		panic("rules: Register called with empty rule ID")
	}
	if _, exists := ruleIndex[key]; exists {
		panic(fmt.Sprintf("rules: duplicate rule ID %q", r.ID))
	}
	registry = append(registry, r)
	ruleIndex[key] = len(registry) - 1
}

// List returns enabled rules in registration order. Output ordering of
// Evaluate follows this order, not line order; consumers wanting line
// order sort explicitly.
func List() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, r := range registry {
		if rsettings.Disabled[strings.ToUpper(r.ID)] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Get returns a rule by ID if registered (used by reports to link docs).
func Get(id string) (Rule, bool) {
	idx, ok := ruleIndex[strings.ToUpper(strings.TrimSpace(id))]
	if !ok || idx < 0 || idx >= len(registry) {
		return Rule{}, false
	}
	return registry[idx], true
}

// Evaluate runs every enabled rule against the same instruction sequence
// and concatenates findings in registration order, then per-rule emission
// order. No de-duplication or cross-rule suppression happens here.
func Evaluate(ins []ir.Instruction) []ir.Issue {
	return run(List(), ins)
}

func run(rs []Rule, ins []ir.Instruction) []ir.Issue {
	var all []ir.Issue
	for _, rule := range rs {
		for _, issue := range check(rule, ins) {
			if issue.RuleID == "" {
				issue.RuleID = rule.ID
			}
			if issue.Severity == "" {
				if rule.DefaultSeverity != "" {
					issue.Severity = rule.DefaultSeverity
				} else {
					issue.Severity = ir.SeverityWarning
				}
			}
			if issue.ID == "" {
				issue.ID = makeID(issue.RuleID, issue.Line, issue.Message)
			}
			all = append(all, issue)
		}
	}
	return all
}

// check isolates a single rule invocation: a panicking rule contributes
// zero findings and a diagnostic, and cannot suppress the remaining rules.
func check(rule Rule, ins []ir.Instruction) (issues []ir.Issue) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("rule failed, skipping its findings", "rule", rule.ID, "panic", r)
			issues = nil
		}
	}()
	return rule.Check(ins)
}

func makeID(ruleID string, line int, message string) string {
	sum := crc32.ChecksumIEEE(fmt.Appendf(nil, "%s|%d|%s", ruleID, line, message))
	return fmt.Sprintf("%s-%08x", ruleID, sum)
}
