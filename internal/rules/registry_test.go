package rules

import (
	"strings"
	"testing"

	"github.com/Nash0810/docktor/internal/ir"
	"github.com/Nash0810/docktor/internal/parser"
)

func TestEvaluate_RegistrationOrder(t *testing.T) {
	ins := parser.Parse("FROM ubuntu\nRUN a\nRUN b\nEXPOSE 8080\nADD src /app")
	issues := Evaluate(ins)

	var order []string
	for _, issue := range issues {
		order = append(order, issue.RuleID)
	}
	want := []string{"BP001", "BP002", "BP003", "BP004", "PERF001", "SEC001", "SEC002"}
	if len(order) != len(want) {
		t.Fatalf("rule order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("rule order = %v, want %v", order, want)
		}
	}
}

func TestEvaluate_AssignsIDsAndDefaults(t *testing.T) {
	issues := Evaluate(parser.Parse("FROM ubuntu"))
	for _, issue := range issues {
		if issue.ID == "" {
			t.Errorf("issue %s has no ID", issue.RuleID)
		}
		if !strings.HasPrefix(issue.ID, issue.RuleID+"-") {
			t.Errorf("issue ID %q not derived from rule %s", issue.ID, issue.RuleID)
		}
		if issue.Severity == "" {
			t.Errorf("issue %s has no severity", issue.RuleID)
		}
	}
}

func TestRun_IsolatesPanickingRule(t *testing.T) {
	broken := Rule{
		ID:      "TEST-BROKEN",
		Summary: "always panics",
		Check: func(ins []ir.Instruction) []ir.Issue {
			panic("boom")
		},
	}
	ok := Rule{
		ID:              "TEST-OK",
		Summary:         "always finds one issue",
		DefaultSeverity: ir.SeverityInfo,
		Check: func(ins []ir.Instruction) []ir.Issue {
			return []ir.Issue{{RuleID: "TEST-OK", Message: "hit", Line: 1}}
		},
	}

	issues := run([]Rule{broken, ok}, nil)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue from the surviving rule, got %d", len(issues))
	}
	if issues[0].RuleID != "TEST-OK" {
		t.Errorf("surviving issue from %s, want TEST-OK", issues[0].RuleID)
	}
}

func TestRegister_DuplicateIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate rule ID")
		}
	}()
	Register(Rule{ID: "BP001", Summary: "dup", Check: func([]ir.Instruction) []ir.Issue { return nil }})
}

func TestSettings_DisabledRuleSkipped(t *testing.T) {
	SetSettings(Settings{Disabled: DisabledSet([]string{"bp004"})})
	defer SetSettings(Settings{Disabled: map[string]bool{}})

	for _, issue := range Evaluate(parser.Parse("FROM ubuntu:24.04")) {
		if issue.RuleID == "BP004" {
			t.Fatal("disabled rule still produced findings")
		}
	}
}

func TestSettings_ThresholdFiltering(t *testing.T) {
	SetSettings(Settings{SeverityThreshold: ir.SeverityWarning})
	defer SetSettings(Settings{SeverityThreshold: ir.SeverityInfo})

	issues := AtOrAboveThreshold([]ir.Issue{
		{RuleID: "A", Severity: ir.SeverityInfo},
		{RuleID: "B", Severity: ir.SeverityWarning},
		{RuleID: "C", Severity: ir.SeverityError},
	})
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues at/above warning, got %d", len(issues))
	}
}
